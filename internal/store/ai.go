package store

import (
	"context"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
)

// aiStore keeps assistant conversations under users/{uid}/assistant_sessions.
// Expired messages are removed by a Firestore TTL policy on expiresAt; until the
// policy catches up they are filtered out on read.
type aiStore struct {
	client   *firestore.Client
	clockNow func() time.Time
}

func NewAIStore(client *firestore.Client) *aiStore {
	return &aiStore{client: client, clockNow: time.Now}
}

func (s *aiStore) session(uid, sessionID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("assistant_sessions").Doc(sessionID)
}

func (s *aiStore) SaveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.clockNow()
	}

	session := s.session(uid, sessionID)
	batch := s.client.Batch()
	batch.Create(session.Collection("messages").NewDoc(), msg)
	batch.Set(session, map[string]any{
		"lastMessageAt": msg.CreatedAt,
		"expiresAt":     msg.ExpiresAt,
	}, firestore.MergeAll)
	if _, err := batch.Commit(ctx); err != nil {
		return errs.NewDatabaseError("create", "failed to save assistant message", err)
	}
	return nil
}

// ListMessages returns up to limit of the newest live messages, oldest first.
func (s *aiStore) ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.AIMessage, error) {
	query := s.session(uid, sessionID).Collection("messages").OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	now := s.clockNow()
	var out []models.AIMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list assistant messages", err)
		}
		var msg models.AIMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse assistant message", err)
		}
		if !msg.ExpiresAt.IsZero() && !msg.ExpiresAt.After(now) {
			continue
		}
		out = append(out, msg)
	}

	slices.Reverse(out)
	return out, nil
}
