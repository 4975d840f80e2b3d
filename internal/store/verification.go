package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
)

type verificationStore struct {
	client *firestore.Client
}

func NewVerificationStore(client *firestore.Client) *verificationStore {
	return &verificationStore{client: client}
}

func (s *verificationStore) collection() *firestore.CollectionRef {
	return s.client.Collection("verifications")
}

func (s *verificationStore) Create(ctx context.Context, v *models.Verification) error {
	if v.RequestedAt.IsZero() {
		v.RequestedAt = time.Now()
	}
	if _, err := s.collection().Doc(v.VerificationID).Create(ctx, v); err != nil {
		return errs.NewDatabaseError("create", "failed to create verification", err)
	}
	return nil
}

func (s *verificationStore) Get(ctx context.Context, verificationID string) (*models.Verification, error) {
	doc, err := s.collection().Doc(verificationID).Get(ctx)
	if err != nil {
		return nil, readError(err, "verification")
	}
	var v models.Verification
	if err := doc.DataTo(&v); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse verification data", err)
	}
	return &v, nil
}

func (s *verificationStore) ListByStatus(ctx context.Context, statusFilter string) ([]*models.Verification, error) {
	q := s.collection().Query
	if statusFilter != "" {
		q = q.Where("status", "==", statusFilter)
	}
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list verifications", err)
	}
	out := make([]*models.Verification, 0, len(docs))
	for _, d := range docs {
		var v models.Verification
		if err := d.DataTo(&v); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse verification data", err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// Resolve moves a pending verification to its final status inside a transaction,
// so a link confirmed twice resolves only once.
func (s *verificationStore) Resolve(ctx context.Context, verificationID, statusValue, note string) (*models.Verification, error) {
	ref := s.collection().Doc(verificationID)
	var out models.Verification

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return readError(err, "verification")
		}
		if err := snap.DataTo(&out); err != nil {
			return errs.NewDatabaseError("read", "failed to parse verification data", err)
		}
		if out.Status != models.VerificationPending {
			return errs.NewAlreadyExistsError("verification already resolved")
		}
		now := time.Now()
		out.Status = statusValue
		out.Note = note
		out.ResolvedAt = &now
		return tx.Set(ref, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
