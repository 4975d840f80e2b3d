package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
)

type activityStore struct {
	client *firestore.Client
}

func NewActivityStore(client *firestore.Client) *activityStore {
	return &activityStore{client: client}
}

func (s *activityStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("activities")
}

func (s *activityStore) Create(ctx context.Context, uid string, a *models.Activity) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if _, err := s.collection(uid).Doc(a.ActivityID).Create(ctx, a); err != nil {
		return errs.NewDatabaseError("create", "failed to create activity", err)
	}
	return nil
}

func (s *activityStore) Get(ctx context.Context, uid, activityID string) (*models.Activity, error) {
	doc, err := s.collection(uid).Doc(activityID).Get(ctx)
	if err != nil {
		return nil, readError(err, "activity")
	}
	var a models.Activity
	if err := doc.DataTo(&a); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse activity data", err)
	}
	return &a, nil
}

func (s *activityStore) List(ctx context.Context, uid string) ([]*models.Activity, error) {
	docs, err := s.collection(uid).OrderBy("startDate", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list activities", err)
	}
	out := make([]*models.Activity, 0, len(docs))
	for _, d := range docs {
		var a models.Activity
		if err := d.DataTo(&a); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse activity data", err)
		}
		out = append(out, &a)
	}
	return out, nil
}

func (s *activityStore) Update(ctx context.Context, uid string, a *models.Activity) error {
	a.UpdatedAt = time.Now()
	if _, err := s.collection(uid).Doc(a.ActivityID).Set(ctx, a); err != nil {
		return errs.NewDatabaseError("update", "failed to update activity", err)
	}
	return nil
}

func (s *activityStore) SetStatus(ctx context.Context, uid, activityID, statusValue string) error {
	_, err := s.collection(uid).Doc(activityID).Update(ctx, []firestore.Update{
		{Path: "status", Value: statusValue},
		{Path: "updatedAt", Value: time.Now()},
	})
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError("activity not found")
	}
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update activity status", err)
	}
	return nil
}

func (s *activityStore) Delete(ctx context.Context, uid, activityID string) error {
	if _, err := s.collection(uid).Doc(activityID).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("activity not found")
		}
		return errs.NewDatabaseError("delete", "failed to delete activity", err)
	}
	return nil
}

// ForEach streams every student's activities through a collection-group query.
func (s *activityStore) ForEach(ctx context.Context, fn func(uid string, a *models.Activity) error) error {
	iter := s.client.CollectionGroup("activities").Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to iterate activities", err)
		}
		var a models.Activity
		if err := doc.DataTo(&a); err != nil {
			return errs.NewDatabaseError("read", "failed to parse activity data", err)
		}
		if err := fn(doc.Ref.Parent.Parent.ID, &a); err != nil {
			return err
		}
	}
}
