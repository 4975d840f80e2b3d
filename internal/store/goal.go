package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
)

type goalStore struct {
	client *firestore.Client
}

func NewGoalStore(client *firestore.Client) *goalStore {
	return &goalStore{client: client}
}

// A user has at most one goal, stored under a fixed document id.
func (s *goalStore) doc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("goals").Doc("current")
}

func (s *goalStore) Get(ctx context.Context, uid string) (*models.Goal, error) {
	snap, err := s.doc(uid).Get(ctx)
	if err != nil {
		return nil, readError(err, "goal")
	}
	var g models.Goal
	if err := snap.DataTo(&g); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse goal data", err)
	}
	return &g, nil
}

func (s *goalStore) Set(ctx context.Context, uid string, g *models.Goal) error {
	g.UpdatedAt = time.Now()
	if _, err := s.doc(uid).Set(ctx, g); err != nil {
		return errs.NewDatabaseError("update", "failed to set goal", err)
	}
	return nil
}

func (s *goalStore) Delete(ctx context.Context, uid string) error {
	if _, err := s.doc(uid).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to clear goal", err)
	}
	return nil
}
