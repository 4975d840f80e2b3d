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

type participationStore struct {
	client *firestore.Client
}

func NewParticipationStore(client *firestore.Client) *participationStore {
	return &participationStore{client: client}
}

func (s *participationStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("participations")
}

func (s *participationStore) Create(ctx context.Context, uid string, p *models.Participation) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if _, err := s.collection(uid).Doc(p.ParticipationID).Create(ctx, p); err != nil {
		return errs.NewDatabaseError("create", "failed to log participation", err)
	}
	return nil
}

// List returns the user's participations ordered by start date.
func (s *participationStore) List(ctx context.Context, uid string) ([]*models.Participation, error) {
	docs, err := s.collection(uid).OrderBy("startDate", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list participations", err)
	}
	out := make([]*models.Participation, 0, len(docs))
	for _, d := range docs {
		var p models.Participation
		if err := d.DataTo(&p); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse participation data", err)
		}
		out = append(out, &p)
	}
	return out, nil
}

func (s *participationStore) Delete(ctx context.Context, uid, participationID string) error {
	if _, err := s.collection(uid).Doc(participationID).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("participation not found")
		}
		return errs.NewDatabaseError("delete", "failed to delete participation", err)
	}
	return nil
}

// SetVerifiedForActivity flags every participation linked to the activity.
func (s *participationStore) SetVerifiedForActivity(ctx context.Context, uid, activityID string, verified bool) error {
	docs, err := s.collection(uid).Where("activityId", "==", activityID).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("read", "failed to list activity participations", err)
	}
	if len(docs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	now := time.Now()
	for _, d := range docs {
		job, err := bw.Update(d.Ref, []firestore.Update{
			{Path: "verified", Value: verified},
			{Path: "updatedAt", Value: now},
		})
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("update", "failed to schedule participation update", err)
		}
		jobs = append(jobs, job)
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDatabaseError("update", "failed to update participation", err)
		}
	}
	return nil
}

// ForEach streams every student's participations through a collection-group query.
func (s *participationStore) ForEach(ctx context.Context, fn func(uid string, p *models.Participation) error) error {
	iter := s.client.CollectionGroup("participations").Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to iterate participations", err)
		}
		var p models.Participation
		if err := doc.DataTo(&p); err != nil {
			return errs.NewDatabaseError("read", "failed to parse participation data", err)
		}
		if err := fn(doc.Ref.Parent.Parent.ID, &p); err != nil {
			return err
		}
	}
}
