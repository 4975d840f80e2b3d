package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
)

type organizationStore struct {
	client *firestore.Client
}

func NewOrganizationStore(client *firestore.Client) *organizationStore {
	return &organizationStore{client: client}
}

func (s *organizationStore) collection() *firestore.CollectionRef {
	return s.client.Collection("organizations")
}

func (s *organizationStore) Create(ctx context.Context, org *models.Organization) error {
	now := time.Now()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now
	if _, err := s.collection().Doc(org.OrgID).Create(ctx, org); err != nil {
		return errs.NewDatabaseError("create", "failed to create organization", err)
	}
	return nil
}

func (s *organizationStore) Get(ctx context.Context, orgID string) (*models.Organization, error) {
	doc, err := s.collection().Doc(orgID).Get(ctx)
	if err != nil {
		return nil, readError(err, "organization")
	}
	var org models.Organization
	if err := doc.DataTo(&org); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse organization data", err)
	}
	return &org, nil
}

// List returns organizations ordered by name, filtered by status when it is non-empty.
func (s *organizationStore) List(ctx context.Context, statusFilter string) ([]*models.Organization, error) {
	q := s.collection().Query
	if statusFilter != "" {
		q = q.Where("status", "==", statusFilter)
	}
	docs, err := q.OrderBy("name", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list organizations", err)
	}
	out := make([]*models.Organization, 0, len(docs))
	for _, d := range docs {
		var org models.Organization
		if err := d.DataTo(&org); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse organization data", err)
		}
		out = append(out, &org)
	}
	return out, nil
}

func (s *organizationStore) Update(ctx context.Context, org *models.Organization) error {
	org.UpdatedAt = time.Now()
	if _, err := s.collection().Doc(org.OrgID).Set(ctx, org); err != nil {
		return errs.NewDatabaseError("update", "failed to update organization", err)
	}
	return nil
}
