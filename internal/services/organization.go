package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type organizationStore interface {
	Create(ctx context.Context, org *models.Organization) error
	Get(ctx context.Context, orgID string) (*models.Organization, error)
	List(ctx context.Context, status string) ([]*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
}

type organizationService struct {
	store    organizationStore
	clockNow func() time.Time
}

func NewOrganizationService(store organizationStore) *organizationService {
	return &organizationService{store: store, clockNow: time.Now}
}

// Submit proposes an organization; it stays pending until an admin reviews it.
func (s *organizationService) Submit(ctx context.Context, uid string, req dto.OrganizationRequest) (*models.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	org := &models.Organization{
		OrgID:        uuid.New().String(),
		Name:         name,
		Description:  req.Description,
		Category:     req.Category,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
		Status:       models.OrganizationPending,
		SubmittedBy:  uid,
		CreatedAt:    s.clockNow(),
	}
	if err := s.store.Create(ctx, org); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("organization submitted", "org_id", org.OrgID)
	return org, nil
}

func (s *organizationService) List(ctx context.Context, status string) ([]*models.Organization, error) {
	switch status {
	case "", models.OrganizationPending, models.OrganizationApproved, models.OrganizationRejected:
	default:
		return nil, errs.NewValidationError(fmt.Sprintf("invalid status filter: %s", status))
	}
	return s.store.List(ctx, status)
}

func (s *organizationService) Get(ctx context.Context, orgID string) (*models.Organization, error) {
	return s.store.Get(ctx, orgID)
}

func (s *organizationService) Review(ctx context.Context, adminUID, orgID string, approve bool, note string) (*models.Organization, error) {
	org, err := s.store.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.Status != models.OrganizationPending {
		return nil, errs.NewAlreadyExistsError("organization already reviewed")
	}

	org.Status = models.OrganizationRejected
	if approve {
		org.Status = models.OrganizationApproved
	}
	org.ReviewedBy = adminUID
	org.ReviewNote = note
	if err := s.store.Update(ctx, org); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("organization reviewed", "org_id", orgID, "status", org.Status)
	return org, nil
}
