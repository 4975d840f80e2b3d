package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type activityStore interface {
	Create(ctx context.Context, uid string, a *models.Activity) error
	Get(ctx context.Context, uid, activityID string) (*models.Activity, error)
	List(ctx context.Context, uid string) ([]*models.Activity, error)
	Update(ctx context.Context, uid string, a *models.Activity) error
	Delete(ctx context.Context, uid, activityID string) error
}

// fieldCipher seals personal data of third parties (supervisor e-mails) for one owner.
type fieldCipher interface {
	Encrypt(ctx context.Context, owner, plaintext string) (string, error)
	Decrypt(ctx context.Context, owner, ciphertext string) (string, error)
}

type activityService struct {
	store    activityStore
	cipher   fieldCipher
	clockNow func() time.Time
}

func NewActivityService(store activityStore, cipher fieldCipher) *activityService {
	return &activityService{store: store, cipher: cipher, clockNow: time.Now}
}

func (s *activityService) Create(ctx context.Context, uid string, req dto.ActivityRequest) (dto.ActivityResponse, error) {
	if err := validateActivity(req); err != nil {
		return dto.ActivityResponse{}, err
	}

	a := &models.Activity{
		ActivityID: uuid.New().String(),
		Status:     models.ActivityDraft,
		CreatedAt:  s.clockNow(),
	}
	if err := s.apply(ctx, uid, a, req); err != nil {
		return dto.ActivityResponse{}, err
	}
	if err := s.store.Create(ctx, uid, a); err != nil {
		return dto.ActivityResponse{}, err
	}

	logger.FromContext(ctx).Info("activity created", "activity_id", a.ActivityID, "category", a.Category)
	return toActivityResponse(a), nil
}

func (s *activityService) List(ctx context.Context, uid string) ([]dto.ActivityResponse, error) {
	items, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toActivityResponse(a))
	}
	return out, nil
}

func (s *activityService) Get(ctx context.Context, uid, activityID string) (dto.ActivityResponse, error) {
	a, err := s.store.Get(ctx, uid, activityID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	return toActivityResponse(a), nil
}

// Update replaces the editable fields. Editing a verified or pending activity
// returns it to draft, since the supervisor confirmed the previous content.
func (s *activityService) Update(ctx context.Context, uid, activityID string, req dto.ActivityRequest) (dto.ActivityResponse, error) {
	if err := validateActivity(req); err != nil {
		return dto.ActivityResponse{}, err
	}
	a, err := s.store.Get(ctx, uid, activityID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	if a.Status == models.ActivityVerified || a.Status == models.ActivityPending {
		logger.FromContext(ctx).Info("activity edited, verification reset", "activity_id", activityID, "previous_status", a.Status)
		a.Status = models.ActivityDraft
	}
	if err := s.apply(ctx, uid, a, req); err != nil {
		return dto.ActivityResponse{}, err
	}
	if err := s.store.Update(ctx, uid, a); err != nil {
		return dto.ActivityResponse{}, err
	}
	return toActivityResponse(a), nil
}

func (s *activityService) Delete(ctx context.Context, uid, activityID string) error {
	if err := s.store.Delete(ctx, uid, activityID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("activity deleted", "activity_id", activityID)
	return nil
}

func (s *activityService) apply(ctx context.Context, uid string, a *models.Activity, req dto.ActivityRequest) error {
	a.Name = strings.TrimSpace(req.Name)
	a.Category = req.Category
	a.Position = req.Position
	a.Description = req.Description
	a.OrganizationID = req.OrganizationID
	a.StartDate = req.StartDate
	a.EndDate = req.EndDate
	a.HoursPerWeek = req.HoursPerWeek
	a.WeeksPerYear = req.WeeksPerYear
	a.VerifierName = req.VerifierName
	a.VerifierEmailCipher = ""

	if email := strings.TrimSpace(req.VerifierEmail); email != "" {
		cipher, err := s.cipher.Encrypt(ctx, uid, strings.ToLower(email))
		if err != nil {
			return err
		}
		a.VerifierEmailCipher = cipher
	}
	return nil
}

func validateActivity(req dto.ActivityRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errs.NewValidationError("name is required")
	}
	if !slices.Contains(models.ActivityCategories, req.Category) {
		return errs.NewValidationError(fmt.Sprintf("invalid category: %s", req.Category))
	}
	if _, _, err := parseRange(req.StartDate, req.EndDate); err != nil {
		return err
	}
	if req.HoursPerWeek < 0 || req.WeeksPerYear < 0 {
		return errs.NewValidationError("hours per week and weeks per year must not be negative")
	}
	return nil
}

func toActivityResponse(a *models.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ActivityID:     a.ActivityID,
		Name:           a.Name,
		Category:       a.Category,
		Position:       a.Position,
		Description:    a.Description,
		OrganizationID: a.OrganizationID,
		StartDate:      a.StartDate,
		EndDate:        a.EndDate,
		HoursPerWeek:   a.HoursPerWeek,
		WeeksPerYear:   a.WeeksPerYear,
		Status:         a.Status,
		VerifierName:   a.VerifierName,
		HasVerifier:    a.VerifierEmailCipher != "",
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
