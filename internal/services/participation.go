package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type participationStore interface {
	Create(ctx context.Context, uid string, p *models.Participation) error
	List(ctx context.Context, uid string) ([]*models.Participation, error)
	Delete(ctx context.Context, uid, participationID string) error
}

type activityGetter interface {
	Get(ctx context.Context, uid, activityID string) (*models.Activity, error)
}

type participationService struct {
	store      participationStore
	activities activityGetter
	users      userGetter
	cache      chartInvalidator
	clockNow   func() time.Time
}

func NewParticipationService(store participationStore, activities activityGetter, users userGetter, cache chartInvalidator) *participationService {
	return &participationService{
		store:      store,
		activities: activities,
		users:      users,
		cache:      cache,
		clockNow:   time.Now,
	}
}

// Log records hours. Writes are stricter than the chart, which still tolerates
// historical records with bad dates or hours.
func (s *participationService) Log(ctx context.Context, uid string, req dto.LogParticipationRequest) (*models.Participation, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errs.NewValidationError("title is required")
	}
	if req.TotalHours <= 0 {
		return nil, errs.NewValidationError("totalHours must be greater than zero")
	}
	if _, _, err := parseRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	p := &models.Participation{
		ParticipationID: uuid.New().String(),
		ActivityID:      req.ActivityID,
		Title:           strings.TrimSpace(req.Title),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalHours:      req.TotalHours,
		Source:          req.Source,
		CreatedAt:       s.clockNow(),
	}
	if p.Source == "" {
		p.Source = models.SourceManual
	}
	if req.ActivityID != "" {
		a, err := s.activities.Get(ctx, uid, req.ActivityID)
		if err != nil {
			return nil, err
		}
		p.Verified = a.Status == models.ActivityVerified
	}

	if err := s.store.Create(ctx, uid, p); err != nil {
		return nil, err
	}
	invalidateChart(ctx, s.cache, uid)

	logger.FromContext(ctx).Info("participation logged", "participation_id", p.ParticipationID, "hours", p.TotalHours)
	return p, nil
}

func (s *participationService) List(ctx context.Context, uid string) ([]*models.Participation, error) {
	return s.store.List(ctx, uid)
}

func (s *participationService) Delete(ctx context.Context, uid, participationID string) error {
	if err := s.store.Delete(ctx, uid, participationID); err != nil {
		return err
	}
	invalidateChart(ctx, s.cache, uid)
	logger.FromContext(ctx).Info("participation deleted", "participation_id", participationID)
	return nil
}

func (s *participationService) Summary(ctx context.Context, uid string) (dto.HoursSummary, error) {
	items, err := s.store.List(ctx, uid)
	if err != nil {
		return dto.HoursSummary{}, err
	}
	external, err := externalHours(ctx, s.users, uid)
	if err != nil {
		return dto.HoursSummary{}, err
	}
	return summarize(items, external), nil
}

// summarize ignores non-positive hours, matching the chart's treatment of them.
func summarize(items []*models.Participation, external float64) dto.HoursSummary {
	out := dto.HoursSummary{ExternalHours: external, Count: len(items)}
	for _, p := range items {
		if p.TotalHours <= 0 {
			continue
		}
		out.ParticipationHours += p.TotalHours
		if p.Verified {
			out.VerifiedHours += p.TotalHours
		}
	}
	out.CurrentTotalHours = out.ParticipationHours + external
	return out
}
