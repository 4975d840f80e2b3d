package services

import (
	"context"
	"strings"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type goalStore interface {
	Get(ctx context.Context, uid string) (*models.Goal, error)
	Set(ctx context.Context, uid string, g *models.Goal) error
	Delete(ctx context.Context, uid string) error
}

type goalService struct {
	store goalStore
	cache chartInvalidator
}

func NewGoalService(store goalStore, cache chartInvalidator) *goalService {
	return &goalService{store: store, cache: cache}
}

func (s *goalService) SetGoal(ctx context.Context, uid string, req dto.GoalRequest) (*models.Goal, error) {
	if req.TargetHours <= 0 {
		return nil, errs.NewValidationError("targetHours must be greater than zero")
	}
	if req.TargetDate != "" {
		if _, err := parseDate("targetDate", req.TargetDate); err != nil {
			return nil, err
		}
	}

	g := &models.Goal{
		TargetHours: req.TargetHours,
		TargetDate:  req.TargetDate,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.store.Set(ctx, uid, g); err != nil {
		return nil, err
	}
	invalidateChart(ctx, s.cache, uid)
	logger.FromContext(ctx).Info("goal set", "target_hours", g.TargetHours, "target_date", g.TargetDate)
	return g, nil
}

func (s *goalService) GetGoal(ctx context.Context, uid string) (*models.Goal, error) {
	return s.store.Get(ctx, uid)
}

func (s *goalService) ClearGoal(ctx context.Context, uid string) error {
	if err := s.store.Delete(ctx, uid); err != nil {
		return err
	}
	invalidateChart(ctx, s.cache, uid)
	logger.FromContext(ctx).Info("goal cleared")
	return nil
}
