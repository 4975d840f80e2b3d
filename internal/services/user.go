package services

import (
	"context"
	"errors"
	"time"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	ListUsers(ctx context.Context, role string) ([]*models.User, error)
	SetExternalHours(ctx context.Context, uid string, hours float64) error
}

type userGetter interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// chartInvalidator drops cached progress charts after a write that changes them.
type chartInvalidator interface {
	Invalidate(ctx context.Context, uid string) error
}

type userService struct {
	Store    userUSStore
	cache    chartInvalidator
	clockNow func() time.Time
}

func NewUserService(store userUSStore, cache chartInvalidator) *userService {
	return &userService{
		Store:    store,
		cache:    cache,
		clockNow: time.Now,
	}
}

func (s *userService) Register(ctx context.Context, uid, email, first, last string) (*models.User, error) {
	// Get logger from context - already has uid, request_id, method, path
	log := logger.FromContext(ctx)

	now := s.clockNow()
	user := &models.User{
		UID:       uid,
		Email:     email,
		FirstName: first,
		LastName:  last,
		Role:      models.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Store.CreateUser(ctx, user)
	if err != nil {
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	log.Info("user registered", "first_name", first, "last_name", last)
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.GetUser(ctx, uid)
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.Store.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.School != nil {
		user.School = *req.School
	}
	if req.GraduationYear != nil {
		user.GraduationYear = *req.GraduationYear
	}
	if err := s.Store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("profile updated")
	return user, nil
}

// SetExternalHours records hours credited outside the participation log. They
// count toward the student's current total but are not spread over the chart.
func (s *userService) SetExternalHours(ctx context.Context, uid string, hours float64) error {
	if hours < 0 {
		return errs.NewValidationError("hours must not be negative")
	}
	if err := s.Store.SetExternalHours(ctx, uid, hours); err != nil {
		return err
	}
	invalidateChart(ctx, s.cache, uid)
	logger.FromContext(ctx).Info("external hours set", "student_uid", uid, "hours", hours)
	return nil
}

func (s *userService) ListStudents(ctx context.Context) ([]*models.User, error) {
	return s.Store.ListUsers(ctx, models.RoleStudent)
}

// externalHours returns 0 for users without a profile.
func externalHours(ctx context.Context, users userGetter, uid string) (float64, error) {
	user, err := users.GetUser(ctx, uid)
	var notFound *errs.NotFoundError
	if errors.As(err, &notFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return user.ExternalHours, nil
}

func invalidateChart(ctx context.Context, cache chartInvalidator, uid string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, uid); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate progress cache", "student_uid", uid, "error", err)
	}
}
