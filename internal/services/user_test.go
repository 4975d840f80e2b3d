package services

import (
	"errors"
	"testing"
	"time"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/helpers"
)

func TestUserServiceRegister(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, nil)

	ctx := helpers.TestCtx()
	now := time.Now()

	user, err := svc.Register(ctx, "uid-123", "user@example.com", "Jane", "Doe")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	stored, ok := store.users["uid-123"]
	if !ok {
		t.Fatalf("store did not receive user")
	}
	if stored != user {
		t.Fatalf("returned user differs from stored user")
	}
	if user.Email != "user@example.com" || user.FirstName != "Jane" || user.LastName != "Doe" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Role != models.RoleStudent {
		t.Fatalf("role = %q, want %q", user.Role, models.RoleStudent)
	}
	if user.CreatedAt.Before(now) || user.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", user)
	}
}

func TestUserServiceRegisterTwice(t *testing.T) {
	store := newFakeUserStore(&models.User{UID: "uid-123"})
	svc := NewUserService(store, nil)

	_, err := svc.Register(helpers.TestCtx(), "uid-123", "user@example.com", "Jane", "Doe")
	var exists *errs.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
}

func TestUserServiceRegisterStoreError(t *testing.T) {
	store := newFakeUserStore()
	store.err = errors.New("store failure")
	svc := NewUserService(store, nil)

	if _, err := svc.Register(helpers.TestCtx(), "uid-456", "user2@example.com", "John", "Smith"); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestUserServiceUpdateProfile(t *testing.T) {
	store := newFakeUserStore(&models.User{UID: "u1", FirstName: "Jane", LastName: "Doe", School: "Central"})
	svc := NewUserService(store, nil)

	user, err := svc.UpdateProfile(helpers.TestCtx(), "u1", dto.UpdateUserRequest{
		LastName:       helpers.Ptr("Roe"),
		GraduationYear: helpers.Ptr(2027),
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if user.FirstName != "Jane" || user.School != "Central" {
		t.Fatalf("unset fields were overwritten: %+v", user)
	}
	if user.LastName != "Roe" || user.GraduationYear != 2027 {
		t.Fatalf("fields not updated: %+v", user)
	}
}

func TestUserServiceUpdateProfileMissingUser(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), nil)

	_, err := svc.UpdateProfile(helpers.TestCtx(), "ghost", dto.UpdateUserRequest{})
	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUserServiceSetExternalHours(t *testing.T) {
	store := newFakeUserStore(&models.User{UID: "u1"})
	cache := &fakeInvalidator{}
	svc := NewUserService(store, cache)

	if err := svc.SetExternalHours(helpers.TestCtx(), "u1", 12.5); err != nil {
		t.Fatalf("SetExternalHours error: %v", err)
	}
	if store.users["u1"].ExternalHours != 12.5 {
		t.Fatalf("external hours = %v, want 12.5", store.users["u1"].ExternalHours)
	}
	if len(cache.calls) != 1 || cache.calls[0] != "u1" {
		t.Fatalf("expected one invalidation for u1, got %v", cache.calls)
	}
}

func TestUserServiceSetExternalHoursRejectsNegative(t *testing.T) {
	cache := &fakeInvalidator{}
	svc := NewUserService(newFakeUserStore(&models.User{UID: "u1"}), cache)

	err := svc.SetExternalHours(helpers.TestCtx(), "u1", -1)
	var validation *errs.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(cache.calls) != 0 {
		t.Fatalf("cache invalidated on rejected write")
	}
}

func TestUserServiceSetExternalHoursCacheFailureIgnored(t *testing.T) {
	cache := &fakeInvalidator{err: errors.New("redis down")}
	svc := NewUserService(newFakeUserStore(&models.User{UID: "u1"}), cache)

	if err := svc.SetExternalHours(helpers.TestCtx(), "u1", 3); err != nil {
		t.Fatalf("cache failure should not fail the write: %v", err)
	}
}

func TestUserServiceListStudents(t *testing.T) {
	store := newFakeUserStore(
		&models.User{UID: "a", Role: models.RoleStudent},
		&models.User{UID: "b", Role: models.RoleAdmin},
		&models.User{UID: "c", Role: models.RoleStudent},
	)
	svc := NewUserService(store, nil)

	students, err := svc.ListStudents(helpers.TestCtx())
	if err != nil {
		t.Fatalf("ListStudents error: %v", err)
	}
	if len(students) != 2 || students[0].UID != "a" || students[1].UID != "c" {
		t.Fatalf("unexpected students: %+v", students)
	}
}
