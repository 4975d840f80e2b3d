package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
)

type stubProgressService struct {
	uid   string
	rng   string
	chart *dto.ChartResponse
	err   error
}

func (s *stubProgressService) GetChart(_ context.Context, uid, rangeKeyword string) (*dto.ChartResponse, error) {
	s.uid, s.rng = uid, rangeKeyword
	return s.chart, s.err
}

type stubGoalService struct {
	called bool
	req    dto.GoalRequest
	goal   *models.Goal
	err    error
}

func (s *stubGoalService) SetGoal(_ context.Context, _ string, req dto.GoalRequest) (*models.Goal, error) {
	s.called, s.req = true, req
	return s.goal, s.err
}

func (s *stubGoalService) GetGoal(context.Context, string) (*models.Goal, error) {
	s.called = true
	return s.goal, s.err
}

func (s *stubGoalService) ClearGoal(context.Context, string) error {
	s.called = true
	return s.err
}

func TestGetChart_PassesRange(t *testing.T) {
	svc := &stubProgressService{chart: &dto.ChartResponse{Range: "6M"}}
	resp := &stubResponseHandler{}
	h := NewProgressHandlers(&Deps{ResponseHandler: resp, ProgressSvc: svc})

	h.GetChart(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/progress/chart?range=6M", nil), "uid1"))

	if svc.uid != "uid1" || svc.rng != "6M" {
		t.Fatalf("unexpected args uid=%q range=%q", svc.uid, svc.rng)
	}
	if resp.writeSuccessData != svc.chart {
		t.Fatalf("chart not written")
	}
}

func TestGetChart_UnknownRange(t *testing.T) {
	svc := &stubProgressService{err: errs.NewValidationError("range must be one of 1W, 1M, 6M, 1Y, all")}
	resp := &stubResponseHandler{}
	h := NewProgressHandlers(&Deps{ResponseHandler: resp, ProgressSvc: svc})

	h.GetChart(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/progress/chart?range=2D", nil), "uid1"))

	var valErr *errs.ValidationError
	if !errors.As(resp.handleError, &valErr) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestSetGoal(t *testing.T) {
	svc := &stubGoalService{goal: &models.Goal{TargetHours: 100}}
	resp := &stubResponseHandler{}
	h := NewGoalHandlers(&Deps{ResponseHandler: resp, Validator: NewValidator(), GoalSvc: svc})

	req := httptest.NewRequest(http.MethodPut, "/goal", strings.NewReader(`{"targetHours":100,"targetDate":"2025-06-01"}`))
	h.Set(httptest.NewRecorder(), withUID(req, "uid1"))

	if !resp.writeSuccessCalled || svc.req.TargetDate != "2025-06-01" {
		t.Fatalf("goal not set: %+v err=%v", svc.req, resp.handleError)
	}
}

func TestSetGoal_InvalidTarget(t *testing.T) {
	svc := &stubGoalService{}
	resp := &stubResponseHandler{}
	h := NewGoalHandlers(&Deps{ResponseHandler: resp, Validator: NewValidator(), GoalSvc: svc})

	req := httptest.NewRequest(http.MethodPut, "/goal", strings.NewReader(`{"targetHours":0}`))
	h.Set(httptest.NewRecorder(), withUID(req, "uid1"))

	if svc.called {
		t.Fatal("service should not be called")
	}
	var valErr *errs.ValidationError
	if !errors.As(resp.handleError, &valErr) || valErr.Message != "targetHours must be greater than 0" {
		t.Fatalf("unexpected error: %v", resp.handleError)
	}
}

func TestGetGoal_NotFound(t *testing.T) {
	svc := &stubGoalService{err: errs.NewNotFoundError("goal not found")}
	resp := &stubResponseHandler{}
	h := NewGoalHandlers(&Deps{ResponseHandler: resp, GoalSvc: svc})

	h.Get(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/goal", nil), "uid1"))

	var notFound *errs.NotFoundError
	if !errors.As(resp.handleError, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", resp.handleError)
	}
}

func TestClearGoal(t *testing.T) {
	svc := &stubGoalService{}
	resp := &stubResponseHandler{}
	h := NewGoalHandlers(&Deps{ResponseHandler: resp, GoalSvc: svc})

	h.Clear(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodDelete, "/goal", nil), "uid1"))

	if !svc.called || !resp.writeSuccessCalled {
		t.Fatal("expected goal to be cleared")
	}
}
