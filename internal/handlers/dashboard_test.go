package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/middleware"
)

// --- Stub service ---

type stubDashboardService struct {
	student    dto.StudentDashboard
	admin      dto.AdminDashboard
	err        error
	studentUID string
}

func (s *stubDashboardService) GetStudentDashboard(_ context.Context, uid string) (dto.StudentDashboard, error) {
	s.studentUID = uid
	return s.student, s.err
}

func (s *stubDashboardService) GetAdminDashboard(context.Context) (dto.AdminDashboard, error) {
	return s.admin, s.err
}

// withUID injects a UID into the request context.
func withUID(r *http.Request, uid string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UIDKey, uid)
	return r.WithContext(ctx)
}

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// --- Tests ---

func TestGetDashboard_OK(t *testing.T) {
	svc := &stubDashboardService{student: dto.StudentDashboard{Activities: 3}}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.GetDashboard(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.studentUID != "uid1" {
		t.Errorf("expected uid1, got %s", svc.studentUID)
	}
	if d, ok := resp.writeSuccessData.(dto.StudentDashboard); !ok || d.Activities != 3 {
		t.Errorf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestGetDashboard_ServiceError(t *testing.T) {
	svc := &stubDashboardService{err: errors.New("db failure")}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.GetDashboard(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
	if resp.writeSuccessCalled {
		t.Fatal("WriteSuccess should not be called on service error")
	}
}
