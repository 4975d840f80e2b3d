package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/handlers"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/middleware"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type stubVerifier struct {
	admin bool
}

func (s stubVerifier) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return &auth.Token{UID: "uid-1", Claims: map[string]interface{}{"admin": s.admin}}, nil
}

func newTestRouter(admin bool) http.Handler {
	log := logger.New("", logger.NewTestHandler)
	rh := response.New(log)
	deps := &handlers.Deps{Log: log, ResponseHandler: rh, Validator: handlers.NewValidator()}
	return NewRouter(deps, middleware.NewMiddleware(stubVerifier{admin: admin}, rh))
}

func serve(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthIsPublic(t *testing.T) {
	rr := serve(newTestRouter(false), http.MethodGet, "/health", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestConfirmIsPublic(t *testing.T) {
	// an empty body fails validation before any service is touched
	rr := serve(newTestRouter(false), http.MethodPost, "/verifications/confirm", "", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestConfirmLinkIsPublicGet(t *testing.T) {
	// the e-mailed link is opened with GET; without a token it fails validation
	rr := serve(newTestRouter(false), http.MethodGet, "/verifications/confirm", "", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestStudentRoutesRequireToken(t *testing.T) {
	h := newTestRouter(false)
	for _, path := range []string{"/users/me", "/activities", "/participations", "/goal", "/progress/chart", "/dashboard", "/organizations"} {
		if rr := serve(h, http.MethodGet, path, "", ""); rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rr.Code)
		}
	}
}

func TestAdminRoutesRequireClaim(t *testing.T) {
	rr := serve(newTestRouter(false), http.MethodGet, "/admin/students", "token", "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	rr := serve(newTestRouter(true), http.MethodGet, "/nope", "", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
