package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type stubVerifier struct {
	token *auth.Token
	err   error
	got   string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.got = idToken
	return s.token, s.err
}

func newTestMiddleware(v tokenVerifier) *Middleware {
	return NewMiddleware(v, response.New(logger.New("", logger.NewTestHandler)))
}

func TestFirebaseAuthSetsContext(t *testing.T) {
	verifier := &stubVerifier{token: &auth.Token{
		UID:    "uid-1",
		Claims: map[string]interface{}{"email": "jane@example.com", "admin": true},
	}}
	m := newTestMiddleware(verifier)

	var uid, email string
	var admin bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, email, admin = UID(r.Context()), Email(r.Context()), IsAdmin(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	rr := httptest.NewRecorder()
	m.FirebaseAuth(next).ServeHTTP(rr, req)

	if verifier.got != "abc.def" {
		t.Fatalf("verifier received %q", verifier.got)
	}
	if uid != "uid-1" || email != "jane@example.com" || !admin {
		t.Fatalf("unexpected context values: uid=%q email=%q admin=%v", uid, email, admin)
	}
}

func TestFirebaseAuthRejects(t *testing.T) {
	cases := map[string]struct {
		header string
		err    error
	}{
		"missing header": {},
		"wrong scheme":   {header: "Basic abc"},
		"extra parts":    {header: "Bearer a b"},
		"bad token":      {header: "Bearer abc", err: errors.New("expired")},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m := newTestMiddleware(&stubVerifier{err: tc.err, token: &auth.Token{UID: "u"}})
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			m.FirebaseAuth(next).ServeHTTP(rr, req)

			if called {
				t.Fatalf("next handler should not run")
			}
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("content type = %q", ct)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	m := newTestMiddleware(&stubVerifier{})
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rr := httptest.NewRecorder()
	m.RequireAdmin(next).ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", rr.Code)
	}

	req = req.WithContext(context.WithValue(req.Context(), AdminKey, true))
	rr = httptest.NewRecorder()
	m.RequireAdmin(next).ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("admin status = %d, want 204", rr.Code)
	}
}

func TestLoggerMiddlewareStoresLogger(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggerMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)))

	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
	})

	handler := chimiddleware.RequestID(m.LoggerMiddleware(next))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	out := buf.String()
	for _, want := range []string{`"request_id":`, `"method":"GET"`, `"path":"/x"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %q missing %s", out, want)
		}
	}
}

func TestLoggerMiddlewareAccessLine(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggerMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)))

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	})
	m.LoggerMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/y", nil))

	out := buf.String()
	for _, want := range []string{`"msg":"request completed"`, `"status":418`, `"bytes":5`, `"path":"/y"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("access line %q missing %s", out, want)
		}
	}
}
