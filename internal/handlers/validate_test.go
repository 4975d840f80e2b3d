package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

func TestDecodeJSONMessagesUseJSONNames(t *testing.T) {
	v := NewValidator()
	cases := map[string]struct {
		body string
		want string
	}{
		"required":  {`{"title":"x","totalHours":1}`, "startDate is required"},
		"date":      {`{"title":"x","startDate":"2024/01/01","totalHours":1}`, "startDate must be YYYY-MM-DD"},
		"oneof":     {`{"title":"x","startDate":"2024-01-01","totalHours":1,"source":"x"}`, "source must be one of: manual opportunity"},
		"multiple":  {`{"totalHours":1}`, "title is required; startDate is required"},
		"too large": {`{"title":"x","startDate":"2024-01-01","totalHours":20000}`, "totalHours must be at most 10000"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst dto.LogParticipationRequest
			err := decodeJSON(req, v, &dst)

			var valErr *errs.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if valErr.Message != tc.want {
				t.Fatalf("message = %q, want %q", valErr.Message, tc.want)
			}
		})
	}
}

func TestDecodeJSONPassesThroughSyntaxErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{x}"))
	var dst dto.GoalRequest
	err := decodeJSON(req, NewValidator(), &dst)

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected a raw syntax error, got %v", err)
	}
}

func TestDecodeJSONTruncatedBodyIsInvalidInput(t *testing.T) {
	for _, body := range []string{"{", `{"targetHours":`, `{"targetHours":40,"targetDate":"2024-`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var dst dto.GoalRequest
		err := decodeJSON(req, NewValidator(), &dst)

		var valErr *errs.ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("%q: expected ValidationError, got %v", body, err)
		}
		if valErr.Message != "malformed request body" {
			t.Fatalf("%q: unexpected message %q", body, valErr.Message)
		}

		rr := httptest.NewRecorder()
		response.New(logger.New("", logger.NewTestHandler)).HandleError(rr, req, err)
		if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "invalid_input") {
			t.Fatalf("%q: expected 400 invalid_input, got %d %s", body, rr.Code, rr.Body.String())
		}
	}
}
