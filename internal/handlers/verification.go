package handlers

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
)

type verificationService interface {
	Request(ctx context.Context, uid, activityID string) (dto.VerificationRequested, error)
	Preview(ctx context.Context, token string) (*models.Verification, error)
	Confirm(ctx context.Context, token string, approve bool, note string) (*models.Verification, error)
	ListPending(ctx context.Context) ([]*models.Verification, error)
	Review(ctx context.Context, verificationID string, approve bool, note string) (*models.Verification, error)
}

type verificationHandlers struct {
	ResponseHandler response.ResponseHandler
	Validator       *validator.Validate
	VerificationSvc verificationService
}

func NewVerificationHandlers(deps *Deps) *verificationHandlers {
	return &verificationHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validator:       deps.Validator,
		VerificationSvc: deps.VerificationSvc,
	}
}

// VerificationRoutes are public: the signed token is the supervisor's credential.
func (h *verificationHandlers) VerificationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/confirm", h.ShowConfirm)
	r.Post("/confirm", h.Confirm)
	return r
}

// ShowConfirm is the page behind the e-mailed link. It renders the approve and
// decline form, which posts back to Confirm.
func (h *verificationHandlers) ShowConfirm(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("token is required"))
		return
	}
	v, err := h.VerificationSvc.Preview(r.Context(), token)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	renderConfirmPage(w, r, token, v)
}

// Confirm accepts JSON from API clients and the form posted by ShowConfirm.
func (h *verificationHandlers) Confirm(w http.ResponseWriter, r *http.Request) {
	form := isFormPost(r)
	req, err := h.decodeConfirm(r, form)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	v, err := h.VerificationSvc.Confirm(r.Context(), req.Token, req.Approve, req.Note)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if form {
		renderConfirmPage(w, r, "", v)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.VerificationResult{
		VerificationID: v.VerificationID,
		ActivityName:   v.ActivityName,
		Status:         v.Status,
	})
}

func (h *verificationHandlers) decodeConfirm(r *http.Request, form bool) (dto.ConfirmVerificationRequest, error) {
	var req dto.ConfirmVerificationRequest
	if !form {
		err := decodeJSON(r, h.Validator, &req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, errs.NewValidationError("invalid form body")
	}
	req.Token = strings.TrimSpace(r.PostFormValue("token"))
	req.Note = r.PostFormValue("note")
	switch r.PostFormValue("decision") {
	case "approve":
		req.Approve = true
	case "decline":
	default:
		return req, errs.NewValidationError("decision must be one of: approve decline")
	}
	if h.Validator == nil {
		return req, nil
	}
	return req, validationError(h.Validator.Struct(req))
}

func isFormPost(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}
