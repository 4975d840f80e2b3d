package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/middleware"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
)

type activityService interface {
	Create(ctx context.Context, uid string, req dto.ActivityRequest) (dto.ActivityResponse, error)
	List(ctx context.Context, uid string) ([]dto.ActivityResponse, error)
	Get(ctx context.Context, uid, activityID string) (dto.ActivityResponse, error)
	Update(ctx context.Context, uid, activityID string, req dto.ActivityRequest) (dto.ActivityResponse, error)
	Delete(ctx context.Context, uid, activityID string) error
}

type activityHandlers struct {
	ResponseHandler response.ResponseHandler
	Validator       *validator.Validate
	ActivitySvc     activityService
	VerificationSvc verificationService
}

func NewActivityHandlers(deps *Deps) *activityHandlers {
	return &activityHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validator:       deps.Validator,
		ActivitySvc:     deps.ActivitySvc,
		VerificationSvc: deps.VerificationSvc,
	}
}

func (h *activityHandlers) ActivityRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{activityId}", h.Get)
	r.Put("/{activityId}", h.Update)
	r.Delete("/{activityId}", h.Delete)
	r.Post("/{activityId}/verify", h.RequestVerification)
	return r
}

func (h *activityHandlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.ActivitySvc.List(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, items)
}

func (h *activityHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ActivityRequest
	if err := decodeJSON(r, h.Validator, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	activity, err := h.ActivitySvc.Create(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, activity)
}

func (h *activityHandlers) Get(w http.ResponseWriter, r *http.Request) {
	activity, err := h.ActivitySvc.Get(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "activityId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, activity)
}

func (h *activityHandlers) Update(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activityId")
	var req dto.ActivityRequest
	if err := decodeJSON(r, h.Validator, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	activity, err := h.ActivitySvc.Update(r.Context(), middleware.UID(r.Context()), activityID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, activity)
}

func (h *activityHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ActivitySvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "activityId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// RequestVerification e-mails the activity's supervisor a signed confirmation link.
func (h *activityHandlers) RequestVerification(w http.ResponseWriter, r *http.Request) {
	resp, err := h.VerificationSvc.Request(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "activityId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusAccepted, resp)
}
