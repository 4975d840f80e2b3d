package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/middleware"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
)

type participationService interface {
	Log(ctx context.Context, uid string, req dto.LogParticipationRequest) (*models.Participation, error)
	List(ctx context.Context, uid string) ([]*models.Participation, error)
	Delete(ctx context.Context, uid, participationID string) error
	Summary(ctx context.Context, uid string) (dto.HoursSummary, error)
}

type participationHandlers struct {
	ResponseHandler  response.ResponseHandler
	Validator        *validator.Validate
	ParticipationSvc participationService
}

func NewParticipationHandlers(deps *Deps) *participationHandlers {
	return &participationHandlers{
		ResponseHandler:  deps.ResponseHandler,
		Validator:        deps.Validator,
		ParticipationSvc: deps.ParticipationSvc,
	}
}

func (h *participationHandlers) ParticipationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Log)
	r.Get("/summary", h.Summary) // must be before /{participationId}
	r.Delete("/{participationId}", h.Delete)
	return r
}

func (h *participationHandlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.ParticipationSvc.List(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, items)
}

func (h *participationHandlers) Log(w http.ResponseWriter, r *http.Request) {
	var req dto.LogParticipationRequest
	if err := decodeJSON(r, h.Validator, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	p, err := h.ParticipationSvc.Log(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, p)
}

func (h *participationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.ParticipationSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "participationId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *participationHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ParticipationSvc.Summary(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}
