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

type goalService interface {
	SetGoal(ctx context.Context, uid string, req dto.GoalRequest) (*models.Goal, error)
	GetGoal(ctx context.Context, uid string) (*models.Goal, error)
	ClearGoal(ctx context.Context, uid string) error
}

type goalHandlers struct {
	ResponseHandler response.ResponseHandler
	Validator       *validator.Validate
	GoalSvc         goalService
}

func NewGoalHandlers(deps *Deps) *goalHandlers {
	return &goalHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validator:       deps.Validator,
		GoalSvc:         deps.GoalSvc,
	}
}

func (h *goalHandlers) GoalRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Put("/", h.Set)
	r.Delete("/", h.Clear)
	return r
}

func (h *goalHandlers) Get(w http.ResponseWriter, r *http.Request) {
	goal, err := h.GoalSvc.GetGoal(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, goal)
}

func (h *goalHandlers) Set(w http.ResponseWriter, r *http.Request) {
	var req dto.GoalRequest
	if err := decodeJSON(r, h.Validator, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	goal, err := h.GoalSvc.SetGoal(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, goal)
}

func (h *goalHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.GoalSvc.ClearGoal(r.Context(), middleware.UID(r.Context())); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
