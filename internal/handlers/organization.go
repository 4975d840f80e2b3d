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

type organizationService interface {
	Submit(ctx context.Context, uid string, req dto.OrganizationRequest) (*models.Organization, error)
	List(ctx context.Context, status string) ([]*models.Organization, error)
	Get(ctx context.Context, orgID string) (*models.Organization, error)
	Review(ctx context.Context, adminUID, orgID string, approve bool, note string) (*models.Organization, error)
}

type organizationHandlers struct {
	ResponseHandler response.ResponseHandler
	Validator       *validator.Validate
	OrganizationSvc organizationService
}

func NewOrganizationHandlers(deps *Deps) *organizationHandlers {
	return &organizationHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validator:       deps.Validator,
		OrganizationSvc: deps.OrganizationSvc,
	}
}

func (h *organizationHandlers) OrganizationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Submit)
	r.Get("/{orgId}", h.Get)
	return r
}

// List filters by ?status=; students see approved organizations unless they ask otherwise.
func (h *organizationHandlers) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" && !middleware.IsAdmin(r.Context()) {
		status = models.OrganizationApproved
	}
	orgs, err := h.OrganizationSvc.List(r.Context(), status)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, orgs)
}

func (h *organizationHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.OrganizationRequest
	if err := decodeJSON(r, h.Validator, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	org, err := h.OrganizationSvc.Submit(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, org)
}

func (h *organizationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.OrganizationSvc.Get(r.Context(), chi.URLParam(r, "orgId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, org)
}
