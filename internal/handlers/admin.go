package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/middleware"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type exportService interface {
	ExportParticipations(ctx context.Context, w io.Writer) error
	ExportActivities(ctx context.Context, w io.Writer) error
}

type adminHandlers struct {
	ResponseHandler response.ResponseHandler
	Validator       *validator.Validate
	UserSvc         UserService
	ProgressSvc     progressService
	DashboardSvc    dashboardService
	OrganizationSvc organizationService
	VerificationSvc verificationService
	ExportSvc       exportService
}

func NewAdminHandlers(deps *Deps) *adminHandlers {
	return &adminHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validator:       deps.Validator,
		UserSvc:         deps.UserSvc,
		ProgressSvc:     deps.ProgressSvc,
		DashboardSvc:    deps.DashboardSvc,
		OrganizationSvc: deps.OrganizationSvc,
		VerificationSvc: deps.VerificationSvc,
		ExportSvc:       deps.ExportSvc,
	}
}

// AdminRoutes must be mounted behind FirebaseAuth and RequireAdmin.
func (h *adminHandlers) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/dashboard", h.Dashboard)
	r.Get("/students", h.ListStudents)
	r.Put("/students/{uid}/external-hours", h.SetExternalHours)
	r.Get("/students/{uid}/progress", h.StudentProgress)
	r.Post("/organizations/{orgId}/review", h.ReviewOrganization)
	r.Get("/verifications", h.ListVerifications)
	r.Post("/verifications/{verificationId}/review", h.ReviewVerification)
	r.Get("/export/participations.csv", h.ExportParticipations)
	r.Get("/export/activities.csv", h.ExportActivities)
	return r
}

func (h *adminHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.DashboardSvc.GetAdminDashboard(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, d)
}

func (h *adminHandlers) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.UserSvc.ListStudents(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, students)
}

func (h *adminHandlers) SetExternalHours(w http.ResponseWriter, r *http.Request) {
	var req dto.ExternalHoursRequest
	if err := decodeJSON(r, h.Validator, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.UserSvc.SetExternalHours(r.Context(), chi.URLParam(r, "uid"), req.Hours); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *adminHandlers) StudentProgress(w http.ResponseWriter, r *http.Request) {
	chart, err := h.ProgressSvc.GetChart(r.Context(), chi.URLParam(r, "uid"), r.URL.Query().Get("range"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, chart)
}

func (h *adminHandlers) ReviewOrganization(w http.ResponseWriter, r *http.Request) {
	var req dto.ReviewRequest
	if err := decodeJSON(r, h.Validator, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	org, err := h.OrganizationSvc.Review(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "orgId"), req.Approve, req.Note)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, org)
}

func (h *adminHandlers) ListVerifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.VerificationSvc.ListPending(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, items)
}

func (h *adminHandlers) ReviewVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.ReviewRequest
	if err := decodeJSON(r, h.Validator, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	v, err := h.VerificationSvc.Review(r.Context(), chi.URLParam(r, "verificationId"), req.Approve, req.Note)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, v)
}

func (h *adminHandlers) ExportParticipations(w http.ResponseWriter, r *http.Request) {
	h.writeCSV(w, r, "participations.csv", h.ExportSvc.ExportParticipations)
}

func (h *adminHandlers) ExportActivities(w http.ResponseWriter, r *http.Request) {
	h.writeCSV(w, r, "activities.csv", h.ExportSvc.ExportActivities)
}

// writeCSV buffers the export so a failure can still be reported as a JSON error.
func (h *adminHandlers) writeCSV(w http.ResponseWriter, r *http.Request, filename string, export func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := export(r.Context(), &buf); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContext(r.Context()).Error("failed to write export", "file", filename, "error", err)
	}
}
