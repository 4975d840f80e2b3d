package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/middleware"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
)

type progressService interface {
	GetChart(ctx context.Context, uid, rangeKeyword string) (*dto.ChartResponse, error)
}

type progressHandlers struct {
	ResponseHandler response.ResponseHandler
	ProgressSvc     progressService
}

func NewProgressHandlers(deps *Deps) *progressHandlers {
	return &progressHandlers{
		ResponseHandler: deps.ResponseHandler,
		ProgressSvc:     deps.ProgressSvc,
	}
}

func (h *progressHandlers) ProgressRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/chart", h.GetChart)
	return r
}

// GetChart serves the caller's cumulative-hours series; ?range= defaults to 1M.
func (h *progressHandlers) GetChart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.ProgressSvc.GetChart(r.Context(), middleware.UID(r.Context()), r.URL.Query().Get("range"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, chart)
}
