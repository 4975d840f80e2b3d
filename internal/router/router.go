package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/handlers"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/middleware"
)

func NewRouter(deps *handlers.Deps, mw *middleware.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	// verifiers follow an emailed link and have no account
	vh := handlers.NewVerificationHandlers(deps)
	r.Mount("/verifications", vh.VerificationRoutes())

	r.Group(func(r chi.Router) {
		r.Use(mw.FirebaseAuth)

		r.Mount("/users", handlers.NewUserHandlers(deps).UserRoutes())
		r.Mount("/activities", handlers.NewActivityHandlers(deps).ActivityRoutes())
		r.Mount("/participations", handlers.NewParticipationHandlers(deps).ParticipationRoutes())
		r.Mount("/goal", handlers.NewGoalHandlers(deps).GoalRoutes())
		r.Mount("/progress", handlers.NewProgressHandlers(deps).ProgressRoutes())
		r.Mount("/dashboard", handlers.NewDashboardHandlers(deps).DashboardRoutes())
		r.Mount("/organizations", handlers.NewOrganizationHandlers(deps).OrganizationRoutes())
		r.Mount("/ai", handlers.NewAIHandlers(deps).AIRoutes())

		r.With(mw.RequireAdmin).Mount("/admin", handlers.NewAdminHandlers(deps).AdminRoutes())
	})

	return r
}
