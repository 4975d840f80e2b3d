package handlers

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Validator       *validator.Validate

	UserSvc          UserService
	ActivitySvc      activityService
	ParticipationSvc participationService
	GoalSvc          goalService
	ProgressSvc      progressService
	DashboardSvc     dashboardService
	OrganizationSvc  organizationService
	VerificationSvc  verificationService
	ExportSvc        exportService
	AISvc            aiService
}
