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

type UserService interface {
	Register(ctx context.Context, uid, email, first, last string) (*models.User, error)
	GetProfile(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, req dto.UpdateUserRequest) (*models.User, error)
	SetExternalHours(ctx context.Context, uid string, hours float64) error
	ListStudents(ctx context.Context) ([]*models.User, error)
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	Validator       *validator.Validate
	UserSvc         UserService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validator:       deps.Validator,
		UserSvc:         deps.UserSvc,
	}
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateUser)
	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	return r
}

// CreateUser registers the caller; uid and email come from the verified ID token.
func (h *userHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateUserRequest
	if err := decodeJSON(r, h.Validator, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	ctx := r.Context()
	user, err := h.UserSvc.Register(ctx, middleware.UID(ctx), middleware.Email(ctx), body.FirstName, body.LastName)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, user)
}

func (h *userHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserSvc.GetProfile(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateUserRequest
	if err := decodeJSON(r, h.Validator, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	user, err := h.UserSvc.UpdateProfile(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}
