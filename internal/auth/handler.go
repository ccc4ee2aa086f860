// marciomma | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/directory"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/middleware"
)

type Handler struct {
	service  *Service
	users    *directory.Service
	validate *validator.Validate
}

func NewHandler(service *Service, users *directory.Service) *Handler {
	return &Handler{
		service:  service,
		users:    users,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the public auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
	})
}

// RegisterProtectedRoutes mounts endpoints that need a valid session.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			core.Unauthorized(w, "invalid email or password")
		case errors.Is(err, ErrAccountPending):
			core.Forbidden(w, "account pending approval")
		case errors.Is(err, core.ErrStoreUnavailable):
			core.ServiceUnavailable(w)
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, session)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req directory.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(
				w,
				core.DuplicateError("an account with this email already exists"),
			)
		case errors.Is(err, core.ErrStoreUnavailable):
			core.ServiceUnavailable(w)
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, directory.ToUserResponse(user))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, "authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), claims); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, "authentication required")
		return
	}

	user, err := h.users.FindUserByEmail(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, core.ErrStoreUnavailable) {
			core.ServiceUnavailable(w)
			return
		}
		core.InternalServerError(w, err)
		return
	}
	if user == nil {
		core.NotFound(w, "user no longer exists")
		return
	}

	core.OK(w, ToSessionUser(user))
}
