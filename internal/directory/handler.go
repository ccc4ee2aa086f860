// marciomma | 2026
// handler.go

package directory

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
)

// Handler exposes the admin-only user management surface. Registration and
// login live in the auth package; this is approval and inspection.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Post("/{userID}/approve", h.ApproveUser)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	pending, approved, err := h.service.ListUsers(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrStoreUnavailable) {
			core.ServiceUnavailable(w)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, UserListResponse{
		Pending:  ToUserResponseList(pending),
		Approved: ToUserResponseList(approved),
	})
}

func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		core.BadRequest(w, "user ID required")
		return
	}

	user, err := h.service.Approve(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, core.ErrStoreUnavailable) {
			core.ServiceUnavailable(w)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}
