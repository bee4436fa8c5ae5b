// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts user administration, open to ADMIN and MANAGER.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireStaff)

		r.Get("/", h.ListUsers)
		r.Post("/{userID}/reset-password", h.ResetPassword)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
	}

	users, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "role must be one of: ADMIN MANAGER SALES_EXECUTIVE")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponseList(users))
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")
	if !core.IsValidID(targetID) {
		core.NotFound(w, "user")
		return
	}

	actorID := middleware.GetUserID(r.Context())

	tempPassword, err := h.service.ResetPassword(r.Context(), actorID, targetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ResetPasswordResponse{
		Message:           "User password reset successfully",
		TemporaryPassword: tempPassword,
	})
}
