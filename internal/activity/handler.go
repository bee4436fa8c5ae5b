// AngelaMos | 2026
// handler.go

package activity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/activities", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/{leadID}", h.ListForLead)
		r.Post("/", h.Create)
	})
}

func (h *Handler) ListForLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	if !core.IsValidID(leadID) {
		core.OK(w, []ActivityResponse{})
		return
	}

	activities, err := h.service.ListForLead(r.Context(), leadID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToActivityResponseList(activities))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	created, err := h.service.Append(
		r.Context(),
		req,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "Invalid activity type")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "lead")
		case errors.Is(err, core.ErrUnauthorized):
			core.Unauthorized(w, "")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToActivityResponse(created))
}
