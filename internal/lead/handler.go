// AngelaMos | 2026
// handler.go

package lead

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
	r.Route("/leads", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{leadID}", h.Get)
		r.Put("/{leadID}", h.Update)
		r.Delete("/{leadID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToLeadResponseList(leads))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	created, err := h.service.Create(
		r.Context(),
		req,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		handleLeadError(w, err)
		return
	}

	core.Created(w, ToLeadResponse(created))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	if !core.IsValidID(id) {
		core.NotFound(w, "lead")
		return
	}

	lead, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleLeadError(w, err)
		return
	}

	core.OK(w, ToLeadResponse(lead))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	if !core.IsValidID(id) {
		core.NotFound(w, "lead")
		return
	}

	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.Update(r.Context(), id, req.ToPatch())
	if err != nil {
		handleLeadError(w, err)
		return
	}

	core.OK(w, ToLeadResponse(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	if !core.IsValidID(id) {
		core.NotFound(w, "lead")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleLeadError(w, err)
		return
	}

	core.OK(w, DeleteLeadResponse{
		Message: "Lead deleted successfully",
		ID:      id,
	})
}

func handleLeadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "lead")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid lead data")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.InternalServerError(w, err)
	}
}
