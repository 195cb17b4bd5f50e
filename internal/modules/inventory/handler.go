package inventory

import (
	"encoding/json"
	"net/http"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct {
	service    Service
	devDetails bool
}

func NewHandler(service Service, devDetails bool) *Handler {
	return &Handler{service: service, devDetails: devDetails}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/inventory", func(r chi.Router) {
		r.Post("/items", h.upsertItem)
		r.Get("/items/{id}", h.getItem)
		r.Patch("/items/{id}/adjust", h.adjust)
		r.Get("/warehouses/{warehouse_id}/items", h.listByWarehouse)
	})
}

func (h *Handler) upsertItem(w http.ResponseWriter, r *http.Request) {
	var req UpsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	item, err := h.service.UpsertItem(r.Context(), req)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusCreated, item)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, item)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	item, err := h.service.Adjust(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, item)
}

func (h *Handler) listByWarehouse(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListByWarehouse(r.Context(), chi.URLParam(r, "warehouse_id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, items)
}
