package transfer

import (
	"encoding/json"
	"net/http"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/httpx"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
)

// Handler exposes transfer HTTP endpoints.
type Handler struct {
	service    Service
	devDetails bool
}

func NewHandler(service Service, devDetails bool) *Handler {
	return &Handler{service: service, devDetails: devDetails}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/transfers", func(r chi.Router) {
		r.Post("/", h.createTransfer)
		r.Get("/{id}", h.getTransfer)
		r.Get("/", h.listTransfers) // ?warehouse=...&status=...
		r.Post("/{id}/dispatch", h.dispatch)
		r.Post("/{id}/receive", h.receive)
		r.Post("/{id}/cancel", h.cancel)
	})
}

func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	var req CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	t, err := h.service.CreateTransfer(r.Context(), auth.UserIDFromContext(r.Context()), req)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusCreated, t)
}

func (h *Handler) getTransfer(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetTransfer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, t)
}

func (h *Handler) listTransfers(w http.ResponseWriter, r *http.Request) {
	warehouseID := r.URL.Query().Get("warehouse")
	if warehouseID == "" {
		httpx.Error(w, apperr.Validation("warehouse is required"), h.devDetails)
		return
	}
	transfers, err := h.service.ListWarehouseTransfers(r.Context(), warehouseID, r.URL.Query().Get("status"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, transfers)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Dispatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, t)
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Receive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, result)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
