package pos

import (
	"encoding/json"
	"net/http"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/httpx"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
)

// Handler exposes point-of-sale HTTP endpoints.
type Handler struct {
	service    Service
	devDetails bool
}

func NewHandler(service Service, devDetails bool) *Handler {
	return &Handler{service: service, devDetails: devDetails}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/pos/sales", func(r chi.Router) {
		r.Post("/", h.createSale)
		r.Get("/", h.listSales) // ?warehouse=...
		r.Get("/{id}", h.getSale)
		r.Post("/{id}/refund", h.refund)
	})
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	result, err := h.service.CreateSale(r.Context(), auth.UserIDFromContext(r.Context()), req)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusCreated, result)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	warehouseID := r.URL.Query().Get("warehouse")
	if warehouseID == "" {
		httpx.Error(w, apperr.Validation("warehouse is required"), h.devDetails)
		return
	}
	sales, err := h.service.ListWarehouseSales(r.Context(), warehouseID)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, sales)
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.Refund(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, sale)
}
