package loyalty

import (
	"encoding/json"
	"net/http"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes loyalty HTTP endpoints.
type Handler struct {
	service    Service
	devDetails bool
}

func NewHandler(service Service, devDetails bool) *Handler {
	return &Handler{service: service, devDetails: devDetails}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/loyalty", func(r chi.Router) {
		r.Post("/customers", h.createCustomer)
		r.Get("/customers", h.listCustomers)
		r.Get("/customers/{id}", h.getCustomer)
		r.Get("/customers/{id}/transactions", h.listTransactions)
		r.Post("/transactions", h.recordTransaction)
	})
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	c, err := h.service.CreateCustomer(r.Context(), req)
	if err != nil {
		if httpx.IsDuplicateKey(err) {
			httpx.Respond(w, http.StatusConflict, httpx.ErrorResponse{Error: "a customer with this email or phone already exists"})
			return
		}
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusCreated, c)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, customers)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.ListTransactions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, transactions)
}

func (h *Handler) recordTransaction(w http.ResponseWriter, r *http.Request) {
	var req RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	result, err := h.service.RecordTransaction(r.Context(), req)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusCreated, result)
}
