package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service    Service
	devDetails bool
}

func NewHandler(service Service, devDetails bool) *Handler {
	return &Handler{service: service, devDetails: devDetails}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/catalog", func(r chi.Router) {
		r.Post("/categories", h.createCategory)
		r.Get("/categories", h.listCategories)
		r.Post("/products", h.createProduct)
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
	})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	c, err := h.service.CreateCategory(r.Context(), body.Name)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusCreated, c)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, categories)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		if httpx.IsDuplicateKey(err) {
			httpx.Respond(w, http.StatusConflict, httpx.ErrorResponse{Error: "a product with this sku already exists"})
			return
		}
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}
