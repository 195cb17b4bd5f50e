package auth

import (
	"encoding/json"
	"net/http"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the login endpoint.
type Handler struct {
	service    Service
	devDetails bool
}

func NewHandler(service Service, devDetails bool) *Handler {
	return &Handler{service: service, devDetails: devDetails}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Post("/api/v1/auth/login", h.login)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	token, err := h.service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"token": token})
}
