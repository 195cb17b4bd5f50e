package audit

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/Samrita-Swain/tawania-backend/internal/httpx"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the audit HTTP endpoints.
type Handler struct {
	service    Service
	devDetails bool
}

func NewHandler(service Service, devDetails bool) *Handler {
	return &Handler{service: service, devDetails: devDetails}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/audits", func(r chi.Router) {
		r.Get("/", h.listAudits)
		r.Post("/", h.createAudit)
		r.Get("/{id}", h.getAudit)
		r.Patch("/{id}/status", h.transitionStatus)
		r.Get("/{id}/items", h.listItems)
		r.Put("/{id}/items", h.submitCounts)
		r.Get("/{id}/report", h.getReport)
	})
}

// parseListFilter validates the raw query string into a typed filter before
// it reaches persistence.
func parseListFilter(q url.Values) (ListFilter, error) {
	f := ListFilter{Search: q.Get("search")}

	if raw := q.Get("status"); raw != "" {
		status := Status(strings.ToUpper(raw))
		switch status {
		case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
			f.Status = status
		default:
			return f, apperr.Validation("invalid status filter: %s", raw)
		}
	}
	if raw := q.Get("warehouse"); raw != "" {
		if _, err := uuid.Parse(raw); err != nil {
			return f, apperr.Validation("invalid warehouse filter: %s", raw)
		}
		f.WarehouseID = raw
	}
	f.Page = 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return f, apperr.Validation("invalid page: %s", raw)
		}
		f.Page = n
	}
	f.PageSize = 20
	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return f, apperr.Validation("invalid pageSize: %s (must be 1-100)", raw)
		}
		f.PageSize = n
	}
	return f, nil
}

func (h *Handler) listAudits(w http.ResponseWriter, r *http.Request) {
	f, err := parseListFilter(r.URL.Query())
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	page, err := h.service.ListAudits(r.Context(), f)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, page)
}

func (h *Handler) createAudit(w http.ResponseWriter, r *http.Request) {
	var req CreateAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	actorID := auth.UserIDFromContext(r.Context())
	result, err := h.service.CreateAudit(r.Context(), actorID, req)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusCreated, result)
}

func (h *Handler) getAudit(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetAudit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, a)
}

func (h *Handler) transitionStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	a, err := h.service.TransitionStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, a)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListZoneItems(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("zone"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, items)
}

func (h *Handler) submitCounts(w http.ResponseWriter, r *http.Request) {
	var req SubmitCountsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, apperr.Validation("invalid request body: %v", err), h.devDetails)
		return
	}
	actorID := auth.UserIDFromContext(r.Context())
	result, err := h.service.SubmitCounts(r.Context(), actorID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, result)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.BuildReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, h.devDetails)
		return
	}
	httpx.Respond(w, http.StatusOK, summary)
}
