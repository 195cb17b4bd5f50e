package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Respond writes body as JSON with the given status code.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Error maps a domain error to its HTTP status and writes the error
// envelope. Internal errors get a generic message; diagnostic detail is
// included only when includeDetails is true (non-production builds).
func Error(w http.ResponseWriter, err error, includeDetails bool) {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		stateErr      *apperr.InvalidStateError
		authErr       *apperr.AuthenticationError
		txErr         *apperr.TransactionError
	)
	switch {
	case errors.As(err, &validationErr):
		Respond(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Msg})
	case errors.As(err, &notFoundErr):
		Respond(w, http.StatusNotFound, ErrorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &stateErr):
		Respond(w, http.StatusConflict, ErrorResponse{Error: stateErr.Msg})
	case errors.As(err, &authErr):
		Respond(w, http.StatusUnauthorized, ErrorResponse{Error: authErr.Msg})
	case errors.As(err, &txErr):
		resp := ErrorResponse{Error: "operation failed and was rolled back"}
		if includeDetails {
			resp.Details = txErr.Error()
		}
		Respond(w, http.StatusInternalServerError, resp)
	default:
		resp := ErrorResponse{Error: "internal server error"}
		if includeDetails {
			resp.Details = err.Error()
		}
		Respond(w, http.StatusInternalServerError, resp)
	}
}

// IsDuplicateKey returns true when the error is a PostgreSQL unique
// constraint violation (code 23505).
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key")
}
