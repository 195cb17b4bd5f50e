package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", apperr.Validation("name is required"), http.StatusBadRequest, "name is required"},
		{"not found", apperr.NotFound("audit", "abc"), http.StatusNotFound, "audit abc not found"},
		{"invalid state", apperr.InvalidState("already completed"), http.StatusConflict, "already completed"},
		{"unauthenticated", apperr.Unauthenticated("login required"), http.StatusUnauthorized, "login required"},
		{"transaction", apperr.Transaction("audit creation", errors.New("boom")), http.StatusInternalServerError, "operation failed and was rolled back"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tc.err, false)

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantError, body.Error)
			assert.Empty(t, body.Details)
		})
	}

	t.Run("details only outside production", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Error(rec, errors.New("pq: connection refused"), true)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "pq: connection refused", body.Details)
	})

	t.Run("wrapped domain errors still map", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Error(rec, fmt.Errorf("planning: %w", apperr.NotFound("warehouse", "w1")), false)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(errors.New(`pq: duplicate key value violates unique constraint "products_sku_key"`)))
	assert.True(t, IsDuplicateKey(errors.New("SQLSTATE 23505")))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
	assert.False(t, IsDuplicateKey(nil))
}
