package audit

import (
	"net/url"
	"testing"

	"github.com/Samrita-Swain/tawania-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListFilter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f, err := parseListFilter(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 20, f.PageSize)
		assert.Empty(t, f.Status)
		assert.Empty(t, f.WarehouseID)
	})

	t.Run("accepts a lowercase status", func(t *testing.T) {
		f, err := parseListFilter(url.Values{"status": {"in_progress"}})
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, f.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		_, err := parseListFilter(url.Values{"status": {"ARCHIVED"}})
		var valErr *apperr.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("rejects a malformed warehouse id", func(t *testing.T) {
		_, err := parseListFilter(url.Values{"warehouse": {"abc"}})
		var valErr *apperr.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("accepts a valid warehouse id", func(t *testing.T) {
		id := uuid.NewString()
		f, err := parseListFilter(url.Values{"warehouse": {id}})
		require.NoError(t, err)
		assert.Equal(t, id, f.WarehouseID)
	})

	t.Run("bounds pagination", func(t *testing.T) {
		var valErr *apperr.ValidationError

		_, err := parseListFilter(url.Values{"page": {"0"}})
		assert.ErrorAs(t, err, &valErr)

		_, err = parseListFilter(url.Values{"page": {"x"}})
		assert.ErrorAs(t, err, &valErr)

		_, err = parseListFilter(url.Values{"pageSize": {"101"}})
		assert.ErrorAs(t, err, &valErr)

		f, err := parseListFilter(url.Values{"page": {"3"}, "pageSize": {"50"}})
		require.NoError(t, err)
		assert.Equal(t, 3, f.Page)
		assert.Equal(t, 50, f.PageSize)
	})
}
