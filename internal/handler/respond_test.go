package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoa-backend/pkg/errors"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	respondJSON(rec, http.StatusCreated, map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 7, body.Data["id"])
}

func TestRespondError(t *testing.T) {
	t.Run("app errors carry their own status and type", func(t *testing.T) {
		rec := httptest.NewRecorder()

		respondError(rec, errors.NewStateError("poll has expired"))

		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp errors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, errors.ErrorTypeState, resp.Error.Type)
		assert.Equal(t, "poll has expired", resp.Error.Message)
	})

	t.Run("validation details are included", func(t *testing.T) {
		rec := httptest.NewRecorder()

		respondError(rec, errors.NewValidationError("option index 5 is out of range",
			map[string]interface{}{"option_count": 3}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.EqualValues(t, 3, resp.Error.Details["option_count"])
	})

	t.Run("unknown errors become internal errors", func(t *testing.T) {
		rec := httptest.NewRecorder()

		respondError(rec, stderrors.New("connection reset"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp errors.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, errors.ErrorTypeInternal, resp.Error.Type)
		// The wrapped cause stays server-side
		assert.NotContains(t, resp.Error.Message, "connection reset")
	})
}
