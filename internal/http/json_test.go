package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpx "github.com/bistronome/resto-ui-api/internal/http"
)

func TestWritePage_Envelope(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset, total  int
		currentPage, lastPage int
	}{
		{name: "first page", limit: 10, offset: 0, total: 35, currentPage: 1, lastPage: 4},
		{name: "middle page", limit: 10, offset: 20, total: 35, currentPage: 3, lastPage: 4},
		{name: "empty result", limit: 10, offset: 0, total: 0, currentPage: 1, lastPage: 1},
		{name: "exact fit", limit: 5, offset: 5, total: 10, currentPage: 2, lastPage: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			httpx.WritePage(rec, []string{"row"}, tt.limit, tt.offset, tt.total)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Data        []string `json:"data"`
				CurrentPage int      `json:"current_page"`
				LastPage    int      `json:"last_page"`
				PerPage     int      `json:"per_page"`
				Total       int      `json:"total"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.currentPage, body.CurrentPage)
			assert.Equal(t, tt.lastPage, body.LastPage)
			assert.Equal(t, tt.limit, body.PerPage)
			assert.Equal(t, tt.total, body.Total)
			assert.Equal(t, []string{"row"}, body.Data)
		})
	}
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"known":1,"unknown":2}`))

	var dst struct {
		Known int `json:"known"`
	}
	ok := httpx.DecodeJSON(rec, req, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteError_Shape(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteError(rec, httpx.ErrorParams{
		Code:    http.StatusConflict,
		ErrCode: "email_exists",
		Err:     assert.AnError,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, "email_exists", body["error"])
	assert.NotEmpty(t, body["message"])
}
