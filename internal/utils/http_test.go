// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/hayahub/models"
)

// ── WriteJSON ────────────────────────────────────────────────────────────────

func TestWriteJSON(t *testing.T) {
	record := models.Record{
		ID:        "0192f0a4-7c3e-7a11-9d2f-6f2b1c3d4e5f",
		Data:      json.RawMessage(`{"amount":12.5}`),
		UpdatedAt: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		Hash:      "ab12",
	}

	tests := []struct {
		name   string
		data   any
		status int
		want   string
	}{
		{name: "snapshot", data: []models.Record{record}, status: http.StatusOK},
		{name: "created", data: map[string]string{"status": "ok"}, status: http.StatusCreated},
		{name: "nil encodes as null", data: nil, status: http.StatusOK, want: "null"},
		{name: "empty slice encodes as array", data: []models.Record{}, status: http.StatusOK, want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)
			require.NoError(t, err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, w.Body.Len(), n)

			want := tt.want
			if want == "" {
				raw, err := json.Marshal(tt.data)
				require.NoError(t, err)
				want = string(raw)
			}
			assert.JSONEq(t, want, w.Body.String())
		})
	}
}

func TestWriteJSON_UnencodableData(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, "application/json", w.Header().Get("Content-Type"))
}

// ── WriteError ───────────────────────────────────────────────────────────────

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, "unknown collection", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unknown collection", body.Error)
}
