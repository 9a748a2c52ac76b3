// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/utils"
	"github.com/MKhiriev/hayahub/models"
)

const (
	testSignKey = "test-sign-key"
	testIssuer  = "hayahub-test"
)

func newTestRemoteStore(t *testing.T, serverURL string) RemoteStore {
	t.Helper()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 2 * time.Second}
	appCfg := config.ClientApp{
		OwnerID:       42,
		TokenSignKey:  testSignKey,
		TokenIssuer:   testIssuer,
		TokenDuration: time.Hour,
	}

	r, err := NewHTTPRemoteStore(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return r
}

func assertBearer(t *testing.T, r *http.Request) {
	t.Helper()
	raw, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
	require.NoError(t, err)
	token, err := utils.ValidateAndParseJWTToken(raw, testSignKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, int64(42), token.OwnerID)
}

func testEntry() models.SyncQueueEntry {
	return models.SyncQueueEntry{
		ID:         "q-1",
		Collection: models.CollectionExpenses,
		Operation:  models.OperationCreate,
		Payload:    json.RawMessage(`{"id":"e1","amount":3}`),
		EnqueuedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ── NewHTTPRemoteStore ──────────────────────────────────────────────────────

func TestNewHTTPRemoteStore_InvalidAddress(t *testing.T) {
	_, err := NewHTTPRemoteStore(config.ClientAdapter{HTTPAddress: ""}, config.ClientApp{}, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

// ── Apply ───────────────────────────────────────────────────────────────────

func TestApply_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, applyPath, r.URL.Path)
		assertBearer(t, r)

		var got models.SyncQueueEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "q-1", got.ID)
		assert.Equal(t, "e1", got.RecordID())

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	r := newTestRemoteStore(t, srv.URL)
	require.NoError(t, r.Apply(context.Background(), testEntry()))
}

func TestApply_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"bad request", http.StatusBadRequest, ErrRejected},
		{"unprocessable", http.StatusUnprocessableEntity, ErrRejected},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"too many requests", http.StatusTooManyRequests, ErrRemoteUnavailable},
		{"internal", http.StatusInternalServerError, ErrRemoteUnavailable},
		{"unavailable", http.StatusServiceUnavailable, ErrRemoteUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newTestRemoteStore(t, srv.URL).Apply(context.Background(), testEntry())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApply_SharedSentinels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestRemoteStore(t, srv.URL).Apply(context.Background(), testEntry())
	assert.ErrorIs(t, err, models.ErrRemoteUnavailable)
	assert.NotErrorIs(t, err, models.ErrRemoteRejected)
}

func TestApply_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestRemoteStore(t, url).Apply(context.Background(), testEntry())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestApply_ReusesToken(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	r := newTestRemoteStore(t, srv.URL)
	require.NoError(t, r.Apply(context.Background(), testEntry()))
	require.NoError(t, r.Apply(context.Background(), testEntry()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
}

func TestApply_MissingSignKey(t *testing.T) {
	r, err := NewHTTPRemoteStore(
		config.ClientAdapter{HTTPAddress: "localhost:1"},
		config.ClientApp{OwnerID: 1, TokenIssuer: "x", TokenDuration: time.Hour},
		logger.Nop(),
	)
	require.NoError(t, err)

	assert.ErrorIs(t, r.Apply(context.Background(), testEntry()), ErrMintingToken)
}

// ── FetchSnapshot ───────────────────────────────────────────────────────────

func TestFetchSnapshot_Success(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sync/snapshot/tasks", r.URL.Path)
		assertBearer(t, r)

		_, _ = utils.WriteJSON(w, models.SnapshotResponse{
			Collection: models.CollectionTasks,
			Records: []models.Record{
				{ID: "t1", Data: json.RawMessage(`{"id":"t1"}`), UpdatedAt: at, Hash: "h1"},
			},
			Length: 1,
		}, http.StatusOK)
	}))
	defer srv.Close()

	records, err := newTestRemoteStore(t, srv.URL).FetchSnapshot(context.Background(), models.CollectionTasks)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "t1", records[0].ID)
	assert.True(t, at.Equal(records[0].UpdatedAt))
}

func TestFetchSnapshot_LengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = utils.WriteJSON(w, models.SnapshotResponse{Collection: "tasks", Length: 3}, http.StatusOK)
	}))
	defer srv.Close()

	_, err := newTestRemoteStore(t, srv.URL).FetchSnapshot(context.Background(), models.CollectionTasks)
	assert.ErrorIs(t, err, ErrDecodingBody)
}

func TestFetchSnapshot_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := newTestRemoteStore(t, srv.URL).FetchSnapshot(context.Background(), models.CollectionTasks)
	assert.ErrorIs(t, err, ErrDecodingBody)
}

func TestFetchSnapshot_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestRemoteStore(t, srv.URL).FetchSnapshot(context.Background(), models.CollectionTasks)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

// ── Ping ────────────────────────────────────────────────────────────────────

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, healthPath, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = utils.WriteJSON(w, models.HealthResponse{Status: "ok"}, http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, newTestRemoteStore(t, srv.URL).Ping(context.Background()))
}

func TestPing_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, newTestRemoteStore(t, srv.URL).Ping(ctx), ErrRemoteUnavailable)
}
