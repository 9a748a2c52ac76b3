// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/utils"
	"github.com/MKhiriev/hayahub/models"
)

const (
	healthPath   = "/api/health"
	applyPath    = "/api/sync/apply"
	snapshotPath = "/api/sync/snapshot/{collection}"

	// tokens are re-minted this long before they expire
	tokenRefreshMargin = 30 * time.Second
)

type httpRemoteStore struct {
	client *utils.HTTPClient
	app    config.ClientApp

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the HTTP implementation of [RemoteStore].
// Requests carry a bearer token minted locally from appCfg with the shared
// signing key; the token is cached until shortly before it expires.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteStore, error) {
	baseURL := utils.NormalizeBaseURL(adapterCfg.HTTPAddress)
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, adapterCfg.HTTPAddress)
	}

	return &httpRemoteStore{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		app:    appCfg,
		logger: logger,
	}, nil
}

// Apply implements [RemoteStore]. It POSTs the entry to /api/sync/apply.
func (h *httpRemoteStore) Apply(ctx context.Context, entry models.SyncQueueEntry) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(entry).
		Post(applyPath)
	if err != nil {
		return mapTransportError("apply request", err)
	}

	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().
			Str("func", "httpRemoteStore.Apply").
			Str("entry_id", entry.ID).
			Int("status", resp.StatusCode()).
			Msg("remote store refused mutation")
		return err
	}

	return nil
}

// FetchSnapshot implements [RemoteStore]. It GETs
// /api/sync/snapshot/{collection} and checks the declared length.
func (h *httpRemoteStore) FetchSnapshot(ctx context.Context, collection string) ([]models.Record, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetPathParam("collection", collection).
		Get(snapshotPath)
	if err != nil {
		return nil, mapTransportError("snapshot request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var snapshot models.SnapshotResponse
	if err = json.Unmarshal(resp.Body(), &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingBody, err)
	}
	if snapshot.Length != len(snapshot.Records) {
		return nil, fmt.Errorf("%w: declared %d records, got %d", ErrDecodingBody, snapshot.Length, len(snapshot.Records))
	}

	return snapshot.Records, nil
}

// Ping implements [RemoteStore] with GET /api/health.
func (h *httpRemoteStore) Ping(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(healthPath)
	if err != nil {
		return mapTransportError("health request", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) (*resty.Request, error) {
	token, err := h.currentToken()
	if err != nil {
		return nil, err
	}

	return h.client.R().
		SetContext(ctx).
		SetAuthToken(token), nil
}

func (h *httpRemoteStore) currentToken() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.token != "" && time.Until(h.expiresAt) > tokenRefreshMargin {
		return h.token, nil
	}

	token, err := utils.GenerateJWTToken(h.app.TokenIssuer, h.app.OwnerID, h.app.TokenDuration, h.app.TokenSignKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMintingToken, err)
	}

	h.token = token.SignedString
	h.expiresAt = time.Now().Add(h.app.TokenDuration)

	return h.token, nil
}
