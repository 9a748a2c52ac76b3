// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/handler"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestNewServer_NoHandlers(t *testing.T) {
	cfg := &config.ServerConfig{HTTPAddress: ":8080"}

	s, err := NewServer(nil, cfg, logger.Nop())
	assert.ErrorIs(t, err, errNoHTTPHandler)
	assert.Nil(t, s)

	s, err = NewServer(&handler.Handlers{}, cfg, logger.Nop())
	assert.ErrorIs(t, err, errNoHTTPHandler)
	assert.Nil(t, s)
}

func TestServer_RunUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := &config.ServerConfig{
		HTTPAddress:    freeAddress(t),
		RequestTimeout: time.Second,
		TokenSignKey:   "key",
		TokenIssuer:    "hayahub",
	}
	handlers, err := handler.NewHandlers(nil, cfg, models.NewAppBuildInfo("v9", "", ""), logger.Nop())
	require.NoError(t, err)

	srv, err := NewServer(handlers, cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.(*server).run(ctx) }()

	client := &http.Client{Timeout: time.Second}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + cfg.HTTPAddress + "/api/version")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunFailsOnBusyAddress(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := &config.ServerConfig{HTTPAddress: l.Addr().String(), RequestTimeout: time.Second}
	handlers, err := handler.NewHandlers(nil, cfg, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)

	srv, err := NewServer(handlers, cfg, logger.Nop())
	require.NoError(t, err)

	err = srv.(*server).run(context.Background())
	assert.Error(t, err)
}
