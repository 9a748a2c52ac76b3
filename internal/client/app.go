// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/hayahub/internal/adapter"
	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/service"
	"github.com/MKhiriev/hayahub/internal/store"
	"github.com/MKhiriev/hayahub/internal/tui"
	"github.com/MKhiriev/hayahub/internal/workers"
	"github.com/MKhiriev/hayahub/models"
)

// runner is anything with a blocking run loop: the worker set or the TUI.
type runner interface {
	Run(ctx context.Context) error
}

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

// App owns one client process: the local SQLite cache, the sync core, the
// background workers and the status view.
type App struct {
	services *service.ClientServices
	workers  runner
	ui       runner
	storage  io.Closer

	logger *logger.Logger
}

// NewApp opens local storage, connects the remote adapter, restores the
// persisted sync queue and wires everything the client needs.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, cfg.App, logger)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	services := service.NewClientServices(storages.RecordRepository, storages.QueueJournal, remote, cfg.Workers, logger)
	if err = services.Queue.Load(ctx); err != nil {
		storages.Close()
		return nil, fmt.Errorf("restore sync queue: %w", err)
	}

	ui := tui.New(services.Status, services.SyncJob, cfg.Workers.StatusPollInterval, buildInfo)

	return newApp(
		services,
		workers.NewClientWorkers(services, cfg.Workers.SyncInterval, logger),
		runnerFunc(func(ctx context.Context) error { return ui.Run(ctx) }),
		storages,
		logger,
	), nil
}

func newApp(services *service.ClientServices, workers, ui runner, storage io.Closer, logger *logger.Logger) *App {
	return &App{
		services: services,
		workers:  workers,
		ui:       ui,
		storage:  storage,
		logger:   logger,
	}
}

// Run starts the background workers and the status view and blocks until
// the user quits or ctx is cancelled. Every reconnect schedules a sync pass,
// and one pass is scheduled at startup.
func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)

	unsubscribe := a.services.Monitor.Subscribe(a.onOnline, a.onOffline)
	defer unsubscribe()

	a.services.SyncJob.Nudge(models.TriggerReconnect)

	g, ctx := errgroup.WithContext(ctx)
	uiDone := make(chan struct{})

	g.Go(func() error {
		workerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-uiDone:
				cancel()
			case <-workerCtx.Done():
			}
		}()
		return a.workers.Run(workerCtx)
	})
	g.Go(func() error {
		defer close(uiDone)
		return a.ui.Run(ctx)
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("client run: %w", err)
	}
	return nil
}

// SyncOnce runs a single reconciliation pass in the foreground.
func (a *App) SyncOnce(ctx context.Context) models.SyncResult {
	return a.services.Engine.Trigger(ctx, models.TriggerManual)
}

// Status returns the current sync status snapshot.
func (a *App) Status() models.SyncStatusSnapshot {
	return a.services.Status.Poll()
}

// Records returns the local mutation entry point.
func (a *App) Records() service.ClientRecordService {
	return a.services.RecordService
}

// Close releases local storage.
func (a *App) Close() error {
	if a.storage == nil {
		return nil
	}
	return a.storage.Close()
}

func (a *App) onOnline() {
	a.logger.Info().Str("func", "*App.onOnline").Msg("remote reachable again, scheduling sync")
	a.services.SyncJob.Nudge(models.TriggerReconnect)
}

func (a *App) onOffline() {
	a.logger.Warn().Str("func", "*App.onOffline").Msg("remote unreachable, working offline")
}
