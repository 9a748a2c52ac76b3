// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/service"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: logger}
}

// NewClientWorkers bundles the connectivity probe loop and the background
// sync job of services.
func NewClientWorkers(services *service.ClientServices, syncInterval time.Duration, logger *logger.Logger) *Workers {
	return NewWorkers(logger,
		WorkerFunc(services.Monitor.Run),
		NewSyncJobWorker(services.SyncJob, syncInterval),
	)
}

// Run starts every worker and blocks until all of them returned. The first
// failure cancels the others and is returned; cancellation of ctx is not a
// failure.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, worker := range w.workers {
		g.Go(func() error {
			err := worker.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Err(err).Str("func", "*Workers.Run").Msg("worker stopped with error")
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// NewSyncJobWorker runs job with interval for as long as the worker runs.
func NewSyncJobWorker(job service.ClientSyncJob, interval time.Duration) Worker {
	return WorkerFunc(func(ctx context.Context) error {
		job.Start(ctx, interval)
		<-ctx.Done()
		job.Stop()
		return nil
	})
}
