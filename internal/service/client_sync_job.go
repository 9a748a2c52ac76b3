// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

type clientSyncJob struct {
	engine ReconciliationEngine
	nudges chan models.SyncTrigger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewClientSyncJob creates a clientSyncJob that triggers engine on a ticker
// and on Nudge. The job is idle until Start is called.
func NewClientSyncJob(engine ReconciliationEngine, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{
		engine: engine,
		nudges: make(chan models.SyncTrigger, 1),
		logger: logger,
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that runs a timer pass every interval and
// a pass for every nudge. If interval is zero or negative it defaults to
// [config.DefaultSyncInterval]. The goroutine exits when ctx is cancelled or
// Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.run(jobCtx, models.TriggerTimer)
			case reason := <-j.nudges:
				j.run(jobCtx, reason)
			}
		}
	}()
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Nudge implements ClientSyncJob. When a request is already pending the new
// one is dropped; the pending pass will pick up whatever is queued.
func (j *clientSyncJob) Nudge(reason models.SyncTrigger) {
	select {
	case j.nudges <- reason:
	default:
	}
}

func (j *clientSyncJob) run(ctx context.Context, reason models.SyncTrigger) {
	result := j.engine.Trigger(ctx, reason)
	j.logger.Debug().
		Str("func", "clientSyncJob.run").
		Str("reason", string(reason)).
		Str("phase", string(result.Phase)).
		Bool("coalesced", result.Coalesced).
		Msg("background sync pass done")
}
