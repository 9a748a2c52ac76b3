// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/hayahub/models"
)

type syncStatusPublisher struct {
	queue  SyncQueue
	engine ReconciliationEngine
}

// NewSyncStatusPublisher creates the polling view over queue and engine.
func NewSyncStatusPublisher(queue SyncQueue, engine ReconciliationEngine) SyncStatusPublisher {
	return &syncStatusPublisher{queue: queue, engine: engine}
}

func (p *syncStatusPublisher) Poll() models.SyncStatusSnapshot {
	snapshot := models.SyncStatusSnapshot{
		IsSyncing: p.engine.IsSyncing(),
		QueueSize: p.queue.Size(),
		Phase:     models.SyncPhaseIdle,
	}

	if last, ok := p.engine.LastResult(); ok {
		snapshot.Phase = last.Phase
	}
	if snapshot.IsSyncing {
		snapshot.Phase = models.SyncPhaseSyncing
	}
	if at, ok := p.engine.LastSyncAt(); ok {
		snapshot.LastSyncAt = &at
	}

	return snapshot
}

func (p *syncStatusPublisher) Run(ctx context.Context, interval time.Duration, sink func(models.SyncStatusSnapshot)) {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sink(p.Poll())
		}
	}
}
