// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/hayahub/models"
)

// ConnectivityMonitor owns the process-wide [models.ConnectivityState] and
// turns raw connectivity readings into debounced, edge-triggered events.
type ConnectivityMonitor interface {
	// Subscribe registers callbacks fired once per online/offline
	// transition. Either callback may be nil. The returned function removes
	// the subscription and is safe to call more than once.
	Subscribe(onOnline, onOffline func()) (unsubscribe func())

	// Observe records a connectivity reading. A reading that would flip the
	// state inside the debounce window after the previous transition is
	// ignored; the next reading re-evaluates it.
	Observe(online bool)

	// Run probes the platform signal on a fixed interval and feeds the
	// readings to Observe until ctx is cancelled.
	Run(ctx context.Context) error

	// State returns a copy of the current state.
	State() models.ConnectivityState

	// IsOnline is a shortcut for State().IsOnline.
	IsOnline() bool
}

// SyncQueue is the ordered queue of pending local mutations. Entries leave
// the queue only through Acknowledge.
type SyncQueue interface {
	// Enqueue validates entry, assigns ID and EnqueuedAt when they are empty
	// and appends it. Malformed entries are rejected with *ValidationError.
	// Enqueue never talks to the remote store.
	Enqueue(ctx context.Context, entry models.SyncQueueEntry) (models.SyncQueueEntry, error)

	// DequeueBatch returns, without removing them, up to maxSize oldest
	// entries whose collection is not listed in exclude.
	DequeueBatch(maxSize int, exclude ...string) []models.SyncQueueEntry

	// Acknowledge removes exactly the given entries and keeps the relative
	// order of the rest. Unknown ids are ignored.
	Acknowledge(ctx context.Context, ids ...string) error

	// Size returns the number of pending entries.
	Size() int

	// PendingRecordIDs returns the ids of records of collection that have at
	// least one pending mutation.
	PendingRecordIDs(collection string) map[string]struct{}

	// Load restores journaled entries after a restart.
	Load(ctx context.Context) error
}

// ReconciliationEngine drains the queue against the remote store and
// reconciles local snapshots with remote ones.
type ReconciliationEngine interface {
	// Trigger runs a pass, or joins the pass already running. Failures are
	// reported through the result and never returned.
	Trigger(ctx context.Context, reason models.SyncTrigger) models.SyncResult

	// IsSyncing reports whether a pass is in flight.
	IsSyncing() bool

	// LastResult returns the result of the latest finished pass.
	LastResult() (models.SyncResult, bool)

	// LastSyncAt returns the end time of the latest pass that left every
	// collection synchronized.
	LastSyncAt() (time.Time, bool)
}

// SyncStatusPublisher exposes sync progress to polling consumers.
type SyncStatusPublisher interface {
	// Poll computes the current snapshot. It is cheap and has no side
	// effects.
	Poll() models.SyncStatusSnapshot

	// Run calls sink with a fresh snapshot every interval until ctx is
	// cancelled.
	Run(ctx context.Context, interval time.Duration, sink func(models.SyncStatusSnapshot))
}

// ClientSyncJob runs passes in the background: on a fallback timer and on
// request (reconnects, local mutations).
type ClientSyncJob interface {
	// Start launches the background loop. A running loop is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the loop and waits for it to exit.
	Stop()

	// Nudge asks the loop for a pass without blocking. Requests arriving
	// while one is already pending are merged.
	Nudge(reason models.SyncTrigger)
}

// ClientRecordService is the local mutation entry point used by the
// application. Every write lands in the local store first and is queued for
// the remote store.
type ClientRecordService interface {
	// Create stores a new record with a generated id and queues a create.
	Create(ctx context.Context, collection string, data json.RawMessage) (models.Record, error)

	// Update replaces the record identified by id and queues an update.
	Update(ctx context.Context, collection, id string, data json.RawMessage) (models.Record, error)

	// Delete removes the record and queues a delete.
	Delete(ctx context.Context, collection, id string) error

	// List returns the local snapshot of collection.
	List(ctx context.Context, collection string) ([]models.Record, error)
}
