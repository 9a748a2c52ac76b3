// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncPhase describes the outcome of the latest reconciliation pass as it is
// presented to the user.
type SyncPhase string

const (
	// SyncPhaseIdle means no pass has run yet.
	SyncPhaseIdle SyncPhase = "idle"
	// SyncPhaseSyncing means a pass is in flight.
	SyncPhaseSyncing SyncPhase = "syncing"
	// SyncPhaseSynced means the last pass drained the queue and reconciled
	// every collection.
	SyncPhaseSynced SyncPhase = "synced"
	// SyncPhasePartial means the last pass finished but some entries or
	// collections could not be synchronized.
	SyncPhasePartial SyncPhase = "partial"
	// SyncPhaseOffline means the remote store is unreachable or the pass
	// ran out of time; the application keeps working locally.
	SyncPhaseOffline SyncPhase = "offline"
)

// SyncTrigger is the reason a reconciliation pass was requested.
type SyncTrigger string

const (
	TriggerReconnect SyncTrigger = "reconnect"
	TriggerManual    SyncTrigger = "manual"
	TriggerTimer     SyncTrigger = "timer"
)

// SyncStatusSnapshot is the cheap, derived view of sync progress consumed by
// polling UIs. It is recomputed on every poll and never persisted.
type SyncStatusSnapshot struct {
	IsSyncing  bool       `json:"is_syncing"`
	QueueSize  int        `json:"queue_size"`
	Phase      SyncPhase  `json:"phase"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
}

// Message returns the short user-facing status line for the snapshot.
func (s SyncStatusSnapshot) Message() string {
	switch {
	case s.IsSyncing:
		return "syncing…"
	case s.Phase == SyncPhaseOffline || s.Phase == SyncPhasePartial:
		return "continuing in offline mode"
	case s.Phase == SyncPhaseSynced:
		return "synced"
	default:
		return "waiting for first sync"
	}
}

// SyncResult summarizes one reconciliation pass.
type SyncResult struct {
	Trigger SyncTrigger `json:"trigger"`
	Phase   SyncPhase   `json:"phase"`

	// Applied is the number of queue entries acknowledged during the pass.
	Applied int `json:"applied"`
	// Remaining is the queue depth when the pass ended.
	Remaining int `json:"remaining"`
	// Pulled is the number of local records created or overwritten from
	// remote snapshots.
	Pulled int `json:"pulled"`

	// Blocked lists collections whose drain stopped on a failed entry.
	Blocked []string `json:"blocked,omitempty"`

	// Coalesced is true when the caller joined a pass started by another
	// trigger instead of starting its own.
	Coalesced bool `json:"coalesced"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
