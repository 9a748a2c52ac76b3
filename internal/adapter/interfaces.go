// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter implements the remote store contract of the sync core over
// HTTP, talking to the HayaHub document server.
//
// Transport failures and 5xx answers are reported as [ErrRemoteUnavailable];
// 4xx answers as [ErrRejected] or [ErrUnauthorized]. Both wrap the shared
// sentinels from the models package so the core can classify errors with
// [errors.Is] without importing this package.
package adapter

import (
	"context"

	"github.com/MKhiriev/hayahub/models"
)

// RemoteStore is the verb-based view of the remote document store.
type RemoteStore interface {
	// Apply sends one queued mutation. A nil error is the acknowledgement.
	Apply(ctx context.Context, entry models.SyncQueueEntry) error

	// FetchSnapshot returns every remote record of collection.
	FetchSnapshot(ctx context.Context, collection string) ([]models.Record, error)

	// Ping checks that the remote store is reachable.
	Ping(ctx context.Context) error
}
