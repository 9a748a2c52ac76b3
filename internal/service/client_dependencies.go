// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/hayahub/models"
)

//go:generate mockgen -source=client_dependencies.go -destination=../mock/client_dependencies_mock.go -package=mock

// RemoteStore is the only view the sync core has of the remote document
// store. The HTTP adapter satisfies it; so does any other transport.
type RemoteStore interface {
	// Apply sends one queued mutation. A nil error is the acknowledgement.
	// Errors matching ErrRemoteRejected are permanent, anything else is
	// treated as transient.
	Apply(ctx context.Context, entry models.SyncQueueEntry) error
	// FetchSnapshot returns every remote record of collection.
	FetchSnapshot(ctx context.Context, collection string) ([]models.Record, error)
	// Ping checks that the remote store is reachable.
	Ping(ctx context.Context) error
}

// LocalStore is the on-device copy of every collection.
type LocalStore interface {
	ReadSnapshot(ctx context.Context, collection string) ([]models.Record, error)
	WriteSnapshot(ctx context.Context, collection string, records []models.Record) error
	SaveRecord(ctx context.Context, collection string, record models.Record) error
	DeleteRecord(ctx context.Context, collection, recordID string) error
}

// QueueJournal persists queue entries so that they survive a restart.
type QueueJournal interface {
	Append(ctx context.Context, entry models.SyncQueueEntry) error
	Remove(ctx context.Context, ids ...string) error
	LoadAll(ctx context.Context) ([]models.SyncQueueEntry, error)
}

// ConnectivityProber reads the platform connectivity signal. An error means
// the state could not be determined.
type ConnectivityProber interface {
	Online(ctx context.Context) (bool, error)
}
