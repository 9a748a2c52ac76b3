// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/hayahub/models"
)

// LocalRecordRepository is the SQLite cache of every collection on the
// client device.
type LocalRecordRepository interface {
	// ReadSnapshot returns all records of collection ordered by id.
	ReadSnapshot(ctx context.Context, collection string) ([]models.Record, error)
	// WriteSnapshot atomically replaces the content of collection with records.
	WriteSnapshot(ctx context.Context, collection string, records []models.Record) error
	// SaveRecord inserts or replaces a single record.
	SaveRecord(ctx context.Context, collection string, record models.Record) error
	// DeleteRecord removes a record; deleting a missing record is not an error.
	DeleteRecord(ctx context.Context, collection, recordID string) error
}

// QueueJournal persists pending sync queue entries so that they survive a
// restart of the client.
type QueueJournal interface {
	// Append stores entry at the tail of the journal.
	Append(ctx context.Context, entry models.SyncQueueEntry) error
	// Remove deletes the given entries. Unknown ids are ignored.
	Remove(ctx context.Context, ids ...string) error
	// LoadAll returns every journaled entry in append order.
	LoadAll(ctx context.Context) ([]models.SyncQueueEntry, error)
}
