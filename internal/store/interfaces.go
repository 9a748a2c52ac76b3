// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/hayahub/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// DocumentRepository is the PostgreSQL document store behind the reference
// document server. Every operation is scoped to one owner.
type DocumentRepository interface {
	// Upsert inserts record or replaces the stored copy unless the stored
	// copy is newer.
	Upsert(ctx context.Context, ownerID int64, collection string, record models.Record) error
	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, ownerID int64, collection, recordID string) error
	// Snapshot returns every record of collection ordered by id.
	Snapshot(ctx context.Context, ownerID int64, collection string) ([]models.Record, error)
}

// ErrorClassificator decides whether a database error is worth retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
