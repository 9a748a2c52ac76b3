// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/hayahub/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// DocumentService is the business layer of the reference document server.
type DocumentService interface {
	// Apply executes one queued client mutation for ownerID. create and
	// update upsert the record, delete removes it. Replaying a mutation is
	// harmless.
	Apply(ctx context.Context, ownerID int64, entry models.SyncQueueEntry) error

	// Snapshot returns every record of collection owned by ownerID.
	Snapshot(ctx context.Context, ownerID int64, collection string) (models.SnapshotResponse, error)
}

// HealthService reports whether the server can serve requests.
type HealthService interface {
	Ping(ctx context.Context) error
}
