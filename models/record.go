// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Record is a single document of an entity collection. A snapshot of a
// collection is the full []Record set at some point in time.
type Record struct {
	// ID is the client-generated identifier of the record, unique inside
	// its collection.
	ID string `json:"id"`

	// Data is the JSON document as the application stores it. It always
	// contains the "id" key mirrored from ID.
	Data json.RawMessage `json:"data"`

	// UpdatedAt is the time of the last write that produced this version.
	UpdatedAt time.Time `json:"updated_at"`

	// Hash is a hex BLAKE2b-256 digest of Data. Used to detect divergence
	// when both sides report the same UpdatedAt.
	Hash string `json:"hash"`
}

// SnapshotResponse is returned by the document server for
// GET /api/sync/snapshot/{collection}.
type SnapshotResponse struct {
	// Collection echoes the requested collection name.
	Collection string `json:"collection"`

	// Records is the full remote snapshot of the collection.
	Records []Record `json:"records"`

	// Length is len(Records), provided so that clients can validate the
	// payload without iterating it.
	Length int `json:"length"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}
