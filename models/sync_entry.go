// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Operation is the kind of local mutation carried by a [SyncQueueEntry].
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Valid reports whether o is one of the supported mutation kinds.
func (o Operation) Valid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// SyncQueueEntry is a pending local mutation awaiting propagation to the
// remote store. It is created when the user changes a record locally and is
// removed from the queue only after the remote store acknowledged it.
type SyncQueueEntry struct {
	// ID identifies the entry inside the queue (UUIDv7, time ordered).
	ID string `json:"id"`

	// Collection is the entity collection the mutation belongs to
	// (e.g. "expenses"). Ordering is guaranteed per collection only.
	Collection string `json:"collection"`

	// Operation is the mutation kind: create, update or delete.
	Operation Operation `json:"operation"`

	// Payload is the JSON object describing the record. It always carries
	// the record identifier under the "id" key.
	Payload json.RawMessage `json:"payload"`

	// EnqueuedAt is the moment the mutation entered the queue.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// RecordID extracts the "id" field of the payload. It returns an empty
// string when the payload is not an object or has no string id.
func (e SyncQueueEntry) RecordID() string {
	var probe struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(e.Payload, &probe); err != nil {
		return ""
	}
	id, _ := probe.ID.(string)
	return id
}
