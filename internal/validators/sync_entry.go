// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/hayahub/models"
)

const (
	FieldCollection = "collection"
	FieldOperation  = "operation"
	FieldPayload    = "payload"
	FieldRecordID   = "record_id"
)

var allSyncEntryFields = []string{FieldCollection, FieldOperation, FieldPayload, FieldRecordID}

// SyncEntryValidator checks the shape of a queued mutation: a known
// collection, a supported operation and a JSON object payload carrying the
// record id.
type SyncEntryValidator struct {
}

func NewSyncEntryValidator() Validator {
	return &SyncEntryValidator{}
}

// Validate accepts models.SyncQueueEntry (value or pointer) and a bare
// collection name (string). When fields are given only those checks run.
func (v *SyncEntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncQueueEntry:
		return v.validateEntry(ctx, value, fields...)
	case *models.SyncQueueEntry:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateEntry(ctx, *value, fields...)
	case string:
		return validateCollection(value)
	default:
		return ErrUnsupportedType
	}
}

func (v *SyncEntryValidator) validateEntry(_ context.Context, entry models.SyncQueueEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = allSyncEntryFields
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldCollection:
			err = validateCollection(entry.Collection)
		case FieldOperation:
			if !entry.Operation.Valid() {
				err = fmt.Errorf("%w: %q", ErrInvalidOperation, entry.Operation)
			}
		case FieldPayload:
			err = validatePayloadObject(entry.Payload)
		case FieldRecordID:
			if entry.RecordID() == "" {
				err = ErrMissingRecordID
			}
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func validateCollection(name string) error {
	if !models.IsKnownCollection(name) {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return nil
}

func validatePayloadObject(payload json.RawMessage) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return ErrInvalidPayload
	}
	return nil
}
