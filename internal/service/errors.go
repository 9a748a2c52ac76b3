// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/hayahub/models"
)

var (
	// ErrValidation is matched by every [*ValidationError].
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEntry is returned when an entry with the same id is
	// already queued.
	ErrDuplicateEntry = errors.New("entry is already queued")

	// ErrRemoteUnavailable is the transient remote failure kind. The queue is
	// left intact and the next pass retries.
	ErrRemoteUnavailable = models.ErrRemoteUnavailable
	// ErrRemoteRejected is the permanent remote refusal kind.
	ErrRemoteRejected = models.ErrRemoteRejected

	// ErrSyncTimeout is reported when a pass exceeds its wall-clock budget.
	ErrSyncTimeout = errors.New("sync pass exceeded its time budget")

	ErrLocalStore       = errors.New("local store failure")
	ErrRecordNotFound   = errors.New("record not found")
	ErrStoreUnavailable = errors.New("document store unavailable")
	ErrInvalidOwnerID   = errors.New("owner id must be positive")
)

// ValidationError reports a malformed mutation. Entries failing validation
// are never queued.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", ErrValidation, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrValidation, e.Field, e.Err)
}

// Unwrap lets errors.Is match both [ErrValidation] and the validator cause.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}
