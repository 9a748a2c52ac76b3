// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/hayahub/internal/store"
	"github.com/MKhiriev/hayahub/internal/validators"
)

// newValidationError attaches the offending field to a validator error.
func newValidationError(err error) *ValidationError {
	field := ""
	switch {
	case errors.Is(err, validators.ErrUnknownCollection):
		field = validators.FieldCollection
	case errors.Is(err, validators.ErrInvalidOperation):
		field = validators.FieldOperation
	case errors.Is(err, validators.ErrInvalidPayload):
		field = validators.FieldPayload
	case errors.Is(err, validators.ErrMissingRecordID):
		field = validators.FieldRecordID
	}
	return &ValidationError{Field: field, Err: err}
}

// isPermanentRemoteError reports whether retrying an apply within the same
// pass is pointless.
func isPermanentRemoteError(err error) bool {
	return errors.Is(err, ErrRemoteRejected)
}

// mapDocumentStoreError translates repository failures for the handler layer.
func mapDocumentStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrTransient) {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return err
}
