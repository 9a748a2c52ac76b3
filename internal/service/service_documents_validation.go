// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/hayahub/internal/validators"
	"github.com/MKhiriev/hayahub/models"
)

// DocumentServiceWrapper defines middleware composition for DocumentService.
// Implementations wrap an existing DocumentService to add behavior such as
// validating.
type DocumentServiceWrapper interface {
	Wrap(DocumentService) DocumentService // returns a decorated DocumentService applying additional behavior
}

type DocumentValidationService struct {
	inner     DocumentService
	validator validators.Validator
}

func NewDocumentValidationService() DocumentServiceWrapper {
	return &DocumentValidationService{
		validator: validators.NewSyncEntryValidator(),
	}
}

func (v *DocumentValidationService) Apply(ctx context.Context, ownerID int64, entry models.SyncQueueEntry) error {
	if ownerID <= 0 {
		return &ValidationError{Field: "owner_id", Err: ErrInvalidOwnerID}
	}

	// entry must carry:
	//  - a known collection
	//  - create, update or delete
	//  - a JSON object payload with a string "id"
	if err := v.validator.Validate(ctx, entry); err != nil {
		return newValidationError(err)
	}

	return v.inner.Apply(ctx, ownerID, entry)
}

func (v *DocumentValidationService) Snapshot(ctx context.Context, ownerID int64, collection string) (models.SnapshotResponse, error) {
	if ownerID <= 0 {
		return models.SnapshotResponse{}, &ValidationError{Field: "owner_id", Err: ErrInvalidOwnerID}
	}

	if err := v.validator.Validate(ctx, collection); err != nil {
		return models.SnapshotResponse{}, newValidationError(err)
	}

	return v.inner.Snapshot(ctx, ownerID, collection)
}

func (v *DocumentValidationService) Wrap(wrapper DocumentService) DocumentService {
	v.inner = wrapper
	return v
}
