// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/store"
	"github.com/MKhiriev/hayahub/internal/utils"
	"github.com/MKhiriev/hayahub/models"
)

type documentService struct {
	documentRepository store.DocumentRepository
	now                func() time.Time

	logger *logger.Logger
}

func NewDocumentService(documentRepository store.DocumentRepository, logger *logger.Logger) DocumentService {
	return &documentService{
		documentRepository: documentRepository,
		now:                nowUTC,
		logger:             logger,
	}
}

// Apply stores the record carried by a create or update as is, keyed by the
// payload id. The version timestamp is the moment the client queued the
// mutation, so a late replay of an older mutation never overwrites a newer
// copy.
func (d *documentService) Apply(ctx context.Context, ownerID int64, entry models.SyncQueueEntry) error {
	recordID := entry.RecordID()

	if entry.Operation == models.OperationDelete {
		err := d.documentRepository.Delete(ctx, ownerID, entry.Collection, recordID)
		return mapDocumentStoreError(err)
	}

	hash, err := utils.HashRecordData(entry.Payload)
	if err != nil {
		return fmt.Errorf("hash record data: %w", err)
	}

	updatedAt := entry.EnqueuedAt
	if updatedAt.IsZero() {
		updatedAt = d.now()
	}

	record := models.Record{
		ID:        recordID,
		Data:      entry.Payload,
		UpdatedAt: updatedAt.UTC(),
		Hash:      hash,
	}

	if err = d.documentRepository.Upsert(ctx, ownerID, entry.Collection, record); err != nil {
		return mapDocumentStoreError(err)
	}

	d.logger.Debug().
		Str("func", "documentService.Apply").
		Int64("owner_id", ownerID).
		Str("collection", entry.Collection).
		Str("record_id", recordID).
		Str("operation", string(entry.Operation)).
		Msg("mutation applied")
	return nil
}

func (d *documentService) Snapshot(ctx context.Context, ownerID int64, collection string) (models.SnapshotResponse, error) {
	records, err := d.documentRepository.Snapshot(ctx, ownerID, collection)
	if err != nil {
		return models.SnapshotResponse{}, mapDocumentStoreError(err)
	}
	if records == nil {
		records = []models.Record{}
	}

	return models.SnapshotResponse{
		Collection: collection,
		Records:    records,
		Length:     len(records),
	}, nil
}
