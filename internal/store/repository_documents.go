// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentRepository] over the "documents" table.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (owner_id, collection, record_id).
type documentRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentRepository] backed by db.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	return &documentRepository{
		DB:     db,
		logger: logger,
	}
}

func (d *documentRepository) Upsert(ctx context.Context, ownerID int64, collection string, record models.Record) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertDocumentQuery(ownerID, collection, record)
	if err != nil {
		log.Err(err).Str("func", "documentRepository.Upsert").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = d.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "documentRepository.Upsert").
			Int64("owner_id", ownerID).
			Str("collection", collection).
			Str("record_id", record.ID).
			Msg("failed to upsert document")
		return d.classify(err, ErrExecutingStatement)
	}

	return nil
}

func (d *documentRepository) Delete(ctx context.Context, ownerID int64, collection, recordID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteDocumentQuery(ownerID, collection, recordID)
	if err != nil {
		log.Err(err).Str("func", "documentRepository.Delete").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = d.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "documentRepository.Delete").
			Int64("owner_id", ownerID).
			Str("collection", collection).
			Str("record_id", recordID).
			Msg("failed to delete document")
		return d.classify(err, ErrExecutingStatement)
	}

	return nil
}

func (d *documentRepository) Snapshot(ctx context.Context, ownerID int64, collection string) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSnapshotQuery(ownerID, collection)
	if err != nil {
		log.Err(err).Str("func", "documentRepository.Snapshot").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := d.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Snapshot").
			Int64("owner_id", ownerID).
			Str("collection", collection).
			Msg("failed to execute snapshot query")
		return nil, d.classify(err, ErrExecutingQuery)
	}
	defer rows.Close()

	records := make([]models.Record, 0, 50)
	for rows.Next() {
		var (
			record models.Record
			data   []byte
		)
		if err = rows.Scan(&record.ID, &data, &record.Hash, &record.UpdatedAt); err != nil {
			log.Err(err).
				Str("func", "documentRepository.Snapshot").
				Int64("owner_id", ownerID).
				Msg("failed to scan document row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		record.Data = data
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "documentRepository.Snapshot").
			Int64("owner_id", ownerID).
			Msg("error occurred during rows iteration")
		return nil, d.classify(err, ErrScanningRows)
	}

	return records, nil
}
