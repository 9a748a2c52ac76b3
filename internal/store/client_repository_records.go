// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

// localRecordRepository is the SQLite-backed implementation of
// [LocalRecordRepository]. Records of all collections share the "records"
// table keyed by (collection, record_id).
type localRecordRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalRecordRepository constructs a [LocalRecordRepository] over db.
func NewLocalRecordRepository(db *DB, logger *logger.Logger) LocalRecordRepository {
	return &localRecordRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *localRecordRepository) ReadSnapshot(ctx context.Context, collection string) ([]models.Record, error) {
	log := r.logger

	rows, err := r.DB.QueryContext(ctx, selectCollectionRecords, collection)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.ReadSnapshot").
			Str("collection", collection).
			Msg("failed to execute query for reading local snapshot")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
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
				Str("func", "localRecordRepository.ReadSnapshot").
				Str("collection", collection).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		record.Data = data
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.ReadSnapshot").
			Str("collection", collection).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

// WriteSnapshot replaces the collection inside one transaction, so readers
// never observe a half-written snapshot.
func (r *localRecordRepository) WriteSnapshot(ctx context.Context, collection string, records []models.Record) (err error) {
	log := r.logger

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.WriteSnapshot").
			Str("collection", collection).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteCollectionRecords, collection); err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.WriteSnapshot").
			Str("collection", collection).
			Msg("failed to clear collection")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertRecord)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.WriteSnapshot").
			Msg("failed to prepare insert statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for i, record := range records {
		if _, err = stmt.ExecContext(ctx, collection, record.ID, string(record.Data), record.Hash, record.UpdatedAt); err != nil {
			log.Err(err).
				Str("func", "localRecordRepository.WriteSnapshot").
				Str("collection", collection).
				Str("record_id", record.ID).
				Int("iteration", i).
				Msg("failed to insert record")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.WriteSnapshot").
			Str("collection", collection).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *localRecordRepository) SaveRecord(ctx context.Context, collection string, record models.Record) error {
	if _, err := r.DB.ExecContext(ctx, upsertRecord, collection, record.ID, string(record.Data), record.Hash, record.UpdatedAt); err != nil {
		r.logger.Err(err).
			Str("func", "localRecordRepository.SaveRecord").
			Str("collection", collection).
			Str("record_id", record.ID).
			Msg("failed to save record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *localRecordRepository) DeleteRecord(ctx context.Context, collection, recordID string) error {
	if _, err := r.DB.ExecContext(ctx, deleteRecord, collection, recordID); err != nil {
		r.logger.Err(err).
			Str("func", "localRecordRepository.DeleteRecord").
			Str("collection", collection).
			Str("record_id", recordID).
			Msg("failed to delete record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
