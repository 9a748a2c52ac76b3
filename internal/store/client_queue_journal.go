// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

// queueJournal keeps pending sync entries in the "sync_queue" table. The
// autoincrement seq column preserves append order across restarts.
type queueJournal struct {
	*DB
	logger *logger.Logger
}

// NewQueueJournal constructs a [QueueJournal] over db.
func NewQueueJournal(db *DB, logger *logger.Logger) QueueJournal {
	return &queueJournal{
		DB:     db,
		logger: logger,
	}
}

func (j *queueJournal) Append(ctx context.Context, entry models.SyncQueueEntry) error {
	_, err := j.DB.ExecContext(ctx, insertQueueEntry,
		entry.ID, entry.Collection, string(entry.Operation), string(entry.Payload), entry.EnqueuedAt)
	if err != nil {
		j.logger.Err(err).
			Str("func", "queueJournal.Append").
			Str("entry_id", entry.ID).
			Str("collection", entry.Collection).
			Msg("failed to journal queue entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (j *queueJournal) Remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := buildRemoveQueueEntriesQuery(ids)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = j.DB.ExecContext(ctx, query, args...); err != nil {
		j.logger.Err(err).
			Str("func", "queueJournal.Remove").
			Int("count", len(ids)).
			Msg("failed to remove journaled entries")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (j *queueJournal) LoadAll(ctx context.Context) ([]models.SyncQueueEntry, error) {
	log := j.logger

	rows, err := j.DB.QueryContext(ctx, selectQueueEntries)
	if err != nil {
		log.Err(err).Str("func", "queueJournal.LoadAll").Msg("failed to read queue journal")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.SyncQueueEntry, 0, 16)
	for rows.Next() {
		var (
			entry     models.SyncQueueEntry
			operation string
			payload   []byte
		)
		if err = rows.Scan(&entry.ID, &entry.Collection, &operation, &payload, &entry.EnqueuedAt); err != nil {
			log.Err(err).Str("func", "queueJournal.LoadAll").Msg("failed to scan queue entry")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entry.Operation = models.Operation(operation)
		entry.Payload = payload
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "queueJournal.LoadAll").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func buildRemoveQueueEntriesQuery(ids []string) (string, []any, error) {
	return sq.Delete("sync_queue").
		Where(sq.Eq{"entry_id": ids}).
		PlaceholderFormat(sq.Question).
		ToSql()
}
