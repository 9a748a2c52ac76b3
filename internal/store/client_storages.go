// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
)

// ClientStorages groups the client-side repositories that share one SQLite
// database file.
type ClientStorages struct {
	// RecordRepository is the local cache of every collection.
	RecordRepository LocalRecordRepository
	// QueueJournal persists pending sync entries across restarts.
	QueueJournal QueueJournal

	db *DB
}

// NewClientStorages opens the SQLite file at cfg.DB.DSN (creating it when it
// does not exist yet), applies migrations and wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Debug().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	return newClientStoragesFromDB(db, logger), nil
}

func newClientStoragesFromDB(db *DB, logger *logger.Logger) *ClientStorages {
	return &ClientStorages{
		RecordRepository: NewLocalRecordRepository(db, logger),
		QueueJournal:     NewQueueJournal(db, logger),
		db:               db,
	}
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
