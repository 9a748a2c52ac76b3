// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/utils"
	"github.com/MKhiriev/hayahub/internal/validators"
	"github.com/MKhiriev/hayahub/models"
)

type idGenerator interface {
	Generate() string
}

type syncQueue struct {
	validator validators.Validator
	journal   QueueJournal
	ids       idGenerator
	now       func() time.Time

	mu      sync.Mutex
	entries []models.SyncQueueEntry

	logger *logger.Logger
}

// NewSyncQueue creates an empty in-memory queue. When journal is not nil
// every enqueued entry is persisted before it becomes visible and removed
// from the journal once acknowledged.
func NewSyncQueue(journal QueueJournal, logger *logger.Logger) SyncQueue {
	return &syncQueue{
		validator: validators.NewSyncEntryValidator(),
		journal:   journal,
		ids:       utils.NewUUIDGenerator(),
		now:       nowUTC,
		logger:    logger,
	}
}

func (q *syncQueue) Enqueue(ctx context.Context, entry models.SyncQueueEntry) (models.SyncQueueEntry, error) {
	if err := q.validator.Validate(ctx, entry); err != nil {
		return models.SyncQueueEntry{}, newValidationError(err)
	}

	entry.Payload = bytes.Clone(bytes.TrimSpace(entry.Payload))
	if entry.ID == "" {
		entry.ID = q.ids.Generate()
	}
	if entry.EnqueuedAt.IsZero() {
		entry.EnqueuedAt = q.now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.indexOf(entry.ID) >= 0 {
		return models.SyncQueueEntry{}, &ValidationError{Field: "id", Err: ErrDuplicateEntry}
	}

	if q.journal != nil {
		if err := q.journal.Append(ctx, entry); err != nil {
			q.logger.Err(err).
				Str("func", "syncQueue.Enqueue").
				Str("collection", entry.Collection).
				Str("entry_id", entry.ID).
				Msg("failed to journal queue entry")
			return models.SyncQueueEntry{}, fmt.Errorf("%w: %w", ErrLocalStore, err)
		}
	}

	q.entries = append(q.entries, entry)

	return entry, nil
}

func (q *syncQueue) DequeueBatch(maxSize int, exclude ...string) []models.SyncQueueEntry {
	if maxSize <= 0 {
		return nil
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		skip[c] = struct{}{}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	batch := make([]models.SyncQueueEntry, 0, min(maxSize, len(q.entries)))
	for _, e := range q.entries {
		if len(batch) == maxSize {
			break
		}
		if _, ok := skip[e.Collection]; ok {
			continue
		}
		batch = append(batch, e)
	}

	return batch
}

func (q *syncQueue) Acknowledge(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	ack := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		ack[id] = struct{}{}
	}

	q.mu.Lock()
	removed := make([]string, 0, len(ids))
	kept := q.entries[:0]
	for _, e := range q.entries {
		if _, ok := ack[e.ID]; ok {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	clear(q.entries[len(kept):])
	q.entries = kept
	q.mu.Unlock()

	if q.journal == nil || len(removed) == 0 {
		return nil
	}

	// the entry is gone from memory either way; a replay after restart is
	// harmless because applies are idempotent
	if err := q.journal.Remove(ctx, removed...); err != nil {
		q.logger.Err(err).
			Str("func", "syncQueue.Acknowledge").
			Strs("entry_ids", removed).
			Msg("failed to remove acknowledged entries from journal")
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}

	return nil
}

func (q *syncQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *syncQueue) PendingRecordIDs(collection string) map[string]struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := make(map[string]struct{})
	for _, e := range q.entries {
		if e.Collection != collection {
			continue
		}
		if id := e.RecordID(); id != "" {
			pending[id] = struct{}{}
		}
	}

	return pending
}

func (q *syncQueue) Load(ctx context.Context) error {
	if q.journal == nil {
		return nil
	}

	journaled, err := q.journal.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	restored := make([]models.SyncQueueEntry, 0, len(journaled)+len(q.entries))
	for _, e := range journaled {
		if q.indexOf(e.ID) >= 0 {
			continue
		}
		if err = q.validator.Validate(ctx, e); err != nil {
			q.logger.Warn().Err(err).
				Str("func", "syncQueue.Load").
				Str("entry_id", e.ID).
				Msg("skipping malformed journaled entry")
			continue
		}
		restored = append(restored, e)
	}
	q.entries = append(restored, q.entries...)

	q.logger.Info().
		Str("func", "syncQueue.Load").
		Int("restored", len(restored)).
		Msg("queue restored from journal")

	return nil
}

// indexOf must be called with q.mu held.
func (q *syncQueue) indexOf(id string) int {
	for i, e := range q.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
