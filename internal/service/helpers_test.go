// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

// memLocalStore is an in-memory LocalStore.
type memLocalStore struct {
	mu          sync.Mutex
	collections map[string]map[string]models.Record
	writes      int
}

func newMemLocalStore() *memLocalStore {
	return &memLocalStore{collections: make(map[string]map[string]models.Record)}
}

func (s *memLocalStore) ReadSnapshot(_ context.Context, collection string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]models.Record, 0, len(s.collections[collection]))
	for _, r := range s.collections[collection] {
		records = append(records, r)
	}
	slices.SortFunc(records, func(a, b models.Record) int { return strings.Compare(a.ID, b.ID) })
	return records, nil
}

func (s *memLocalStore) WriteSnapshot(_ context.Context, collection string, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	snapshot := make(map[string]models.Record, len(records))
	for _, r := range records {
		snapshot[r.ID] = r
	}
	s.collections[collection] = snapshot
	return nil
}

func (s *memLocalStore) SaveRecord(_ context.Context, collection string, record models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]models.Record)
	}
	s.collections[collection][record.ID] = record
	return nil
}

func (s *memLocalStore) DeleteRecord(_ context.Context, collection, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], recordID)
	return nil
}

func (s *memLocalStore) get(collection, id string) (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.collections[collection][id]
	return r, ok
}

// fakeRemote is a scriptable RemoteStore recording every Apply.
type fakeRemote struct {
	mu        sync.Mutex
	applied   []models.SyncQueueEntry
	snapshots map[string][]models.Record

	applyFn    func(ctx context.Context, entry models.SyncQueueEntry) error
	snapshotFn func(ctx context.Context, collection string) ([]models.Record, error)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{snapshots: make(map[string][]models.Record)}
}

func (f *fakeRemote) Apply(ctx context.Context, entry models.SyncQueueEntry) error {
	if f.applyFn != nil {
		if err := f.applyFn(ctx, entry); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, entry)
	return nil
}

func (f *fakeRemote) FetchSnapshot(ctx context.Context, collection string) ([]models.Record, error) {
	if f.snapshotFn != nil {
		return f.snapshotFn(ctx, collection)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.snapshots[collection]), nil
}

func (f *fakeRemote) Ping(context.Context) error {
	return nil
}

func (f *fakeRemote) appliedEntries() []models.SyncQueueEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.applied)
}

func testWorkers() config.ClientWorkers {
	return config.ClientWorkers{
		SyncTimeout:           2 * time.Second,
		BackgroundSyncTimeout: 2 * time.Second,
		BatchSize:             50,
		MaxApplyAttempts:      3,
		ConflictPolicy:        models.ConflictRemoteWins,
	}
}

func newTestEngine(queue SyncQueue, remote RemoteStore, local LocalStore, monitor ConnectivityMonitor, cfg config.ClientWorkers) *reconciliationEngine {
	e := newReconciliationEngine(queue, remote, local, monitor, newCollectionLocks(), cfg, logger.Nop())
	e.retryBaseDelay = time.Millisecond
	return e
}

func newTestQueue() *syncQueue {
	return NewSyncQueue(nil, logger.Nop()).(*syncQueue)
}

func testEntry(collection, recordID string) models.SyncQueueEntry {
	return models.SyncQueueEntry{
		Collection: collection,
		Operation:  models.OperationCreate,
		Payload:    json.RawMessage(fmt.Sprintf(`{"id":%q,"amount":10}`, recordID)),
	}
}

func mustEnqueue(t *testing.T, q SyncQueue, entries ...models.SyncQueueEntry) []models.SyncQueueEntry {
	t.Helper()
	out := make([]models.SyncQueueEntry, 0, len(entries))
	for _, e := range entries {
		queued, err := q.Enqueue(context.Background(), e)
		require.NoError(t, err)
		out = append(out, queued)
	}
	return out
}

func recordIDs(entries []models.SyncQueueEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.RecordID())
	}
	return ids
}

// bufferLogger returns a logger writing JSON lines into the returned buffer.
func bufferLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &logger.Logger{Logger: zerolog.New(buf)}, buf
}
