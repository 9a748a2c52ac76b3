// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/mock"
	"github.com/MKhiriev/hayahub/models"
)

// ── Offline → online ─────────────────────────────────────────────────────────

func TestEngine_OfflineEnqueueThenReconnect(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	monitor := NewConnectivityMonitor(nil, time.Second, 0, logger.Nop())
	queue := newTestQueue()
	remote := newFakeRemote()
	engine := newTestEngine(queue, remote, newMemLocalStore(), monitor, testWorkers())
	status := NewSyncStatusPublisher(queue, engine)

	reconnects := make(chan struct{}, 1)
	unsubscribe := monitor.Subscribe(func() { reconnects <- struct{}{} }, nil)
	defer unsubscribe()

	monitor.Observe(false)
	queued := mustEnqueue(t, queue, testEntry(models.CollectionExpenses, "e1"))

	offline := engine.Trigger(ctx, models.TriggerManual)
	assert.Equal(t, models.SyncPhaseOffline, offline.Phase)
	assert.Empty(t, remote.appliedEntries(), "no remote calls while offline")
	assert.Equal(t, 1, status.Poll().QueueSize)

	monitor.Observe(true)
	select {
	case <-reconnects:
	case <-time.After(time.Second):
		t.Fatal("online callback was not fired")
	}

	result := engine.Trigger(ctx, models.TriggerReconnect)
	assert.Equal(t, models.SyncPhaseSynced, result.Phase)
	assert.Equal(t, 1, result.Applied)

	snapshot := status.Poll()
	assert.Equal(t, 0, snapshot.QueueSize)
	assert.False(t, snapshot.IsSyncing)
	assert.Equal(t, "synced", snapshot.Message())

	applied := remote.appliedEntries()
	require.Len(t, applied, 1)
	assert.Equal(t, queued[0].ID, applied[0].ID)
	assert.Equal(t, queued[0].Payload, applied[0].Payload)
}

// ── Ordering and blocking ────────────────────────────────────────────────────

func TestEngine_FailedEntryBlocksItsCollectionOnly(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue()
	remote := newFakeRemote()

	var failE2 atomic.Bool
	failE2.Store(true)
	remote.applyFn = func(_ context.Context, entry models.SyncQueueEntry) error {
		if entry.RecordID() == "e2" && failE2.Load() {
			return fmt.Errorf("adapter: %w", ErrRemoteRejected)
		}
		return nil
	}

	engine := newTestEngine(queue, remote, newMemLocalStore(), nil, testWorkers())
	mustEnqueue(t, queue,
		testEntry(models.CollectionExpenses, "e1"),
		testEntry(models.CollectionExpenses, "e2"),
		testEntry(models.CollectionTasks, "t1"),
		testEntry(models.CollectionExpenses, "e3"),
		testEntry(models.CollectionTasks, "t2"),
	)

	first := engine.Trigger(ctx, models.TriggerManual)
	assert.Equal(t, models.SyncPhasePartial, first.Phase)
	assert.Equal(t, []string{models.CollectionExpenses}, first.Blocked)
	assert.Equal(t, 3, first.Applied)
	assert.Equal(t, 2, first.Remaining)
	assert.Equal(t, []string{"e2", "e3"}, recordIDs(queue.DequeueBatch(10)), "failed entry stays at the head")

	for _, e := range remote.appliedEntries() {
		assert.NotEqual(t, "e3", e.RecordID(), "no later entry of a blocked collection is applied")
	}

	failE2.Store(false)
	second := engine.Trigger(ctx, models.TriggerManual)
	assert.Equal(t, models.SyncPhaseSynced, second.Phase)
	assert.Equal(t, 0, second.Remaining)

	var expenses []string
	for _, e := range remote.appliedEntries() {
		if e.Collection == models.CollectionExpenses {
			expenses = append(expenses, e.RecordID())
		}
	}
	assert.Equal(t, []string{"e1", "e2", "e3"}, expenses, "same-collection entries keep enqueue order across passes")
}

func TestEngine_DrainsAcrossBatches(t *testing.T) {
	queue := newTestQueue()
	remote := newFakeRemote()
	cfg := testWorkers()
	cfg.BatchSize = 2
	engine := newTestEngine(queue, remote, newMemLocalStore(), nil, cfg)

	for i := range 7 {
		mustEnqueue(t, queue, testEntry(models.CollectionEvents, fmt.Sprintf("ev%d", i)))
	}

	result := engine.Trigger(context.Background(), models.TriggerManual)
	assert.Equal(t, 7, result.Applied)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, []string{"ev0", "ev1", "ev2", "ev3", "ev4", "ev5", "ev6"}, recordIDs(remote.appliedEntries()))
}

// ── Retries ──────────────────────────────────────────────────────────────────

func TestEngine_RetriesTransientFailures(t *testing.T) {
	queue := newTestQueue()
	remote := newFakeRemote()

	var calls atomic.Int32
	remote.applyFn = func(context.Context, models.SyncQueueEntry) error {
		if calls.Add(1) < 3 {
			return fmt.Errorf("adapter: %w", ErrRemoteUnavailable)
		}
		return nil
	}

	engine := newTestEngine(queue, remote, newMemLocalStore(), nil, testWorkers())
	mustEnqueue(t, queue, testEntry(models.CollectionQuotes, "q1"))

	result := engine.Trigger(context.Background(), models.TriggerManual)
	assert.Equal(t, models.SyncPhaseSynced, result.Phase)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 0, queue.Size())
}

func TestEngine_GivesUpAfterMaxAttempts(t *testing.T) {
	queue := newTestQueue()
	remote := newFakeRemote()

	var calls atomic.Int32
	remote.applyFn = func(context.Context, models.SyncQueueEntry) error {
		calls.Add(1)
		return fmt.Errorf("adapter: %w", ErrRemoteUnavailable)
	}
	remote.snapshotFn = func(context.Context, string) ([]models.Record, error) {
		return nil, fmt.Errorf("adapter: %w", ErrRemoteUnavailable)
	}

	engine := newTestEngine(queue, remote, newMemLocalStore(), nil, testWorkers())
	mustEnqueue(t, queue, testEntry(models.CollectionQuotes, "q1"))

	result := engine.Trigger(context.Background(), models.TriggerManual)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, models.SyncPhaseOffline, result.Phase, "nothing reached the remote store")
	assert.Equal(t, 1, result.Remaining)
}

func TestEngine_RejectionIsNotRetried(t *testing.T) {
	queue := newTestQueue()
	remote := newFakeRemote()

	var calls atomic.Int32
	remote.applyFn = func(context.Context, models.SyncQueueEntry) error {
		calls.Add(1)
		return fmt.Errorf("adapter: %w", ErrRemoteRejected)
	}

	engine := newTestEngine(queue, remote, newMemLocalStore(), nil, testWorkers())
	mustEnqueue(t, queue, testEntry(models.CollectionQuotes, "q1"))

	result := engine.Trigger(context.Background(), models.TriggerManual)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, models.SyncPhasePartial, result.Phase)
	assert.Equal(t, 1, result.Remaining)
}

// ── Coalescing ───────────────────────────────────────────────────────────────

func TestEngine_ConcurrentTriggersShareOnePass(t *testing.T) {
	defer goleak.VerifyNone(t)

	queue := newTestQueue()
	remote := newFakeRemote()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	remote.applyFn = func(ctx context.Context, _ models.SyncQueueEntry) error {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	engine := newTestEngine(queue, remote, newMemLocalStore(), nil, testWorkers())
	mustEnqueue(t, queue, testEntry(models.CollectionExpenses, "e1"))

	results := make(chan models.SyncResult, 2)
	go func() { results <- engine.Trigger(context.Background(), models.TriggerReconnect) }()

	<-started
	assert.True(t, engine.IsSyncing())

	go func() { results <- engine.Trigger(context.Background(), models.TriggerManual) }()
	time.Sleep(50 * time.Millisecond)
	close(release)

	first, second := <-results, <-results
	assert.Len(t, remote.appliedEntries(), 1, "one set of Apply calls")
	assert.NotEqual(t, first.Coalesced, second.Coalesced, "exactly one caller ran the pass")
	assert.Equal(t, first.Phase, second.Phase)
	assert.False(t, engine.IsSyncing())
}

// ── Budget ───────────────────────────────────────────────────────────────────

func TestEngine_HangingRemoteEndsOffline(t *testing.T) {
	defer goleak.VerifyNone(t)

	queue := newTestQueue()
	remote := newFakeRemote()
	remote.applyFn = func(ctx context.Context, _ models.SyncQueueEntry) error {
		<-ctx.Done()
		return fmt.Errorf("adapter: %w: %w", ErrRemoteUnavailable, ctx.Err())
	}

	cfg := testWorkers()
	cfg.SyncTimeout = 100 * time.Millisecond
	engine := newTestEngine(queue, remote, newMemLocalStore(), nil, cfg)
	status := NewSyncStatusPublisher(queue, engine)

	mustEnqueue(t, queue,
		testEntry(models.CollectionExpenses, "e1"),
		testEntry(models.CollectionExpenses, "e2"),
		testEntry(models.CollectionExpenses, "e3"),
	)

	start := time.Now()
	result := engine.Trigger(context.Background(), models.TriggerReconnect)
	assert.Less(t, time.Since(start), time.Second)

	assert.Equal(t, models.SyncPhaseOffline, result.Phase)
	snapshot := status.Poll()
	assert.False(t, snapshot.IsSyncing)
	assert.Equal(t, 3, snapshot.QueueSize)
	assert.Equal(t, "continuing in offline mode", snapshot.Message())
}

func TestEngine_Budget(t *testing.T) {
	cfg := testWorkers()
	cfg.SyncTimeout = 20 * time.Second
	cfg.BackgroundSyncTimeout = time.Minute
	engine := newTestEngine(newTestQueue(), newFakeRemote(), newMemLocalStore(), nil, cfg)

	assert.Equal(t, 20*time.Second, engine.budget(models.TriggerReconnect))
	assert.Equal(t, 20*time.Second, engine.budget(models.TriggerManual))
	assert.Equal(t, time.Minute, engine.budget(models.TriggerTimer))
}

func TestEngine_Defaults(t *testing.T) {
	engine := newReconciliationEngine(newTestQueue(), newFakeRemote(), newMemLocalStore(), nil, newCollectionLocks(), config.ClientWorkers{}, logger.Nop())

	assert.Equal(t, 50, engine.batchSize)
	assert.Equal(t, 3, engine.maxApplyAttempts)
	assert.Equal(t, 20*time.Second, engine.syncTimeout)
	assert.Equal(t, 60*time.Second, engine.backgroundTimeout)
	assert.Equal(t, models.ConflictRemoteWins, engine.policy)
}

// ── Snapshot reconciliation ──────────────────────────────────────────────────

func TestEngine_PullsRemoteOnlyRecord(t *testing.T) {
	queue := newTestQueue()
	remote := newFakeRemote()
	local := newMemLocalStore()

	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	remote.snapshots[models.CollectionWishlist] = []models.Record{
		{ID: "w1", Data: json.RawMessage(`{"id":"w1","title":"bike"}`), UpdatedAt: at, Hash: "h1"},
	}

	engine := newTestEngine(queue, remote, local, nil, testWorkers())
	result := engine.Trigger(context.Background(), models.TriggerTimer)

	assert.Equal(t, models.SyncPhaseSynced, result.Phase)
	assert.Equal(t, 1, result.Pulled)

	got, ok := local.get(models.CollectionWishlist, "w1")
	require.True(t, ok)
	assert.Equal(t, "h1", got.Hash)

	lastSync, ok := engine.LastSyncAt()
	assert.True(t, ok)
	assert.Equal(t, result.FinishedAt, lastSync)
}

func TestEngine_PendingMutationWinsOverRemote(t *testing.T) {
	queue := newTestQueue()
	remote := newFakeRemote()
	local := newMemLocalStore()

	old := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, local.SaveRecord(context.Background(), models.CollectionTasks, models.Record{ID: "t1", Hash: "local", UpdatedAt: old}))
	remote.snapshots[models.CollectionTasks] = []models.Record{{ID: "t1", Hash: "remote", UpdatedAt: old.Add(time.Hour)}}

	// the update can not be delivered, so it is still pending at merge time
	remote.applyFn = func(context.Context, models.SyncQueueEntry) error {
		return fmt.Errorf("adapter: %w", ErrRemoteRejected)
	}
	mustEnqueue(t, queue, models.SyncQueueEntry{
		Collection: models.CollectionTasks,
		Operation:  models.OperationUpdate,
		Payload:    json.RawMessage(`{"id":"t1"}`),
	})

	engine := newTestEngine(queue, remote, local, nil, testWorkers())
	engine.Trigger(context.Background(), models.TriggerManual)

	got, ok := local.get(models.CollectionTasks, "t1")
	require.True(t, ok)
	assert.Equal(t, "local", got.Hash)
}

func TestEngine_SnapshotFailureIsPartial(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	local := mock.NewMockLocalStore(ctrl)

	remote.EXPECT().FetchSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, collection string) ([]models.Record, error) {
			if collection == models.CollectionEvents {
				return nil, fmt.Errorf("adapter: %w", ErrRemoteRejected)
			}
			return nil, nil
		}).Times(len(models.Collections))
	local.EXPECT().ReadSnapshot(gomock.Any(), gomock.Any()).Return(nil, nil).Times(len(models.Collections) - 1)

	engine := newTestEngine(newTestQueue(), remote, local, nil, testWorkers())
	result := engine.Trigger(context.Background(), models.TriggerManual)

	assert.Equal(t, models.SyncPhasePartial, result.Phase)
	_, ok := engine.LastSyncAt()
	assert.False(t, ok)

	last, ok := engine.LastResult()
	require.True(t, ok)
	assert.Equal(t, result, last)
}
