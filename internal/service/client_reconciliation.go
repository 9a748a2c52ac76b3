// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

const (
	passKey = "reconciliation-pass"

	defaultRetryBaseDelay = 200 * time.Millisecond
	snapshotConcurrency   = 4
)

type reconciliationEngine struct {
	queue   SyncQueue
	remote  RemoteStore
	local   LocalStore
	monitor ConnectivityMonitor
	locks   *collectionLocks

	collections       []string
	batchSize         int
	maxApplyAttempts  int
	retryBaseDelay    time.Duration
	syncTimeout       time.Duration
	backgroundTimeout time.Duration
	policy            models.ConflictPolicy
	pruneLocalOnly    bool
	now               func() time.Time

	group   singleflight.Group
	syncing atomic.Bool

	mu         sync.Mutex
	lastResult *models.SyncResult
	lastSyncAt time.Time

	logger *logger.Logger
}

// NewReconciliationEngine creates the engine that drains queue into remote
// and reconciles local with remote snapshots. monitor may be nil, in which
// case the remote store is assumed reachable.
func NewReconciliationEngine(
	queue SyncQueue,
	remote RemoteStore,
	local LocalStore,
	monitor ConnectivityMonitor,
	cfg config.ClientWorkers,
	logger *logger.Logger,
) ReconciliationEngine {
	return newReconciliationEngine(queue, remote, local, monitor, newCollectionLocks(), cfg, logger)
}

func newReconciliationEngine(
	queue SyncQueue,
	remote RemoteStore,
	local LocalStore,
	monitor ConnectivityMonitor,
	locks *collectionLocks,
	cfg config.ClientWorkers,
	logger *logger.Logger,
) *reconciliationEngine {
	e := &reconciliationEngine{
		queue:             queue,
		remote:            remote,
		local:             local,
		monitor:           monitor,
		locks:             locks,
		collections:       models.Collections,
		batchSize:         cfg.BatchSize,
		maxApplyAttempts:  cfg.MaxApplyAttempts,
		retryBaseDelay:    defaultRetryBaseDelay,
		syncTimeout:       cfg.SyncTimeout,
		backgroundTimeout: cfg.BackgroundSyncTimeout,
		policy:            cfg.ConflictPolicy,
		pruneLocalOnly:    cfg.PruneLocalOnly,
		now:               nowUTC,
		logger:            logger,
	}

	if e.batchSize <= 0 {
		e.batchSize = config.DefaultBatchSize
	}
	if e.maxApplyAttempts <= 0 {
		e.maxApplyAttempts = config.DefaultMaxApplyAttempts
	}
	if e.syncTimeout <= 0 {
		e.syncTimeout = config.DefaultSyncTimeout
	}
	if e.backgroundTimeout <= 0 {
		e.backgroundTimeout = config.DefaultBackgroundSyncTimeout
	}
	if !e.policy.Valid() {
		e.policy = models.ConflictRemoteWins
	}

	return e
}

func (e *reconciliationEngine) Trigger(ctx context.Context, reason models.SyncTrigger) models.SyncResult {
	started := false
	v, _, _ := e.group.Do(passKey, func() (any, error) {
		started = true
		return e.runPass(ctx, reason), nil
	})

	result := v.(models.SyncResult)
	if !started {
		result.Coalesced = true
		e.logger.Debug().
			Str("func", "reconciliationEngine.Trigger").
			Str("reason", string(reason)).
			Msg("trigger joined the running pass")
	}

	return result
}

func (e *reconciliationEngine) IsSyncing() bool {
	return e.syncing.Load()
}

func (e *reconciliationEngine) LastResult() (models.SyncResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lastResult == nil {
		return models.SyncResult{}, false
	}
	return *e.lastResult, true
}

func (e *reconciliationEngine) LastSyncAt() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSyncAt, !e.lastSyncAt.IsZero()
}

// passState collects the outcome of one pass. Fields are written from the
// per-collection goroutines.
type passState struct {
	applied     atomic.Int64
	pulled      atomic.Int64
	reached     atomic.Bool
	unavailable atomic.Bool

	mu      sync.Mutex
	blocked []string
	failed  []string
}

func (s *passState) block(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.blocked, collection) {
		s.blocked = append(s.blocked, collection)
	}
}

func (s *passState) blockedCollections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.blocked)
}

func (s *passState) fail(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, collection)
}

func (s *passState) noteRemoteError(err error) {
	switch {
	case errors.Is(err, ErrRemoteUnavailable):
		s.unavailable.Store(true)
	case errors.Is(err, ErrRemoteRejected):
		s.reached.Store(true)
	}
}

func (e *reconciliationEngine) runPass(ctx context.Context, reason models.SyncTrigger) models.SyncResult {
	result := models.SyncResult{Trigger: reason, StartedAt: e.now()}

	if e.monitor != nil && !e.monitor.IsOnline() {
		result.Phase = models.SyncPhaseOffline
		result.Remaining = e.queue.Size()
		result.FinishedAt = e.now()
		e.logger.Info().
			Str("func", "reconciliationEngine.runPass").
			Str("reason", string(reason)).
			Int("remaining", result.Remaining).
			Msg("offline, sync pass skipped")
		e.finish(result)
		return result
	}

	e.syncing.Store(true)
	defer e.syncing.Store(false)

	passCtx, cancel := context.WithTimeout(ctx, e.budget(reason))
	defer cancel()

	state := &passState{}
	e.drain(passCtx, state)
	if passCtx.Err() == nil {
		e.reconcile(passCtx, state)
	}

	result.Applied = int(state.applied.Load())
	result.Pulled = int(state.pulled.Load())
	result.Blocked = state.blockedCollections()
	slices.Sort(result.Blocked)
	result.Remaining = e.queue.Size()
	result.FinishedAt = e.now()

	switch {
	case passCtx.Err() != nil:
		result.Phase = models.SyncPhaseOffline
		e.logger.Warn().Err(fmt.Errorf("%w: %w", ErrSyncTimeout, passCtx.Err())).
			Str("func", "reconciliationEngine.runPass").
			Str("reason", string(reason)).
			Int("remaining", result.Remaining).
			Msg("sync pass interrupted, continuing in offline mode")
	case state.unavailable.Load() && !state.reached.Load():
		result.Phase = models.SyncPhaseOffline
	case len(result.Blocked) > 0 || len(state.failed) > 0:
		result.Phase = models.SyncPhasePartial
	default:
		result.Phase = models.SyncPhaseSynced
	}

	e.logger.Info().
		Str("func", "reconciliationEngine.runPass").
		Str("reason", string(reason)).
		Str("phase", string(result.Phase)).
		Int("applied", result.Applied).
		Int("pulled", result.Pulled).
		Int("remaining", result.Remaining).
		Strs("blocked", result.Blocked).
		Dur("took", result.FinishedAt.Sub(result.StartedAt)).
		Msg("sync pass finished")

	e.finish(result)
	return result
}

func (e *reconciliationEngine) budget(reason models.SyncTrigger) time.Duration {
	if reason == models.TriggerTimer {
		return e.backgroundTimeout
	}
	return e.syncTimeout
}

func (e *reconciliationEngine) finish(result models.SyncResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastResult = &result
	if result.Phase == models.SyncPhaseSynced {
		e.lastSyncAt = result.FinishedAt
	}
}

// drain applies queued entries batch by batch until the queue is empty,
// every remaining entry belongs to a blocked collection or ctx is done.
// Each batch is split per collection; collections run concurrently and
// entries of one collection run in enqueue order.
func (e *reconciliationEngine) drain(ctx context.Context, state *passState) {
	for ctx.Err() == nil {
		batch := e.queue.DequeueBatch(e.batchSize, state.blockedCollections()...)
		if len(batch) == 0 {
			return
		}

		var g errgroup.Group
		for collection, entries := range groupByCollection(batch) {
			g.Go(func() error {
				e.drainCollection(ctx, state, collection, entries)
				return nil
			})
		}
		_ = g.Wait()
	}
}

func (e *reconciliationEngine) drainCollection(ctx context.Context, state *passState, collection string, entries []models.SyncQueueEntry) {
	for _, entry := range entries {
		if err := e.applyWithRetry(ctx, entry); err != nil {
			state.noteRemoteError(err)
			if ctx.Err() != nil {
				return
			}

			state.block(collection)
			ev := e.logger.Warn()
			if errors.Is(err, ErrRemoteRejected) {
				ev = e.logger.Error()
			}
			ev.Err(err).
				Str("func", "reconciliationEngine.drainCollection").
				Str("collection", collection).
				Str("entry_id", entry.ID).
				Str("operation", string(entry.Operation)).
				Msg("apply failed, collection blocked for this pass")
			return
		}

		state.reached.Store(true)
		state.applied.Add(1)

		if err := e.queue.Acknowledge(ctx, entry.ID); err != nil {
			e.logger.Warn().Err(err).
				Str("func", "reconciliationEngine.drainCollection").
				Str("collection", collection).
				Str("entry_id", entry.ID).
				Msg("acknowledge reported an error")
		}
	}
}

// applyWithRetry calls Apply up to maxApplyAttempts times with exponential
// backoff. Rejections are not retried.
func (e *reconciliationEngine) applyWithRetry(ctx context.Context, entry models.SyncQueueEntry) error {
	backoff := retry.WithMaxRetries(uint64(e.maxApplyAttempts-1), retry.NewExponential(e.retryBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := e.remote.Apply(ctx, entry)
		switch {
		case err == nil:
			return nil
		case isPermanentRemoteError(err), ctx.Err() != nil:
			return err
		default:
			return retry.RetryableError(err)
		}
	})
}

// reconcile compares every collection with its remote snapshot.
func (e *reconciliationEngine) reconcile(ctx context.Context, state *passState) {
	var g errgroup.Group
	g.SetLimit(snapshotConcurrency)

	for _, collection := range e.collections {
		g.Go(func() error {
			pulled, err := e.reconcileCollection(ctx, state, collection)
			if err != nil {
				state.fail(collection)
				e.logger.Warn().Err(err).
					Str("func", "reconciliationEngine.reconcile").
					Str("collection", collection).
					Msg("snapshot reconciliation failed")
				return nil
			}
			state.pulled.Add(int64(pulled))
			return nil
		})
	}
	_ = g.Wait()
}

func (e *reconciliationEngine) reconcileCollection(ctx context.Context, state *passState, collection string) (int, error) {
	remoteRecords, err := e.remote.FetchSnapshot(ctx, collection)
	if err != nil {
		state.noteRemoteError(err)
		return 0, fmt.Errorf("fetch remote snapshot: %w", err)
	}
	state.reached.Store(true)

	unlock := e.locks.Lock(collection)
	defer unlock()

	localRecords, err := e.local.ReadSnapshot(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("%w: read local snapshot: %w", ErrLocalStore, err)
	}

	merged := mergeSnapshots(localRecords, remoteRecords, e.queue.PendingRecordIDs(collection), e.policy, e.pruneLocalOnly)
	if !merged.Changed() {
		return 0, nil
	}

	if err = e.local.WriteSnapshot(ctx, collection, merged.Records); err != nil {
		return 0, fmt.Errorf("%w: write local snapshot: %w", ErrLocalStore, err)
	}

	return merged.Pulled, nil
}

// groupByCollection splits a batch per collection keeping enqueue order
// inside each group.
func groupByCollection(batch []models.SyncQueueEntry) map[string][]models.SyncQueueEntry {
	groups := make(map[string][]models.SyncQueueEntry)
	for _, entry := range batch {
		groups[entry.Collection] = append(groups[entry.Collection], entry)
	}
	return groups
}
