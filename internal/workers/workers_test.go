// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

// blockingWorker counts runs and blocks until cancelled.
type blockingWorker struct {
	runs atomic.Int32
}

func (b *blockingWorker) Run(ctx context.Context) error {
	b.runs.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func TestWorkers_Run_AllWorkersAreStarted(t *testing.T) {
	defer goleak.VerifyNone(t)

	w1, w2, w3 := &blockingWorker{}, &blockingWorker{}, &blockingWorker{}
	ws := NewWorkers(logger.Nop(), w1, w2, w3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ws.Run(ctx) }()

	require.Eventually(t, func() bool {
		return w1.runs.Load() == 1 && w2.runs.Load() == 1 && w3.runs.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done, "cancellation is a clean stop")
}

func TestWorkers_Run_Empty(t *testing.T) {
	assert.NoError(t, NewWorkers(logger.Nop()).Run(context.Background()))
	assert.NoError(t, (&Workers{logger: logger.Nop()}).Run(context.Background()))
}

func TestWorkers_Run_FailureStopsOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("probe loop crashed")
	blocking := &blockingWorker{}
	failing := WorkerFunc(func(context.Context) error { return boom })

	err := NewWorkers(logger.Nop(), blocking, failing).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

// ── sync job worker ──────────────────────────────────────────────────────────

type fakeJob struct {
	started  atomic.Int32
	stopped  atomic.Int32
	interval atomic.Int64
}

func (f *fakeJob) Start(_ context.Context, interval time.Duration) {
	f.started.Add(1)
	f.interval.Store(int64(interval))
}

func (f *fakeJob) Stop() { f.stopped.Add(1) }

func (f *fakeJob) Nudge(models.SyncTrigger) {}

func TestSyncJobWorker(t *testing.T) {
	defer goleak.VerifyNone(t)

	job := &fakeJob{}
	worker := NewSyncJobWorker(job, 3*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	require.Eventually(t, func() bool { return job.started.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(3*time.Minute), job.interval.Load())
	assert.Equal(t, int32(0), job.stopped.Load())

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), job.stopped.Load())
}
