// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

// spyEngine counts triggers per reason.
type spyEngine struct {
	stubEngine
	timer  atomic.Int64
	manual atomic.Int64
	other  atomic.Int64
}

func (s *spyEngine) Trigger(_ context.Context, reason models.SyncTrigger) models.SyncResult {
	switch reason {
	case models.TriggerTimer:
		s.timer.Add(1)
	case models.TriggerManual:
		s.manual.Add(1)
	default:
		s.other.Add(1)
	}
	return models.SyncResult{Trigger: reason, Phase: models.SyncPhaseSynced}
}

// ── NewClientSyncJob ─────────────────────────────────────────────────────────

func TestNewClientSyncJob_ReturnsInterface(t *testing.T) {
	job := NewClientSyncJob(&spyEngine{}, logger.Nop())
	require.NotNil(t, job)

	var _ ClientSyncJob = job
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestClientSyncJob_Start_TriggersTimerPasses(t *testing.T) {
	defer goleak.VerifyNone(t)

	spy := &spyEngine{}
	job := NewClientSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.timer.Load()
	assert.GreaterOrEqual(t, got, int64(3), "timer passes triggered: %d", got)
}

func TestClientSyncJob_Stop_StopsGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	spy := &spyEngine{}
	job := NewClientSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.timer.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, spy.timer.Load(), "no passes after Stop")
}

func TestClientSyncJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewClientSyncJob(&spyEngine{}, logger.Nop())
	assert.NotPanics(t, func() { job.Stop() })
}

func TestClientSyncJob_DoubleStop_NoPanic(t *testing.T) {
	job := NewClientSyncJob(&spyEngine{}, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	job.Stop()
	assert.NotPanics(t, func() { job.Stop() })
}

func TestClientSyncJob_Start_DefaultInterval(t *testing.T) {
	spy := &spyEngine{}
	job := NewClientSyncJob(spy, logger.Nop())

	// non-positive interval falls back to minutes, nothing fires in 20ms
	job.Start(context.Background(), 0)
	time.Sleep(20 * time.Millisecond)
	job.Stop()

	job.Start(context.Background(), -time.Second)
	time.Sleep(20 * time.Millisecond)
	job.Stop()

	assert.Equal(t, int64(0), spy.timer.Load())
}

func TestClientSyncJob_Restart_StopsPrevious(t *testing.T) {
	defer goleak.VerifyNone(t)

	spy := &spyEngine{}
	job := NewClientSyncJob(spy, logger.Nop())
	ctx := context.Background()

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	callsBefore := spy.timer.Load()
	assert.Greater(t, callsBefore, int64(0))

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Greater(t, spy.timer.Load(), callsBefore)
}

func TestClientSyncJob_ContextCancel_StopsJob(t *testing.T) {
	job := NewClientSyncJob(&spyEngine{}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop hung after context cancellation")
	}
}

// ── Nudge ────────────────────────────────────────────────────────────────────

func TestClientSyncJob_Nudge_RunsPass(t *testing.T) {
	defer goleak.VerifyNone(t)

	spy := &spyEngine{}
	job := NewClientSyncJob(spy, logger.Nop())

	job.Start(context.Background(), time.Hour)
	job.Nudge(models.TriggerReconnect)

	require.Eventually(t, func() bool { return spy.other.Load() == 1 }, time.Second, 5*time.Millisecond)
	job.Stop()
}

func TestClientSyncJob_Nudge_DoesNotBlockWhenIdle(t *testing.T) {
	job := NewClientSyncJob(&spyEngine{}, logger.Nop())

	done := make(chan struct{})
	go func() {
		for range 10 {
			job.Nudge(models.TriggerManual)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Nudge blocked without a running job")
	}
}

func TestClientSyncJob_Nudge_MergesPendingRequests(t *testing.T) {
	spy := &spyEngine{}
	job := NewClientSyncJob(spy, logger.Nop())

	// queued before Start, so only one request survives
	job.Nudge(models.TriggerManual)
	job.Nudge(models.TriggerManual)
	job.Nudge(models.TriggerManual)

	job.Start(context.Background(), time.Hour)
	require.Eventually(t, func() bool { return spy.manual.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	job.Stop()

	assert.Equal(t, int64(1), spy.manual.Load())
}
