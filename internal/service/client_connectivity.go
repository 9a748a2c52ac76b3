// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

type connectivitySubscription struct {
	id        uint64
	onOnline  func()
	onOffline func()
}

type connectivityMonitor struct {
	prober        ConnectivityProber
	probeInterval time.Duration
	debounce      time.Duration
	now           func() time.Time

	mu     sync.Mutex
	state  models.ConnectivityState
	subs   []connectivitySubscription
	nextID uint64

	logger *logger.Logger
}

// NewConnectivityMonitor creates a monitor that starts in the online state
// (fail-open) and probes prober every probeInterval once Run is called.
// Non-positive durations fall back to 5s probing and 1s debounce.
func NewConnectivityMonitor(prober ConnectivityProber, probeInterval, debounce time.Duration, logger *logger.Logger) ConnectivityMonitor {
	if probeInterval <= 0 {
		probeInterval = 5 * time.Second
	}
	if debounce < 0 {
		debounce = time.Second
	}

	return &connectivityMonitor{
		prober:        prober,
		probeInterval: probeInterval,
		debounce:      debounce,
		now:           time.Now,
		state:         models.ConnectivityState{IsOnline: true},
		logger:        logger,
	}
}

func (m *connectivityMonitor) Subscribe(onOnline, onOffline func()) func() {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, connectivitySubscription{id: id, onOnline: onOnline, onOffline: onOffline})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *connectivityMonitor) Observe(online bool) {
	m.mu.Lock()
	if m.state.IsOnline == online {
		m.mu.Unlock()
		return
	}

	now := m.now()
	last := m.state.LastTransitionAt
	if !last.IsZero() && now.Sub(last) < m.debounce {
		m.mu.Unlock()
		m.logger.Debug().
			Str("func", "connectivityMonitor.Observe").
			Bool("online", online).
			Msg("reading inside debounce window ignored")
		return
	}

	m.state = models.ConnectivityState{IsOnline: online, LastTransitionAt: now}
	callbacks := make([]func(), 0, len(m.subs))
	for _, s := range m.subs {
		cb := s.onOffline
		if online {
			cb = s.onOnline
		}
		if cb != nil {
			callbacks = append(callbacks, cb)
		}
	}
	m.mu.Unlock()

	m.logger.Info().
		Str("func", "connectivityMonitor.Observe").
		Bool("online", online).
		Msg("connectivity changed")

	for _, cb := range callbacks {
		cb()
	}
}

func (m *connectivityMonitor) Run(ctx context.Context) error {
	if m.prober == nil {
		<-ctx.Done()
		return nil
	}

	m.probe(ctx)

	ticker := time.NewTicker(m.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *connectivityMonitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.probeInterval)
	online, err := m.prober.Online(probeCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		// undetermined state counts as online
		m.logger.Warn().Err(err).
			Str("func", "connectivityMonitor.probe").
			Msg("connectivity probe failed, assuming online")
		online = true
	}

	m.Observe(online)
}

func (m *connectivityMonitor) State() models.ConnectivityState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *connectivityMonitor) IsOnline() bool {
	return m.State().IsOnline
}

type remoteProber struct {
	remote RemoteStore
}

// NewRemoteProber derives connectivity from the reachability of the remote
// store: a successful Ping is online, [ErrRemoteUnavailable] is offline and
// any other failure leaves the state undetermined.
func NewRemoteProber(remote RemoteStore) ConnectivityProber {
	return &remoteProber{remote: remote}
}

func (p *remoteProber) Online(ctx context.Context) (bool, error) {
	err := p.remote.Ping(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrRemoteUnavailable):
		return false, nil
	default:
		return false, err
	}
}
