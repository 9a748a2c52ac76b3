// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui renders the sync status view of the HayaHub client.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/hayahub/models"
)

// StatusSource is polled for the current sync status.
type StatusSource interface {
	Poll() models.SyncStatusSnapshot
}

// SyncRequester accepts force-sync requests without blocking.
type SyncRequester interface {
	Nudge(reason models.SyncTrigger)
}

type TUI struct {
	status       StatusSource
	syncer       SyncRequester
	pollInterval time.Duration
	buildInfo    models.AppBuildInfo
}

func New(status StatusSource, syncer SyncRequester, pollInterval time.Duration, buildInfo models.AppBuildInfo) *TUI {
	return &TUI{
		status:       status,
		syncer:       syncer,
		pollInterval: pollInterval,
		buildInfo:    buildInfo,
	}
}

// Run shows the status view until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	model := newStatusModel(t.status, t.syncer, t.pollInterval, t.buildInfo)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(model, opts...).Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
