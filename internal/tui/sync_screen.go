// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/models"
)

type statusModel struct {
	status       StatusSource
	syncer       SyncRequester
	pollInterval time.Duration
	buildInfo    models.AppBuildInfo

	spinner   spinner.Model
	snapshot  models.SyncStatusSnapshot
	polled    bool
	requested bool
	showInfo  bool

	// pollGen is the generation of the only live poll loop; results of
	// older loops are dropped.
	pollGen int
}

func newStatusModel(status StatusSource, syncer SyncRequester, pollInterval time.Duration, buildInfo models.AppBuildInfo) statusModel {
	if pollInterval <= 0 {
		pollInterval = config.DefaultStatusPollInterval
	}

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return statusModel{
		status:       status,
		syncer:       syncer,
		pollInterval: pollInterval,
		buildInfo:    buildInfo,
		spinner:      s,
	}
}

func (m statusModel) Init() tea.Cmd {
	return tea.Batch(m.cmdPoll(), m.spinner.Tick)
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusPolledMsg:
		if msg.gen != m.pollGen {
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.polled = true
		if msg.snapshot.IsSyncing || msg.scheduled {
			m.requested = false
		}
		return m, m.cmdSchedulePoll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			return m, tea.Quit
		case key.Matches(msg, keys.sync):
			if m.syncer != nil {
				m.syncer.Nudge(models.TriggerManual)
			}
			m.requested = true
			m.pollGen++
			return m, m.cmdPoll()
		case key.Matches(msg, keys.info):
			m.showInfo = !m.showInfo
			return m, nil
		case key.Matches(msg, keys.esc):
			m.showInfo = false
			return m, nil
		}
	}

	return m, nil
}

func (m statusModel) View() string {
	if m.showInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}

	var b strings.Builder

	switch {
	case !m.polled:
		b.WriteString(m.spinner.View() + " loading…")
	case m.snapshot.IsSyncing:
		b.WriteString(syncingStyle.Render(m.spinner.View() + " " + m.snapshot.Message()))
	case m.snapshot.Phase == models.SyncPhaseOffline || m.snapshot.Phase == models.SyncPhasePartial:
		b.WriteString(offlineStyle.Render(m.snapshot.Message()))
	case m.snapshot.Phase == models.SyncPhaseSynced:
		b.WriteString(syncedStyle.Render(m.snapshot.Message()))
	default:
		b.WriteString(helpStyle.Render(m.snapshot.Message()))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("queued changes: %d\n", m.snapshot.QueueSize))
	b.WriteString("last sync:      " + formatLastSync(m.snapshot.LastSyncAt))
	if m.requested {
		b.WriteString("\n\n" + helpStyle.Render("sync requested"))
	}

	return appStyle.Render(renderPage(titleStyle.Render("HAYAHUB SYNC"), b.String(), "s: sync now   i: about   q: quit"))
}

func (m statusModel) cmdPoll() tea.Cmd {
	status, gen := m.status, m.pollGen
	return func() tea.Msg {
		return statusPolledMsg{snapshot: status.Poll(), gen: gen}
	}
}

func (m statusModel) cmdSchedulePoll() tea.Cmd {
	status, gen := m.status, m.pollGen
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg {
		return statusPolledMsg{snapshot: status.Poll(), gen: gen, scheduled: true}
	})
}

func formatLastSync(at *time.Time) string {
	if at == nil {
		return "never"
	}
	return at.Local().Format(time.DateTime)
}
