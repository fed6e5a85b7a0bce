package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/clockctl/internal/clockapi"
	"github.com/five82/clockctl/internal/prefs"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.currentView == ViewClock {
			m.currentView = ViewLogs
			return m, m.refreshLogs()
		}
		m.currentView = ViewClock
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchCmd()
	}

	if m.currentView == ViewLogs {
		if cmd, handled := m.handleLogsKey(msg); handled {
			return m, cmd
		}
	}

	for _, b := range m.keys.controlBindings() {
		if key.Matches(msg, b) {
			return m.handleControl(msg)
		}
	}
	return m, nil
}

// handleControl dispatches a clock command. Controls are disabled while
// the stream is down and while a previous command is still in flight.
func (m Model) handleControl(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.commander == nil || !m.snapshot.Connected() {
		m.setFlash("controls disabled: not connected", true)
		return m, nil
	}
	if m.pending != "" {
		return m, nil
	}

	var (
		action string
		run    func(ctx context.Context, c clockapi.Commander) error
	)
	switch {
	case key.Matches(msg, m.keys.StartPause):
		cmd := clockapi.Start
		if s := m.snapshot.Status; s.IsRunning && !s.IsPaused {
			cmd = clockapi.Pause
		}
		action, run = string(cmd), send(cmd)
	case key.Matches(msg, m.keys.NextRound):
		action, run = string(clockapi.NextRound), send(clockapi.NextRound)
	case key.Matches(msg, m.keys.PreviousRound):
		action, run = string(clockapi.PreviousRound), send(clockapi.PreviousRound)
	case key.Matches(msg, m.keys.ResetTime):
		action, run = string(clockapi.ResetTime), send(clockapi.ResetTime)
	case key.Matches(msg, m.keys.ResetRounds):
		action, run = string(clockapi.ResetRounds), send(clockapi.ResetRounds)
	case key.Matches(msg, m.keys.Reset):
		action, run = string(clockapi.Reset), send(clockapi.Reset)
	case key.Matches(msg, m.keys.ApplyDefaults):
		action, run = "apply defaults", applyDefaults(m.prefs)
	default:
		return m, nil
	}

	m.pending = action
	return m, commandCmd(m.ctx, m.commander, action, run)
}

func send(cmd clockapi.Command) func(context.Context, clockapi.Commander) error {
	return func(ctx context.Context, c clockapi.Commander) error {
		return c.Send(ctx, cmd)
	}
}

// applyDefaults pushes the stored timer defaults.
func applyDefaults(p prefs.Prefs) func(context.Context, clockapi.Commander) error {
	return func(ctx context.Context, c clockapi.Commander) error {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid defaults: %w", err)
		}
		return clockapi.ApplyTimer(ctx, c, p.Timer())
	}
}

func commandCmd(ctx context.Context, c clockapi.Commander, action string, run func(context.Context, clockapi.Commander) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		return commandDoneMsg{action: action, err: run(ctx, c)}
	}
}

// fetchCmd forces an HTTP status fetch. The result flows through the store.
func (m Model) fetchCmd() tea.Cmd {
	if m.fetcher == nil || m.store == nil {
		return nil
	}
	fetcher, store, parent := m.fetcher, m.store, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, commandTimeout)
		defer cancel()
		status, err := fetcher.FetchStatus(ctx)
		store.Update(status, err)
		if err != nil {
			return commandDoneMsg{action: "fetch", err: err}
		}
		return nil
	}
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.setFlash(fmt.Sprintf("save theme: %v", err), true)
	}
}
