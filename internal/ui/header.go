package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/clockctl/internal/stream"
)

// renderHeader renders the top status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	parts := []string{bg.Render("clockctl", styles.Logo)}

	switch {
	case snap.Connected():
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	case snap.IsOffline():
		parts = append(parts,
			bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	case snap.Connection == stream.Connecting:
		parts = append(parts, bg.Render("● Connecting...", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● POLLING", styles.WarningText))
	}

	if m.server != "" {
		parts = append(parts, bg.Render(m.server, styles.MutedText))
	}
	if snap.HasStatus {
		s := snap.Status
		parts = append(parts,
			bg.Render("Round", styles.MutedText)+bg.Spaces(1)+
				bg.Render(fmt.Sprintf("%d/%d", s.CurrentRound, s.TotalRounds), styles.Text),
		)
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// classifyConnectionError maps transport errors to a short label.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "bad handshake"):
		return "HANDSHAKE"
	default:
		return "ERROR"
	}
}

// renderStatusPanel renders the connection and server details box.
func (m Model) renderStatusPanel() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	s := snap.Status

	type row struct{ label, value string }
	rows := []row{
		{"Server", valueOr(m.server, "-")},
		{"Stream", snap.Connection.String()},
	}
	if snap.HasStatus {
		state := "stopped"
		switch {
		case s.IsBetweenRounds:
			state = "between rounds"
		case s.IsRunning && s.IsPaused:
			state = "paused"
		case s.IsRunning:
			state = "running"
		}
		rows = append(rows, row{"Clock", state})

		rest := "off"
		if s.BetweenRoundsEnabled {
			rest = fmt.Sprintf("%ds", s.BetweenRoundsTime)
		}
		rows = append(rows, row{"Rest", rest})

		ntp := "off"
		if s.NTPSyncEnabled {
			ntp = fmt.Sprintf("on (%+dms)", s.NTPOffset)
		}
		rows = append(rows, row{"NTP", ntp})

		if s.APIVersion != "" {
			rows = append(rows, row{"API", s.APIVersion})
		}
	}
	if !snap.LastUpdated.IsZero() {
		rows = append(rows, row{"Updated", snap.LastUpdated.Format("15:04:05")})
	}
	if snap.LastError != nil {
		rows = append(rows, row{"Error", truncate(snap.LastError.Error(), 48)})
	}

	var b strings.Builder
	for i, r := range rows {
		b.WriteString(styles.FaintText.Width(9).Render(r.label))
		b.WriteString(styles.Text.Render(r.value))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(0, 1).
		Render(b.String())
}

// renderFooter renders the command hints bar, or the last command result.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	if m.flash != "" {
		style := styles.SuccessText
		if m.flashErr {
			style = styles.DangerText
		}
		return styles.Footer.Width(m.width).Render(bg.Render(m.flash, style))
	}
	if m.pending != "" {
		return styles.Footer.Width(m.width).Render(bg.Render(m.pending+"...", styles.WarningText))
	}

	type cmd struct{ key, desc string }
	var commands []cmd
	switch m.currentView {
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"F", followLabel},
			{"j/k", "Scroll"},
			{"Tab", "Clock"},
			{"?", "More"},
		}
	default:
		runLabel := "Start"
		if s := m.snapshot.Status; s.IsRunning && !s.IsPaused {
			runLabel = "Pause"
		}
		commands = []cmd{
			{"Space", runLabel},
			{"n/b", "Round"},
			{"r", "Reset time"},
			{"a", "Defaults"},
			{"Tab", "Logs"},
			{"?", "More"},
		}
	}

	keyStyle := styles.AccentText
	descStyle := styles.MutedText
	if m.currentView == ViewClock && !m.snapshot.Connected() {
		keyStyle, descStyle = styles.FaintText, styles.FaintText
	}

	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, keyStyle)+bg.Render(":", descStyle)+bg.Render(c.desc, descStyle))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(segments, "  "))
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// humanizeAge renders how long ago t was, for the log status line.
func humanizeAge(now, t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t).Round(time.Second)
	if d < time.Second {
		return "just now"
	}
	return d.String() + " ago"
}
