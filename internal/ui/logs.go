package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/clockctl/internal/logtail"
)

const logFetchLimit = 500

// logState holds the log view state.
type logState struct {
	path        string
	lines       []string
	follow      bool
	err         error
	lastRefresh time.Time
}

type logBatchMsg struct {
	lines []string
	at    time.Time
}

type logErrorMsg struct {
	err error
}

// refreshLogs reads the tail of clockctl's own log file.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logState.path
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		raw, err := logtail.Read(path, logFetchLimit)
		if err != nil {
			return logErrorMsg{err: err}
		}
		return logBatchMsg{lines: logtail.FormatLines(raw), at: time.Now()}
	}
}

func (m *Model) handleLogBatch(msg logBatchMsg) {
	m.logState.lines = msg.lines
	m.logState.err = nil
	m.logState.lastRefresh = msg.at
	m.updateLogViewport()
}

// updateLogViewport resizes the viewport and reloads its content.
func (m *Model) updateLogViewport() {
	// Inner height leaves room for header, footer, title, status line and borders.
	width := max(m.width-4, 1)
	height := max(m.height-6, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	if len(m.logState.lines) == 0 {
		return m.theme.Styles().FaintText.Render("no log entries yet")
	}
	var b strings.Builder
	for i, line := range m.logState.lines {
		b.WriteString(m.colorizeLine(line))
		if i < len(m.logState.lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// colorizeLine highlights the level column produced by logtail.Format.
func (m Model) colorizeLine(line string) string {
	styles := m.theme.Styles()
	for _, level := range []string{"ERROR", "WARN", "INFO", "DEBUG"} {
		idx := strings.Index(line, " "+level+" ")
		if idx < 0 {
			continue
		}
		head, tail := line[:idx+1], line[idx+1+len(level):]
		return styles.FaintText.Render(head) + m.levelStyle(level).Render(level) + styles.Text.Render(tail)
	}
	return styles.Text.Render(line)
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

// handleLogsKey handles scrolling keys in the log view.
func (m *Model) handleLogsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m.refreshLogs(), true
		}
		return nil, true
	case key.Matches(msg, m.keys.Up):
		m.logState.follow = false
		m.logViewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	default:
		return nil, false
	}
	return nil, true
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	title := " Logs "
	if m.logState.path != "" {
		title = " Logs · " + truncateMiddle(m.logState.path, max(m.width-20, 10)) + " "
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Render(m.logViewport.View())
	header := styles.AccentText.Bold(true).Render(title)

	status := "follow"
	if !m.logState.follow {
		status = "paused"
	}
	status += " · refreshed " + humanizeAge(time.Now(), m.logState.lastRefresh)
	statusStyle := styles.MutedText
	if m.logState.err != nil {
		status = "log read failed: " + m.logState.err.Error()
		statusStyle = styles.DangerText
	}
	if m.logState.path == "" {
		status = "logging to stderr; no log file to show"
	}

	return lipgloss.JoinVertical(lipgloss.Left, header+"\n"+box, statusStyle.Render(status))
}
