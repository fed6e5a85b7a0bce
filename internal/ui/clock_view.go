package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/clockctl/internal/state"
)

// Clock phases, used for the badge and the countdown color.
const (
	phaseWaiting = "waiting"
	phaseReady   = "ready"
	phaseRunning = "running"
	phasePaused  = "paused"
	phaseBreak   = "break"
	phaseDone    = "done"
)

// clockPhase classifies a snapshot for display.
func clockPhase(snap state.Snapshot) string {
	if !snap.HasStatus {
		return phaseWaiting
	}
	s := snap.Status
	switch {
	case s.IsBetweenRounds:
		return phaseBreak
	case s.IsRunning && s.IsPaused:
		return phasePaused
	case s.IsRunning && s.RemainingSeconds() == 0 && s.HasDeadline():
		return phaseDone
	case s.IsRunning:
		return phaseRunning
	default:
		return phaseReady
	}
}

func phaseLabel(phase string) string {
	switch phase {
	case phaseWaiting:
		return "WAITING"
	case phaseBreak:
		return "BREAK"
	case phaseDone:
		return "TIME"
	default:
		return strings.ToUpper(phase)
	}
}

// bigGlyphs is a five row block font for the countdown.
var bigGlyphs = map[rune][5]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {"  █", "  █", "  █", "  █", "  █"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
	':': {" ", "█", " ", "█", " "},
	'-': {"   ", "   ", "███", "   ", "   "},
}

// renderBigDigits renders text in the block font, one glyph column apart.
// Runes without a glyph are skipped.
func renderBigDigits(text string) []string {
	var rows [5][]string
	for _, r := range text {
		glyph, ok := bigGlyphs[r]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], glyph[i])
		}
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, " ")
	}
	return lines
}

// formatClock renders minutes and seconds as MM:SS. Minutes may exceed 99.
func formatClock(minutes, seconds int) string {
	if minutes < 0 {
		minutes = 0
	}
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// countdownText picks the time shown in big digits for the snapshot.
func countdownText(snap state.Snapshot) string {
	if !snap.HasStatus {
		return "--:--"
	}
	s := snap.Status
	if s.IsBetweenRounds {
		return formatClock(s.BetweenRoundsMinutes, s.BetweenRoundsSeconds)
	}
	return formatClock(s.Minutes, s.Seconds)
}

// renderClockView renders the countdown, round line and status panel.
func (m Model) renderClockView() string {
	styles := m.theme.Styles()
	phase := clockPhase(m.snapshot)
	s := m.snapshot.Status

	digitStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.PhaseColor(phase))).
		Bold(true)
	digits := digitStyle.Render(strings.Join(renderBigDigits(countdownText(m.snapshot)), "\n"))

	lines := []string{
		styles.PhaseStyle(phase).Render(phaseLabel(phase)),
		"",
		digits,
		"",
	}
	if m.snapshot.HasStatus {
		lines = append(lines,
			styles.MutedText.Render("ROUND ")+
				styles.Text.Bold(true).Render(fmt.Sprintf("%d", s.CurrentRound))+
				styles.MutedText.Render(" of ")+
				styles.Text.Bold(true).Render(fmt.Sprintf("%d", s.TotalRounds)),
			styles.FaintText.Render("ELAPSED ")+
				styles.Text.Render(formatClock(s.ElapsedMinutes, s.ElapsedSeconds)),
		)
		if s.IsBetweenRounds {
			lines = append(lines, styles.InfoText.Render("next round in "+formatClock(s.Minutes, s.Seconds)))
		}
	} else {
		lines = append(lines, styles.MutedText.Render("waiting for the clock server"))
	}

	clock := lipgloss.JoinVertical(lipgloss.Center, lines...)
	panel := m.renderStatusPanel()

	body := lipgloss.JoinVertical(lipgloss.Center, clock, "", panel)
	height := m.height - 2 // header + footer
	if height < 1 {
		height = 1
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, body)
}
