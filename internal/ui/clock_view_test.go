package ui

import (
	"testing"
	"unicode/utf8"

	"github.com/five82/clockctl/internal/clock"
	"github.com/five82/clockctl/internal/state"
)

func TestClockPhase(t *testing.T) {
	tests := []struct {
		name string
		snap state.Snapshot
		want string
	}{
		{"no status", state.Snapshot{}, phaseWaiting},
		{"stopped", state.Snapshot{HasStatus: true}, phaseReady},
		{"running", state.Snapshot{HasStatus: true, Status: clock.Status{IsRunning: true, Seconds: 3}}, phaseRunning},
		{"paused", state.Snapshot{HasStatus: true, Status: clock.Status{IsRunning: true, IsPaused: true}}, phasePaused},
		{"between rounds", state.Snapshot{HasStatus: true, Status: clock.Status{IsRunning: true, IsBetweenRounds: true}}, phaseBreak},
		{"expired", state.Snapshot{HasStatus: true, Status: clock.Status{IsRunning: true, EndTime: "1714564800000"}}, phaseDone},
	}
	for _, tc := range tests {
		if got := clockPhase(tc.snap); got != tc.want {
			t.Fatalf("%s: clockPhase() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRenderBigDigits(t *testing.T) {
	lines := renderBigDigits("12:05")
	if len(lines) != 5 {
		t.Fatalf("renderBigDigits returned %d lines, want 5", len(lines))
	}
	// Four 3-wide digits, one 1-wide colon, four separators.
	want := 4*3 + 1 + 4
	for i, line := range lines {
		if got := utf8.RuneCountInString(line); got != want {
			t.Fatalf("line %d width = %d, want %d: %q", i, got, want, line)
		}
	}
	if lines[0] != "  █ ███   ███ ███" {
		t.Fatalf("top row = %q", lines[0])
	}

	if got := renderBigDigits("a?"); got[0] != "" {
		t.Fatalf("unknown runes rendered: %q", got)
	}
}

func TestCountdownText(t *testing.T) {
	tests := []struct {
		snap state.Snapshot
		want string
	}{
		{state.Snapshot{}, "--:--"},
		{state.Snapshot{HasStatus: true, Status: clock.Status{Minutes: 2, Seconds: 5}}, "02:05"},
		{state.Snapshot{HasStatus: true, Status: clock.Status{Minutes: 125, Seconds: 0}}, "125:00"},
		{state.Snapshot{HasStatus: true, Status: clock.Status{IsBetweenRounds: true, Minutes: 3, BetweenRoundsSeconds: 42}}, "00:42"},
		{state.Snapshot{HasStatus: true, Status: clock.Status{Minutes: -1, Seconds: -4}}, "00:00"},
	}
	for _, tc := range tests {
		if got := countdownText(tc.snap); got != tc.want {
			t.Fatalf("countdownText(%+v) = %q, want %q", tc.snap.Status, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("/home/user/.local/state/clockctl/clockctl.log", 15); got != "/home/u…ctl.log" {
		t.Fatalf("truncateMiddle = %q", got)
	}
	if got := truncateMiddle("short", 10); got != "short" {
		t.Fatalf("truncateMiddle(short) = %q", got)
	}
}
