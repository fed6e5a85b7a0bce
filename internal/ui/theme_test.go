package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct{ current, want string }{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"Unknown", "Nightfox"},
	}
	for _, tc := range tests {
		if got := NextTheme(tc.current); got != tc.want {
			t.Fatalf("NextTheme(%s) = %q, want %q", tc.current, got, tc.want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesDefineEveryPhase(t *testing.T) {
	phases := []string{phaseWaiting, phaseReady, phaseRunning, phasePaused, phaseBreak, phaseDone}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, phase := range phases {
			if th.PhaseColors[phase] == "" {
				t.Fatalf("theme %s has no color for phase %q", name, phase)
			}
		}
		if got := th.PhaseColor("nope"); got != th.Text {
			t.Fatalf("theme %s PhaseColor(nope) = %q, want text color", name, got)
		}
	}
}
