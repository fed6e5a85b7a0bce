package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Refresh    key.Binding

	// Clock controls
	StartPause    key.Binding
	NextRound     key.Binding
	PreviousRound key.Binding
	ResetTime     key.Binding
	ResetRounds   key.Binding
	Reset         key.Binding
	ApplyDefaults key.Binding

	// Log navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	ToggleFollow key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Clock/logs"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Fetch status"),
		),

		StartPause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "Start/pause"),
		),
		NextRound: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next round"),
		),
		PreviousRound: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Previous round"),
		),
		ResetTime: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reset time"),
		),
		ResetRounds: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reset rounds"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Reset all"),
		),
		ApplyDefaults: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Apply defaults"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Toggle follow"),
		),
	}
}

// controlBindings lists the bindings that issue clock commands.
func (k keyMap) controlBindings() []key.Binding {
	return []key.Binding{
		k.StartPause, k.NextRound, k.PreviousRound,
		k.ResetTime, k.ResetRounds, k.Reset, k.ApplyDefaults,
	}
}
