// Package prefs handles clockctl user preferences persistence.
// Preferences are stored in ~/.config/clockctl/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/clockctl/internal/clockapi"
)

// Prefs holds the UI theme and the default timer pushed by "defaults apply".
type Prefs struct {
	Theme                string `toml:"theme"`
	Minutes              int    `toml:"minutes"`
	Seconds              int    `toml:"seconds"`
	TotalRounds          int    `toml:"total_rounds"`
	BetweenRoundsEnabled bool   `toml:"between_rounds_enabled"`
	BetweenRoundsTime    int    `toml:"between_rounds_time"`
}

const (
	defaultPrefsPath         = "~/.config/clockctl/prefs.toml"
	defaultTheme             = "Nightfox"
	defaultMinutes           = 3
	defaultSeconds           = 0
	defaultTotalRounds       = 12
	defaultBetweenRoundsTime = 60
)

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{
		Theme:                defaultTheme,
		Minutes:              defaultMinutes,
		Seconds:              defaultSeconds,
		TotalRounds:          defaultTotalRounds,
		BetweenRoundsEnabled: true,
		BetweenRoundsTime:    defaultBetweenRoundsTime,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Validate rejects timer defaults the server could not represent.
func (p Prefs) Validate() error {
	switch {
	case p.Minutes < 0:
		return fmt.Errorf("minutes %d must not be negative", p.Minutes)
	case p.Seconds < 0 || p.Seconds > 59:
		return fmt.Errorf("seconds %d must be between 0 and 59", p.Seconds)
	case p.Minutes == 0 && p.Seconds == 0:
		return errors.New("round time must be longer than zero")
	case p.TotalRounds < 1:
		return fmt.Errorf("total rounds %d must be at least 1", p.TotalRounds)
	case p.BetweenRoundsTime < 0:
		return fmt.Errorf("between rounds time %d must not be negative", p.BetweenRoundsTime)
	}
	return nil
}

// Timer returns the stored default round configuration.
func (p Prefs) Timer() clockapi.Timer {
	return clockapi.Timer{
		Minutes:              p.Minutes,
		Seconds:              p.Seconds,
		Rounds:               p.TotalRounds,
		BetweenRoundsEnabled: p.BetweenRoundsEnabled,
		BetweenRoundsTime:    p.BetweenRoundsTime,
	}
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	prefs := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	// Keys missing from the file keep their default.
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if prefs.Validate() != nil {
		theme := prefs.Theme
		prefs = Defaults()
		prefs.Theme = theme
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
