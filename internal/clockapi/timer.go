package clockapi

import (
	"context"
	"fmt"
)

// Timer is a complete round configuration.
type Timer struct {
	Minutes              int
	Seconds              int
	Rounds               int
	BetweenRoundsEnabled bool
	BetweenRoundsTime    int
}

// ApplyTimer pushes t with set-time, set-rounds and set-between-rounds in
// that order, stopping at the first failure.
func ApplyTimer(ctx context.Context, c Commander, t Timer) error {
	if c == nil {
		return fmt.Errorf("commander is nil")
	}
	if err := c.SetTime(ctx, t.Minutes, t.Seconds); err != nil {
		return fmt.Errorf("set time: %w", err)
	}
	if err := c.SetRounds(ctx, t.Rounds); err != nil {
		return fmt.Errorf("set rounds: %w", err)
	}
	if err := c.SetBetweenRounds(ctx, t.BetweenRoundsEnabled, t.BetweenRoundsTime); err != nil {
		return fmt.Errorf("set between rounds: %w", err)
	}
	return nil
}
