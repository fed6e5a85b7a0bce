package main

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/five82/clockctl/internal/clockapi"
	"github.com/five82/clockctl/internal/prefs"
)

func (c *cli) newDefaultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Show, change or apply the stored timer defaults",
	}
	cmd.AddCommand(c.newDefaultsShowCmd(), c.newDefaultsSetCmd(), c.newDefaultsApplyCmd())
	return cmd
}

func (c *cli) newDefaultsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := prefs.Load(c.prefsPath)
			if err != nil {
				return fmt.Errorf("load prefs: %w", err)
			}
			out, err := toml.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshal prefs: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func (c *cli) newDefaultsSetCmd() *cobra.Command {
	var next prefs.Prefs
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change stored defaults; unset flags keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := prefs.Load(c.prefsPath)
			if err != nil {
				return fmt.Errorf("load prefs: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("theme") {
				p.Theme = next.Theme
			}
			if flags.Changed("minutes") {
				p.Minutes = next.Minutes
			}
			if flags.Changed("seconds") {
				p.Seconds = next.Seconds
			}
			if flags.Changed("rounds") {
				p.TotalRounds = next.TotalRounds
			}
			if flags.Changed("between-rounds") {
				p.BetweenRoundsEnabled = next.BetweenRoundsEnabled
			}
			if flags.Changed("between-rounds-time") {
				p.BetweenRoundsTime = next.BetweenRoundsTime
			}

			if err := p.Validate(); err != nil {
				return fmt.Errorf("invalid defaults: %w", err)
			}
			if err := prefs.Save(c.prefsPath, p); err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "defaults saved")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&next.Theme, "theme", "", "UI theme")
	flags.IntVar(&next.Minutes, "minutes", 0, "round minutes")
	flags.IntVar(&next.Seconds, "seconds", 0, "round seconds")
	flags.IntVar(&next.TotalRounds, "rounds", 0, "total rounds")
	flags.BoolVar(&next.BetweenRoundsEnabled, "between-rounds", true, "enable the rest period")
	flags.IntVar(&next.BetweenRoundsTime, "between-rounds-time", 0, "rest period in seconds")
	return cmd
}

func (c *cli) newDefaultsApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Push the stored defaults to the clock server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := prefs.Load(c.prefsPath)
			if err != nil {
				return fmt.Errorf("load prefs: %w", err)
			}
			if err := p.Validate(); err != nil {
				return fmt.Errorf("invalid defaults: %w", err)
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := clockapi.ApplyTimer(cmd.Context(), client, p.Timer()); err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), fmt.Sprintf("applied %02d:%02d x %d rounds", p.Minutes, p.Seconds, p.TotalRounds))
			return nil
		},
	}
}
