package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/clockctl/internal/clockapi"
)

var commandShort = map[clockapi.Command]string{
	clockapi.Start:         "Start or resume the clock",
	clockapi.Pause:         "Pause the clock",
	clockapi.Reset:         "Reset time and rounds",
	clockapi.ResetTime:     "Reset the current round's time",
	clockapi.ResetRounds:   "Reset the round counter",
	clockapi.NextRound:     "Skip to the next round",
	clockapi.PreviousRound: "Go back one round",
}

// newControlCmds builds one subcommand per clock command.
func (c *cli) newControlCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(clockapi.Commands)+3)
	for _, command := range clockapi.Commands {
		command := command // per-iteration copy; go directive predates Go 1.22 loop semantics
		cmds = append(cmds, &cobra.Command{
			Use:   string(command),
			Short: commandShort[command],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				client, err := c.apiClient()
				if err != nil {
					return err
				}
				if err := client.Send(cmd.Context(), command); err != nil {
					return fmt.Errorf("%s: %w", command, err)
				}
				printDone(cmd.OutOrStdout(), string(command))
				return nil
			},
		})
	}
	return append(cmds, c.newSetTimeCmd(), c.newSetRoundsCmd(), c.newSetBetweenRoundsCmd())
}

func (c *cli) newSetTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-time MIN SEC",
		Short: "Set the round length",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := parseCount("minutes", args[0], 0)
			if err != nil {
				return err
			}
			seconds, err := parseCount("seconds", args[1], 0)
			if err != nil {
				return err
			}
			if seconds > 59 {
				return fmt.Errorf("seconds %d must be between 0 and 59", seconds)
			}

			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.SetTime(cmd.Context(), minutes, seconds); err != nil {
				return fmt.Errorf("set time: %w", err)
			}
			printDone(cmd.OutOrStdout(), fmt.Sprintf("set-time %02d:%02d", minutes, seconds))
			return nil
		},
	}
}

func (c *cli) newSetRoundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-rounds N",
		Short: "Set the total number of rounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rounds, err := parseCount("rounds", args[0], 1)
			if err != nil {
				return err
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.SetRounds(cmd.Context(), rounds); err != nil {
				return fmt.Errorf("set rounds: %w", err)
			}
			printDone(cmd.OutOrStdout(), fmt.Sprintf("set-rounds %d", rounds))
			return nil
		},
	}
}

func (c *cli) newSetBetweenRoundsCmd() *cobra.Command {
	var (
		enabled bool
		seconds int
	)
	cmd := &cobra.Command{
		Use:   "set-between-rounds",
		Short: "Configure the rest period between rounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seconds < 0 {
				return fmt.Errorf("time %d must not be negative", seconds)
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.SetBetweenRounds(cmd.Context(), enabled, seconds); err != nil {
				return fmt.Errorf("set between rounds: %w", err)
			}
			printDone(cmd.OutOrStdout(), fmt.Sprintf("set-between-rounds enabled=%t time=%ds", enabled, seconds))
			return nil
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", true, "enable the rest period")
	cmd.Flags().IntVar(&seconds, "time", 0, "rest period length in seconds")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func parseCount(name, value string, minimum int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, value, err)
	}
	if n < minimum {
		return 0, fmt.Errorf("%s %d must be at least %d", name, n, minimum)
	}
	return n, nil
}

func printDone(w io.Writer, what string) {
	color.New(color.FgGreen).Fprint(w, "✓ ")
	fmt.Fprintln(w, what)
}
