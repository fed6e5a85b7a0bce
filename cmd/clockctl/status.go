package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/clockctl/internal/clock"
)

func (c *cli) newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the current clock status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			status, err := client.FetchStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch status: %w", err)
			}
			status = clock.Normalize(status, time.Now())

			if asJSON {
				return writeStatusJSON(cmd.OutOrStdout(), status)
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the decoded status as JSON")
	return cmd
}

// statusJSON is the --json rendering of a clock.Status.
type statusJSON struct {
	Minutes              int             `json:"minutes"`
	Seconds              int             `json:"seconds"`
	CurrentRound         int             `json:"currentRound"`
	TotalRounds          int             `json:"totalRounds"`
	IsRunning            bool            `json:"isRunning"`
	IsPaused             bool            `json:"isPaused"`
	ElapsedMinutes       int             `json:"elapsedMinutes"`
	ElapsedSeconds       int             `json:"elapsedSeconds"`
	IsBetweenRounds      bool            `json:"isBetweenRounds"`
	BetweenRoundsMinutes int             `json:"betweenRoundsMinutes"`
	BetweenRoundsSeconds int             `json:"betweenRoundsSeconds"`
	BetweenRoundsEnabled bool            `json:"betweenRoundsEnabled"`
	BetweenRoundsTime    int             `json:"betweenRoundsTime"`
	WarningLeadTime      int             `json:"warningLeadTime"`
	WarningSoundPath     string          `json:"warningSoundPath,omitempty"`
	EndSoundPath         string          `json:"endSoundPath,omitempty"`
	NTPSyncEnabled       bool            `json:"ntpSyncEnabled"`
	NTPOffset            int             `json:"ntpOffset"`
	EndTime              string          `json:"endTime,omitempty"`
	TimeStamp            string          `json:"timeStamp,omitempty"`
	ServerTime           float64         `json:"serverTime,omitempty"`
	APIVersion           string          `json:"apiVersion,omitempty"`
	ConnectionProtocol   string          `json:"connectionProtocol,omitempty"`
	InitialTime          clock.TimeValue `json:"initialTime"`
	StartTime            clock.TimeValue `json:"startTime"`
	PauseStartTime       float64         `json:"pauseStartTime,omitempty"`
	TotalPausedTime      float64         `json:"totalPausedTime,omitempty"`
	CurrentPauseDuration float64         `json:"currentPauseDuration,omitempty"`
	LastUpdateTime       float64         `json:"lastUpdateTime,omitempty"`
	Present              []string        `json:"present,omitempty"`
}

func writeStatusJSON(w io.Writer, s clock.Status) error {
	out := statusJSON{
		Minutes:              s.Minutes,
		Seconds:              s.Seconds,
		CurrentRound:         s.CurrentRound,
		TotalRounds:          s.TotalRounds,
		IsRunning:            s.IsRunning,
		IsPaused:             s.IsPaused,
		ElapsedMinutes:       s.ElapsedMinutes,
		ElapsedSeconds:       s.ElapsedSeconds,
		IsBetweenRounds:      s.IsBetweenRounds,
		BetweenRoundsMinutes: s.BetweenRoundsMinutes,
		BetweenRoundsSeconds: s.BetweenRoundsSeconds,
		BetweenRoundsEnabled: s.BetweenRoundsEnabled,
		BetweenRoundsTime:    s.BetweenRoundsTime,
		WarningLeadTime:      s.WarningLeadTime,
		WarningSoundPath:     s.WarningSoundPath,
		EndSoundPath:         s.EndSoundPath,
		NTPSyncEnabled:       s.NTPSyncEnabled,
		NTPOffset:            s.NTPOffset,
		EndTime:              s.EndTime,
		TimeStamp:            s.TimeStamp,
		ServerTime:           s.ServerTime,
		APIVersion:           s.APIVersion,
		ConnectionProtocol:   s.ConnectionProtocol,
		InitialTime:          s.InitialTime,
		StartTime:            s.StartTime,
		PauseStartTime:       s.PauseStartTime,
		TotalPausedTime:      s.TotalPausedTime,
		CurrentPauseDuration: s.CurrentPauseDuration,
		LastUpdateTime:       s.LastUpdateTime,
	}
	for _, f := range s.Present().Fields() {
		out.Present = append(out.Present, f.String())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	return nil
}

func printStatus(w io.Writer, s clock.Status) {
	label, attr := "READY", color.FgCyan
	remaining := fmt.Sprintf("%02d:%02d", s.Minutes, s.Seconds)
	switch {
	case s.IsBetweenRounds:
		label, attr = "BREAK", color.FgMagenta
		remaining = fmt.Sprintf("%02d:%02d", s.BetweenRoundsMinutes, s.BetweenRoundsSeconds)
	case s.IsRunning && s.IsPaused:
		label, attr = "PAUSED", color.FgYellow
	case s.IsRunning:
		label, attr = "RUNNING", color.FgGreen
	}

	badge := color.New(attr, color.Bold)
	faint := color.New(color.Faint)

	badge.Fprintf(w, "● %-7s", label)
	fmt.Fprintf(w, "  %s  ", color.New(color.Bold).Sprint(remaining))
	fmt.Fprintf(w, "round %d/%d\n", s.CurrentRound, s.TotalRounds)

	rest := "off"
	if s.BetweenRoundsEnabled {
		rest = fmt.Sprintf("%ds", s.BetweenRoundsTime)
	}
	ntp := "off"
	if s.NTPSyncEnabled {
		ntp = fmt.Sprintf("%+dms", s.NTPOffset)
	}
	faint.Fprintf(w, "  elapsed %02d:%02d   rest %s   ntp %s", s.ElapsedMinutes, s.ElapsedSeconds, rest, ntp)
	if s.APIVersion != "" {
		faint.Fprintf(w, "   api %s", s.APIVersion)
	}
	fmt.Fprintln(w)
}
