package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/clockctl/internal/app"
	"github.com/five82/clockctl/internal/prefs"
)

func (c *cli) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "watch",
		Short:       "Open the live terminal view (default)",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLogToFile: "true"},
		RunE:        c.runWatch,
	}
}

func (c *cli) runWatch(cmd *cobra.Command, _ []string) error {
	p, err := prefs.Load(c.prefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	return app.Run(cmd.Context(), app.Options{
		Config:    c.cfg,
		Prefs:     p,
		PrefsPath: c.prefsPath,
	})
}
