package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/clockctl/internal/clockapi"
	"github.com/five82/clockctl/internal/config"
	"github.com/five82/clockctl/internal/logging"
	"github.com/five82/clockctl/internal/prefs"
	"github.com/five82/clockctl/internal/state"
	"github.com/five82/clockctl/internal/stream"
	"github.com/five82/clockctl/internal/ui"
)

// Options configure the clockctl watch session.
type Options struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string // empty uses default ~/.config/clockctl/prefs.toml
}

// Run boots the terminal UI and its background transports until the user
// quits or the context is cancelled. The logger is taken from ctx.
func Run(ctx context.Context, opts Options) error {
	logger := logging.FromContext(ctx)
	cfg := opts.Config

	client, err := clockapi.NewClient(cfg.APIBaseURL(), logger)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := state.NewStore(state.Options{Logger: logger})
	defer store.Close()

	sup := &Supervisor{
		Stream:        stream.New(stream.Options{Logger: logger}),
		Store:         store,
		Fetcher:       client,
		Endpoint:      cfg.StreamURL(),
		ReconnectBase: cfg.ReconnectInterval,
		PollInterval:  cfg.PollInterval,
		Logger:        logger,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info("starting watch",
		zap.String("api", cfg.APIBaseURL()),
		zap.String("stream", cfg.StreamURL()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sup.RunStream(gctx) })
	g.Go(func() error { return sup.RunPoller(gctx) })
	g.Go(func() error {
		// Quitting the UI ends the session.
		defer cancel()
		return ui.Run(gctx, ui.Options{
			Store:     store,
			Commander: client,
			Fetcher:   client,
			Prefs:     opts.Prefs,
			PrefsPath: opts.PrefsPath,
			Server:    cfg.Address(),
			LogPath:   cfg.LogFile,
			Logger:    logger,
		})
	})
	return g.Wait()
}
