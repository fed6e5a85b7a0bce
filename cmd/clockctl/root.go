package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/clockctl/internal/clockapi"
	"github.com/five82/clockctl/internal/config"
	"github.com/five82/clockctl/internal/logging"
	"github.com/five82/clockctl/internal/prefs"
)

// Commands with this annotation log to the configured file instead of
// stderr, which the terminal UI owns.
const annotationLogToFile = "clockctl/log-to-file"

// cli holds flag values and the state built by setup.
type cli struct {
	configPath string
	prefsPath  string
	host       string
	port       int
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "clockctl",
		Short: "Remote control for an interval clock server",
		Long: `clockctl drives a server hosted interval clock. Without a subcommand it
opens a live terminal view fed by the server's status stream; the other
subcommands issue a single command over HTTP and exit.`,
		Args:              cobra.NoArgs,
		Annotations:       map[string]string{annotationLogToFile: "true"},
		PersistentPreRunE: c.setup,
		PersistentPostRun: c.teardown,
		RunE:              c.runWatch,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&c.prefsPath, "prefs", "", "preferences file (default "+prefs.DefaultPath()+")")
	flags.StringVar(&c.host, "host", "", "clock server host")
	flags.IntVar(&c.port, "port", 0, "clock server port")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(c.newWatchCmd(), c.newStatusCmd(), c.newDefaultsCmd())
	root.AddCommand(c.newControlCmds()...)
	return root
}

// setup loads configuration with flag overrides and builds the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = c.host
	}
	if flags.Changed("port") {
		cfg.Port = c.port
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.cfg = cfg

	opts := logging.Options{Level: cfg.LogLevel}
	if cmd.Annotations[annotationLogToFile] == "true" {
		opts.Path = cfg.LogFile
	}
	logger, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.logger = logger

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, logger))
	return nil
}

func (c *cli) teardown(_ *cobra.Command, _ []string) {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func (c *cli) apiClient() (*clockapi.Client, error) {
	client, err := clockapi.NewClient(c.cfg.APIBaseURL(), c.logger)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	return client, nil
}
