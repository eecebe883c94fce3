package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unibot/cli/internal/api"
	"github.com/unibot/cli/internal/apperr"
	"github.com/unibot/cli/internal/config"
	"github.com/unibot/cli/internal/logging"
	"github.com/unibot/cli/internal/ui"
)

// Globals holds the persistent flags shared by every command.
type Globals struct {
	BaseURL string
	Timeout time.Duration
	Verbose bool
}

func (g *Globals) register(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&g.BaseURL, "base-url", "", "UniBot API root, e.g. http://localhost:5000/api")
	f.DurationVar(&g.Timeout, "timeout", 0, "per-request timeout (default from config)")
	f.BoolVarP(&g.Verbose, "verbose", "v", false, "debug logging")
}

// apply overrides cfg with the flags that were given.
func (g *Globals) apply(cfg *config.Config) {
	if g.BaseURL != "" {
		cfg.BaseURL = g.BaseURL
	}
	if g.Timeout > 0 {
		cfg.Timeout = g.Timeout
	}
}

// env is what a command runs with once flags and config are resolved.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	client *api.Client
}

func (e *env) close() {
	_ = e.logger.Sync()
}

// resolve loads the config, applies flag overrides and builds the logger
// and API client. Interactive sessions keep logging in the file because
// the terminal belongs to the UI; --verbose elsewhere logs to stderr.
func (g *Globals) resolve(interactive bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	g.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, OutputPath: cfg.LogFile}
	if g.Verbose {
		opts.Level = "debug"
		if !interactive {
			opts.Format = "console"
			opts.OutputPath = "stderr"
		}
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.BaseURL, cfg.Timeout).WithLogger(logger)
	return &env{cfg: cfg, logger: logger, client: client}, nil
}

// NewRootCmd returns the `unibot` command tree. Without a subcommand it
// opens the chat surface.
func NewRootCmd() *cobra.Command {
	g := &Globals{}
	root := &cobra.Command{
		Use:   "unibot",
		Short: "UniBot - campus FAQ assistant",
		Long:  "UniBot CLI: ask campus questions, and manage the FAQ knowledge base as an admin.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunTUI(g, ui.SurfaceChat)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.register(root)

	root.AddCommand(AskCmd(g))
	root.AddCommand(ProbeCmd(g))
	root.AddCommand(LoginCmd(g))
	root.AddCommand(FAQCmd(g))
	root.AddCommand(AdminCmd(g))
	root.AddCommand(ConfigCmd(g))
	return root
}

// commandError turns a classified failure into the one-line message a
// terminal user should read. The cause stays in the log.
func commandError(e *env, op string, err error) error {
	e.logger.Debug(op+" failed", zap.Error(err))
	return fmt.Errorf("%s: %s", op, userMessage(err))
}

func userMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
