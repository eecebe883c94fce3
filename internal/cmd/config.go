package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/unibot/cli/internal/config"
)

// ConfigCmd returns the `unibot config` command group.
func ConfigCmd(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the stored CLI configuration",
	}
	cmd.AddCommand(configShowCmd(g))
	cmd.AddCommand(configSetCmd(g))
	return cmd
}

func configShowCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			g.apply(cfg)

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			out := cmd.OutOrStdout()
			color.New(color.Faint).Fprintf(out, "# %s\n", config.Path())
			_, err = out.Write(data)
			return err
		},
	}
}

// configSetCmd writes --base-url, --timeout and --log-level into the config
// file. Values from UNIBOT_* variables are never persisted.
func configSetCmd(g *Globals) *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the base URL, timeout or log level",
		Example: `  unibot config set --base-url http://localhost:5000/api
  unibot config set --timeout 30s --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if g.BaseURL == "" && g.Timeout <= 0 && logLevel == "" {
				return fmt.Errorf("nothing to set: pass --base-url, --timeout or --log-level")
			}

			cfg, err := config.LoadFile()
			if err != nil {
				return err
			}
			g.apply(cfg)
			if logLevel != "" {
				if _, err := zapcore.ParseLevel(logLevel); err != nil {
					return fmt.Errorf("invalid --log-level: %w", err)
				}
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			color.New(color.FgGreen).Fprint(cmd.OutOrStdout(), "saved ")
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}
