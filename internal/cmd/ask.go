package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/unibot/cli/internal/chat"
)

var errNoAnswer = errors.New("no answer")

// AskCmd returns the `unibot ask` command.
func AskCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask UniBot a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return fmt.Errorf("question is required")
			}

			e, err := g.resolve(false)
			if err != nil {
				return err
			}
			defer e.close()

			s := chat.NewSession(e.client, e.logger)
			if err := s.Send(cmd.Context(), question); err != nil {
				return commandError(e, "ask", err)
			}

			transcript := s.Transcript()
			reply := transcript[len(transcript)-1]
			if reply.Fallback {
				color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), reply.Text)
				return errNoAnswer
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return nil
		},
	}
}

// ProbeCmd returns the `unibot probe` command.
func ProbeCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that the UniBot server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := g.resolve(false)
			if err != nil {
				return err
			}
			defer e.close()

			s := chat.NewSession(e.client, e.logger)
			out := cmd.OutOrStdout()
			if !s.Probe(cmd.Context()) {
				color.New(color.FgRed).Fprint(out, "unreachable ")
				fmt.Fprintln(out, e.client.BaseURL())
				return fmt.Errorf("could not connect to %s", e.client.BaseURL())
			}
			color.New(color.FgGreen).Fprint(out, "reachable ")
			fmt.Fprintln(out, e.client.BaseURL())
			return nil
		},
	}
}
