package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/unibot/cli/internal/ui"
)

// RunTUI opens the full-screen interface on the given surface.
func RunTUI(g *Globals, start ui.Surface) error {
	e, err := g.resolve(true)
	if err != nil {
		return err
	}
	defer e.close()

	app := ui.NewApp(e.client, e.cfg, e.logger, start)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// AdminCmd returns the `unibot admin` command.
func AdminCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Open the admin interface (login, then manage FAQs)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunTUI(g, ui.SurfaceAdmin)
		},
	}
}
