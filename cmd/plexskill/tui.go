package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/plexskill/internal/tui"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Search interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := ctx.newProvider()
			if err != nil {
				return err
			}
			searcher, err := ctx.newSearcher(provider, "")
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				tui.NewModel(searcher),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)

			ctx.logger.Info("starting TUI")
			if _, err := p.Run(); err != nil {
				ctx.logger.Error("TUI error", "error", err)
				return fmt.Errorf("TUI error: %w", err)
			}
			ctx.logger.Info("shutting down")
			return nil
		},
	}
}
