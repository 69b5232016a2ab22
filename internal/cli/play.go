package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zappabad/stockpick/internal/game"
	"github.com/zappabad/stockpick/internal/logger"
	"github.com/zappabad/stockpick/tui"
)

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the interactive game (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts)
		},
	}
}

func runPlay(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// the terminal belongs to the TUI, so logs go to a file
	f, err := tea.LogToFile(cfg.Logging.File, "stockpick")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	initLogger(cfg, f)

	g, err := game.NewGame(cfg.Game())
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	defer g.Close()

	p := tea.NewProgram(tui.NewModel(g), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	t := g.Tally()
	logger.Info("session over: %d rounds, %d won", t.Rounds, t.Wins)
	return nil
}
