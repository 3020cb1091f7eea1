package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamerunner/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  gamerunner menu
  gamerunner menu --fps 30
  gamerunner menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	addRunnerFlags(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	set, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	for {
		result, err := tui.RunMenu(store)
		if err != nil {
			return err
		}

		switch {
		case result.Quit || (result.GameID == "" && !result.WantsScoreboard):
			return nil

		case result.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, "")
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			d, err := set.lookup(result.GameID)
			if err != nil {
				return err
			}
			if err := tui.Run(tui.PlayConfig{
				Descriptor: d,
				Overrides:  set.overrides,
				Store:      store,
				Logger:     logger,
			}); err != nil {
				logger.Error("game ended with error", "game", d.ID, "error", err)
			}
		}
	}
}
