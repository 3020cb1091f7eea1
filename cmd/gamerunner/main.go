// gamerunner hosts fixed-tick terminal games.
//
// Usage:
//
//	gamerunner list              - List available games
//	gamerunner play <game>       - Play a game
//	gamerunner menu              - Pick games interactively
//	gamerunner probe             - Describe the current terminal
//	gamerunner scores [game]     - Browse recorded scores
//	gamerunner serve             - Start SSH server for remote play
//
// Global flags:
//
//	--db <path>          - Set database path (default: ~/.gamerunner/scores.db)
//	--log-file <path>    - Append logs to a file
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/gamerunner/internal/games/pong"
	_ "github.com/vovakirdan/gamerunner/internal/games/snake"
)

var (
	// Global flags
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gamerunner",
	Short: "Run fixed-tick games in your terminal",
	Long: `gamerunner hosts small real-time games on a character grid. Each game
is driven by a fixed-rate loop with frame statistics, dialogs that pause
the clock, and key-down/key-up input.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  probe    - Describe the current terminal
  scores   - View high scores
  serve    - Start SSH server for remote play

Examples:
  gamerunner list
  gamerunner play pong --fps 30 --stats
  gamerunner play snake --headless --frames 300 --snapshot ./shots
  gamerunner serve --ssh :2222`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gamerunner/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// setupLogger builds the process logger and installs it as the default.
// Full-screen commands pass fallback io.Discard so log lines never land on
// the alternate screen; --log-file always wins.
func setupLogger(fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	out := fallback
	closeFn := func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	log.SetDefault(logger)
	return logger, closeFn, nil
}
