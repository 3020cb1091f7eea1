package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gamerunner/internal/platform/tui"
	"github.com/vovakirdan/gamerunner/internal/registry"
	"github.com/vovakirdan/gamerunner/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Browse the top scores and play summary of each game.

In a terminal the scores open in an interactive table; Tab switches games.
With --plain, or when output is not a terminal, the top scores and the
most recent runs of the given game are printed instead.

Examples:
  gamerunner scores
  gamerunner scores snake
  gamerunner scores pong --plain --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print scores instead of opening the table")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores and runs to print")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			return fmt.Errorf("%w: %q\nRun 'gamerunner list' to see available games", registry.ErrUnknownGame, gameID)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := tui.RunScoreboard(store, gameID)
		return err
	}

	if gameID == "" {
		return fmt.Errorf("a game id is required with --plain")
	}
	return printScores(store, gameID)
}

func printScores(store *storage.Store, gameID string) error {
	d, err := registry.Lookup(gameID)
	if err != nil {
		return err
	}

	scores, err := store.TopScores(gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", d.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'gamerunner play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	summary, err := store.Summary(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Average: %.1f  Runs: %d\n", summary.HighScore, summary.AvgScore, summary.Runs)
	}

	runs, err := store.RecentRuns(gameID, flagLimit)
	if err != nil || len(runs) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Printf("  %-16s  %-8s  %-10s  %-9s  %s\n", "Date", "Ticks", "Duration", "FPS", "Score")
	for _, r := range runs {
		fmt.Printf("  %-16s  %-8d  %-10s  %4.1f/%-4d  %d\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Ticks, r.Duration.Round(100*time.Millisecond), r.AvgFPS(), r.TargetFPS, r.Score)
	}
	return nil
}
