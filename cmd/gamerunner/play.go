package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/platform/headless"
	"github.com/vovakirdan/gamerunner/internal/platform/tui"
	"github.com/vovakirdan/gamerunner/internal/runner"
	"github.com/vovakirdan/gamerunner/internal/snapshot"
	"github.com/vovakirdan/gamerunner/internal/storage"
)

// Headless surfaces default to a classic terminal size.
const (
	headlessWidth  = 80
	headlessHeight = 24
)

var (
	flagSurface  string
	flagHeadless bool
	flagFrames   int
	flagSnapshot string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Runner settings are layered: the game's own defaults, then the "runner"
section of the config file, then any flag given on the command line.

Controls:
  Arrows     - Move
  P/Space    - Pause
  Q/Esc      - Quit the game
  Ctrl+S     - Save a text and PNG snapshot of the screen
  Ctrl+C     - Leave immediately

Difficulty options (snake):
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Headless mode runs the game without a terminal on a virtual surface,
answering every dialog with "yes", until --frames ticks have fired.

Examples:
  gamerunner play pong
  gamerunner play pong --fps 30 --stats
  gamerunner play snake --difficulty hard
  gamerunner play snake --config ./my-gamerunner.yaml
  gamerunner play snake --headless --seed 7 --frames 600 --snapshot ./shots`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	addRunnerFlags(playCmd)
	playCmd.Flags().StringVar(&flagSurface, "surface", "", "Target surface id (default: main)")
	playCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a terminal")
	playCmd.Flags().IntVar(&flagFrames, "frames", 600, "Ticks to run in headless mode (0 = until the game stops)")
	playCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "Headless: directory to write a final snapshot to")
}

func runPlay(cmd *cobra.Command, args []string) error {
	set, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	d, err := set.lookup(args[0])
	if err != nil {
		return fmt.Errorf("%w\nRun 'gamerunner list' to see available games", err)
	}

	if flagHeadless {
		logger, closeLog, err := setupLogger(os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()
		store := openStore(logger)
		if store != nil {
			defer store.Close()
		}
		return playHeadless(cmd.Context(), d, set.overrides, store, logger)
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

	return tui.Run(tui.PlayConfig{
		Descriptor: d,
		Overrides:  set.overrides,
		Surface:    flagSurface,
		Store:      store,
		Logger:     logger,
	})
}

// playHeadless drives the game on a virtual surface until the frame budget
// is spent, the game stops itself or the process is interrupted.
func playHeadless(ctx context.Context, d runner.Descriptor, overrides core.Options, store *storage.Store, logger *log.Logger) error {
	w, h := headlessWidth, headlessHeight
	if overrides.Width != nil && *overrides.Width > 0 {
		w = *overrides.Width
	}
	if overrides.Height != nil && *overrides.Height > 0 {
		h = *overrides.Height
	}

	host := headless.NewHost(w, h, headless.WithLogger(logger.WithPrefix("headless")))
	defer host.Close()

	surface := flagSurface
	if surface == "" {
		surface = headless.MainSurface
	}
	r, err := runner.Launch(host, surface, d, overrides, runner.WithLogger(logger.WithPrefix("runner")))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	started := time.Now()
	frames, err := host.Run(ctx, flagFrames)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	r.Stop()

	run := storage.Run{
		GameID:    d.ID,
		Ticks:     frames,
		Duration:  time.Since(started),
		TargetFPS: r.Config().FPS,
	}
	if scorer, ok := r.Game().(runner.Scorer); ok {
		run.Score = scorer.Score()
	}
	if store != nil {
		if _, err := store.SaveRun(run); err != nil {
			logger.Warn("could not save run", "game", d.ID, "error", err)
		}
	}

	fmt.Printf("%s: %d frames in %s (%.1f fps), score %d\n",
		d.Title, run.Ticks, run.Duration.Round(time.Millisecond), run.AvgFPS(), run.Score)

	if flagSnapshot != "" {
		paths, err := snapshot.Save(flagSnapshot, d.ID, r.Front(), time.Now())
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println("wrote", p)
		}
	}
	return nil
}

// openStore opens the score database. Games still run without one.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
