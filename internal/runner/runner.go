// Package runner drives a hosted game at a fixed tick rate.
//
// A Runner owns the timer, a pair of equally sized surfaces and the frame
// statistics. Each tick it measures the elapsed wall-clock time, updates
// the game, lets it draw onto the offscreen back surface and then copies the
// back surface wholesale onto the visible front surface.
package runner

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamerunner/internal/core"
)

var (
	// ErrIncompatible is returned by Start when the host lacks a required
	// capability. No runner or game is constructed.
	ErrIncompatible = errors.New("runner: environment is not compatible")

	// ErrNoSurface is returned when the target surface cannot be found.
	ErrNoSurface = errors.New("runner: target surface not found")

	// ErrNoGame is returned when a descriptor cannot produce a game.
	ErrNoGame = errors.New("runner: descriptor did not produce a game")
)

// Runner is the fixed-interval game loop.
type Runner struct {
	host     Host
	cfg      core.Config
	interval time.Duration

	front *core.Screen
	back  *core.Screen

	lastFrame time.Time
	cancel    func() // nil while stopped

	stats  *Stats
	game   Game
	logger *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used by the runner.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New constructs a runner for the game described by d on the host surface
// named surfaceID. The game's declared defaults are merged with overrides,
// overrides winning. The runner does not start itself; the game calls Start
// when its own setup is finished.
//
// A failed New leaves the host as it found it: the front surface keeps its
// size and content and no key listener stays registered.
func New(h Host, surfaceID string, d Descriptor, overrides core.Options, opts ...Option) (*Runner, error) {
	if d.New == nil {
		return nil, fmt.Errorf("%w: %q has no constructor", ErrNoGame, d.ID)
	}

	r := &Runner{
		host:   h,
		logger: log.Default().WithPrefix("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}

	front, err := h.Surface(surfaceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrNoSurface, surfaceID, err)
	}
	if front == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSurface, surfaceID)
	}

	cfg, err := core.Resolve(core.Merge(d.Defaults, overrides), front.Width(), front.Height())
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}
	r.cfg = cfg
	r.interval = cfg.Interval()

	saved := core.NewScreen(front.Width(), front.Height())
	saved.CopyFrom(front)
	abandon := func() {
		r.Stop()
		h.Listen(nil)
		front.Resize(saved.Width(), saved.Height())
		front.CopyFrom(saved)
	}

	front.Resize(cfg.Width, cfg.Height)
	r.front = front
	r.back = core.NewScreen(cfg.Width, cfg.Height)

	h.Listen(r)
	r.stats = NewStats(cfg.FPS, cfg.Stats)
	r.stats.Reset()

	game, err := d.New(r, cfg)
	if err != nil {
		abandon()
		return nil, fmt.Errorf("runner: cannot construct %q: %w", d.ID, err)
	}
	if game == nil {
		abandon()
		return nil, fmt.Errorf("%w: %q", ErrNoGame, d.ID)
	}
	r.game = game

	r.logger.Debug("runner constructed",
		"game", d.ID,
		"surface", surfaceID,
		"fps", cfg.FPS,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"stats", cfg.Stats,
	)
	return r, nil
}

// Start records the current time as the previous frame and arms the timer.
// Calling Start while running re-arms the timer.
func (r *Runner) Start() {
	if r.cancel != nil {
		r.cancel()
	}
	r.lastFrame = r.host.Now()
	r.cancel = r.host.Every(r.interval, r.loop)
	r.logger.Debug("timer armed", "interval", r.interval)
}

// Stop disarms the timer. It is safe to call any number of times.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.cancel = nil
	r.logger.Debug("timer disarmed")
}

// Running reports whether the timer is armed.
func (r *Runner) Running() bool {
	return r.cancel != nil
}

// loop is one tick. dt is not clamped; callers that block must stop the
// timer first, which is what Alert and Confirm do.
func (r *Runner) loop() {
	start := r.host.Now()
	r.game.Update(start.Sub(r.lastFrame).Seconds())
	middle := r.host.Now()
	r.draw()
	end := r.host.Now()
	r.stats.Update(millis(middle.Sub(start)), millis(end.Sub(middle)))
	r.lastFrame = start
}

// draw renders the game offscreen and composites the result onto the front
// surface in one copy.
func (r *Runner) draw() {
	r.back.Clear()
	r.game.Draw(r.back)
	r.stats.Render(r.back)
	r.front.Clear()
	r.front.CopyFrom(r.back)
}

// Alert stops the loop, shows msg and restarts the loop once the dialog is
// dismissed, so the time the dialog was open never reaches Update. done may
// be nil.
func (r *Runner) Alert(msg string, done func()) {
	r.Stop()
	r.logger.Debug("dialog opened", "kind", DialogAlert, "message", msg)
	r.host.Dialog(DialogAlert, msg, func(bool) {
		r.Start()
		if done != nil {
			done()
		}
	})
}

// Confirm is like Alert but asks a yes/no question and passes the answer
// to done.
func (r *Runner) Confirm(msg string, done func(ok bool)) {
	r.Stop()
	r.logger.Debug("dialog opened", "kind", DialogConfirm, "message", msg)
	r.host.Dialog(DialogConfirm, msg, func(ok bool) {
		r.Start()
		if done != nil {
			done(ok)
		}
	})
}

// HideCursor hides the cursor over the surface.
func (r *Runner) HideCursor() { r.host.SetCursorVisible(false) }

// ShowCursor shows the cursor over the surface.
func (r *Runner) ShowCursor() { r.host.SetCursorVisible(true) }

// Game returns the hosted game instance.
func (r *Runner) Game() Game { return r.game }

// Config returns the resolved configuration.
func (r *Runner) Config() core.Config { return r.cfg }

// Interval returns the tick interval.
func (r *Runner) Interval() time.Duration { return r.interval }

// Width returns the surface width.
func (r *Runner) Width() int { return r.cfg.Width }

// Height returns the surface height.
func (r *Runner) Height() int { return r.cfg.Height }

// Front returns the visible surface.
func (r *Runner) Front() *core.Screen { return r.front }

// Back returns the offscreen surface.
func (r *Runner) Back() *core.Screen { return r.back }

// Stats returns the frame statistics tracker.
func (r *Runner) Stats() *Stats { return r.stats }

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Start is the entry point for running a game. It checks the host's
// capabilities, constructs a runner and returns the game instance. When the
// host is not compatible it returns ErrIncompatible and constructs nothing.
func Start(h Host, surfaceID string, d Descriptor, overrides core.Options, opts ...Option) (Game, error) {
	r, err := Launch(h, surfaceID, d, overrides, opts...)
	if err != nil {
		return nil, err
	}
	return r.Game(), nil
}

// Launch is Start for platforms that need the runner itself, for instance to
// read the resolved configuration when recording a run.
func Launch(h Host, surfaceID string, d Descriptor, overrides core.Options, opts ...Option) (*Runner, error) {
	if !h.Capabilities().Compatible() {
		return nil, ErrIncompatible
	}
	return New(h, surfaceID, d, overrides, opts...)
}
