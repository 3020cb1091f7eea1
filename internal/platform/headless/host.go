// Package headless implements a runner host without a terminal. It drives
// the timer from a time.Ticker in the caller's goroutine, answers dialogs with
// a fixed value and accepts scripted key events. It backs the --headless play
// mode and the game tests.
package headless

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/probe"
	"github.com/vovakirdan/gamerunner/internal/runner"
)

// MainSurface is the id of the surface every host registers.
const MainSurface = "main"

// ErrUnknownSurface is returned by Surface for ids that were never added.
var ErrUnknownSurface = errors.New("headless: unknown surface")

// DialogRecord is a dialog the host has shown.
type DialogRecord struct {
	Kind    runner.DialogKind
	Message string
	Answer  bool
}

type timer struct {
	interval time.Duration
	fn       func()
	ticker   *time.Ticker
}

// Host is a runner.Host with no terminal attached.
type Host struct {
	clock    func() time.Time
	surfaces map[string]*core.Screen
	listener runner.KeyListener
	timer    *timer
	answer   bool
	cursor   bool
	manual   bool

	pending []func()
	dialogs []DialogRecord
	logger  *log.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(h *Host) { h.clock = now }
}

// WithAnswer sets the answer given to confirm dialogs. Alerts always answer
// true.
func WithAnswer(ok bool) Option {
	return func(h *Host) { h.answer = ok }
}

// WithManualTimer stops Every from creating real tickers. The timer then
// only fires through Tick.
func WithManualTimer() Option {
	return func(h *Host) { h.manual = true }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHost creates a host with a main surface of the given size.
func NewHost(width, height int, opts ...Option) *Host {
	h := &Host{
		clock:    time.Now,
		surfaces: map[string]*core.Screen{MainSurface: core.NewScreen(width, height)},
		answer:   true,
		cursor:   true,
		logger:   log.Default().WithPrefix("headless"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddSurface registers another surface under id.
func (h *Host) AddSurface(id string, width, height int) *core.Screen {
	s := core.NewScreen(width, height)
	h.surfaces[id] = s
	return s
}

// Capabilities reports a fully compatible environment.
func (h *Host) Capabilities() probe.Capabilities {
	main := h.surfaces[MainSurface]
	return probe.Capabilities{
		Term:        "headless",
		Program:     "headless",
		Name:        "headless",
		Interactive: true,
		Drawable:    true,
		Width:       main.Width(),
		Height:      main.Height(),
		Profile:     termenv.Ascii,
	}
}

// Now returns the host clock.
func (h *Host) Now() time.Time { return h.clock() }

// Surface returns the surface registered under id.
func (h *Host) Surface(id string) (*core.Screen, error) {
	s, ok := h.surfaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, id)
	}
	return s, nil
}

// Every arms the timer, replacing any armed one.
func (h *Host) Every(interval time.Duration, fn func()) func() {
	h.disarm()
	t := &timer{interval: interval, fn: fn}
	if !h.manual {
		t.ticker = time.NewTicker(interval)
	}
	h.timer = t
	return func() {
		if h.timer == t {
			h.disarm()
		}
	}
}

func (h *Host) disarm() {
	if h.timer == nil {
		return
	}
	if h.timer.ticker != nil {
		h.timer.ticker.Stop()
	}
	h.timer = nil
}

// Armed reports whether a timer is armed.
func (h *Host) Armed() bool { return h.timer != nil }

// Listen registers the key listener.
func (h *Host) Listen(l runner.KeyListener) { h.listener = l }

// Dialog records the dialog and queues its answer. The answer is delivered
// by the next Flush, Tick or Run iteration, never from inside Dialog.
func (h *Host) Dialog(kind runner.DialogKind, msg string, done func(ok bool)) {
	ok := kind == runner.DialogAlert || h.answer
	h.dialogs = append(h.dialogs, DialogRecord{Kind: kind, Message: msg, Answer: ok})
	h.logger.Debug("dialog", "kind", kind, "message", msg, "answer", ok)
	h.pending = append(h.pending, func() { done(ok) })
}

// Dialogs returns every dialog shown so far.
func (h *Host) Dialogs() []DialogRecord { return h.dialogs }

// SetCursorVisible records cursor visibility.
func (h *Host) SetCursorVisible(visible bool) { h.cursor = visible }

// CursorVisible reports the last cursor visibility set.
func (h *Host) CursorVisible() bool { return h.cursor }

// Press delivers a key-down event.
func (h *Host) Press(code core.KeyCode) {
	if h.listener != nil {
		h.listener.KeyDown(code)
	}
}

// Release delivers a key-up event.
func (h *Host) Release(code core.KeyCode) {
	if h.listener != nil {
		h.listener.KeyUp(code)
	}
}

// Tap presses and releases a key.
func (h *Host) Tap(code core.KeyCode) {
	h.Press(code)
	h.Release(code)
}

// Flush delivers queued dialog answers in order.
func (h *Host) Flush() {
	for len(h.pending) > 0 {
		next := h.pending[0]
		h.pending = h.pending[1:]
		next()
	}
}

// Tick flushes pending dialogs and then fires the armed timer once, without
// waiting. It reports whether a callback ran.
func (h *Host) Tick() bool {
	h.Flush()
	if h.timer == nil {
		return false
	}
	h.timer.fn()
	return true
}

// Run drives the timer until frames ticks have fired, the context is done
// or nothing is left to do (timer disarmed and no dialog pending). frames <= 0
// means no limit. It returns the number of ticks fired.
func (h *Host) Run(ctx context.Context, frames int) (int, error) {
	n := 0
	for frames <= 0 || n < frames {
		h.Flush()
		if h.timer == nil {
			h.logger.Debug("timer disarmed, stopping", "frames", n)
			return n, nil
		}

		if h.timer.ticker == nil {
			if err := ctx.Err(); err != nil {
				return n, err
			}
			h.timer.fn()
			n++
			continue
		}

		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case <-h.timer.ticker.C:
			h.timer.fn()
			n++
		}
	}
	return n, nil
}

// Close disarms the timer.
func (h *Host) Close() { h.disarm() }

var _ runner.Host = (*Host)(nil)
