package tui

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/probe"
	"github.com/vovakirdan/gamerunner/internal/runner"
)

// MainSurface is the id of the surface every host registers.
const MainSurface = "main"

// Terminals report presses only, so a held key is released once its presses
// stop. A single press holds the key for DefaultRepeatDelay, long enough for
// the terminal's autorepeat to begin; once repeats arrive, the key is
// released DefaultReleaseAfter after the last one.
const (
	DefaultRepeatDelay  = 500 * time.Millisecond
	DefaultReleaseAfter = 150 * time.Millisecond
)

// ErrUnknownSurface is returned by Surface for ids that were never added.
var ErrUnknownSurface = errors.New("tui: unknown surface")

type timerState struct {
	gen      uint64
	armed    bool
	interval time.Duration
	fn       func()
}

type heldKey struct {
	last      time.Time
	repeating bool
}

type dialog struct {
	kind runner.DialogKind
	msg  string
	done func(ok bool)
}

// Host is a runner.Host driven by a Bubble Tea program. It is not safe for
// concurrent use; every method must run inside the program's Update.
// Side effects that need the program (timer ticks, cursor changes) are
// queued and collected with Cmds.
type Host struct {
	caps     probe.Capabilities
	clock    func() time.Time
	surfaces map[string]*core.Screen
	listener runner.KeyListener
	keys     KeyMap

	timer   timerState
	ticks   int
	dialogs []dialog

	held         map[core.KeyCode]heldKey
	repeatDelay  time.Duration
	releaseAfter time.Duration

	cursor bool
	cmds   []tea.Cmd
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) HostOption {
	return func(h *Host) { h.clock = now }
}

// WithRepeatDelay sets how long a key with a single press stays held.
func WithRepeatDelay(d time.Duration) HostOption {
	return func(h *Host) {
		if d > 0 {
			h.repeatDelay = d
		}
	}
}

// WithReleaseAfter sets the synthesised key-up delay after a repeated press.
func WithReleaseAfter(d time.Duration) HostOption {
	return func(h *Host) {
		if d > 0 {
			h.releaseAfter = d
		}
	}
}

// NewHost creates a host with a main surface of the given size.
func NewHost(width, height int, caps probe.Capabilities, opts ...HostOption) *Host {
	h := &Host{
		caps:         caps,
		clock:        time.Now,
		surfaces:     map[string]*core.Screen{MainSurface: core.NewScreen(width, height)},
		keys:         DefaultKeyMap(),
		held:         make(map[core.KeyCode]heldKey),
		repeatDelay:  DefaultRepeatDelay,
		releaseAfter: DefaultReleaseAfter,
		cursor:       true,
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

// Capabilities returns the probed terminal capabilities.
func (h *Host) Capabilities() probe.Capabilities { return h.caps }

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

// Every arms the timer under a new generation, which invalidates ticks
// already scheduled for an older one.
func (h *Host) Every(interval time.Duration, fn func()) func() {
	h.timer.gen++
	gen := h.timer.gen
	h.timer.armed = true
	h.timer.interval = interval
	h.timer.fn = fn
	h.cmds = append(h.cmds, tickCmd(h, interval, gen))

	return func() {
		if h.timer.gen == gen {
			h.timer.armed = false
		}
	}
}

// Armed reports whether a timer is armed.
func (h *Host) Armed() bool { return h.timer.armed }

// Ticks returns the number of timer callbacks fired so far.
func (h *Host) Ticks() int { return h.ticks }

// Listen registers the key listener.
func (h *Host) Listen(l runner.KeyListener) { h.listener = l }

// Dialog opens a modal dialog. Dialogs opened while another is showing
// queue behind it.
func (h *Host) Dialog(kind runner.DialogKind, msg string, done func(ok bool)) {
	h.dialogs = append(h.dialogs, dialog{kind: kind, msg: msg, done: done})
}

// DialogOpen reports whether a dialog is showing.
func (h *Host) DialogOpen() bool { return len(h.dialogs) > 0 }

// SetCursorVisible queues a cursor change.
func (h *Host) SetCursorVisible(visible bool) {
	h.cursor = visible
	if visible {
		h.cmds = append(h.cmds, tea.ShowCursor)
	} else {
		h.cmds = append(h.cmds, tea.HideCursor)
	}
}

// CursorVisible reports the last cursor visibility set.
func (h *Host) CursorVisible() bool { return h.cursor }

// Idle reports whether the host has nothing left to do: no timer armed and
// no dialog waiting for an answer.
func (h *Host) Idle() bool {
	return !h.timer.armed && !h.DialogOpen()
}

// Cmds returns the queued commands as one batch and clears the queue.
func (h *Host) Cmds() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	cmds := h.cmds
	h.cmds = nil
	return tea.Batch(cmds...)
}

// HandleTick fires the timer callback for a tick of the current generation
// and schedules the next one. Held keys that have not been pressed again
// within the release window are released first.
func (h *Host) HandleTick(msg TickMsg) {
	if msg.host != h || msg.Gen != h.timer.gen || !h.timer.armed {
		return
	}
	h.releaseStale(h.clock())

	gen := h.timer.gen
	h.ticks++
	h.timer.fn()

	if h.timer.armed && h.timer.gen == gen {
		h.cmds = append(h.cmds, tickCmd(h, h.timer.interval, gen))
	}
}

// HandleKey routes a key message to the open dialog or, translated to a key
// code, to the listener. It reports whether the key was consumed.
func (h *Host) HandleKey(msg tea.KeyMsg) bool {
	if h.DialogOpen() {
		return h.answerDialog(msg)
	}

	code, ok := KeyCodeFor(msg)
	if !ok {
		return false
	}
	_, repeating := h.held[code]
	h.held[code] = heldKey{last: h.clock(), repeating: repeating}
	if h.listener != nil {
		h.listener.KeyDown(code)
	}
	return true
}

// ReleaseAll sends a key-up for every held key.
func (h *Host) ReleaseAll() {
	h.release(h.heldKeys(func(heldKey) bool { return true }))
}

func (h *Host) releaseStale(now time.Time) {
	h.release(h.heldKeys(func(k heldKey) bool {
		if k.repeating {
			return now.Sub(k.last) >= h.releaseAfter
		}
		return now.Sub(k.last) >= h.repeatDelay
	}))
}

// heldKeys returns the held keys matching stale, in key code order.
func (h *Host) heldKeys(stale func(heldKey) bool) []core.KeyCode {
	var codes []core.KeyCode
	for code, k := range h.held {
		if stale(k) {
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

func (h *Host) release(codes []core.KeyCode) {
	for _, code := range codes {
		delete(h.held, code)
		if h.listener != nil {
			h.listener.KeyUp(code)
		}
	}
}

// answerDialog closes the front dialog if msg answers it. Held keys are
// released before the answer so the game resumes with no key down.
func (h *Host) answerDialog(msg tea.KeyMsg) bool {
	d := h.dialogs[0]
	var ok bool
	switch {
	case d.kind == runner.DialogAlert && key.Matches(msg, h.keys.Dismiss):
		ok = true
	case d.kind == runner.DialogConfirm && key.Matches(msg, h.keys.Yes):
		ok = true
	case d.kind == runner.DialogConfirm && key.Matches(msg, h.keys.No):
		ok = false
	default:
		return true
	}

	h.dialogs = h.dialogs[1:]
	h.ReleaseAll()
	if d.done != nil {
		d.done(ok)
	}
	return true
}

// currentDialog returns the dialog showing, if any.
func (h *Host) currentDialog() (dialog, bool) {
	if len(h.dialogs) == 0 {
		return dialog{}, false
	}
	return h.dialogs[0], true
}

var _ runner.Host = (*Host)(nil)
