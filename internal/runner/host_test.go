package runner

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/probe"
)

// fakeHost is a manually driven Host. Time only moves when the test
// advances it and ticks only happen when the test fires them.
type fakeHost struct {
	now        time.Time
	step       time.Duration // Added to now on every Now() call
	surfaces   map[string]*core.Screen
	compatible bool

	interval time.Duration
	tick     func()
	armed    int // Number of Every calls
	cancels  int // Number of effective cancels

	listener KeyListener

	dialogKind DialogKind
	dialogMsg  string
	dialogDone func(bool)

	cursorVisible bool
}

func newFakeHost(w, h int) *fakeHost {
	return &fakeHost{
		now:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		surfaces:      map[string]*core.Screen{"main": core.NewScreen(w, h)},
		compatible:    true,
		cursorVisible: true,
	}
}

func (h *fakeHost) Capabilities() probe.Capabilities {
	return probe.Capabilities{Interactive: h.compatible, Drawable: h.compatible}
}

func (h *fakeHost) Now() time.Time {
	t := h.now
	h.now = h.now.Add(h.step)
	return t
}

func (h *fakeHost) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

func (h *fakeHost) Surface(id string) (*core.Screen, error) {
	s, ok := h.surfaces[id]
	if !ok {
		return nil, fmt.Errorf("no surface %q", id)
	}
	return s, nil
}

func (h *fakeHost) Every(interval time.Duration, fn func()) func() {
	h.interval = interval
	h.tick = fn
	h.armed++
	current := h.armed
	return func() {
		if h.armed == current && h.tick != nil {
			h.tick = nil
			h.cancels++
		}
	}
}

// fire runs one tick if the timer is armed and reports whether it did.
func (h *fakeHost) fire() bool {
	if h.tick == nil {
		return false
	}
	h.tick()
	return true
}

func (h *fakeHost) Listen(l KeyListener) {
	h.listener = l
}

func (h *fakeHost) Dialog(kind DialogKind, msg string, done func(bool)) {
	h.dialogKind = kind
	h.dialogMsg = msg
	h.dialogDone = done
}

// answer dismisses the open dialog.
func (h *fakeHost) answer(ok bool) {
	done := h.dialogDone
	h.dialogDone = nil
	done(ok)
}

func (h *fakeHost) SetCursorVisible(visible bool) {
	h.cursorVisible = visible
}
