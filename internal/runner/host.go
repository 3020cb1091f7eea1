package runner

import (
	"time"

	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/probe"
)

// DialogKind selects the kind of modal dialog a host shows.
type DialogKind int

const (
	DialogAlert   DialogKind = iota // Message with a single acknowledgement
	DialogConfirm                   // Yes/no question
)

// String returns a human-readable name for the dialog kind.
func (k DialogKind) String() string {
	switch k {
	case DialogAlert:
		return "alert"
	case DialogConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// KeyListener receives raw key events from a host.
type KeyListener interface {
	KeyDown(code core.KeyCode)
	KeyUp(code core.KeyCode)
}

// Host is the platform a Runner is driven by. All callbacks a host invokes
// (timer callbacks, key events, dialog completions) must be delivered from a
// single goroutine, one at a time.
type Host interface {
	// Capabilities reports what the environment supports.
	Capabilities() probe.Capabilities

	// Now returns the current wall-clock time.
	Now() time.Time

	// Surface returns the visible surface registered under id.
	Surface(id string) (*core.Screen, error)

	// Every invokes fn repeatedly at the given interval until the returned
	// cancel function is called. Cancel must be safe to call more than once.
	Every(interval time.Duration, fn func()) (cancel func())

	// Listen registers l for key events.
	Listen(l KeyListener)

	// Dialog shows a modal dialog and calls done with the answer once it is
	// dismissed. Alerts always answer true.
	Dialog(kind DialogKind, msg string, done func(ok bool))

	// SetCursorVisible shows or hides the pointer/cursor over the surface.
	SetCursorVisible(visible bool)
}
