package runner

import "github.com/vovakirdan/gamerunner/internal/core"

// KeyDown relays a key-down event to the game if it declares a handler.
// Events are forwarded immediately, with no buffering or repeat suppression.
func (r *Runner) KeyDown(code core.KeyCode) {
	if h, ok := r.game.(KeyDownHandler); ok {
		h.OnKeyDown(code)
	}
}

// KeyUp relays a key-up event to the game if it declares a handler.
func (r *Runner) KeyUp(code core.KeyCode) {
	if h, ok := r.game.(KeyUpHandler); ok {
		h.OnKeyUp(code)
	}
}
