package runner

import "github.com/vovakirdan/gamerunner/internal/core"

// Game is the hosted game driven by a Runner.
// Games contain their own logic only; the runner owns timing, surfaces and
// input delivery.
type Game interface {
	// Update advances the game by dt seconds of wall-clock time.
	Update(dt float64)

	// Draw renders the game into the back surface. The surface is cleared
	// before every call.
	Draw(dst *core.Screen)
}

// KeyDownHandler is implemented by games that want key-down events.
type KeyDownHandler interface {
	OnKeyDown(code core.KeyCode)
}

// KeyUpHandler is implemented by games that want key-up events.
type KeyUpHandler interface {
	OnKeyUp(code core.KeyCode)
}

// Scorer is implemented by games that keep a score. Platforms use it to
// persist results; the runner itself never reads it.
type Scorer interface {
	Score() int
	GameOver() bool
}

// Constructor builds a game instance. It receives the runner driving the
// game and the resolved configuration, and must call r.Start() once the game
// is ready to tick.
type Constructor func(r *Runner, cfg core.Config) (Game, error)

// Descriptor describes a hosted game: its identity, the configuration
// defaults it declares and how to construct it.
type Descriptor struct {
	ID       string
	Title    string
	Defaults core.Options
	New      Constructor
}
