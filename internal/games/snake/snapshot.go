package snake

// State names the phase of a round.
type State string

const (
	StatePlaying  State = "playing"
	StateGameOver State = "game_over"
	StateWin      State = "win"
)

// Snapshot captures the game state for determinism tests and debugging.
type Snapshot struct {
	Steps    uint64
	Score    int
	SnakeLen int
	Head     Point
	Dir      Direction
	Food     Point
	State    State
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.won:
		state = StateWin
	case g.over:
		state = StateGameOver
	}

	return Snapshot{
		Steps:    g.steps,
		Score:    g.score,
		SnakeLen: len(g.snake),
		Head:     g.snake[0],
		Dir:      g.dir,
		Food:     g.food,
		State:    state,
	}
}
