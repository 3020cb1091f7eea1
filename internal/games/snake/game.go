// Package snake implements Snake. The snake steps across a grid at a rate
// derived from accumulated dt, so the step rate is independent of the
// runner's tick rate.
package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/gamerunner/internal/config"
	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/registry"
	"github.com/vovakirdan/gamerunner/internal/runner"
)

// ID is the registry id of the game.
const ID = "snake"

const (
	minWidth          = 10
	minHeight         = 7
	maxStepsPerUpdate = 4 // Steps beyond this in one update are dropped
)

// ErrTooSmall is returned when the surface cannot fit an arena.
var ErrTooSmall = errors.New("snake: surface too small")

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	default:
		return "unknown"
	}
}

func (d Direction) opposite(o Direction) bool {
	return (d+2)%4 == o
}

// Point represents a 2D cell coordinate.
type Point struct {
	X, Y int
}

func (p Point) move(d Direction) Point {
	switch d {
	case DirUp:
		p.Y--
	case DirDown:
		p.Y++
	case DirLeft:
		p.X--
	case DirRight:
		p.X++
	}
	return p
}

// Descriptor declares the game with the default settings.
var Descriptor = NewDescriptor(config.Default().Snake)

func init() {
	registry.Register(Descriptor)
}

// NewDescriptor declares a Snake game that plays with settings c. A zero step
// rate or start length keeps its default.
func NewDescriptor(c config.SnakeConfig) runner.Descriptor {
	d := config.Default().Snake
	if c.StepsPerSecond <= 0 {
		c.StepsPerSecond = d.StepsPerSecond
	}
	if c.StartLength <= 0 {
		c.StartLength = d.StartLength
	}
	return runner.Descriptor{
		ID:       ID,
		Title:    "Snake",
		Defaults: core.Options{FPS: core.Int(30), Stats: core.Bool(false)},
		New: func(r *runner.Runner, cfg core.Config) (runner.Game, error) {
			return New(r, cfg, c)
		},
	}
}

// Game implements Snake. Row 0 is the HUD; the arena border occupies the
// rest of the surface.
type Game struct {
	r    *runner.Runner
	cfg  config.SnakeConfig
	diff *config.DifficultyManager
	rng  *rand.Rand
	w    int
	h    int

	snake   []Point // Head at index 0
	dir     Direction
	next    Direction
	growing bool
	food    Point

	score   int
	steps   uint64
	elapsed float64 // Seconds played in this round
	acc     float64 // Seconds not yet consumed by steps
	over    bool
	won     bool
}

// New creates a game sized to the runner surface with settings s and starts
// the runner.
func New(r *runner.Runner, cfg core.Config, s config.SnakeConfig) (runner.Game, error) {
	if cfg.Width < minWidth || cfg.Height < minHeight {
		return nil, fmt.Errorf("%w: need %dx%d, got %dx%d", ErrTooSmall, minWidth, minHeight, cfg.Width, cfg.Height)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		r:    r,
		cfg:  s,
		diff: config.NewDifficultyManager(s.Difficulty),
		rng:  rand.New(rand.NewSource(seed)),
		w:    cfg.Width,
		h:    cfg.Height,
	}
	g.reset()

	r.HideCursor()
	r.Start()
	return g, nil
}

// arena returns the border rectangle.
func (g *Game) arena() core.Rect {
	return core.NewRect(0, 1, g.w, g.h-1)
}

// inside reports whether p is a playable cell.
func (g *Game) inside(p Point) bool {
	a := g.arena()
	return p.X > a.X && p.X < a.Right()-1 && p.Y > a.Y && p.Y < a.Bottom()-1
}

func (g *Game) reset() {
	a := g.arena()
	length := core.Clamp(g.cfg.StartLength, 1, (a.W-2)/2)
	head := Point{X: a.X + a.W/2, Y: a.Y + a.H/2}

	g.snake = g.snake[:0]
	for i := 0; i < length; i++ {
		g.snake = append(g.snake, Point{X: head.X - i, Y: head.Y})
	}
	g.dir = DirRight
	g.next = DirRight
	g.growing = false
	g.score = 0
	g.steps = 0
	g.elapsed = 0
	g.acc = 0
	g.over = false
	g.won = false
	g.spawnFood()
}

func (g *Game) spawnFood() {
	var empty []Point
	a := g.arena()
	for y := a.Y + 1; y < a.Bottom()-1; y++ {
		for x := a.X + 1; x < a.Right()-1; x++ {
			p := Point{X: x, Y: y}
			if !g.occupied(p, len(g.snake)) {
				empty = append(empty, p)
			}
		}
	}
	if len(empty) == 0 {
		g.food = Point{X: -1, Y: -1}
		g.won = true
		return
	}
	g.food = empty[g.rng.Intn(len(empty))]
}

// occupied reports whether p is one of the first n segments.
func (g *Game) occupied(p Point, n int) bool {
	for _, seg := range g.snake[:n] {
		if seg == p {
			return true
		}
	}
	return false
}

// Speed returns the current steps per second.
func (g *Game) Speed() float64 {
	return g.diff.Speed(g.cfg.StepsPerSecond, g.score, g.elapsed)
}

// Update consumes dt in whole steps.
func (g *Game) Update(dt float64) {
	if g.over {
		return
	}
	g.elapsed += dt
	g.acc += dt

	interval := 1 / g.Speed()
	for n := 0; g.acc >= interval && !g.over; n++ {
		if n == maxStepsPerUpdate {
			g.acc = 0
			break
		}
		g.acc -= interval
		g.step()
	}
}

func (g *Game) step() {
	g.steps++
	g.dir = g.next
	head := g.snake[0].move(g.dir)

	// The tail moves away this step unless the snake is growing.
	body := len(g.snake)
	if !g.growing {
		body--
	}
	if !g.inside(head) || g.occupied(head, body) {
		g.end(fmt.Sprintf("Game over! Score %d. Play again?", g.score))
		return
	}

	g.snake = append([]Point{head}, g.snake...)
	if g.growing {
		g.growing = false
	} else {
		g.snake = g.snake[:len(g.snake)-1]
	}

	if head == g.food {
		g.score++
		g.growing = true
		g.spawnFood()
		if g.won {
			g.end(fmt.Sprintf("You filled the arena! Score %d. Play again?", g.score))
		}
	}
}

func (g *Game) end(msg string) {
	g.over = true
	g.r.Confirm(msg, func(again bool) {
		if again {
			g.reset()
			return
		}
		g.r.ShowCursor()
		g.r.Stop()
	})
}

// OnKeyDown steers the snake. Reversing onto itself is ignored.
func (g *Game) OnKeyDown(code core.KeyCode) {
	if g.over {
		return
	}

	var d Direction
	switch code {
	case core.KeyUp:
		d = DirUp
	case core.KeyDown:
		d = DirDown
	case core.KeyLeft:
		d = DirLeft
	case core.KeyRight:
		d = DirRight
	case core.KeyP, core.KeySpace:
		g.r.Alert("Paused", nil)
		return
	case core.KeyQ, core.KeyEsc:
		g.r.Confirm("Quit Snake?", func(quit bool) {
			if quit {
				g.r.ShowCursor()
				g.r.Stop()
			}
		})
		return
	default:
		return
	}

	if !d.opposite(g.dir) {
		g.next = d
	}
}

// Draw renders the HUD, arena, food and snake.
func (g *Game) Draw(dst *core.Screen) {
	dst.DrawText(1, 0, fmt.Sprintf("SCORE %d  LENGTH %d  SPEED %.1f", g.score, len(g.snake), g.Speed()))
	dst.DrawBox(g.arena())

	if g.food.X >= 0 {
		dst.SetColor(g.food.X, g.food.Y, '*', core.ColorBrightRed)
	}
	for i := len(g.snake) - 1; i >= 0; i-- {
		if i == 0 {
			dst.SetColor(g.snake[i].X, g.snake[i].Y, '@', core.ColorBrightGreen)
		} else {
			dst.SetColor(g.snake[i].X, g.snake[i].Y, 'o', core.ColorGreen)
		}
	}
}

// Score returns the food eaten this round.
func (g *Game) Score() int { return g.score }

// GameOver reports whether the round has ended.
func (g *Game) GameOver() bool { return g.over }
