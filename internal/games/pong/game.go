// Package pong implements Pong against a CPU paddle. The player holds keys
// to move, so it relies on both key-down and key-up events.
package pong

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/gamerunner/internal/config"
	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/registry"
	"github.com/vovakirdan/gamerunner/internal/runner"
)

// ID is the registry id of the game.
const ID = "pong"

// Visual characters for rendering
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '│'
)

const (
	paddleOffset = 2   // Columns between the screen edge and a paddle
	serveDelay   = 1.0 // Seconds before a served ball moves
	maxStep      = 0.1 // Longest dt simulated in one update
	speedUp      = 1.05
	minWidth     = 20
	minHeight    = 8
)

// ErrTooSmall is returned when the surface cannot fit a court.
var ErrTooSmall = errors.New("pong: surface too small")

// Descriptor declares the game with the default settings.
var Descriptor = NewDescriptor(config.Default().Pong)

func init() {
	registry.Register(Descriptor)
}

// NewDescriptor declares a Pong game that plays with settings c. Zero fields
// keep their defaults.
func NewDescriptor(c config.PongConfig) runner.Descriptor {
	c = withDefaults(c)
	return runner.Descriptor{
		ID:       ID,
		Title:    "Pong",
		Defaults: core.Options{FPS: core.Int(60)},
		New: func(r *runner.Runner, cfg core.Config) (runner.Game, error) {
			return New(r, cfg, c)
		},
	}
}

func withDefaults(c config.PongConfig) config.PongConfig {
	d := config.Default().Pong
	if c.BallSpeed <= 0 {
		c.BallSpeed = d.BallSpeed
	}
	if c.PaddleSpeed <= 0 {
		c.PaddleSpeed = d.PaddleSpeed
	}
	if c.CPUSpeed <= 0 {
		c.CPUSpeed = d.CPUSpeed
	}
	if c.PaddleSize <= 0 {
		c.PaddleSize = d.PaddleSize
	}
	if c.WinScore <= 0 {
		c.WinScore = d.WinScore
	}
	return c
}

// Game implements Pong.
type Game struct {
	r   *runner.Runner
	cfg config.PongConfig
	rng *rand.Rand
	w   int
	h   int

	player float64 // Top row of the left paddle
	cpu    float64 // Top row of the right paddle

	ballX  float64
	ballY  float64
	ballVX float64 // Cells per second
	ballVY float64

	score    int
	cpuScore int
	serve    float64 // Seconds until the ball moves

	up   bool
	down bool
	over bool
}

// New creates a game sized to the runner surface with settings s and starts
// the runner.
func New(r *runner.Runner, cfg core.Config, s config.PongConfig) (runner.Game, error) {
	if cfg.Width < minWidth || cfg.Height < minHeight {
		return nil, fmt.Errorf("%w: need %dx%d, got %dx%d", ErrTooSmall, minWidth, minHeight, cfg.Width, cfg.Height)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		r:   r,
		cfg: s,
		rng: rand.New(rand.NewSource(seed)),
		w:   cfg.Width,
		h:   cfg.Height,
	}
	g.cfg.PaddleSize = core.Min(g.cfg.PaddleSize, g.h-2)
	g.reset()

	r.HideCursor()
	r.Start()
	return g, nil
}

// reset starts a new match.
func (g *Game) reset() {
	center := float64(g.h-g.cfg.PaddleSize) / 2
	g.player = center
	g.cpu = center
	g.score = 0
	g.cpuScore = 0
	g.over = false
	g.startServe(-1)
}

// startServe centers the ball and aims it at the side given by dir
// (-1 left, 1 right).
func (g *Game) startServe(dir float64) {
	g.serve = serveDelay
	g.ballX = float64(g.w) / 2
	g.ballY = float64(g.h) / 2
	g.ballVX = dir * g.cfg.BallSpeed
	g.ballVY = core.RandomRange(g.rng, -0.3, 0.3) * g.cfg.BallSpeed
}

// Update advances the match by dt seconds.
func (g *Game) Update(dt float64) {
	if g.over {
		return
	}
	dt = math.Min(dt, maxStep)

	if g.up {
		g.player -= g.cfg.PaddleSpeed * dt
	}
	if g.down {
		g.player += g.cfg.PaddleSpeed * dt
	}
	g.player = g.clampPaddle(g.player)
	g.updateCPU(dt)

	if g.serve > 0 {
		g.serve -= dt
		return
	}
	g.updateBall(dt)
}

func (g *Game) clampPaddle(y float64) float64 {
	return core.ClampF(y, 1, float64(g.h-1-g.cfg.PaddleSize))
}

// updateCPU follows the ball while it approaches and drifts back to the
// center otherwise.
func (g *Game) updateCPU(dt float64) {
	target := float64(g.h-g.cfg.PaddleSize) / 2
	speed := g.cfg.CPUSpeed * dt
	if g.ballVX > 0 {
		target = g.ballY - float64(g.cfg.PaddleSize)/2
	} else {
		speed /= 2
	}

	diff := target - g.cpu
	g.cpu += math.Copysign(math.Min(math.Abs(diff), speed), diff)
	g.cpu = g.clampPaddle(g.cpu)
}

func (g *Game) updateBall(dt float64) {
	prevX := g.ballX
	g.ballX += g.ballVX * dt
	g.ballY += g.ballVY * dt

	if g.ballY < 1 {
		g.ballY = 1
		g.ballVY = math.Abs(g.ballVY)
	}
	if bottom := float64(g.h - 2); g.ballY > bottom {
		g.ballY = bottom
		g.ballVY = -math.Abs(g.ballVY)
	}

	left := float64(paddleOffset + 1)
	right := float64(g.w - paddleOffset - 1)
	switch {
	case g.ballVX < 0 && prevX >= left && g.ballX < left && g.onPaddle(g.player):
		g.ballX = left
		g.bounce(g.player, 1)
	case g.ballVX > 0 && prevX <= right && g.ballX > right && g.onPaddle(g.cpu):
		g.ballX = right
		g.bounce(g.cpu, -1)
	}

	switch {
	case g.ballX < 0:
		g.cpuScore++
		g.point(-1)
	case g.ballX > float64(g.w):
		g.score++
		g.point(1)
	}
}

func (g *Game) onPaddle(top float64) bool {
	return g.ballY >= top-0.5 && g.ballY < top+float64(g.cfg.PaddleSize)+0.5
}

// bounce sends the ball back in direction dir, adding spin from where it
// hit the paddle.
func (g *Game) bounce(top, dir float64) {
	maxSpeed := 3 * g.cfg.BallSpeed
	g.ballVX = dir * math.Min(math.Abs(g.ballVX)*speedUp, maxSpeed)

	hit := (g.ballY-top)/float64(g.cfg.PaddleSize) - 0.5
	g.ballVY = core.ClampF(g.ballVY+hit*g.cfg.BallSpeed, -maxSpeed/2, maxSpeed/2)
}

// point ends the rally. The next serve goes toward the side that conceded.
func (g *Game) point(concededDir float64) {
	if g.score < g.cfg.WinScore && g.cpuScore < g.cfg.WinScore {
		g.startServe(concededDir)
		return
	}

	g.over = true
	g.up, g.down = false, false
	msg := fmt.Sprintf("CPU wins %d-%d. Play again?", g.cpuScore, g.score)
	if g.score > g.cpuScore {
		msg = fmt.Sprintf("You win %d-%d! Play again?", g.score, g.cpuScore)
	}
	g.r.Confirm(msg, func(again bool) {
		if again {
			g.reset()
			return
		}
		g.r.ShowCursor()
		g.r.Stop()
	})
}

// OnKeyDown handles paddle movement, pause and quit.
func (g *Game) OnKeyDown(code core.KeyCode) {
	if g.over {
		return
	}
	switch code {
	case core.KeyUp, core.KeyA:
		g.up = true
	case core.KeyDown, core.KeyZ:
		g.down = true
	case core.KeyP, core.KeySpace:
		g.up, g.down = false, false
		g.r.Alert("Paused", nil)
	case core.KeyQ, core.KeyEsc:
		g.r.Confirm("Quit Pong?", func(quit bool) {
			if quit {
				g.r.ShowCursor()
				g.r.Stop()
			}
		})
	}
}

// OnKeyUp stops paddle movement.
func (g *Game) OnKeyUp(code core.KeyCode) {
	switch code {
	case core.KeyUp, core.KeyA:
		g.up = false
	case core.KeyDown, core.KeyZ:
		g.down = false
	}
}

// Draw renders the court.
func (g *Game) Draw(dst *core.Screen) {
	centerX := dst.Width() / 2
	for y := 1; y < dst.Height()-1; y += 2 {
		dst.SetColor(centerX, y, NetChar, core.ColorGray)
	}

	rightX := dst.Width() - paddleOffset - 1
	for i := 0; i < g.cfg.PaddleSize; i++ {
		dst.SetColor(paddleOffset, int(g.player)+i, PaddleChar, core.ColorBrightCyan)
		dst.SetColor(rightX, int(g.cpu)+i, PaddleChar, core.ColorBrightRed)
	}

	// Blink while serving
	if g.serve <= 0 || int(g.serve*5)%2 == 0 {
		dst.SetColor(int(g.ballX), int(g.ballY), BallChar, core.ColorBrightYellow)
	}

	dst.DrawText(1, 0, "P1")
	dst.DrawText(dst.Width()-4, 0, "CPU")
	dst.DrawTextColor(centerX-5, 0, fmt.Sprintf("%d", g.score), core.ColorBrightCyan)
	dst.DrawTextColor(centerX+4, 0, fmt.Sprintf("%d", g.cpuScore), core.ColorBrightRed)
	dst.DrawHLine(0, dst.Height()-1, dst.Width(), '─')
}

// Score returns the player's points.
func (g *Game) Score() int { return g.score }

// GameOver reports whether the match has ended.
func (g *Game) GameOver() bool { return g.over }
