package snake

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/gamerunner/internal/config"
	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/platform/headless"
	"github.com/vovakirdan/gamerunner/internal/registry"
	"github.com/vovakirdan/gamerunner/internal/runner"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

// testSettings steps ten times a second with no difficulty progression.
var testSettings = config.SnakeConfig{StepsPerSecond: 10, StartLength: 3}

func start(t *testing.T, seed int64, opts ...headless.Option) (*Game, *headless.Host, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]headless.Option{headless.WithManualTimer(), headless.WithClock(c.Now)}, opts...)
	h := headless.NewHost(20, 10, opts...)

	game, err := runner.Start(h, headless.MainSurface, NewDescriptor(testSettings), core.Options{Seed: core.Int64(seed)})
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	return game.(*Game), h, c
}

func advance(h *headless.Host, c *clock, d time.Duration) {
	c.now = c.now.Add(d)
	h.Tick()
}

func TestRegistered(t *testing.T) {
	d, err := registry.Lookup(ID)
	if err != nil {
		t.Fatalf("Lookup(%q) failed: %v", ID, err)
	}
	if *d.Defaults.FPS != 30 || *d.Defaults.Stats {
		t.Errorf("Defaults = fps %d stats %v, expected fps 30 stats false", *d.Defaults.FPS, *d.Defaults.Stats)
	}
}

func TestKeyDownOnly(t *testing.T) {
	g, _, _ := start(t, 1)
	if _, ok := runner.Game(g).(runner.KeyUpHandler); ok {
		t.Error("snake should not handle key-up")
	}
	if _, ok := runner.Game(g).(runner.KeyDownHandler); !ok {
		t.Error("snake should handle key-down")
	}
}

func TestTooSmall(t *testing.T) {
	h := headless.NewHost(8, 5, headless.WithManualTimer())
	if _, err := runner.Start(h, headless.MainSurface, Descriptor, core.Options{}); !errors.Is(err, ErrTooSmall) {
		t.Errorf("Start() error = %v, expected ErrTooSmall", err)
	}
}

func TestInitialLayout(t *testing.T) {
	g, _, _ := start(t, 1)
	snap := g.Snapshot()
	if snap.Head != (Point{10, 5}) || snap.SnakeLen != 3 || snap.Dir != DirRight {
		t.Errorf("Snapshot() = %+v, expected head (10,5), length 3, moving right", snap)
	}
	if !g.inside(g.food) || g.occupied(g.food, len(g.snake)) {
		t.Errorf("food %v should be on a free arena cell", g.food)
	}
}

func TestStepsFromAccumulatedTime(t *testing.T) {
	g, h, c := start(t, 1)
	g.food = Point{1, 2}

	advance(h, c, 60*time.Millisecond)
	if g.steps != 0 {
		t.Fatalf("steps = %d after 60ms, expected 0", g.steps)
	}
	advance(h, c, 60*time.Millisecond)
	if g.steps != 1 || g.snake[0] != (Point{11, 5}) {
		t.Errorf("steps = %d head = %v, expected 1 step to (11,5)", g.steps, g.snake[0])
	}
}

func TestLongUpdateCapped(t *testing.T) {
	g, h, c := start(t, 1)
	g.food = Point{1, 2}
	g.snake = []Point{{3, 5}, {2, 5}, {1, 5}}

	advance(h, c, 5*time.Second)
	if g.steps != maxStepsPerUpdate {
		t.Errorf("steps = %d, expected %d", g.steps, maxStepsPerUpdate)
	}
	if g.acc != 0 {
		t.Errorf("acc = %v, expected leftover time dropped", g.acc)
	}
}

func TestSteering(t *testing.T) {
	tests := []struct {
		name     string
		key      core.KeyCode
		expected Point
	}{
		{"down", core.KeyDown, Point{10, 6}},
		{"up", core.KeyUp, Point{10, 4}},
		{"reverse ignored", core.KeyLeft, Point{11, 5}},
		{"other key ignored", core.KeyA, Point{11, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, h, c := start(t, 1)
			g.food = Point{1, 2}
			h.Press(tt.key)
			advance(h, c, 100*time.Millisecond)
			if g.snake[0] != tt.expected {
				t.Errorf("head = %v, expected %v", g.snake[0], tt.expected)
			}
		})
	}
}

func TestEatGrows(t *testing.T) {
	g, h, c := start(t, 1)
	g.food = Point{11, 5}

	advance(h, c, 100*time.Millisecond)
	if g.Score() != 1 {
		t.Errorf("Score() = %d, expected 1", g.Score())
	}
	if g.food == (Point{11, 5}) {
		t.Error("food should respawn")
	}
	g.food = Point{1, 2}

	advance(h, c, 100*time.Millisecond)
	if len(g.snake) != 4 {
		t.Errorf("length = %d, expected 4 after growing", len(g.snake))
	}
}

func TestWallEndsRoundDeclined(t *testing.T) {
	g, h, c := start(t, 1, headless.WithAnswer(false))
	g.food = Point{1, 2}
	g.snake = []Point{{18, 5}, {17, 5}, {16, 5}}

	advance(h, c, 100*time.Millisecond)
	if !g.GameOver() || g.Snapshot().State != StateGameOver {
		t.Fatal("hitting the wall should end the round")
	}
	dialogs := h.Dialogs()
	if len(dialogs) != 1 || !strings.HasPrefix(dialogs[0].Message, "Game over! Score 0") {
		t.Fatalf("Dialogs() = %+v", dialogs)
	}

	h.Flush()
	if h.Armed() {
		t.Error("declining should stop the runner")
	}
}

func TestWallEndsRoundRematch(t *testing.T) {
	g, h, c := start(t, 1)
	g.food = Point{1, 2}
	g.snake = []Point{{18, 5}, {17, 5}, {16, 5}}
	g.score = 3

	advance(h, c, 100*time.Millisecond)
	h.Flush()
	if g.GameOver() || g.Score() != 0 || g.snake[0] != (Point{10, 5}) {
		t.Error("accepting should reset the round")
	}
	if !h.Armed() {
		t.Error("runner should keep running after a rematch")
	}
}

func TestSelfCollision(t *testing.T) {
	tests := []struct {
		name  string
		snake []Point
		over  bool
	}{
		{"into body", []Point{{5, 5}, {5, 6}, {6, 6}, {6, 5}, {7, 5}}, true},
		{"into moving tail", []Point{{5, 5}, {5, 6}, {6, 6}, {6, 5}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, h, c := start(t, 1)
			g.food = Point{1, 2}
			g.snake = tt.snake

			advance(h, c, 100*time.Millisecond)
			if g.GameOver() != tt.over {
				t.Errorf("GameOver() = %v, expected %v", g.GameOver(), tt.over)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		g, h, c := start(t, 12345)
		for i := 0; i < 60; i++ {
			switch i {
			case 10:
				h.Press(core.KeyDown)
			case 14:
				h.Press(core.KeyLeft)
			case 30:
				h.Press(core.KeyUp)
			}
			advance(h, c, 33*time.Millisecond)
		}
		return g.Snapshot()
	}

	first, second := run(), run()
	if first != second {
		t.Errorf("snapshots differ:\n%+v\n%+v", first, second)
	}
}

func TestDifficultySpeedsUp(t *testing.T) {
	g, _, _ := start(t, 1)
	g.diff = config.NewDifficultyManager(config.DifficultyConfig{
		Enabled:     true,
		Progression: config.ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:     config.ScalingConfig{SpeedMultiplier: 1},
	})

	base := g.Speed()
	g.score = 5
	if got := g.Speed(); got != base*1.5 {
		t.Errorf("Speed() = %v, expected %v", got, base*1.5)
	}
}

func TestPauseAlert(t *testing.T) {
	_, h, _ := start(t, 1)
	h.Press(core.KeyP)
	if h.Armed() {
		t.Error("pause should stop the runner")
	}
	if d := h.Dialogs(); len(d) != 1 || d[0].Kind != runner.DialogAlert {
		t.Errorf("Dialogs() = %+v, expected one alert", d)
	}
}

func TestDraw(t *testing.T) {
	_, h, c := start(t, 1)
	advance(h, c, 10*time.Millisecond)

	main, _ := h.Surface(headless.MainSurface)
	if !strings.Contains(main.Row(0), "SCORE 0") {
		t.Errorf("row 0 = %q, expected the HUD", main.Row(0))
	}
	if main.Get(10, 5) != '@' || main.GetCell(10, 5).Color != core.ColorBrightGreen {
		t.Error("expected the head at (10,5)")
	}
	if main.Get(0, 1) != '┌' {
		t.Error("expected the arena border")
	}
}

func TestDirectionString(t *testing.T) {
	if DirUp.String() != "up" || Direction(9).String() != "unknown" {
		t.Error("unexpected direction names")
	}
	if !DirUp.opposite(DirDown) || DirUp.opposite(DirLeft) {
		t.Error("opposite() is wrong")
	}
}

func TestNewDescriptorSettings(t *testing.T) {
	g, _, _ := start(t, 1)
	if g.cfg.StepsPerSecond != 10 || len(g.snake) != 3 {
		t.Errorf("steps = %v length = %d, expected 10 and 3", g.cfg.StepsPerSecond, len(g.snake))
	}

	h := headless.NewHost(20, 10, headless.WithManualTimer())
	game, err := runner.Start(h, headless.MainSurface, NewDescriptor(config.SnakeConfig{}), core.Options{Seed: core.Int64(1)})
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	def := game.(*Game)
	if def.cfg.StepsPerSecond != config.Default().Snake.StepsPerSecond || len(def.snake) != config.Default().Snake.StartLength {
		t.Errorf("zero settings = steps %v length %d, expected the defaults", def.cfg.StepsPerSecond, len(def.snake))
	}
}
