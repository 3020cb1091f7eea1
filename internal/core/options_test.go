package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestMergeCallerWins(t *testing.T) {
	defaults := Options{FPS: Int(40), Stats: Bool(true)}
	caller := Options{Stats: Bool(false)}

	merged := Merge(defaults, caller)

	if merged.FPS == nil || *merged.FPS != 40 {
		t.Errorf("FPS = %v, expected 40 from defaults", merged.FPS)
	}
	if merged.Stats == nil || *merged.Stats != false {
		t.Errorf("Stats = %v, expected false from caller", merged.Stats)
	}

	// Inputs are left untouched
	if !*defaults.Stats {
		t.Error("Merge should not modify base")
	}

	cfg, err := Resolve(merged, 80, 24)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if cfg.FPS != 40 || cfg.Stats {
		t.Errorf("Resolve() = %+v, expected fps 40 and stats off", cfg)
	}
}

func TestMergeKeyByKey(t *testing.T) {
	base := Options{FPS: Int(30), Width: Int(100), Height: Int(40), Seed: Int64(9)}
	over := Options{FPS: Int(50), Height: Int(20)}

	m := Merge(base, over)
	if *m.FPS != 50 {
		t.Errorf("FPS = %d, expected 50", *m.FPS)
	}
	if *m.Width != 100 {
		t.Errorf("Width = %d, expected 100", *m.Width)
	}
	if *m.Height != 20 {
		t.Errorf("Height = %d, expected 20", *m.Height)
	}
	if *m.Seed != 9 {
		t.Errorf("Seed = %d, expected 9", *m.Seed)
	}
	if m.Stats != nil {
		t.Error("Stats should stay unset")
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(Options{}, 80, 24)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if cfg.FPS != DefaultFPS {
		t.Errorf("FPS = %d, expected %d", cfg.FPS, DefaultFPS)
	}
	if cfg.Width != 80 || cfg.Height != 24 {
		t.Errorf("size = %dx%d, expected surface size 80x24", cfg.Width, cfg.Height)
	}

	// Zero behaves like unset
	cfg, err = Resolve(Options{FPS: Int(0), Width: Int(0)}, 10, 5)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if cfg.FPS != DefaultFPS || cfg.Width != 10 {
		t.Errorf("Resolve(zero) = %+v, expected defaults", cfg)
	}
}

func TestResolveRejectsNegative(t *testing.T) {
	tests := []Options{
		{FPS: Int(-1)},
		{Width: Int(-5)},
		{Height: Int(-5)},
	}

	for _, o := range tests {
		if _, err := Resolve(o, 80, 24); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Resolve(%+v) error = %v, expected ErrInvalidConfig", o, err)
		}
	}
}

func TestIntervalMatchesFPS(t *testing.T) {
	for _, fps := range []int{1, 24, 30, 40, 60, 120, 144} {
		cfg := Config{FPS: fps}
		expected := 1000.0 / float64(fps)
		if cfg.IntervalMs() != expected {
			t.Errorf("IntervalMs() at %d fps = %f, expected %f", fps, cfg.IntervalMs(), expected)
		}
		got := float64(cfg.Interval()) / float64(time.Millisecond)
		if math.Abs(got-expected) > 1e-6 {
			t.Errorf("Interval() at %d fps = %v, expected %fms", fps, cfg.Interval(), expected)
		}
	}

	if ms := (Config{FPS: 30}).IntervalMs(); math.Abs(ms-33.333) > 0.001 {
		t.Errorf("IntervalMs() at 30 fps = %f, expected ~33.33", ms)
	}
}
