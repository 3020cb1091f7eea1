package config

import (
	"math"
	"testing"
)

func TestDifficultyLevelByScore(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{SpeedMultiplier: 1.0},
	})

	tests := []struct {
		score    int
		expected float64
	}{
		{0, 0.0},
		{50, 0.5},
		{100, 1.0},
		{500, 1.0},
	}

	for _, tc := range tests {
		if got := d.Level(tc.score, 0); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Level(%d) = %f, expected %f", tc.score, got, tc.expected)
		}
	}

	if got := d.Speed(10, 50, 0); math.Abs(got-15) > 1e-9 {
		t.Errorf("Speed(10, 50) = %f, expected 15", got)
	}
}

func TestDifficultyLevelByTime(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.5,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 60},
	})

	if got := d.Level(1000, 30); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Level(30s) = %f, expected 0.75", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.3,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 10},
	})

	if d.IsEnabled() {
		t.Error("IsEnabled() should be false")
	}
	if got := d.Level(100, 100); got != 0.3 {
		t.Errorf("Level() = %f, expected initial level 0.3", got)
	}

	none := NewDifficultyManager(DifficultyConfig{Enabled: true, Progression: ProgressionConfig{Type: "none"}})
	if none.IsEnabled() {
		t.Error("progression type none should disable progression")
	}
}
