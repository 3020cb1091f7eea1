// Package config provides YAML-based configuration loading for the runner
// and the bundled games, plus difficulty progression.
package config

import "github.com/vovakirdan/gamerunner/internal/core"

// File is the layout of a gamerunner configuration file.
type File struct {
	Runner core.Options `yaml:"runner"`
	Pong   PongConfig   `yaml:"pong"`
	Snake  SnakeConfig  `yaml:"snake"`
}

// PongConfig contains gameplay settings for Pong.
type PongConfig struct {
	BallSpeed   float64 `yaml:"ball_speed"`   // Cells per second at serve
	PaddleSpeed float64 `yaml:"paddle_speed"` // Cells per second
	CPUSpeed    float64 `yaml:"cpu_speed"`    // Cells per second for the CPU paddle
	PaddleSize  int     `yaml:"paddle_size"`
	WinScore    int     `yaml:"win_score"`
}

// SnakeConfig contains gameplay settings for Snake.
type SnakeConfig struct {
	StepsPerSecond float64          `yaml:"steps_per_second"` // Base movement rate
	StartLength    int              `yaml:"start_length"`
	Difficulty     DifficultyConfig `yaml:"difficulty"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score or seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies a difficulty config based on a preset.
// An empty preset leaves the config unchanged.
func ApplyPreset(cfg *DifficultyConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Enabled = false
	default:
		cfg.Enabled = true
		cfg.InitialLevel = InitialLevelForPreset(preset)
	}
}
