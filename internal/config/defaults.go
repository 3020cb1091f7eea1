package config

import (
	_ "embed"
)

//go:embed defaults/gamerunner.yaml
var defaultYAML []byte

// Default returns the built-in configuration. Runner options are left unset
// so each game's declared defaults apply.
func Default() File {
	return File{
		Pong: PongConfig{
			BallSpeed:   24,
			PaddleSpeed: 30,
			CPUSpeed:    14,
			PaddleSize:  5,
			WinScore:    5,
		},
		Snake: SnakeConfig{
			StepsPerSecond: 8,
			StartLength:    4,
			Difficulty: DifficultyConfig{
				Enabled:      true,
				InitialLevel: 0.0,
				Progression: ProgressionConfig{
					Type:  "score",
					MaxAt: 40,
				},
				Scaling: ScalingConfig{
					SpeedMultiplier: 1.5,
				},
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
