package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamerunner/internal/config"
	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/games/pong"
	"github.com/vovakirdan/gamerunner/internal/games/snake"
	"github.com/vovakirdan/gamerunner/internal/registry"
	"github.com/vovakirdan/gamerunner/internal/runner"
)

// Flags shared by play, menu and serve.
var (
	flagFPS        int
	flagWidth      int
	flagHeight     int
	flagStats      bool
	flagSeed       int64
	flagConfig     string
	flagDifficulty string
)

func addRunnerFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagFPS, "fps", 0, "Tick rate (defaults to the game's own rate)")
	cmd.Flags().IntVar(&flagWidth, "width", 0, "Surface width in cells (0 = terminal width)")
	cmd.Flags().IntVar(&flagHeight, "height", 0, "Surface height in cells (0 = terminal height)")
	cmd.Flags().BoolVar(&flagStats, "stats", false, "Overlay frame statistics")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	addConfigFlags(cmd)
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a gamerunner YAML config")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Snake difficulty preset: easy, normal, hard, fixed")
}

// flagOverrides returns the runner options given explicitly on the command
// line. Flags left at their defaults stay unset so they do not mask the
// config file or the game's own defaults.
func flagOverrides(cmd *cobra.Command) core.Options {
	var o core.Options
	flags := cmd.Flags()
	if flags.Changed("fps") {
		o.FPS = core.Int(flagFPS)
	}
	if flags.Changed("width") {
		o.Width = core.Int(flagWidth)
	}
	if flags.Changed("height") {
		o.Height = core.Int(flagHeight)
	}
	if flags.Changed("stats") {
		o.Stats = core.Bool(flagStats)
	}
	if flags.Changed("seed") {
		o.Seed = core.Int64(flagSeed)
	}
	return o
}

// settings holds what the config file and flags resolve to: the runner
// overrides and the games built with their configured gameplay.
type settings struct {
	overrides core.Options
	games     map[string]runner.Descriptor
}

// lookup returns the configured game for id, falling back to the registry
// for games without a config section.
func (s settings) lookup(id string) (runner.Descriptor, error) {
	if d, ok := s.games[id]; ok {
		return d, nil
	}
	return registry.Lookup(id)
}

// loadSettings reads the config file and layers the flags over it: file
// settings first, then flags.
func loadSettings(cmd *cobra.Command) (settings, error) {
	preset, err := parsePreset(flagDifficulty)
	if err != nil {
		return settings{}, err
	}

	file, err := config.Load(flagConfig)
	if err != nil {
		return settings{}, err
	}
	return newSettings(file, preset, flagOverrides(cmd)), nil
}

func newSettings(file config.File, preset config.DifficultyPreset, flags core.Options) settings {
	snakeCfg := file.Snake
	config.ApplyPreset(&snakeCfg.Difficulty, preset)

	return settings{
		overrides: core.Merge(file.Runner, flags),
		games: map[string]runner.Descriptor{
			pong.ID:  pong.NewDescriptor(file.Pong),
			snake.ID: snake.NewDescriptor(snakeCfg),
		},
	}
}

func parsePreset(s string) (config.DifficultyPreset, error) {
	switch p := config.DifficultyPreset(s); p {
	case "", config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}
