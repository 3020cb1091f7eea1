package core

import (
	"errors"
	"fmt"
	"time"
)

// DefaultFPS is the tick rate used when no configuration sets one.
const DefaultFPS = 60

// ErrInvalidConfig is returned by Resolve for out-of-range option values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Options is a partial runner configuration. A nil field means "not set",
// so defaults declared by a game and overrides supplied by the caller can be
// layered with Merge.
type Options struct {
	FPS    *int   `yaml:"fps,omitempty"`    // Target ticks per second
	Width  *int   `yaml:"width,omitempty"`  // Surface width in cells
	Height *int   `yaml:"height,omitempty"` // Surface height in cells
	Stats  *bool  `yaml:"stats,omitempty"`  // Track and overlay frame statistics
	Seed   *int64 `yaml:"seed,omitempty"`   // RNG seed for games, 0 means time-based
}

// Int returns a pointer to v, for building Options literals.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for building Options literals.
func Bool(v bool) *bool { return &v }

// Int64 returns a pointer to v, for building Options literals.
func Int64(v int64) *int64 { return &v }

// Merge layers over on top of base. Every key set in over wins; keys set
// only in base survive unchanged. Neither argument is modified.
func Merge(base, over Options) Options {
	out := base
	if over.FPS != nil {
		out.FPS = over.FPS
	}
	if over.Width != nil {
		out.Width = over.Width
	}
	if over.Height != nil {
		out.Height = over.Height
	}
	if over.Stats != nil {
		out.Stats = over.Stats
	}
	if over.Seed != nil {
		out.Seed = over.Seed
	}
	return out
}

// Config is a fully resolved runner configuration. It is immutable once the
// runner has been constructed.
type Config struct {
	FPS    int
	Width  int
	Height int
	Stats  bool
	Seed   int64
}

// Resolve turns merged options into a Config. An unset or zero fps becomes
// DefaultFPS and an unset or zero width/height takes the surface size.
// Negative values are rejected.
func Resolve(o Options, surfaceW, surfaceH int) (Config, error) {
	cfg := Config{
		FPS:    DefaultFPS,
		Width:  surfaceW,
		Height: surfaceH,
	}

	if o.FPS != nil && *o.FPS != 0 {
		if *o.FPS < 0 {
			return Config{}, fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, *o.FPS)
		}
		cfg.FPS = *o.FPS
	}
	if o.Width != nil && *o.Width != 0 {
		if *o.Width < 0 {
			return Config{}, fmt.Errorf("%w: width must be positive, got %d", ErrInvalidConfig, *o.Width)
		}
		cfg.Width = *o.Width
	}
	if o.Height != nil && *o.Height != 0 {
		if *o.Height < 0 {
			return Config{}, fmt.Errorf("%w: height must be positive, got %d", ErrInvalidConfig, *o.Height)
		}
		cfg.Height = *o.Height
	}
	if o.Stats != nil {
		cfg.Stats = *o.Stats
	}
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
	return cfg, nil
}

// IntervalMs returns the tick interval in milliseconds (1000/fps).
func (c Config) IntervalMs() float64 {
	return 1000.0 / float64(c.FPS)
}

// Interval returns the tick interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(float64(time.Second) / float64(c.FPS))
}
