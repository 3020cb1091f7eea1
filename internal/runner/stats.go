package runner

import (
	"fmt"
	"math"

	"github.com/vovakirdan/gamerunner/internal/core"
)

// Overlay placement, in cells from the bottom-right corner.
const (
	statsColumn = 16
	statsBottom = 2
)

// StatsRecord is a snapshot of per-frame timing.
type StatsRecord struct {
	Count    int     // Frame counter, cycles through 0..fps-1
	FPS      float64 // Derived frames per second, capped at the target
	UpdateMs float64 // Duration of the last update, at least 1
	DrawMs   float64 // Duration of the last draw, at least 1
	FrameMs  float64 // UpdateMs + DrawMs
}

// Stats tracks frame timing when enabled. When disabled it keeps its reset
// values forever.
type Stats struct {
	target  int
	enabled bool
	rec     StatsRecord
}

// NewStats creates a tracker for the given target frame rate.
func NewStats(targetFPS int, enabled bool) *Stats {
	return &Stats{
		target:  core.Max(targetFPS, 1),
		enabled: enabled,
	}
}

// Enabled reports whether tracking is on.
func (s *Stats) Enabled() bool {
	return s.enabled
}

// Reset zeroes the record.
func (s *Stats) Reset() {
	s.rec = StatsRecord{}
}

// Update records the duration of one tick. It is a no-op when disabled.
func (s *Stats) Update(updateMs, drawMs float64) {
	if !s.enabled {
		return
	}
	s.rec.UpdateMs = math.Max(1, updateMs)
	s.rec.DrawMs = math.Max(1, drawMs)
	s.rec.FrameMs = s.rec.UpdateMs + s.rec.DrawMs
	s.rec.Count = (s.rec.Count + 1) % s.target
	s.rec.FPS = math.Min(float64(s.target), 1000/s.rec.FrameMs)
}

// Record returns the current values.
func (s *Stats) Record() StatsRecord {
	return s.rec
}

// Lines returns the overlay text, one entry per line.
func (s *Stats) Lines() []string {
	return []string{
		fmt.Sprintf("frame: %d", s.rec.Count),
		fmt.Sprintf("fps: %.1f", s.rec.FPS),
		fmt.Sprintf("update: %.0fms", s.rec.UpdateMs),
		fmt.Sprintf("draw: %.0fms", s.rec.DrawMs),
	}
}

// Render draws the overlay near the bottom-right corner of dst when enabled.
func (s *Stats) Render(dst *core.Screen) {
	if !s.enabled {
		return
	}
	lines := s.Lines()
	x := core.Max(0, dst.Width()-statsColumn)
	y := dst.Height() - statsBottom - len(lines) + 1
	for i, line := range lines {
		dst.DrawTextColor(x, y+i, line, core.ColorWhite)
	}
}
