// Package tui hosts games in a terminal through Bubble Tea. It implements
// runner.Host on top of the Bubble Tea event loop, maps key messages to key
// codes and renders surfaces with lipgloss.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is one timer tick. Gen identifies the timer that scheduled it;
// ticks from a disarmed or replaced timer, or from another host sharing the
// program, are dropped.
type TickMsg struct {
	Gen  uint64
	Time time.Time
	host *Host
}

// tickCmd schedules a single TickMsg for timer generation gen of h.
func tickCmd(h *Host, interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t, host: h}
	})
}
