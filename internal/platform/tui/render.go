package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/runner"
)

// styleFor returns the lipgloss style for a cell color.
func styleFor(c core.Color) lipgloss.Style {
	code := c.ANSI()
	if code == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one style run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}

// dialogPrompt returns the answer hint shown at the bottom of a dialog.
func dialogPrompt(kind runner.DialogKind) string {
	if kind == runner.DialogConfirm {
		return "[Y]es  [N]o"
	}
	return "[ OK ]"
}

// overlayDialog draws d as a bordered box centered over a copy of front.
func overlayDialog(front *core.Screen, d dialog) *core.Screen {
	out := core.NewScreen(front.Width(), front.Height())
	out.CopyFrom(front)

	lines := strings.Split(d.msg, "\n")
	prompt := dialogPrompt(d.kind)

	inner := len([]rune(prompt))
	for _, l := range lines {
		inner = core.Max(inner, len([]rune(l)))
	}
	box := core.NewRect(0, 0, inner+4, len(lines)+4)
	box.X = (out.Width() - box.W) / 2
	box.Y = (out.Height() - box.H) / 2

	out.DrawRect(box, ' ')
	out.DrawBox(box)
	for i, l := range lines {
		out.DrawTextColor(box.X+2, box.Y+1+i, l, core.ColorBrightWhite)
	}
	px := box.X + (box.W-len([]rune(prompt)))/2
	out.DrawTextColor(px, box.Bottom()-2, prompt, core.ColorYellow)
	return out
}
