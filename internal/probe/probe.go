// Package probe reports whether the hosting terminal can run a game: it
// identifies the terminal program and checks for interactive input and a
// drawable output of known size.
package probe

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Capabilities describes the hosting environment.
type Capabilities struct {
	Term    string // Raw TERM value
	Program string // Terminal program key, e.g. "iterm", "wezterm", "xterm"
	Version string // Program version if the terminal reports one
	Name    string // Program plus version, for display

	Interactive bool // Input delivers key events
	Drawable    bool // Output is a terminal with a known size
	Width       int
	Height      int
	Profile     termenv.Profile

	IsTmux   bool
	IsScreen bool
	IsSSH    bool
}

// Compatible reports whether a runner can be started in this environment.
func (c Capabilities) Compatible() bool {
	return c.Interactive && c.Drawable
}

// HasColor reports whether the output supports any ANSI colors.
func (c Capabilities) HasColor() bool {
	return c.Profile != termenv.Ascii
}

// String returns a one-line summary.
func (c Capabilities) String() string {
	return fmt.Sprintf("%s (%dx%d, interactive=%t, drawable=%t)",
		c.Name, c.Width, c.Height, c.Interactive, c.Drawable)
}

// programs maps TERM_PROGRAM values to short keys.
var programs = map[string]string{
	"iterm.app":      "iterm",
	"apple_terminal": "apple",
	"vscode":         "vscode",
	"wezterm":        "wezterm",
	"ghostty":        "ghostty",
	"hyper":          "hyper",
	"tabby":          "tabby",
	"tmux":           "tmux",
}

// termPrefixes are checked in order against TERM when TERM_PROGRAM is unset.
var termPrefixes = []struct{ prefix, key string }{
	{"xterm-kitty", "kitty"},
	{"alacritty", "alacritty"},
	{"tmux", "tmux"},
	{"screen", "screen"},
	{"rxvt", "rxvt"},
	{"linux", "linux"},
	{"xterm", "xterm"},
	{"vt", "vt"},
}

// Identify reads the terminal identity from environment variables.
// It performs no I/O; env is usually os.Getenv.
func Identify(env func(string) string) Capabilities {
	c := Capabilities{
		Term:    env("TERM"),
		Version: env("TERM_PROGRAM_VERSION"),
	}
	lowerTerm := strings.ToLower(c.Term)

	if p := strings.ToLower(env("TERM_PROGRAM")); p != "" {
		if key, ok := programs[p]; ok {
			c.Program = key
		} else {
			c.Program = p
		}
	} else {
		c.Version = ""
		for _, tp := range termPrefixes {
			if strings.HasPrefix(lowerTerm, tp.prefix) {
				c.Program = tp.key
				break
			}
		}
	}
	if c.Program == "" {
		c.Program = "unknown"
	}

	c.Name = c.Program
	if c.Version != "" {
		c.Name += " " + c.Version
	}

	c.IsTmux = env("TMUX") != "" || strings.HasPrefix(lowerTerm, "tmux")
	c.IsScreen = env("STY") != "" || strings.HasPrefix(lowerTerm, "screen")
	c.IsSSH = env("SSH_CONNECTION") != "" || env("SSH_TTY") != ""
	c.Profile = termenv.Ascii
	return c
}

// Detect identifies the terminal and checks in and out for terminal
// capabilities.
func Detect(in, out *os.File) Capabilities {
	c := Identify(os.Getenv)

	c.Interactive = in != nil && term.IsTerminal(int(in.Fd()))
	if out != nil && term.IsTerminal(int(out.Fd())) {
		if w, h, err := term.GetSize(int(out.Fd())); err == nil && w > 0 && h > 0 {
			c.Drawable = true
			c.Width, c.Height = w, h
		}
		c.Profile = termenv.NewOutput(out).EnvColorProfile()
	}
	return c
}

// ForPTY builds capabilities for a remote pseudo-terminal, such as an SSH
// session, where size and TERM are reported by the client.
func ForPTY(termName string, width, height int) Capabilities {
	c := Identify(func(key string) string {
		if key == "TERM" {
			return termName
		}
		return ""
	})
	c.IsSSH = true
	c.Interactive = true
	c.Drawable = width > 0 && height > 0
	c.Width, c.Height = width, height
	c.Profile = termenv.ANSI256
	return c
}
