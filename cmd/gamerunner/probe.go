package main

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamerunner/internal/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Describe the current terminal",
	Long: `Print what the runner detects about this terminal: the program, its size,
color support and whether a game can be started here.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, _ []string) error {
	c := probe.Detect(os.Stdin, os.Stdout)

	fmt.Printf("  %-12s %s\n", "Terminal", c.Name)
	fmt.Printf("  %-12s %s\n", "TERM", c.Term)
	fmt.Printf("  %-12s %dx%d\n", "Size", c.Width, c.Height)
	fmt.Printf("  %-12s %s\n", "Colors", profileName(c))
	fmt.Printf("  %-12s %t\n", "Interactive", c.Interactive)
	fmt.Printf("  %-12s %t\n", "Drawable", c.Drawable)
	fmt.Printf("  %-12s tmux=%t screen=%t ssh=%t\n", "Session", c.IsTmux, c.IsScreen, c.IsSSH)
	fmt.Println()

	if !c.Compatible() {
		return fmt.Errorf("this environment cannot host a game: %s", c)
	}
	fmt.Println("Games can run here.")
	return nil
}

func profileName(c probe.Capabilities) string {
	switch c.Profile {
	case termenv.TrueColor:
		return "true color"
	case termenv.ANSI256:
		return "256 colors"
	case termenv.ANSI:
		return "16 colors"
	default:
		return "none"
	}
}
