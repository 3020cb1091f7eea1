package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamerunner/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play games.

Each SSH connection gets its own session, runner and timer. Without a
command the session opens on the game picker; a command names the game to
start directly. Scores are stored per-server (all users share the same
leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.gamerunner/host_key

Examples:
  gamerunner serve                           # Listen on :23234 with auto-generated key
  gamerunner serve --ssh :2222               # Listen on port 2222
  gamerunner serve --host-key ./my_host_key  # Use specific host key
  gamerunner serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234
  ssh -t localhost -p 23234 snake`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	addConfigFlags(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	set, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Logger:      logger.WithPrefix("ssh"),
		Overrides:   set.overrides,
		Lookup:      set.lookup,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting gamerunner SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
