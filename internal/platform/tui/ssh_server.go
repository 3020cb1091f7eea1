package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/probe"
	"github.com/vovakirdan/gamerunner/internal/registry"
	"github.com/vovakirdan/gamerunner/internal/runner"
	"github.com/vovakirdan/gamerunner/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.gamerunner/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Logger receives session events. Defaults to a timestamped stderr logger.
	Logger *log.Logger

	// Overrides are layered over each game's default runner options.
	Overrides core.Options

	// Lookup resolves the game a session starts. Defaults to registry.Lookup.
	Lookup func(id string) (runner.Descriptor, error)
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.gamerunner/scores.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves games over SSH. Every session gets its own host and
// runner; sessions share only the score store.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gamerunner-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".gamerunner", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates the session model. A session command names the game
// to start right away; without one the session opens on the menu.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		wish.Fatalln(sshSession, "gamerunner needs a terminal, connect with ssh -t")
		return nil, nil
	}

	caps := probe.ForPTY(pty.Term, pty.Window.Width, pty.Window.Height)
	model := NewSessionModel(s.store, caps, SessionOptions{
		Overrides: s.config.Overrides,
		Lookup:    s.config.Lookup,
	}, s.logger.With("user", sshSession.User()))

	if args := sshSession.Command(); len(args) > 0 {
		if err := model.startGame(args[0]); err != nil {
			s.logger.Warn("cannot start game", "user", sshSession.User(), "game", args[0], "error", err)
			wish.Fatalln(sshSession, err)
			return nil, nil
		}
	}

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"command", sshSession.Command(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionOptions configures the games a session starts.
type SessionOptions struct {
	Overrides core.Options
	Lookup    func(id string) (runner.Descriptor, error) // registry.Lookup when nil
}

// SessionModel manages one session: menu, scoreboard and game, returning
// to the menu when a game ends.
type SessionModel struct {
	store    *storage.Store
	caps     probe.Capabilities
	opts     SessionOptions
	logger   *log.Logger
	width    int
	height   int
	menu     MenuModel
	board    *ScoreboardModel
	game     *Model
	quitting bool
}

// NewSessionModel creates a session model for a terminal described by caps.
func NewSessionModel(store *storage.Store, caps probe.Capabilities, opts SessionOptions, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Lookup == nil {
		opts.Lookup = registry.Lookup
	}
	return SessionModel{
		store:  store,
		caps:   caps,
		opts:   opts,
		logger: logger,
		width:  caps.Width,
		height: caps.Height,
		menu:   NewMenuModel(store, caps.Width, caps.Height),
	}
}

// startGame starts the game registered as id on a fresh host sized to the
// terminal.
func (m *SessionModel) startGame(id string) error {
	d, err := m.opts.Lookup(id)
	if err != nil {
		return err
	}

	caps := m.caps
	caps.Width, caps.Height = m.width, m.height
	h := NewHost(m.width, core.Max(m.height-1, 1), caps)

	gm, err := NewModel(h, PlayConfig{
		Descriptor: d,
		Overrides:  m.opts.Overrides,
		Store:      m.store,
		Logger:     m.logger,
	})
	if err != nil {
		return err
	}
	gm.embedded = true
	gm.width, gm.height = m.width, m.height
	m.game = &gm
	m.logger.Info("game started", "game", id)
	return nil
}

// Init starts the game chosen by the session command, if any.
func (m SessionModel) Init() tea.Cmd {
	if m.game != nil {
		return m.game.Init()
	}
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.board != nil:
		return m.updateBoard(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		board := NewScoreboardModel(m.store, "", m.width, m.height)
		m.board = &board
		return m, nil

	case m.menu.Selected() != nil:
		id := m.menu.Selected().GameID
		if err := m.startGame(id); err != nil {
			m.logger.Warn("cannot start game", "game", id, "error", err)
			m.menu = NewMenuModel(m.store, m.width, m.height)
			return m, nil
		}
		return m, m.game.Init()
	}
	return m, cmd
}

func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = &board
	}

	switch {
	case m.board.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.board.IsGoingBack():
		m.board = nil
		m.menu = NewMenuModel(m.store, m.width, m.height)
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.Done() {
		m.logger.Info("game ended", "game", m.game.cfg.Descriptor.ID)
		m.game = nil
		m.menu = NewMenuModel(m.store, m.width, m.height)
		return m, nil
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.game != nil:
		return m.game.View()
	case m.board != nil:
		return m.board.View()
	default:
		return m.menu.View()
	}
}
