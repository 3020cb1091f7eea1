package tui

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamerunner/internal/core"
	"github.com/vovakirdan/gamerunner/internal/probe"
	"github.com/vovakirdan/gamerunner/internal/runner"
	"github.com/vovakirdan/gamerunner/internal/snapshot"
	"github.com/vovakirdan/gamerunner/internal/storage"
)

// PlayConfig describes one game session.
type PlayConfig struct {
	Descriptor  runner.Descriptor
	Overrides   core.Options // Merged over the descriptor defaults
	Surface     string       // Target surface id, MainSurface when empty
	Store       *storage.Store
	SnapshotDir string // Where ctrl+s writes, DefaultSnapshotDir when empty
	Logger      *log.Logger
}

// DefaultSnapshotDir returns ~/.gamerunner/snapshots.
func DefaultSnapshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gamerunner", "snapshots")
	}
	return filepath.Join(home, ".gamerunner", "snapshots")
}

// Model is the Bubble Tea model for one hosted game.
type Model struct {
	host   *Host
	runner *runner.Runner
	cfg    PlayConfig
	keys   KeyMap
	help   help.Model
	logger *log.Logger

	started    time.Time
	width      int
	height     int
	status     string
	scoreSaved bool // Score recorded for the current game over
	embedded   bool // Leave quitting to the parent model
	done       bool
}

// NewModel constructs the runner for pc on h. The game is expected to start
// the runner from its constructor; the first timer command is returned by
// Init.
func NewModel(h *Host, pc PlayConfig) (Model, error) {
	if pc.Surface == "" {
		pc.Surface = MainSurface
	}
	if pc.SnapshotDir == "" {
		pc.SnapshotDir = DefaultSnapshotDir()
	}
	logger := pc.Logger
	if logger == nil {
		logger = log.Default()
	}

	r, err := runner.Launch(h, pc.Surface, pc.Descriptor, pc.Overrides,
		runner.WithLogger(logger.WithPrefix("runner")))
	if err != nil {
		return Model{}, err
	}

	return Model{
		host:    h,
		runner:  r,
		cfg:     pc,
		keys:    h.keys,
		help:    help.New(),
		logger:  logger.WithPrefix("tui"),
		started: h.Now(),
	}, nil
}

// Init returns the commands queued while the game was set up.
func (m Model) Init() tea.Cmd {
	return m.host.Cmds()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.finish()
		case key.Matches(msg, m.keys.Snapshot):
			m.saveSnapshot()
			return m, nil
		}
		m.host.HandleKey(msg)

	case TickMsg:
		m.host.HandleTick(msg)
		m.recordScore()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	if m.host.Idle() {
		m.logger.Debug("game stopped itself", "game", m.cfg.Descriptor.ID)
		return m.finish()
	}
	return m, m.host.Cmds()
}

// finish stops the runner and records the session.
func (m Model) finish() (tea.Model, tea.Cmd) {
	m.runner.Stop()
	m.saveRun()
	m.done = true
	if m.embedded {
		return m, nil
	}
	return m, tea.Quit
}

// recordScore saves the score of a Scorer game once per game over.
func (m *Model) recordScore() {
	scorer, ok := m.runner.Game().(runner.Scorer)
	if !ok {
		return
	}
	if !scorer.GameOver() {
		m.scoreSaved = false
		return
	}
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true

	if m.cfg.Store == nil || scorer.Score() <= 0 {
		return
	}
	if _, err := m.cfg.Store.SaveScore(m.cfg.Descriptor.ID, scorer.Score()); err != nil {
		m.logger.Warn("could not save score", "game", m.cfg.Descriptor.ID, "error", err)
	}
}

// saveRun records the session length and tick count.
func (m Model) saveRun() {
	if m.cfg.Store == nil {
		return
	}
	run := storage.Run{
		GameID:    m.cfg.Descriptor.ID,
		Ticks:     m.host.Ticks(),
		Duration:  m.host.Now().Sub(m.started),
		TargetFPS: m.runner.Config().FPS,
	}
	if scorer, ok := m.runner.Game().(runner.Scorer); ok {
		run.Score = scorer.Score()
	}
	if _, err := m.cfg.Store.SaveRun(run); err != nil {
		m.logger.Warn("could not save run", "game", run.GameID, "error", err)
	}
}

// saveSnapshot writes the visible surface as text and PNG.
func (m *Model) saveSnapshot() {
	paths, err := snapshot.Save(m.cfg.SnapshotDir, m.cfg.Descriptor.ID, m.runner.Front(), m.host.Now())
	if err != nil {
		m.logger.Warn("could not save snapshot", "error", err)
		m.status = "snapshot failed"
		return
	}
	m.logger.Info("snapshot saved", "files", paths)
	m.status = "saved " + filepath.Base(paths[0])
}

// View renders the front surface, with the open dialog drawn over it.
func (m Model) View() string {
	if m.done {
		return ""
	}

	screen := m.runner.Front()
	footer := m.status
	if d, ok := m.host.currentDialog(); ok {
		screen = overlayDialog(screen, d)
		footer = m.help.View(m.dialogKeys(d.kind))
	}

	content := RenderScreen(screen)
	if footer != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(footer)
	}
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m Model) dialogKeys(kind runner.DialogKind) dialogHelp {
	if kind == runner.DialogConfirm {
		return dialogHelp{m.keys.Yes, m.keys.No}
	}
	return dialogHelp{m.keys.Dismiss}
}

// Host returns the host driving the model.
func (m Model) Host() *Host { return m.host }

// Runner returns the runner of the hosted game.
func (m Model) Runner() *runner.Runner { return m.runner }

// Done reports whether the session has ended.
func (m Model) Done() bool { return m.done }

// Run plays a game in the current terminal until the player quits or the
// game stops itself. The main surface takes the terminal size minus one
// row for the footer.
func Run(pc PlayConfig) error {
	caps := probe.Detect(os.Stdin, os.Stdout)
	h := NewHost(caps.Width, core.Max(caps.Height-1, 1), caps)

	model, err := NewModel(h, pc)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
