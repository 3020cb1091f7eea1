package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gamerunner/internal/core"
)

// specialKeys maps non-rune Bubble Tea keys to key codes.
var specialKeys = map[tea.KeyType]core.KeyCode{
	tea.KeyBackspace: core.KeyBackspace,
	tea.KeyTab:       core.KeyTab,
	tea.KeyEnter:     core.KeyReturn,
	tea.KeyEsc:       core.KeyEsc,
	tea.KeySpace:     core.KeySpace,
	tea.KeyPgUp:      core.KeyPageUp,
	tea.KeyPgDown:    core.KeyPageDown,
	tea.KeyEnd:       core.KeyEnd,
	tea.KeyHome:      core.KeyHome,
	tea.KeyLeft:      core.KeyLeft,
	tea.KeyUp:        core.KeyUp,
	tea.KeyRight:     core.KeyRight,
	tea.KeyDown:      core.KeyDown,
	tea.KeyInsert:    core.KeyInsert,
	tea.KeyDelete:    core.KeyDelete,
}

// KeyCodeFor translates a Bubble Tea key message to a key code.
// ok is false for keys the table does not cover, including any key with a
// modifier other than shift.
func KeyCodeFor(msg tea.KeyMsg) (code core.KeyCode, ok bool) {
	if msg.Alt {
		return 0, false
	}
	if code, ok := specialKeys[msg.Type]; ok {
		return code, true
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}

	r := msg.Runes[0]
	switch r {
	case ' ':
		return core.KeySpace, true
	case '`', '~':
		return core.KeyTilda, true
	}
	if code, ok := core.Letter(r); ok {
		return code, true
	}
	return core.Digit(r)
}

// KeyMap holds the bindings the host reserves for itself. Every other key
// goes to the game.
type KeyMap struct {
	Quit     key.Binding
	Snapshot key.Binding
	Yes      key.Binding
	No       key.Binding
	Dismiss  key.Binding
}

// DefaultKeyMap returns the default reserved bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "snapshot"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y/enter", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "no"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", " "),
			key.WithHelp("enter", "ok"),
		),
	}
}

// dialogHelp adapts the dialog bindings to help.KeyMap.
type dialogHelp []key.Binding

func (d dialogHelp) ShortHelp() []key.Binding { return d }

func (d dialogHelp) FullHelp() [][]key.Binding { return [][]key.Binding{d} }
