package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap holds the bindings of play mode. Direction keys also steer the
// target cursor.
type keyMap struct {
	Up, Down, Left, Right                key.Binding
	UpLeft, UpRight, DownLeft, DownRight key.Binding

	Wait      key.Binding
	EndTurn   key.Binding
	Teleport  key.Binding
	Fire      key.Binding
	Confirm   key.Binding
	Inventory key.Binding
	Gear      key.Binding
	Stats     key.Binding
	Command   key.Binding
	Help      key.Binding
	Cancel    key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/↑", "north")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/↓", "south")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/←", "west")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/→", "east")),
		UpLeft:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "north-west")),
		UpRight:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "north-east")),
		DownLeft:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "south-west")),
		DownRight: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "south-east")),

		Wait:      key.NewBinding(key.WithKeys(".", "z"), key.WithHelp(".", "wait")),
		EndTurn:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "end turn")),
		Teleport:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "move to cell")),
		Fire:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "ranged attack")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Inventory: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inventory")),
		Gear:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "equipped")),
		Stats:     key.NewBinding(key.WithKeys("@"), key.WithHelp("@", "character")),
		Command:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "ctrl+x"), key.WithHelp("ctrl+c", "quit")),
	}
}

// direction returns the step bound to msg, if any.
func (k keyMap) direction(msg tea.KeyMsg) (dx, dy int, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return 0, -1, true
	case key.Matches(msg, k.Down):
		return 0, 1, true
	case key.Matches(msg, k.Left):
		return -1, 0, true
	case key.Matches(msg, k.Right):
		return 1, 0, true
	case key.Matches(msg, k.UpLeft):
		return -1, -1, true
	case key.Matches(msg, k.UpRight):
		return 1, -1, true
	case key.Matches(msg, k.DownLeft):
		return -1, 1, true
	case key.Matches(msg, k.DownRight):
		return 1, 1, true
	}
	return 0, 0, false
}

// helpLines lists every binding for the log.
func (k keyMap) helpLines() []string {
	var out []string
	for _, b := range []key.Binding{
		k.Up, k.Down, k.Left, k.Right, k.UpLeft, k.UpRight, k.DownLeft, k.DownRight,
		k.Wait, k.EndTurn, k.Teleport, k.Fire, k.Inventory, k.Gear, k.Stats,
		k.Command, k.Help, k.Cancel, k.Quit,
	} {
		h := b.Help()
		out = append(out, "  "+h.Key+"  "+h.Desc)
	}
	return out
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (those steer the player).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
