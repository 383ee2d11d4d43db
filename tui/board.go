package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dungeoncore/types"
)

// camera returns the first visible coordinate along one axis so that focus
// stays on screen when the map is larger than the view.
func camera(size, view, focus int) int {
	if size <= view {
		return 0
	}
	start := focus - view/2
	return max(0, min(start, size-view))
}

// renderBoard draws the part of the map that fits in w x h cells.
func (m Model) renderBoard(w, h int) string {
	g := m.engine.World.Grid
	focus := m.focus()
	w, h = min(w, g.Width()), min(h, g.Height())
	x0 := camera(g.Width(), w, focus.X)
	y0 := camera(g.Height(), h, focus.Y)

	rows := make([]string, 0, h)
	var b strings.Builder
	for y := y0; y < y0+h; y++ {
		b.Reset()
		for x := x0; x < x0+w; x++ {
			p := types.Position{X: x, Y: y}
			glyph := m.styleGlyph(p)
			if m.mode == modeCursor && p == m.cursor {
				glyph = glyphCursor.Render(string(m.engine.Glyph(p)))
			}
			b.WriteString(glyph)
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

// focus is the cell the camera follows: the cursor while targeting, else
// the player.
func (m Model) focus() types.Position {
	if m.mode == modeCursor {
		return m.cursor
	}
	if v, err := m.engine.Actor(m.engine.Player()); err == nil {
		return v.Pos
	}
	return types.Position{}
}

func (m Model) styleGlyph(p types.Position) string {
	r := string(m.engine.Glyph(p))
	c, err := m.engine.Cell(p)
	switch {
	case err != nil:
		return " "
	case c.Actor == m.engine.Player():
		return glyphPlayer.Render(r)
	case c.Actor != 0:
		return glyphMonster.Render(r)
	case c.Item != 0:
		return glyphItem.Render(r)
	case c.Wall():
		return glyphWall.Render(r)
	default:
		return glyphFloor.Render(r)
	}
}

// renderStatusBar produces a full-width inverted HUD line.
func (m Model) renderStatusBar() string {
	left := " You are dead"
	if v, err := m.engine.Actor(m.engine.Player()); err == nil {
		left = fmt.Sprintf(" %s | HP %d/%d | EN %d/%d | Carry %d/%d",
			v.Name, v.Health, v.MaxHealth, v.Energy, v.MaxEnergy, v.Carried, v.MaxCarry)
	}
	right := fmt.Sprintf("T:%d ", m.engine.Turn())
	if v, err := m.engine.Actor(m.engine.Player()); err == nil {
		candidate := fmt.Sprintf("(%d,%d) | T:%d ", v.Pos.X, v.Pos.Y, m.engine.Turn())
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderModeBar tells the player what the keys do right now.
func (m Model) renderModeBar() string {
	switch m.mode {
	case modeCommand:
		return m.input.View()
	case modeCursor:
		verb := "move to"
		if m.action == actionFire {
			verb = "shoot at"
		}
		return styleModeBar.Render(fmt.Sprintf("Select a cell to %s (%d,%d): enter or %s to confirm, esc to cancel",
			verb, m.cursor.X, m.cursor.Y, m.actionKey()))
	}
	if m.engine.GameOver() {
		return styleModeBar.Render("Game over. ctrl+c to quit.")
	}
	return styleModeBar.Render("? help  : command  t move  r fire  i inventory  e equipped  E end turn")
}

func (m Model) actionKey() string {
	if m.action == actionFire {
		return m.keys.Fire.Help().Key
	}
	return m.keys.Teleport.Help().Key
}

// renderPanel draws the open side panel, or "" when none is open.
func (m Model) renderPanel() string {
	var lines []string
	player := m.engine.Player()
	switch m.panel {
	case panelInventory:
		lines = m.engine.InventoryLines(player)
	case panelGear:
		lines = m.engine.GearLines(player)
	case panelStats:
		lines = m.engine.StatLines(player)
	default:
		return ""
	}
	return stylePanel.Render(strings.Join(lines, "\n"))
}
