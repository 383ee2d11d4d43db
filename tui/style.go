package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleModeBar = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleDeath = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleLoot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Glyph styles for the map.
var (
	glyphPlayer  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	glyphMonster = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	glyphItem    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	glyphWall    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	glyphFloor   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	glyphCursor  = lipgloss.NewStyle().Reverse(true)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindCombat
	kindDeath
	kindLoot
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasSuffix(line, " died"), line == "You have died.":
		return kindDeath
	case strings.Contains(line, " attacked "),
		strings.Contains(line, " range attacked "),
		strings.Contains(line, " missed "),
		strings.Contains(line, " fled from "):
		return kindCombat
	case strings.Contains(line, " picked up "),
		strings.Contains(line, " equipped "),
		strings.Contains(line, " removed "),
		strings.Contains(line, " dropped "):
		return kindLoot
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You don't"),
		strings.HasPrefix(line, "Can't "),
		strings.HasPrefix(line, "No ranged weapon"),
		strings.HasPrefix(line, "Usage:"),
		strings.HasPrefix(line, "There is no"),
		strings.HasPrefix(line, "There is nobody"),
		strings.HasPrefix(line, "There is nothing"),
		strings.HasPrefix(line, "Something is in the way"),
		strings.HasPrefix(line, "That is too far"),
		strings.HasPrefix(line, "I don't understand"),
		strings.Contains(line, " can't carry "):
		return kindError
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindCombat:
		return styleCombat.Render(line)
	case kindDeath:
		return styleDeath.Render(line)
	case kindLoot:
		return styleLoot.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
