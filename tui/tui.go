package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/parser"
	"github.com/nathoo/dungeoncore/types"
)

// minLogHeight is the least number of log lines kept under the map.
const minLogHeight = 4

type mode int

const (
	modePlay mode = iota
	modeCommand
	modeCursor
)

type cursorAction int

const (
	actionGoto cursorAction = iota
	actionFire
)

type panel int

const (
	panelNone panel = iota
	panelInventory
	panelGear
	panelStats
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the dungeoncore TUI.
type Model struct {
	engine *engine.Engine
	keys   keyMap

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated log lines (unstyled, for re-wrapping)

	mode   mode
	action cursorAction
	cursor types.Position
	panel  panel

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed command line (empty for key actions)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		keys:    defaultKeyMap(),
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine) error {
	p := tea.NewProgram(New(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init greets the player.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		name := "adventurer"
		if v, err := m.engine.Actor(m.engine.Player()); err == nil {
			name = v.Name
		}
		return gameOutputMsg{lines: []string{
			fmt.Sprintf("Welcome, %s. Press ? for help.", name),
		}}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		}
		m.layout()
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch msg.String() {
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}
		switch m.mode {
		case modeCommand:
			return m.updateCommand(msg)
		case modeCursor:
			return m.updateCursor(msg), nil
		default:
			return m.updatePlay(msg), nil
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}
	return m, nil
}

func (m Model) updatePlay(msg tea.KeyMsg) Model {
	if m.engine.GameOver() {
		return m
	}
	if dx, dy, ok := m.keys.direction(msg); ok {
		return m.act("", types.Intent{Verb: parser.VerbMove, DX: dx, DY: dy})
	}

	switch {
	case key.Matches(msg, m.keys.Wait):
		return m.act("", types.Intent{Verb: parser.VerbWait})
	case key.Matches(msg, m.keys.EndTurn):
		return m.act("", types.Intent{Verb: parser.VerbEnd})
	case key.Matches(msg, m.keys.Teleport):
		return m.startCursor(actionGoto)
	case key.Matches(msg, m.keys.Fire):
		return m.startCursor(actionFire)
	case key.Matches(msg, m.keys.Inventory):
		m.togglePanel(panelInventory)
	case key.Matches(msg, m.keys.Gear):
		m.togglePanel(panelGear)
	case key.Matches(msg, m.keys.Stats):
		m.togglePanel(panelStats)
	case key.Matches(msg, m.keys.Cancel):
		m.togglePanel(panelNone)
	case key.Matches(msg, m.keys.Command):
		m.mode = modeCommand
		m.input.SetValue("")
		m.input.Focus()
	case key.Matches(msg, m.keys.Help):
		m = m.appendOutput(gameOutputMsg{lines: m.cmdHelp(), isSystem: true})
	}
	return m
}

// startCursor enters targeting mode with the cursor on the player.
func (m Model) startCursor(a cursorAction) Model {
	v, err := m.engine.Actor(m.engine.Player())
	if err != nil {
		return m
	}
	m.mode = modeCursor
	m.action = a
	m.cursor = v.Pos
	return m
}

func (m Model) updateCursor(msg tea.KeyMsg) Model {
	if dx, dy, ok := m.keys.direction(msg); ok {
		next := m.cursor.Add(dx, dy)
		if m.engine.World.Grid.InBounds(next) {
			m.cursor = next
		}
		return m
	}

	confirm := key.Matches(msg, m.keys.Confirm) ||
		(m.action == actionGoto && key.Matches(msg, m.keys.Teleport)) ||
		(m.action == actionFire && key.Matches(msg, m.keys.Fire))
	switch {
	case confirm:
		m.mode = modePlay
		verb := parser.VerbGoto
		if m.action == actionFire {
			verb = parser.VerbFire
		}
		return m.act("", types.Intent{Verb: verb, Target: m.cursor})
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modePlay
	}
	return m
}

func (m Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.handleEnter()

	case "esc":
		m.mode = modePlay
		m.input.Blur()
		m.history.Reset()
		return m, nil

	case "up":
		if prev, ok := m.history.Prev(m.input.Value()); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil

	case "down":
		next, _ := m.history.Next()
		m.input.SetValue(next)
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter processes the submitted command line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.input.Blur()
	m.mode = modePlay

	if input == "" {
		return m, nil
	}
	m.history.Push(input)

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result := m.engine.Step(input)
	return m.show(input, result), nil
}

// act performs one intent and logs its output.
func (m Model) act(label string, in types.Intent) Model {
	return m.show(label, m.engine.Do(in))
}

func (m Model) show(input string, result types.Result) Model {
	output := result.Output
	if m.trace {
		output = append(output, m.formatTrace(result)...)
	}
	if len(output) == 0 && input == "" {
		return m
	}
	return m.appendOutput(gameOutputMsg{input: input, lines: output})
}

func (m *Model) togglePanel(p panel) {
	if m.panel == p {
		p = panelNone
	}
	m.panel = p
	m.layout()
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: ": " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	m.refreshViewport()

	return m
}

// boardSize returns the map area left after the panel, HUD and log.
func (m Model) boardSize() (w, h int) {
	g := m.engine.World.Grid
	w = m.width
	if p := m.renderPanel(); p != "" {
		w -= lipgloss.Width(p)
	}
	h = m.height - 2 - minLogHeight
	return max(1, min(w, g.Width())), max(1, min(h, g.Height()))
}

// layout sizes the log viewport to the space under the map.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	_, bh := m.boardSize()
	top := bh
	if p := m.renderPanel(); p != "" {
		top = max(top, lipgloss.Height(p))
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-top-2)
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full layout: map and panel, HUD, log, mode line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	top := m.renderBoard(m.boardSize())
	if p := m.renderPanel(); p != "" {
		top = lipgloss.JoinHorizontal(lipgloss.Top, top, p)
	}
	return top + "\n" + m.renderStatusBar() + "\n" + m.viewport.View() + "\n" + m.renderModeBar()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	out := []string{"Keys:"}
	out = append(out, m.keys.helpLines()...)
	return append(out,
		"",
		"Commands (after ':'):",
		"  equip <n> <slot>   deequip <slot>   drop <n>",
		"  goto <x> <y>       fire <x> <y>     stats",
		"  /state  /trace  /help  /quit",
		"",
		"PgUp/PgDn scroll the log; Up/Down recall commands.",
	)
}

func (m *Model) cmdState() []string {
	e := m.engine
	w := e.World
	out := []string{
		fmt.Sprintf("Run: %s  Seed: %d", e.RunID, e.RNG.Seed()),
		fmt.Sprintf("Turn: %d  Current actor: %d", e.Turn(), e.Current()),
		fmt.Sprintf("Actors: %d  Items: %d", w.Actors.Len(), w.Items.Len()),
	}
	if err := w.Check(); err != nil {
		out = append(out, fmt.Sprintf("Consistency: %v", err))
	}
	return out
}

func (m *Model) formatTrace(result types.Result) []string {
	lines := []string{fmt.Sprintf("[trace] Outcome: %s", result.Outcome)}
	if result.Err != nil {
		lines = append(lines, fmt.Sprintf("[trace] Error: %v", result.Err))
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
	return lines
}
