// Package cli provides line-based terminal play, script playback and
// meta-command dispatch for the dungeoncore engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/types"
)

// CLI handles plain terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop: show the map, then prompt, dispatch and print
// until input ends, the player quits or the player dies.
func (c *CLI) Run() {
	c.printMap()
	c.printStatus()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		if strings.EqualFold(input, "again") {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
		if c.Engine.GameOver() {
			c.printSystem(fmt.Sprintf("Game over after %d turns.", c.Engine.Turn()))
			return
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/map":
		c.printMap()

	case "/state":
		c.cmdState()

	case "/log":
		for _, line := range c.Engine.Events.Lines() {
			c.printLine(line)
		}

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit    Exit game",
		"  /help    Show this help",
		"  /map     Draw the map",
		"  /log     Replay the message log",
		"  /state   Debug: dump current state",
		"  /trace   Toggle debug trace output",
		"",
		"Game commands:",
		"  n s e w ne nw se sw   Step (also h j k l y u b)",
		"  go/attack/get <dir>   Step, fight or pick up in a direction",
		"  goto <x> <y>          Move to a cell within reach",
		"  fire <x> <y>          Shoot with your ranged weapon",
		"  equip <n> <slot>      Equip inventory item n",
		"  deequip <slot>        Take off what is in a slot",
		"  drop <n>              Drop inventory item n",
		"  inventory (i)         List what you carry",
		"  gear (eq)             List what you wear",
		"  stats                 Show your character",
		"  wait (z)              Spend one energy",
		"  end                   End your turn",
		"  again                 Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	e := c.Engine
	w := e.World
	c.printSystem(fmt.Sprintf("Run: %s  Seed: %d  RNG calls: %d", e.RunID, e.RNG.Seed(), e.RNG.Position()))
	c.printSystem(fmt.Sprintf("Turn: %d  Current actor: %d", e.Turn(), e.Current()))
	c.printSystem(fmt.Sprintf("Actors: %d  Items: %d  Stacks: %d", w.Actors.Len(), w.Items.Len(), w.Inventory.Len()))
	for _, id := range w.Actors.IDs() {
		v, err := e.Actor(id)
		if err != nil {
			continue
		}
		c.printSystem(fmt.Sprintf("  %d %c %s at %d,%d hp %d/%d energy %d carry %d/%d",
			v.ID, v.Icon, v.Name, v.Pos.X, v.Pos.Y, v.Health, v.MaxHealth, v.Energy, v.Carried, v.MaxCarry))
	}
	if err := w.Check(); err != nil {
		c.printSystem(fmt.Sprintf("Consistency: %v", err))
	}
}

func (c *CLI) printMap() {
	g := c.Engine.World.Grid
	var b strings.Builder
	for y := 0; y < g.Height(); y++ {
		b.Reset()
		for x := 0; x < g.Width(); x++ {
			b.WriteRune(c.Engine.Glyph(types.Position{X: x, Y: y}))
		}
		c.printLine(b.String())
	}
}

func (c *CLI) printStatus() {
	v, err := c.Engine.Actor(c.Engine.Player())
	if err != nil {
		return
	}
	c.printLine(fmt.Sprintf("%s  HP %d/%d  Energy %d/%d  Carry %d/%d  Turn %d",
		v.Name, v.Health, v.MaxHealth, v.Energy, v.MaxEnergy, v.Carried, v.MaxCarry, c.Engine.Turn()))
}

func (c *CLI) printTrace(result types.Result) {
	c.printSystem(fmt.Sprintf("[trace] Outcome: %s", result.Outcome))
	if result.Err != nil {
		c.printSystem(fmt.Sprintf("[trace] Error: %v", result.Err))
	}
	if result.Attack != nil {
		c.printSystem(fmt.Sprintf("[trace] Attack: %s damage %d", result.Attack.Outcome, result.Attack.Damage))
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
