package cli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/logger"
	"github.com/nathoo/dungeoncore/types"
)

func TestMain(m *testing.M) {
	logger.Init("error", "text", io.Discard)
	os.Exit(m.Run())
}

// testDefs returns a small walled room with the player, a sword and an idle
// ogre far enough away to leave the player alone.
func testDefs(t *testing.T) *state.Defs {
	t.Helper()
	rows := []string{
		"#########",
		"#@/.....#",
		"#......o#",
		"#########",
	}
	defs := state.NewDefs(len(rows[0]), len(rows))
	if _, err := defs.ActorTypes.Add(types.ActorTypeDef{
		Icon: 'o', Name: "Ogre", Health: 20, Energy: 1, Strength: 9, MaxCarry: 30, AI: types.StrategyIdle,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := defs.ItemTypes.Add(types.ItemTypeDef{
		Icon: '/', Name: "Sword", Weight: 3, Attack: 2, Category: types.CategoryMelee,
	}); err != nil {
		t.Fatal(err)
	}
	for y, row := range rows {
		for x, r := range row {
			if r != '.' {
				defs.Map.Placements = append(defs.Map.Placements, types.Placement{Pos: types.Position{X: x, Y: y}, Symbol: r})
			}
		}
	}
	return defs
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	world, err := state.NewWorld(testDefs(t), types.ActorTypeDef{
		Name: "Hero", Strength: 5, Health: 15, Energy: 3, Attack: 5, Defense: 5, MaxCarry: 20,
	})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	eng := engine.New(world, engine.DefaultRules(), engine.NewRNG(1))
	var out bytes.Buffer
	c := &CLI{
		Engine: eng,
		In:     strings.NewReader(input),
		Out:    &out,
	}
	return c, &out
}

func TestCLI_ShowsMapAndStatus(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "#@/.....#") {
		t.Errorf("expected map row in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Hero  HP 15/15") {
		t.Error("expected status line in output")
	}
	if !strings.Contains(output, "[Goodbye.]") {
		t.Error("expected goodbye message")
	}
}

func TestCLI_BasicGameplay(t *testing.T) {
	c, out := newTestCLI(t, "e\ni\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Hero picked up Sword") {
		t.Errorf("expected pickup line, got:\n%s", output)
	}
	if !strings.Contains(output, "1. / Sword x1 (weight 3)") {
		t.Errorf("expected inventory listing, got:\n%s", output)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"/quit", "/map", "goto <x> <y>", "equip <n> <slot>"} {
		if !strings.Contains(output, want) {
			t.Errorf("help should mention %q", want)
		}
	}
}

func TestCLI_UsageError(t *testing.T) {
	c, out := newTestCLI(t, "fire\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Usage: fire <x> <y>") {
		t.Errorf("expected usage line, got:\n%s", out.String())
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/dance\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Unknown command: /dance") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\nwait\n/trace\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Trace output enabled.") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace] Outcome: waited") {
		t.Errorf("expected trace output, got:\n%s", output)
	}
	if !strings.Contains(output, "Trace output disabled.") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Turn: 0") {
		t.Errorf("expected turn in state output, got:\n%s", output)
	}
	if !strings.Contains(output, "Ogre at 7,2") {
		t.Error("expected actor listing in state output")
	}
	if strings.Contains(output, "Consistency:") {
		t.Error("fresh world should be consistent")
	}
}

func TestCLI_EmptyInputAndComments(t *testing.T) {
	c, out := newTestCLI(t, "\n\n# a comment\n/quit\n")
	c.Run()

	if strings.Count(out.String(), "> ") != 4 {
		t.Errorf("expected one prompt per line, got:\n%s", out.String())
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, _ := newTestCLI(t, "goto 4 1\nagain\n/quit\n")
	c.Run()

	v, err := c.Engine.Actor(c.Engine.Player())
	if err != nil {
		t.Fatal(err)
	}
	if v.Energy != 2 {
		t.Errorf("second goto to the same cell should be blocked and free: energy = %d", v.Energy)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat.") {
		t.Error("expected nothing-to-repeat message")
	}
}

func TestCLI_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "stats\n")
	c.EchoInput = true
	c.Run()

	if !strings.Contains(out.String(), "> stats\n") {
		t.Errorf("expected echoed input, got:\n%s", out.String())
	}
}

func TestCLI_LogReplaysEvents(t *testing.T) {
	c, out := newTestCLI(t, "e\n/log\n/quit\n")
	c.Run()

	if strings.Count(out.String(), "Hero picked up Sword") != 2 {
		t.Errorf("expected pickup line once from the move and once from /log, got:\n%s", out.String())
	}
}
