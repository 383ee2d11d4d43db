package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/dungeoncore/engine/parser"
	"github.com/nathoo/dungeoncore/types"
)

func TestDo_RoundReturnsToPlayer(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@....o")
	p := e.Player()
	start := e.Turn()

	for i := 0; i < 2; i++ {
		res := e.Do(types.Intent{Verb: parser.VerbWait})
		require.Equal(t, types.Waited, res.Outcome)
		assert.Equal(t, p, e.Current())
		assert.Equal(t, start, e.Turn())
	}

	e.Do(types.Intent{Verb: parser.VerbWait})
	assert.Equal(t, p, e.Current(), "monsters played and handed the turn back")
	assert.Equal(t, start+1, e.Turn())
	v, _ := e.Actor(p)
	assert.Equal(t, 3, v.Energy, "energy refilled at turn start")
}

func TestDo_EndTurn(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@....o")
	start := e.Turn()

	res := e.Do(types.Intent{Verb: parser.VerbEnd})
	assert.Equal(t, types.TurnEnded, res.Outcome)
	assert.Equal(t, e.Player(), e.Current())
	assert.Equal(t, start+1, e.Turn())
}

func TestDo_InfoVerbsAreFree(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@....o")
	for _, verb := range []string{parser.VerbInventory, parser.VerbGear, parser.VerbStats} {
		res := e.Do(types.Intent{Verb: verb})
		assert.NotEmpty(t, res.Output, verb)
	}
	v, _ := e.Actor(e.Player())
	assert.Equal(t, 3, v.Energy)
	assert.Equal(t, []string{"You are carrying nothing."}, e.InventoryLines(e.Player()))
}

func TestDo_BlockedMoveIsFree(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@#")
	res := e.Do(types.Intent{Verb: parser.VerbMove, DX: 1})
	assert.Equal(t, types.Blocked, res.Outcome)
	assert.Contains(t, res.Output, "Something is in the way.")
	v, _ := e.Actor(e.Player())
	assert.Equal(t, 3, v.Energy)
}

func TestDo_UnknownVerb(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@.")
	res := e.Do(types.Intent{Verb: "dance"})
	assert.ErrorIs(t, res.Err, ErrUnknownVerb)
}

func TestRunAI_ChaserAttacks(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@r...")
	res := e.Do(types.Intent{Verb: parser.VerbEnd})

	assert.Equal(t, e.Player(), e.Current())
	var fought bool
	for _, ev := range res.Events {
		if ev.Type == "hit" || ev.Type == "missed" {
			fought = true
		}
	}
	assert.True(t, fought, "an adjacent rat attacks: %v", res.Output)
	require.NoError(t, e.World.Check())
}

func TestRunAI_ManyMonstersSettle(t *testing.T) {
	e := newTestEngine(t, testPlayer,
		"#########",
		"#@......#",
		"#.r.r.r.#",
		"#..k.k..#",
		"#.......#",
		"#########",
	)
	for i := 0; i < 30 && !e.GameOver(); i++ {
		e.Do(types.Intent{Verb: parser.VerbWait})
		require.NoError(t, e.World.Check())
		if !e.GameOver() {
			require.Equal(t, e.Player(), e.Current())
		}
	}
}

func TestStep(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@...")

	res := e.Step("goto")
	require.ErrorIs(t, res.Err, parser.ErrUsage)
	assert.Equal(t, []string{"Usage: goto <x> <y>"}, res.Output)

	res = e.Step("goto 2 0")
	require.NoError(t, res.Err)
	assert.Equal(t, types.Moved, res.Outcome)

	res = e.Step("")
	assert.Equal(t, []string{"What do you want to do?"}, res.Output)
}

func TestEndTurn_NoActorsLeft(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@.")
	require.NoError(t, e.RemoveActor(e.Player()))
	assert.True(t, e.GameOver())
	assert.Zero(t, e.Current())

	res := e.EndTurn()
	assert.Equal(t, types.TurnEnded, res.Outcome)
	assert.Zero(t, e.Current())
	assert.Empty(t, e.RunAI().Output)
}
