package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dungeoncore/engine/parser"
	"github.com/nathoo/dungeoncore/types"
)

// maxAISteps caps one RunAI call so a stuck monster cannot hang the game.
const maxAISteps = 10000

// EndTurn ends the current actor's turn, hands the cursor to the next actor
// and refills that actor's energy. A round completes each time the cursor
// comes back to the player.
func (e *Engine) EndTurn() types.Result {
	w := e.World
	if cur := w.Cursor.Current(); cur != 0 {
		_ = w.Actors.SetEnergy(cur, 0)
	}
	e.begin(w.Cursor.Advance(&w.Actors))
	return types.Result{Outcome: types.TurnEnded}
}

// Do performs one player intent. When the player runs out of energy the
// monsters take their turns before Do returns.
func (e *Engine) Do(in types.Intent) types.Result {
	if e.gameOver {
		return types.Result{Err: ErrGameOver, Output: []string{"The game is over."}}
	}
	player := e.World.Player

	switch in.Verb {
	case "":
		return types.Result{Output: []string{"What do you want to do?"}}
	case parser.VerbInventory:
		return types.Result{Output: e.InventoryLines(player)}
	case parser.VerbGear:
		return types.Result{Output: e.GearLines(player)}
	case parser.VerbStats:
		return types.Result{Output: e.StatLines(player)}
	case parser.VerbEnd:
		out := e.EndTurn()
		merge(&out, e.RunAI())
		return out
	}

	var res types.Result
	if e.World.Cursor.Current() != player {
		merge(&res, e.RunAI())
		if e.gameOver {
			return res
		}
	}
	act := e.act(player, in)
	res.Outcome, res.Err, res.Attack = act.Outcome, act.Err, act.Attack
	merge(&res, act)

	if !e.gameOver {
		if a, err := e.World.Actors.Get(player); err == nil && a.Energy <= 0 {
			merge(&res, e.EndTurn())
			merge(&res, e.RunAI())
		}
	}
	return res
}

// act dispatches an action verb for actor.
func (e *Engine) act(actor types.ActorID, in types.Intent) types.Result {
	switch in.Verb {
	case parser.VerbMove:
		return e.Translate(actor, in.DX, in.DY)
	case parser.VerbGoto:
		return e.Move(actor, in.Target)
	case parser.VerbFire:
		return e.Fire(actor, in.Target)
	case parser.VerbEquip:
		return e.EquipIndex(actor, in.Slot, in.Index)
	case parser.VerbDeequip:
		return e.Deequip(actor, in.Slot)
	case parser.VerbDrop:
		return e.Drop(actor, in.Index)
	case parser.VerbWait:
		return e.Wait(actor)
	default:
		return e.fail(actor, types.OutcomeNone, fmt.Errorf("%q: %w", in.Verb, ErrUnknownVerb), "I don't understand that.")
	}
}

// Step parses one line of player input and performs it.
func (e *Engine) Step(input string) types.Result {
	in, err := parser.Parse(input)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, parser.ErrUsage) {
			msg = "Usage: " + strings.TrimPrefix(msg, parser.ErrUsage.Error()+": ")
		}
		return types.Result{Err: err, Output: []string{msg}}
	}
	return e.Do(in)
}

// RunAI plays monster turns until the cursor is back on the player, the
// player is dead or no actors remain.
func (e *Engine) RunAI() types.Result {
	var res types.Result
	for steps := 0; steps < maxAISteps && !e.gameOver; steps++ {
		cur := e.World.Cursor.Current()
		if cur == 0 || cur == e.World.Player {
			return res
		}
		a, err := e.World.Actors.Get(cur)
		if err != nil {
			merge(&res, e.EndTurn())
			continue
		}
		if a.Controller.Kind != types.AIControlled || a.Energy <= 0 {
			merge(&res, e.EndTurn())
			continue
		}
		act := e.think(cur)
		merge(&res, act)
		// The actor may have died on a counter blow, moving the cursor on.
		if e.World.Cursor.Current() != cur {
			e.begin(e.World.Cursor.Current())
			continue
		}
		left, err := e.World.Actors.Get(cur)
		if err != nil || !acted(act) || left.Energy <= 0 || left.Energy >= a.Energy {
			merge(&res, e.EndTurn())
		}
	}
	if !e.gameOver {
		e.log.WithField("steps", maxAISteps).Warn("monster turns did not settle")
	}
	return res
}

// begin starts id's turn: its energy is refilled from its archetype.
func (e *Engine) begin(id types.ActorID) {
	if id == 0 {
		return
	}
	if id == e.World.Player {
		e.World.Turn++
	}
	if t, err := e.World.Actors.Type(id); err == nil {
		if def, err := e.World.ActorTypes.Get(t); err == nil {
			_ = e.World.Actors.SetEnergy(id, def.Energy)
		}
	}
	e.log.WithFields(logrus.Fields{"actor": id, "turn": e.World.Turn}).Debug("turn started")
}
