package engine

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dungeoncore/engine/events"
	"github.com/nathoo/dungeoncore/engine/resolve"
	"github.com/nathoo/dungeoncore/engine/table"
	"github.com/nathoo/dungeoncore/types"
)

// Move acts on the target cell: an empty cell is walked into, an item is
// picked up and an actor is attacked. Only an empty target moves the actor.
func (e *Engine) Move(actor types.ActorID, to types.Position) types.Result {
	if e.gameOver {
		return e.fail(actor, types.Blocked, ErrGameOver, "The game is over.")
	}
	from, err := e.World.Actors.Position(actor)
	if err != nil {
		return e.fail(actor, types.Blocked, err, "")
	}
	tgt, err := resolve.Check(e.World.Grid, from, to, e.Rules.Reach)
	if err != nil {
		return e.fail(actor, types.Blocked, err, blockedLine(err))
	}

	switch tgt.Kind {
	case resolve.Actor:
		if e.sameFaction(actor, tgt.Cell.Actor) {
			return e.fail(actor, types.Blocked, ErrSameFaction, "")
		}
		return e.Attack(actor, tgt.Cell.Actor)

	case resolve.Item:
		return e.Pickup(actor, to)

	default:
		if err := e.World.Grid.MoveActor(from, to); err != nil {
			return e.fail(actor, types.Blocked, err, "")
		}
		if err := e.World.Actors.SetPosition(actor, to); err != nil {
			return e.fail(actor, types.Blocked, err, "")
		}
		e.spend(actor)
		res := types.Result{Outcome: types.Moved}
		e.trace(actor, res, logrus.Fields{"x": to.X, "y": to.Y})
		return res
	}
}

// Translate moves actor by (dx, dy).
func (e *Engine) Translate(actor types.ActorID, dx, dy int) types.Result {
	from, err := e.World.Actors.Position(actor)
	if err != nil {
		return e.fail(actor, types.Blocked, err, "")
	}
	return e.Move(actor, from.Add(dx, dy))
}

func blockedLine(err error) string {
	switch {
	case errors.Is(err, resolve.ErrWall):
		return "Something is in the way."
	case errors.Is(err, resolve.ErrTooFar):
		return "That is too far away."
	case errors.Is(err, resolve.ErrOutOfBounds):
		return "You can't go there."
	default:
		return ""
	}
}

// sameFaction reports whether a and b fight on the same side. Monsters never
// fight each other.
func (e *Engine) sameFaction(a, b types.ActorID) bool {
	ca, err := e.World.Actors.Get(a)
	if err != nil {
		return false
	}
	cb, err := e.World.Actors.Get(b)
	if err != nil {
		return false
	}
	return ca.Controller.Kind == types.AIControlled && cb.Controller.Kind == types.AIControlled
}

// Pickup takes the world item at pos into actor's inventory. The target is
// checked like a move, so pos must lie within reach. It is all or
// nothing: an item that would exceed the carry limit leaves every row as is.
func (e *Engine) Pickup(actor types.ActorID, pos types.Position) types.Result {
	if e.gameOver {
		return e.fail(actor, types.Blocked, ErrGameOver, "The game is over.")
	}
	a, err := e.World.Actors.Get(actor)
	if err != nil {
		return e.fail(actor, types.NotFound, err, "")
	}
	tgt, err := resolve.Check(e.World.Grid, a.Pos, pos, e.Rules.Reach)
	if err != nil {
		return e.fail(actor, types.Blocked, err, blockedLine(err))
	}
	if tgt.Cell.Item == 0 {
		return e.fail(actor, types.NotFound, ErrNothingHere, "There is nothing here.")
	}
	item, err := e.World.Items.Get(tgt.Cell.Item)
	if err != nil {
		return e.fail(actor, types.NotFound, err, "")
	}
	def, err := e.World.ItemTypes.Get(item.Type)
	if err != nil {
		return e.fail(actor, types.NotFound, err, "")
	}
	limit, err := e.World.ActorTypes.MaxCarry(a.Type)
	if err != nil {
		return e.fail(actor, types.NotFound, err, "")
	}

	name := e.actorName(actor)
	data := map[string]any{"actor": actor, "item": def.Name, "weight": def.Weight}
	if a.Carried+def.Weight > limit {
		res := types.Result{Outcome: types.TooHeavy, Err: ErrTooHeavy}
		e.emit(&res, events.TooHeavy, fmt.Sprintf("%s can't carry %s", name, def.Name), data)
		e.trace(actor, res, logrus.Fields{"carried": a.Carried, "limit": limit})
		return res
	}

	if err := e.World.Inventory.Add(actor, item.Type, 1); err != nil {
		return e.fail(actor, types.NotFound, err, "")
	}
	if _, err := e.World.Actors.AddCarried(actor, def.Weight); err != nil {
		return e.fail(actor, types.NotFound, err, "")
	}
	if err := e.World.RemoveItem(item.ID); err != nil {
		return e.fail(actor, types.NotFound, err, "")
	}
	e.spend(actor)

	res := types.Result{Outcome: types.PickedUp}
	e.emit(&res, events.PickedUp, fmt.Sprintf("%s picked up %s", name, def.Name), data)
	e.trace(actor, res, logrus.Fields{"item": def.Name})
	return res
}

// Drop puts one unit of the n-th inventory stack (1-based) on a free cell
// next to actor.
func (e *Engine) Drop(actor types.ActorID, n int) types.Result {
	if e.gameOver {
		return e.fail(actor, types.Blocked, ErrGameOver, "The game is over.")
	}
	stacks := e.World.Inventory.Items(actor)
	if n < 1 || n > len(stacks) {
		return e.fail(actor, types.ItemNotFound, ErrItemNotHeld, "You don't have that.")
	}
	item := stacks[n-1].Type

	from, err := e.World.Actors.Position(actor)
	if err != nil {
		return e.fail(actor, types.Blocked, err, "")
	}
	spot, ok := e.freeNeighbour(from)
	if !ok {
		return e.fail(actor, types.Blocked, ErrNoFreeCell, "There is no room to drop that.")
	}
	def, err := e.World.ItemTypes.Get(item)
	if err != nil {
		return e.fail(actor, types.ItemNotFound, err, "")
	}

	if err := e.World.Inventory.Take(actor, item, 1); err != nil {
		return e.fail(actor, types.ItemNotFound, err, "")
	}
	if _, err := e.World.SpawnItem(item, spot); err != nil {
		_ = e.World.Inventory.Add(actor, item, 1)
		return e.fail(actor, types.Blocked, err, "")
	}
	if _, err := e.World.Actors.AddCarried(actor, -def.Weight); err != nil {
		return e.fail(actor, types.Blocked, err, "")
	}
	e.spend(actor)

	res := types.Result{Outcome: types.Dropped}
	e.emit(&res, events.Dropped, fmt.Sprintf("%s dropped %s", e.actorName(actor), def.Name),
		map[string]any{"actor": actor, "item": def.Name, "x": spot.X, "y": spot.Y})
	e.trace(actor, res, logrus.Fields{"item": def.Name})
	return res
}

// freeNeighbour returns the first empty cell around p.
func (e *Engine) freeNeighbour(p types.Position) (types.Position, bool) {
	for _, q := range e.World.Grid.Neighbours(p) {
		if c, err := e.World.Grid.At(q); err == nil && c.Empty() {
			return q, true
		}
	}
	return types.Position{}, false
}

// Wait spends one unit of energy doing nothing.
func (e *Engine) Wait(actor types.ActorID) types.Result {
	if e.gameOver {
		return e.fail(actor, types.Blocked, ErrGameOver, "The game is over.")
	}
	if !e.World.Actors.Contains(actor) {
		return e.fail(actor, types.Blocked, fmt.Errorf("actor %d: %w", actor, table.ErrNotFound), "")
	}
	e.spend(actor)
	res := types.Result{Outcome: types.Waited}
	e.trace(actor, res, nil)
	return res
}
