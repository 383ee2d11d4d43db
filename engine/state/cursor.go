package state

import (
	"github.com/nathoo/dungeoncore/engine/table"
	"github.com/nathoo/dungeoncore/types"
)

// TurnCursor names the actor whose turn is active. It holds an identifier,
// never a row position, so deleting rows cannot make it dangle. Zero means
// no actors are left.
type TurnCursor struct {
	current types.ActorID
}

// Current returns the acting actor, 0 when the world is empty.
func (c *TurnCursor) Current() types.ActorID { return c.current }

// Set points the cursor at id.
func (c *TurnCursor) Set(id types.ActorID) { c.current = id }

// Advance moves to the next larger identifier, wrapping to the smallest.
func (c *TurnCursor) Advance(actors *table.ActorTable) types.ActorID {
	next, ok := actors.Next(c.current)
	if !ok {
		next = 0
	}
	c.current = next
	return next
}

// Row resolves the cursor to the actor's current row.
func (c *TurnCursor) Row(actors *table.ActorTable) (int, error) {
	return actors.Row(c.current)
}

// removed is called after id has left the actor table.
func (c *TurnCursor) removed(actors *table.ActorTable, id types.ActorID) {
	if c.current != id {
		return
	}
	next, ok := actors.Next(id)
	if !ok {
		next = 0
	}
	c.current = next
}
