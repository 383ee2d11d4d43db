package table

import (
	"fmt"

	"github.com/nathoo/dungeoncore/types"
)

// Actor is one row of the ActorTable.
type Actor struct {
	ID         types.ActorID
	Type       types.ActorTypeID
	Pos        types.Position
	Health     int
	Energy     int
	Carried    int
	Controller types.Controller
}

// Alive reports whether the actor still has health left.
func (a Actor) Alive() bool { return a.Health > 0 }

// ActorTable holds one row per live actor.
type ActorTable struct {
	ids     Index[types.ActorID]
	counter counter[types.ActorID]

	typ     []types.ActorTypeID
	pos     []types.Position
	health  []int
	energy  []int
	carried []int
	control []types.Controller
}

// Add inserts a new actor row and returns its identifier.
func (t *ActorTable) Add(typ types.ActorTypeID, pos types.Position, health, energy int, c types.Controller) (types.ActorID, error) {
	id, err := t.counter.next()
	if err != nil {
		return 0, fmt.Errorf("actors: %w", err)
	}
	i, err := t.ids.insert(id)
	if err != nil {
		return 0, fmt.Errorf("actor %d: %w", id, err)
	}
	t.typ = insertAt(t.typ, i, typ)
	t.pos = insertAt(t.pos, i, pos)
	t.health = insertAt(t.health, i, health)
	t.energy = insertAt(t.energy, i, energy)
	t.carried = insertAt(t.carried, i, 0)
	t.control = insertAt(t.control, i, c)
	return id, nil
}

// Remove deletes the row for id and returns the row position it held.
func (t *ActorTable) Remove(id types.ActorID) (int, error) {
	i, ok := t.ids.remove(id)
	if !ok {
		return -1, fmt.Errorf("actor %d: %w", id, ErrNotFound)
	}
	t.typ = deleteAt(t.typ, i)
	t.pos = deleteAt(t.pos, i)
	t.health = deleteAt(t.health, i)
	t.energy = deleteAt(t.energy, i)
	t.carried = deleteAt(t.carried, i)
	t.control = deleteAt(t.control, i)
	return i, nil
}

// Contains reports whether id names a live actor.
func (t *ActorTable) Contains(id types.ActorID) bool {
	_, ok := t.ids.Find(id)
	return ok
}

// Row returns the row position of id.
func (t *ActorTable) Row(id types.ActorID) (int, error) {
	i, ok := t.ids.Find(id)
	if !ok {
		return -1, fmt.Errorf("actor %d: %w", id, ErrNotFound)
	}
	return i, nil
}

// Get returns a copy of the row for id.
func (t *ActorTable) Get(id types.ActorID) (Actor, error) {
	i, err := t.Row(id)
	if err != nil {
		return Actor{}, err
	}
	return t.at(i), nil
}

// At returns a copy of row i. i must be in [0, Len()).
func (t *ActorTable) At(i int) Actor {
	return t.at(i)
}

func (t *ActorTable) at(i int) Actor {
	return Actor{
		ID:         t.ids.At(i),
		Type:       t.typ[i],
		Pos:        t.pos[i],
		Health:     t.health[i],
		Energy:     t.energy[i],
		Carried:    t.carried[i],
		Controller: t.control[i],
	}
}

// Type returns the archetype of id.
func (t *ActorTable) Type(id types.ActorID) (types.ActorTypeID, error) {
	i, err := t.Row(id)
	if err != nil {
		return 0, err
	}
	return t.typ[i], nil
}

// Position returns where id stands.
func (t *ActorTable) Position(id types.ActorID) (types.Position, error) {
	i, err := t.Row(id)
	if err != nil {
		return types.Position{}, err
	}
	return t.pos[i], nil
}

// SetPosition moves id. Callers keep the grid in agreement.
func (t *ActorTable) SetPosition(id types.ActorID, p types.Position) error {
	i, err := t.Row(id)
	if err != nil {
		return err
	}
	t.pos[i] = p
	return nil
}

// AddHealth applies a signed health delta and returns the new health.
func (t *ActorTable) AddHealth(id types.ActorID, delta int) (int, error) {
	i, err := t.Row(id)
	if err != nil {
		return 0, err
	}
	t.health[i] += delta
	return t.health[i], nil
}

// SetEnergy replaces the remaining energy of id.
func (t *ActorTable) SetEnergy(id types.ActorID, energy int) error {
	i, err := t.Row(id)
	if err != nil {
		return err
	}
	t.energy[i] = energy
	return nil
}

// SpendEnergy decrements energy by one, never below zero, and returns what is left.
func (t *ActorTable) SpendEnergy(id types.ActorID) (int, error) {
	i, err := t.Row(id)
	if err != nil {
		return 0, err
	}
	if t.energy[i] > 0 {
		t.energy[i]--
	}
	return t.energy[i], nil
}

// AddCarried applies a signed delta to the carried weight of id.
func (t *ActorTable) AddCarried(id types.ActorID, delta int) (int, error) {
	i, err := t.Row(id)
	if err != nil {
		return 0, err
	}
	t.carried[i] += delta
	return t.carried[i], nil
}

// IDs returns the identifier column in order.
func (t *ActorTable) IDs() []types.ActorID { return t.ids.Keys() }

// IDAt returns the identifier at row i.
func (t *ActorTable) IDAt(i int) types.ActorID { return t.ids.At(i) }

// Len returns the number of live actors.
func (t *ActorTable) Len() int { return t.ids.Len() }

// Check verifies the sorted-index invariant.
func (t *ActorTable) Check() error {
	return t.ids.check(len(t.typ), len(t.pos), len(t.health), len(t.energy), len(t.carried), len(t.control))
}

// Item is one row of the ItemTable.
type Item struct {
	ID   types.ItemID
	Type types.ItemTypeID
	Pos  types.Position
}

// ItemTable holds the items lying in the world.
type ItemTable struct {
	ids     Index[types.ItemID]
	counter counter[types.ItemID]

	typ []types.ItemTypeID
	pos []types.Position
}

// Add inserts a world item and returns its identifier.
func (t *ItemTable) Add(typ types.ItemTypeID, pos types.Position) (types.ItemID, error) {
	id, err := t.counter.next()
	if err != nil {
		return 0, fmt.Errorf("items: %w", err)
	}
	i, err := t.ids.insert(id)
	if err != nil {
		return 0, fmt.Errorf("item %d: %w", id, err)
	}
	t.typ = insertAt(t.typ, i, typ)
	t.pos = insertAt(t.pos, i, pos)
	return id, nil
}

// Remove deletes the row for id and returns the row position it held.
func (t *ItemTable) Remove(id types.ItemID) (int, error) {
	i, ok := t.ids.remove(id)
	if !ok {
		return -1, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	t.typ = deleteAt(t.typ, i)
	t.pos = deleteAt(t.pos, i)
	return i, nil
}

// Contains reports whether id is lying in the world.
func (t *ItemTable) Contains(id types.ItemID) bool {
	_, ok := t.ids.Find(id)
	return ok
}

// Get returns a copy of the row for id.
func (t *ItemTable) Get(id types.ItemID) (Item, error) {
	i, ok := t.ids.Find(id)
	if !ok {
		return Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return Item{ID: id, Type: t.typ[i], Pos: t.pos[i]}, nil
}

// IDs returns the identifier column in order.
func (t *ItemTable) IDs() []types.ItemID { return t.ids.Keys() }

// Len returns the number of world items.
func (t *ItemTable) Len() int { return t.ids.Len() }

// Check verifies the sorted-index invariant.
func (t *ItemTable) Check() error {
	return t.ids.check(len(t.typ), len(t.pos))
}

// Next returns the live actor after id in identifier order, wrapping to the
// smallest. id itself need not be present. ok is false on an empty table.
func (t *ActorTable) Next(id types.ActorID) (types.ActorID, bool) {
	n := t.ids.Len()
	if n == 0 {
		return 0, false
	}
	i, found := t.ids.Find(id)
	if found {
		i++
	}
	if i >= n {
		i = 0
	}
	return t.ids.At(i), true
}
