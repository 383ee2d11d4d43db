package table

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nathoo/dungeoncore/types"
)

// ErrInsufficient is returned when taking more units than an inventory holds.
var ErrInsufficient = errors.New("insufficient amount")

// invKey orders the inventory relation by actor first, then item type, so
// that one actor's entries are contiguous.
func invKey(actor types.ActorID, item types.ItemTypeID) uint32 {
	return uint32(actor)<<16 | uint32(item)
}

func splitKey(k uint32) (types.ActorID, types.ItemTypeID) {
	return types.ActorID(k >> 16), types.ItemTypeID(k & 0xffff)
}

// Inventory is the flat (actor, item type) -> amount relation. Pairings with
// amount zero are never stored.
type Inventory struct {
	keys   Index[uint32]
	amount []int
}

// Add puts n units of item into actor's inventory, creating the pairing if new.
func (inv *Inventory) Add(actor types.ActorID, item types.ItemTypeID, n int) error {
	if n <= 0 {
		return fmt.Errorf("inventory add %d: amount must be positive", n)
	}
	k := invKey(actor, item)
	if i, ok := inv.keys.Find(k); ok {
		inv.amount[i] += n
		return nil
	}
	i, err := inv.keys.insert(k)
	if err != nil {
		return err
	}
	inv.amount = insertAt(inv.amount, i, n)
	return nil
}

// Take removes n units of item from actor's inventory. Reaching zero removes
// the pairing.
func (inv *Inventory) Take(actor types.ActorID, item types.ItemTypeID, n int) error {
	k := invKey(actor, item)
	i, ok := inv.keys.Find(k)
	if !ok {
		return fmt.Errorf("actor %d item type %d: %w", actor, item, ErrNotFound)
	}
	switch {
	case inv.amount[i] < n:
		return fmt.Errorf("actor %d item type %d: %w", actor, item, ErrInsufficient)
	case inv.amount[i] == n:
		inv.keys.remove(k)
		inv.amount = deleteAt(inv.amount, i)
	default:
		inv.amount[i] -= n
	}
	return nil
}

// Amount returns how many units of item actor carries (0 if none).
func (inv *Inventory) Amount(actor types.ActorID, item types.ItemTypeID) int {
	if i, ok := inv.keys.Find(invKey(actor, item)); ok {
		return inv.amount[i]
	}
	return 0
}

// span returns the half-open row range holding actor's entries.
func (inv *Inventory) span(actor types.ActorID) (int, int) {
	lo, _ := inv.keys.Find(invKey(actor, 0))
	hi, _ := inv.keys.Find(invKey(actor+1, 0))
	if actor == 0xffff {
		hi = inv.keys.Len()
	}
	return lo, hi
}

// Items lists actor's stacks ordered by item type.
func (inv *Inventory) Items(actor types.ActorID) []types.Stack {
	lo, hi := inv.span(actor)
	out := make([]types.Stack, 0, hi-lo)
	for i := lo; i < hi; i++ {
		_, item := splitKey(inv.keys.At(i))
		out = append(out, types.Stack{Type: item, Amount: inv.amount[i]})
	}
	return out
}

// RemoveActor drops every pairing of actor and returns what was held.
func (inv *Inventory) RemoveActor(actor types.ActorID) []types.Stack {
	held := inv.Items(actor)
	lo, hi := inv.span(actor)
	if lo == hi {
		return held
	}
	inv.keys.keys = slices.Delete(inv.keys.keys, lo, hi)
	inv.amount = slices.Delete(inv.amount, lo, hi)
	return held
}

// Len returns the number of stored pairings.
func (inv *Inventory) Len() int { return inv.keys.Len() }

// Check verifies ordering, column lengths and the positive-amount rule.
func (inv *Inventory) Check() error {
	if err := inv.keys.check(len(inv.amount)); err != nil {
		return err
	}
	for i, n := range inv.amount {
		if n <= 0 {
			actor, item := splitKey(inv.keys.At(i))
			return fmt.Errorf("actor %d item type %d: non-positive amount %d", actor, item, n)
		}
	}
	return nil
}

// Slots is one actor's equipment. A zero entry is an empty slot.
type Slots [types.NumEquipSlots]types.ItemTypeID

// Equipment relates an actor to its fixed slot array.
type Equipment struct {
	ids   Index[types.ActorID]
	slots []Slots
}

// ErrInvalidSlot is returned for a slot outside the enumeration.
var ErrInvalidSlot = errors.New("invalid equip slot")

// Add creates an empty slot array for actor.
func (e *Equipment) Add(actor types.ActorID) error {
	i, err := e.ids.insert(actor)
	if err != nil {
		return fmt.Errorf("equipment for actor %d: %w", actor, err)
	}
	e.slots = insertAt(e.slots, i, Slots{})
	return nil
}

// Remove drops actor's slot array and returns what was equipped.
func (e *Equipment) Remove(actor types.ActorID) (Slots, error) {
	i, ok := e.ids.remove(actor)
	if !ok {
		return Slots{}, fmt.Errorf("equipment for actor %d: %w", actor, ErrNotFound)
	}
	s := e.slots[i]
	e.slots = deleteAt(e.slots, i)
	return s, nil
}

// Get returns a copy of actor's slots.
func (e *Equipment) Get(actor types.ActorID) (Slots, error) {
	i, ok := e.ids.Find(actor)
	if !ok {
		return Slots{}, fmt.Errorf("equipment for actor %d: %w", actor, ErrNotFound)
	}
	return e.slots[i], nil
}

// Slot returns the item type in one slot, 0 when empty.
func (e *Equipment) Slot(actor types.ActorID, slot types.EquipSlot) (types.ItemTypeID, error) {
	if !slot.Valid() {
		return 0, ErrInvalidSlot
	}
	s, err := e.Get(actor)
	if err != nil {
		return 0, err
	}
	return s[slot], nil
}

// Set stores item in slot and returns whatever the slot held before.
func (e *Equipment) Set(actor types.ActorID, slot types.EquipSlot, item types.ItemTypeID) (types.ItemTypeID, error) {
	if !slot.Valid() {
		return 0, ErrInvalidSlot
	}
	i, ok := e.ids.Find(actor)
	if !ok {
		return 0, fmt.Errorf("equipment for actor %d: %w", actor, ErrNotFound)
	}
	prev := e.slots[i][slot]
	e.slots[i][slot] = item
	return prev, nil
}

// Clear empties slot and returns what it held.
func (e *Equipment) Clear(actor types.ActorID, slot types.EquipSlot) (types.ItemTypeID, error) {
	return e.Set(actor, slot, 0)
}

// Len returns the number of actors with a slot array.
func (e *Equipment) Len() int { return e.ids.Len() }

// Check verifies the sorted-index invariant.
func (e *Equipment) Check() error {
	return e.ids.check(len(e.slots))
}
