package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dungeoncore/engine/events"
	"github.com/nathoo/dungeoncore/engine/table"
	"github.com/nathoo/dungeoncore/types"
)

// SlotLabels are the display names of the equip slots, in slot order.
var SlotLabels = [types.NumEquipSlots]string{"Head", "Chest", "Legs", "Feet", "Melee", "Ranged"}

// Equip moves one unit of item from actor's inventory into slot. Whatever
// the slot held goes back to the inventory first. Carried weight does not
// change: worn items still count against the carry limit.
func (e *Engine) Equip(actor types.ActorID, slot types.EquipSlot, item types.ItemTypeID) types.Result {
	if e.gameOver {
		return e.fail(actor, types.Blocked, ErrGameOver, "The game is over.")
	}
	if !slot.Valid() {
		return e.fail(actor, types.InvalidSlot, table.ErrInvalidSlot, "There is no such slot.")
	}
	if e.World.Inventory.Amount(actor, item) < 1 {
		return e.fail(actor, types.ItemNotFound, ErrItemNotHeld, "You don't have that.")
	}

	if err := e.World.Inventory.Take(actor, item, 1); err != nil {
		return e.fail(actor, types.ItemNotFound, err, "")
	}
	prev, err := e.World.Equipment.Set(actor, slot, item)
	if err != nil {
		_ = e.World.Inventory.Add(actor, item, 1)
		return e.fail(actor, types.ItemNotFound, err, "")
	}
	if prev != 0 {
		if err := e.World.Inventory.Add(actor, prev, 1); err != nil {
			return e.fail(actor, types.ItemNotFound, err, "")
		}
	}
	e.spend(actor)

	name := e.itemName(item)
	res := types.Result{Outcome: types.Equipped}
	e.emit(&res, events.Equipped, fmt.Sprintf("%s equipped %s (%s)", e.actorName(actor), name, SlotLabels[slot]),
		map[string]any{"actor": actor, "item": name, "slot": slot.String()})
	e.trace(actor, res, logrus.Fields{"item": name, "slot": slot.String(), "swapped": prev != 0})
	return res
}

// EquipIndex equips the n-th inventory stack (1-based, as listed to players).
func (e *Engine) EquipIndex(actor types.ActorID, slot types.EquipSlot, n int) types.Result {
	if !slot.Valid() {
		return e.fail(actor, types.InvalidSlot, table.ErrInvalidSlot, "There is no such slot.")
	}
	stacks := e.World.Inventory.Items(actor)
	if n < 1 || n > len(stacks) {
		return e.fail(actor, types.ItemNotFound, ErrItemNotHeld, "You don't have that.")
	}
	return e.Equip(actor, slot, stacks[n-1].Type)
}

// Deequip empties slot back into actor's inventory.
func (e *Engine) Deequip(actor types.ActorID, slot types.EquipSlot) types.Result {
	if e.gameOver {
		return e.fail(actor, types.Blocked, ErrGameOver, "The game is over.")
	}
	if !slot.Valid() {
		return e.fail(actor, types.InvalidSlot, table.ErrInvalidSlot, "There is no such slot.")
	}
	item, err := e.World.Equipment.Slot(actor, slot)
	if err != nil {
		return e.fail(actor, types.SlotEmpty, err, "")
	}
	if item == 0 {
		return e.fail(actor, types.SlotEmpty, ErrSlotEmpty, "Can't deequip")
	}
	if err := e.World.Inventory.Add(actor, item, 1); err != nil {
		return e.fail(actor, types.SlotEmpty, err, "")
	}
	if _, err := e.World.Equipment.Clear(actor, slot); err != nil {
		_ = e.World.Inventory.Take(actor, item, 1)
		return e.fail(actor, types.SlotEmpty, err, "")
	}
	e.spend(actor)

	name := e.itemName(item)
	res := types.Result{Outcome: types.Deequipped}
	e.emit(&res, events.Deequipped, fmt.Sprintf("%s removed %s (%s)", e.actorName(actor), name, SlotLabels[slot]),
		map[string]any{"actor": actor, "item": name, "slot": slot.String()})
	e.trace(actor, res, logrus.Fields{"item": name, "slot": slot.String()})
	return res
}
