package engine

import (
	"fmt"

	"github.com/nathoo/dungeoncore/types"
)

// InventoryLines renders id's inventory as a numbered list.
func (e *Engine) InventoryLines(id types.ActorID) []string {
	inv, err := e.Inventory(id)
	if err != nil {
		return []string{err.Error()}
	}
	if len(inv) == 0 {
		return []string{"You are carrying nothing."}
	}
	out := make([]string, 0, len(inv)+1)
	out = append(out, "Inventory:")
	for i, it := range inv {
		out = append(out, fmt.Sprintf("%d. %c %s x%d (weight %d)", i+1, it.Icon, it.Name, it.Amount, it.Weight*it.Amount))
	}
	return out
}

// GearLines renders id's equip slots, one per line.
func (e *Engine) GearLines(id types.ActorID) []string {
	slots, err := e.Equipment(id)
	if err != nil {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(slots)+1)
	out = append(out, e.actorName(id)+"'s equipped items:")
	for i, it := range slots {
		name := "(empty)"
		if it != 0 {
			name = e.itemName(it)
		}
		out = append(out, fmt.Sprintf("%d. %s: %s", i+1, SlotLabels[i], name))
	}
	return out
}

// StatLines renders id's character sheet.
func (e *Engine) StatLines(id types.ActorID) []string {
	v, err := e.Actor(id)
	if err != nil {
		return []string{err.Error()}
	}
	return []string{
		fmt.Sprintf("%s (%c) at %d,%d", v.Name, v.Icon, v.Pos.X, v.Pos.Y),
		fmt.Sprintf("Health %d/%d  Energy %d/%d", v.Health, v.MaxHealth, v.Energy, v.MaxEnergy),
		fmt.Sprintf("Strength %d  Attack %d  Defense %d  Ranged %d", v.Strength, v.Attack, v.Defense, v.Ranged),
		fmt.Sprintf("Carrying %d/%d", v.Carried, v.MaxCarry),
	}
}
