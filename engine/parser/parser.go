// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just word matching.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/dungeoncore/types"
)

// Verbs produced by Parse.
const (
	VerbMove      = "move"
	VerbGoto      = "goto"
	VerbFire      = "fire"
	VerbEquip     = "equip"
	VerbDeequip   = "deequip"
	VerbDrop      = "drop"
	VerbWait      = "wait"
	VerbEnd       = "end"
	VerbInventory = "inventory"
	VerbGear      = "gear"
	VerbStats     = "stats"
)

// ErrUsage is wrapped by every argument error.
var ErrUsage = errors.New("usage")

type delta struct{ dx, dy int }

// Directions maps compass and vi-key names to unit steps. Compass "n" wins
// over the vi key for south-east, which is spelled "se" instead.
var Directions = map[string]delta{
	"n": {0, -1}, "north": {0, -1}, "k": {0, -1},
	"s": {0, 1}, "south": {0, 1}, "j": {0, 1},
	"e": {1, 0}, "east": {1, 0}, "l": {1, 0},
	"w": {-1, 0}, "west": {-1, 0}, "h": {-1, 0},
	"ne": {1, -1}, "northeast": {1, -1}, "u": {1, -1},
	"nw": {-1, -1}, "northwest": {-1, -1}, "y": {-1, -1},
	"se": {1, 1}, "southeast": {1, 1},
	"sw": {-1, 1}, "southwest": {-1, 1}, "b": {-1, 1},
}

var verbAliases = map[string]string{
	"go": VerbMove, "walk": VerbMove, "step": VerbMove,
	"attack": VerbMove, "hit": VerbMove, "fight": VerbMove,
	"get": VerbMove, "take": VerbMove, "grab": VerbMove, "pickup": VerbMove,

	"teleport": VerbGoto, "t": VerbGoto,

	"shoot": VerbFire, "r": VerbFire,

	"wield": VerbEquip, "wear": VerbEquip,

	"unequip": VerbDeequip, "remove": VerbDeequip,

	"discard": VerbDrop,

	"z": VerbWait, ".": VerbWait, "rest": VerbWait,

	"i": VerbInventory, "inv": VerbInventory,

	"g": VerbGear, "eq": VerbGear, "equipment": VerbGear, "equipped": VerbGear,

	"c": VerbStats, "sheet": VerbStats, "char": VerbStats,

	"endturn": VerbEnd, "pass": VerbEnd,
}

var slotNames = map[string]types.EquipSlot{
	"head": types.SlotHead, "helmet": types.SlotHead,
	"chest": types.SlotChest, "body": types.SlotChest,
	"legs": types.SlotLegs,
	"feet": types.SlotFeet, "boots": types.SlotFeet,
	"melee": types.SlotMelee, "weapon": types.SlotMelee,
	"ranged": types.SlotRanged, "bow": types.SlotRanged,
}

// ParseSlot accepts a slot name or its 1-based number.
func ParseSlot(s string) (types.EquipSlot, error) {
	if slot, ok := slotNames[strings.ToLower(s)]; ok {
		return slot, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > types.NumEquipSlots {
		return 0, fmt.Errorf("%w: unknown slot %q", ErrUsage, s)
	}
	return types.EquipSlot(n - 1), nil
}

// Parse converts a raw command string into an Intent. Empty input yields the
// zero Intent and no error.
func Parse(input string) (types.Intent, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}, nil
	}
	words := strings.Fields(strings.ToLower(input))

	// Bare direction: "n", "sw", "north".
	if len(words) == 1 {
		if d, ok := Directions[words[0]]; ok {
			return types.Intent{Verb: VerbMove, DX: d.dx, DY: d.dy}, nil
		}
	}

	words = expandMultiWordVerbs(words)
	verb := words[0]
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	args := words[1:]

	switch verb {
	case VerbMove:
		if len(args) != 1 {
			return types.Intent{}, fmt.Errorf("%w: %s <direction>", ErrUsage, words[0])
		}
		d, ok := Directions[args[0]]
		if !ok {
			return types.Intent{}, fmt.Errorf("%w: unknown direction %q", ErrUsage, args[0])
		}
		return types.Intent{Verb: VerbMove, DX: d.dx, DY: d.dy}, nil

	case VerbGoto, VerbFire:
		p, err := parsePosition(args)
		if err != nil {
			return types.Intent{}, fmt.Errorf("%w: %s <x> <y>", err, verb)
		}
		return types.Intent{Verb: verb, Target: p}, nil

	case VerbEquip:
		if len(args) != 2 {
			return types.Intent{}, fmt.Errorf("%w: equip <item number> <slot>", ErrUsage)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return types.Intent{}, fmt.Errorf("%w: item number %q", ErrUsage, args[0])
		}
		slot, err := ParseSlot(args[1])
		if err != nil {
			return types.Intent{}, err
		}
		return types.Intent{Verb: VerbEquip, Index: n, Slot: slot}, nil

	case VerbDeequip:
		if len(args) != 1 {
			return types.Intent{}, fmt.Errorf("%w: deequip <slot>", ErrUsage)
		}
		slot, err := ParseSlot(args[0])
		if err != nil {
			return types.Intent{}, err
		}
		return types.Intent{Verb: VerbDeequip, Slot: slot}, nil

	case VerbDrop:
		if len(args) != 1 {
			return types.Intent{}, fmt.Errorf("%w: drop <item number>", ErrUsage)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return types.Intent{}, fmt.Errorf("%w: item number %q", ErrUsage, args[0])
		}
		return types.Intent{Verb: VerbDrop, Index: n}, nil

	case VerbWait, VerbEnd, VerbInventory, VerbGear, VerbStats:
		return types.Intent{Verb: verb}, nil
	}

	return types.Intent{Verb: verb}, nil
}

// expandMultiWordVerbs handles "pick up", "end turn" and "take off".
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}
	switch words[0] {
	case "pick":
		if words[1] == "up" {
			return append([]string{"get"}, words[2:]...)
		}
	case "end":
		if words[1] == "turn" {
			return append([]string{VerbEnd}, words[2:]...)
		}
	case "take":
		if words[1] == "off" {
			return append([]string{VerbDeequip}, words[2:]...)
		}
	case "put":
		if words[1] == "on" {
			return append([]string{VerbEquip}, words[2:]...)
		}
		if words[1] == "down" {
			return append([]string{VerbDrop}, words[2:]...)
		}
	}
	return words
}

// parsePosition reads "x y" or "x,y".
func parsePosition(args []string) (types.Position, error) {
	if len(args) == 1 {
		args = strings.Split(args[0], ",")
	}
	if len(args) != 2 {
		return types.Position{}, ErrUsage
	}
	x, errX := strconv.Atoi(strings.TrimSpace(args[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(args[1]))
	if errX != nil || errY != nil {
		return types.Position{}, ErrUsage
	}
	return types.Position{X: x, Y: y}, nil
}
