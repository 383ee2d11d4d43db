// Package types defines the shared data structures for the dungeoncore engine.
// This package holds plain data and stringers only; tables and rules live in engine.
package types

// Identifiers are per-table. The zero value of each means "none": counters
// start at 1, so an empty grid cell or equip slot holds 0.
type (
	ActorID     uint16
	ActorTypeID uint16
	ItemID      uint16
	ItemTypeID  uint16
)

// Position is a grid coordinate. X is the column, Y the row.
type Position struct {
	X, Y int
}

// Add returns p shifted by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// ItemCategory routes items to equip slots and combat effects.
type ItemCategory uint8

const (
	CategoryMisc ItemCategory = iota
	CategoryMelee
	CategoryRanged
	CategoryArmor
)

var categoryNames = [...]string{"misc", "melee", "ranged", "armor"}

func (c ItemCategory) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// EquipSlot is a closed enumeration of equipment positions.
type EquipSlot int

const (
	SlotHead EquipSlot = iota
	SlotChest
	SlotLegs
	SlotFeet
	SlotMelee
	SlotRanged

	NumEquipSlots = 6
)

var slotNames = [NumEquipSlots]string{"head", "chest", "legs", "feet", "melee", "ranged"}

func (s EquipSlot) String() string {
	if s.Valid() {
		return slotNames[s]
	}
	return "invalid"
}

// Valid reports whether s is inside the slot enumeration.
func (s EquipSlot) Valid() bool {
	return s >= 0 && s < NumEquipSlots
}

// ControlKind selects who drives an actor.
type ControlKind uint8

const (
	PlayerControlled ControlKind = iota
	AIControlled
)

// Strategy names a monster behavior.
type Strategy string

const (
	StrategyIdle   Strategy = "idle"
	StrategyWander Strategy = "wander"
	StrategyChase  Strategy = "chase"
	StrategyCoward Strategy = "coward"
)

// Controller is a tagged variant: PlayerControlled, or AIControlled with a
// strategy. Strategy is empty for the player.
type Controller struct {
	Kind     ControlKind
	Strategy Strategy
}

// ActorTypeDef is one archetype row as loaded from definitions.
type ActorTypeDef struct {
	Icon         rune
	Name         string
	Strength     int
	MaxCarry     int
	Energy       int
	Health       int
	Attack       int
	Defense      int
	RangedAttack int
	AI           Strategy
}

// ItemTypeDef is one item archetype row as loaded from definitions.
type ItemTypeDef struct {
	Icon     rune
	Name     string
	Weight   int
	Armor    int
	Attack   int
	Category ItemCategory
}

// Placement is one non-empty symbol read from a map file.
type Placement struct {
	Pos    Position
	Symbol rune
}

// MapLayout is a parsed map file before symbols are bound to types.
type MapLayout struct {
	Width      int
	Height     int
	Placements []Placement
}

// Stack is one inventory entry: an item type and how many are carried.
type Stack struct {
	Type   ItemTypeID
	Amount int
}

// Outcome is the closed set of results a resolver call can produce.
type Outcome int

const (
	OutcomeNone Outcome = iota
	Moved
	PickedUp
	TooHeavy
	NotFound
	Attacked
	Blocked
	Hit
	Missed
	Fled
	Equipped
	InvalidSlot
	ItemNotFound
	Deequipped
	SlotEmpty
	Dropped
	Waited
	TurnEnded
)

var outcomeNames = [...]string{
	"none", "moved", "picked_up", "too_heavy", "not_found", "attacked", "blocked",
	"hit", "missed", "fled", "equipped", "invalid_slot", "item_not_found",
	"deequipped", "slot_empty", "dropped", "waited", "turn_ended",
}

func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Intent is one requested action, parsed from text or built by a key binding.
type Intent struct {
	Verb   string
	DX, DY int
	Target Position
	Slot   EquipSlot
	Index  int // 1-based inventory entry for equip/drop
}

// Event is a narrative event emitted by the engine.
type Event struct {
	Type string
	Text string
	Data map[string]any
}

// AttackReport details a combat exchange.
type AttackReport struct {
	Outcome      Outcome // Hit, Missed or Fled
	Damage       int
	DefenderDied bool
	AttackerDied bool
}

// Result is the output of a single resolver call.
type Result struct {
	Outcome Outcome
	Err     error
	Attack  *AttackReport
	Events  []Event
	Output  []string
}

// OK reports whether the call succeeded (changed the world).
func (r Result) OK() bool {
	return r.Err == nil
}
