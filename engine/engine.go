// Package engine is the action resolver. Every intent is validated against
// the grid and tables, applied, and answered with a types.Result. The engine
// never draws and is not safe for concurrent use.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nathoo/dungeoncore/engine/events"
	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/engine/table"
	"github.com/nathoo/dungeoncore/logger"
	"github.com/nathoo/dungeoncore/types"
)

var (
	ErrSameFaction    = errors.New("actors are on the same side")
	ErrTooHeavy       = errors.New("too heavy to carry")
	ErrNothingHere    = errors.New("nothing to pick up")
	ErrNoRangedWeapon = errors.New("no ranged weapon equipped")
	ErrNoTarget       = errors.New("nobody at target")
	ErrItemNotHeld    = errors.New("item not in inventory")
	ErrSlotEmpty      = errors.New("slot is empty")
	ErrNoFreeCell     = errors.New("no free cell nearby")
	ErrGameOver       = errors.New("game over")
	ErrUnknownVerb    = errors.New("unknown command")
)

// Rules are the tunable constants of play.
type Rules struct {
	Reach       int // exclusive distance cap for move, pickup and melee
	RangedReach int // exclusive distance cap for ranged attacks
	Sight       int // how far chasing monsters notice the player
	LogSize     int
}

// DefaultRules returns the stock rule set.
func DefaultRules() Rules {
	return Rules{Reach: 5, RangedReach: 8, Sight: 8, LogSize: 100}
}

// Engine resolves intents against a world.
type Engine struct {
	World  *state.World
	Rules  Rules
	RNG    *RNG
	Events *events.Log
	RunID  string

	log      *logrus.Entry
	gameOver bool
}

// New creates an engine over w. The player's turn is active.
func New(w *state.World, rules Rules, rng *RNG) *Engine {
	def := DefaultRules()
	if rules.Reach <= 0 {
		rules.Reach = def.Reach
	}
	if rules.RangedReach <= 0 {
		rules.RangedReach = def.RangedReach
	}
	if rules.Sight <= 0 {
		rules.Sight = def.Sight
	}
	e := &Engine{
		World:  w,
		Rules:  rules,
		RNG:    rng,
		Events: events.NewLog(rules.LogSize),
		RunID:  uuid.NewString(),
	}
	e.log = logger.Log.WithFields(logrus.Fields{"run_id": e.RunID, "seed": rng.Seed()})
	e.Events.On(events.PlayerDied, func(types.Event) { e.gameOver = true })
	e.log.WithFields(logrus.Fields{
		"actors": w.Actors.Len(),
		"items":  w.Items.Len(),
	}).Info("world ready")
	return e
}

// GameOver reports whether the player has died.
func (e *Engine) GameOver() bool { return e.gameOver }

// Player returns the player's actor id.
func (e *Engine) Player() types.ActorID { return e.World.Player }

// Current returns the actor whose turn it is.
func (e *Engine) Current() types.ActorID { return e.World.Cursor.Current() }

// Turn returns the number of completed rounds.
func (e *Engine) Turn() int { return e.World.Turn }

// ActorView is a read-only projection of an actor and its archetype.
type ActorView struct {
	ID         types.ActorID
	Type       types.ActorTypeID
	Name       string
	Icon       rune
	Pos        types.Position
	Health     int
	MaxHealth  int
	Energy     int
	MaxEnergy  int
	Carried    int
	MaxCarry   int
	Strength   int
	Attack     int
	Defense    int
	Ranged     int
	Controller types.Controller
}

// Actor returns the view of id.
func (e *Engine) Actor(id types.ActorID) (ActorView, error) {
	a, err := e.World.Actors.Get(id)
	if err != nil {
		return ActorView{}, err
	}
	def, err := e.World.ActorTypes.Get(a.Type)
	if err != nil {
		return ActorView{}, err
	}
	return ActorView{
		ID:         a.ID,
		Type:       a.Type,
		Name:       def.Name,
		Icon:       def.Icon,
		Pos:        a.Pos,
		Health:     a.Health,
		MaxHealth:  def.Health,
		Energy:     a.Energy,
		MaxEnergy:  def.Energy,
		Carried:    a.Carried,
		MaxCarry:   def.MaxCarry,
		Strength:   def.Strength,
		Attack:     def.Attack,
		Defense:    def.Defense,
		Ranged:     def.RangedAttack,
		Controller: a.Controller,
	}, nil
}

// InventoryEntry is one stack as shown to a player.
type InventoryEntry struct {
	Type   types.ItemTypeID
	Name   string
	Icon   rune
	Amount int
	Weight int
}

// Inventory lists id's stacks in item type order.
func (e *Engine) Inventory(id types.ActorID) ([]InventoryEntry, error) {
	if !e.World.Actors.Contains(id) {
		return nil, fmt.Errorf("actor %d: %w", id, table.ErrNotFound)
	}
	stacks := e.World.Inventory.Items(id)
	out := make([]InventoryEntry, 0, len(stacks))
	for _, s := range stacks {
		def, err := e.World.ItemTypes.Get(s.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, InventoryEntry{Type: s.Type, Name: def.Name, Icon: def.Icon, Amount: s.Amount, Weight: def.Weight})
	}
	return out, nil
}

// Equipment returns id's slot array.
func (e *Engine) Equipment(id types.ActorID) (table.Slots, error) {
	return e.World.Equipment.Get(id)
}

// Cell returns the cell at p.
func (e *Engine) Cell(p types.Position) (grid.Cell, error) {
	return e.World.Grid.At(p)
}

// Glyph returns the rune to draw at p: actor, then item, then terrain.
// Open floor is '.'.
func (e *Engine) Glyph(p types.Position) rune {
	c, err := e.World.Grid.At(p)
	if err != nil {
		return ' '
	}
	if c.Actor != 0 {
		if t, err := e.World.Actors.Type(c.Actor); err == nil {
			if def, err := e.World.ActorTypes.Get(t); err == nil {
				return def.Icon
			}
		}
	}
	if c.Item != 0 {
		if it, err := e.World.Items.Get(c.Item); err == nil {
			if def, err := e.World.ItemTypes.Get(it.Type); err == nil {
				return def.Icon
			}
		}
	}
	if c.Wall() {
		return c.Terrain
	}
	return '.'
}

func (e *Engine) actorName(id types.ActorID) string {
	t, err := e.World.Actors.Type(id)
	if err != nil {
		return fmt.Sprintf("actor %d", id)
	}
	name, err := e.World.ActorTypes.Name(t)
	if err != nil {
		return fmt.Sprintf("actor %d", id)
	}
	return name
}

func (e *Engine) itemName(id types.ItemTypeID) string {
	def, err := e.World.ItemTypes.Get(id)
	if err != nil {
		return fmt.Sprintf("item %d", id)
	}
	return def.Name
}

// emit records a narrative event and mirrors it into res.
func (e *Engine) emit(res *types.Result, typ, text string, data map[string]any) {
	ev := types.Event{Type: typ, Text: text, Data: data}
	e.Events.Push(ev)
	res.Events = append(res.Events, ev)
	res.Output = append(res.Output, text)
}

// fail builds a result that changed nothing.
func (e *Engine) fail(actor types.ActorID, o types.Outcome, err error, line string) types.Result {
	res := types.Result{Outcome: o, Err: err}
	if line != "" {
		res.Output = append(res.Output, line)
	}
	e.log.WithFields(logrus.Fields{
		"actor":   actor,
		"outcome": o.String(),
	}).WithError(err).Debug("intent rejected")
	return res
}

func (e *Engine) trace(actor types.ActorID, res types.Result, fields logrus.Fields) {
	entry := e.log.WithFields(logrus.Fields{"actor": actor, "outcome": res.Outcome.String()})
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Debug("intent resolved")
}

// spend takes one unit of energy from actor.
func (e *Engine) spend(actor types.ActorID) {
	_, _ = e.World.Actors.SpendEnergy(actor)
}

func merge(dst *types.Result, src types.Result) {
	dst.Events = append(dst.Events, src.Events...)
	dst.Output = append(dst.Output, src.Output...)
}
