// Package state owns the world aggregate: every table, the grid and the turn
// cursor, plus the spawn and removal paths that keep them in agreement.
package state

import (
	"errors"
	"fmt"

	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/engine/table"
	"github.com/nathoo/dungeoncore/types"
)

// PlayerSymbol marks the player start on a map.
const PlayerSymbol = '@'

var (
	// ErrNoPlayerStart is returned when a map has no player start.
	ErrNoPlayerStart = errors.New("map has no player start")
	// ErrBlockedCell is returned when spawning onto a wall or an occupied cell.
	ErrBlockedCell = errors.New("cell is blocked")
)

// Defs holds the definitions loaded from disk.
type Defs struct {
	ActorTypes *table.ActorTypeTable
	ItemTypes  *table.ItemTypeTable
	Map        types.MapLayout
}

// NewDefs returns empty definitions for a w x h map.
func NewDefs(w, h int) *Defs {
	return &Defs{
		ActorTypes: &table.ActorTypeTable{},
		ItemTypes:  &table.ItemTypeTable{},
		Map:        types.MapLayout{Width: w, Height: h},
	}
}

// World is the complete mutable game state.
type World struct {
	ActorTypes *table.ActorTypeTable
	ItemTypes  *table.ItemTypeTable

	Actors    table.ActorTable
	Items     table.ItemTable
	Inventory table.Inventory
	Equipment table.Equipment
	Grid      *grid.Grid
	Cursor    TurnCursor

	Player     types.ActorID
	PlayerType types.ActorTypeID
	Turn       int
}

// NewWorld registers the player archetype in defs, builds the grid and spawns
// every placement of the map. The cursor starts on the player.
func NewWorld(defs *Defs, player types.ActorTypeDef) (*World, error) {
	player.Icon = PlayerSymbol
	pt, err := defs.ActorTypes.Add(player)
	if err != nil {
		return nil, fmt.Errorf("registering player type: %w", err)
	}
	w := &World{
		ActorTypes: defs.ActorTypes,
		ItemTypes:  defs.ItemTypes,
		Grid:       grid.New(defs.Map.Width, defs.Map.Height),
		PlayerType: pt,
	}

	for _, pl := range defs.Map.Placements {
		if !w.Grid.InBounds(pl.Pos) {
			continue
		}
		if err := w.place(pl); err != nil {
			return nil, fmt.Errorf("placing %q at (%d,%d): %w", pl.Symbol, pl.Pos.X, pl.Pos.Y, err)
		}
	}
	if w.Player == 0 {
		return nil, ErrNoPlayerStart
	}
	w.Cursor.Set(w.Player)
	return w, nil
}

func (w *World) place(pl types.Placement) error {
	if pl.Symbol == PlayerSymbol {
		if w.Player != 0 {
			return errors.New("second player start")
		}
		id, err := w.SpawnActor(w.PlayerType, pl.Pos, types.Controller{Kind: types.PlayerControlled})
		if err != nil {
			return err
		}
		w.Player = id
		return nil
	}
	if at, ok := w.ActorTypes.ByIcon(pl.Symbol); ok {
		def, err := w.ActorTypes.Get(at)
		if err != nil {
			return err
		}
		_, err = w.SpawnActor(at, pl.Pos, types.Controller{Kind: types.AIControlled, Strategy: def.AI})
		return err
	}
	if it, ok := w.ItemTypes.ByIcon(pl.Symbol); ok {
		_, err := w.SpawnItem(it, pl.Pos)
		return err
	}
	return w.Grid.SetTerrain(pl.Pos, pl.Symbol)
}

// SpawnActor creates an actor of type typ at pos with full health and energy.
func (w *World) SpawnActor(typ types.ActorTypeID, pos types.Position, c types.Controller) (types.ActorID, error) {
	def, err := w.ActorTypes.Get(typ)
	if err != nil {
		return 0, err
	}
	cell, err := w.Grid.At(pos)
	if err != nil {
		return 0, err
	}
	if cell.Wall() || cell.Actor != 0 {
		return 0, fmt.Errorf("(%d,%d): %w", pos.X, pos.Y, ErrBlockedCell)
	}
	id, err := w.Actors.Add(typ, pos, def.Health, def.Energy, c)
	if err != nil {
		return 0, err
	}
	if err := w.Equipment.Add(id); err != nil {
		return 0, err
	}
	if err := w.Grid.PlaceActor(pos, id); err != nil {
		return 0, err
	}
	return id, nil
}

// SpawnItem puts a world item of type typ at pos.
func (w *World) SpawnItem(typ types.ItemTypeID, pos types.Position) (types.ItemID, error) {
	if !w.ItemTypes.Contains(typ) {
		return 0, fmt.Errorf("item type %d: %w", typ, table.ErrNotFound)
	}
	cell, err := w.Grid.At(pos)
	if err != nil {
		return 0, err
	}
	if cell.Wall() || cell.Item != 0 {
		return 0, fmt.Errorf("(%d,%d): %w", pos.X, pos.Y, ErrBlockedCell)
	}
	id, err := w.Items.Add(typ, pos)
	if err != nil {
		return 0, err
	}
	if err := w.Grid.PlaceItem(pos, id); err != nil {
		return 0, err
	}
	return id, nil
}

// RemoveActor deletes every row that references id, clears its cell and
// moves the turn cursor off it.
func (w *World) RemoveActor(id types.ActorID) error {
	pos, err := w.Actors.Position(id)
	if err != nil {
		return err
	}
	if _, err := w.Actors.Remove(id); err != nil {
		return err
	}
	w.Inventory.RemoveActor(id)
	if _, err := w.Equipment.Remove(id); err != nil {
		return err
	}
	w.Grid.ClearActor(pos)
	w.Cursor.removed(&w.Actors, id)
	return nil
}

// RemoveItem deletes a world item and clears its cell.
func (w *World) RemoveItem(id types.ItemID) error {
	it, err := w.Items.Get(id)
	if err != nil {
		return err
	}
	if _, err := w.Items.Remove(id); err != nil {
		return err
	}
	w.Grid.ClearItem(it.Pos)
	return nil
}

// ActorAt returns the actor standing at p, 0 if none.
func (w *World) ActorAt(p types.Position) types.ActorID {
	c, err := w.Grid.At(p)
	if err != nil {
		return 0
	}
	return c.Actor
}

// Weight returns what actor owns in total: inventory plus equipped items.
func (w *World) Weight(actor types.ActorID) (int, error) {
	total := 0
	for _, s := range w.Inventory.Items(actor) {
		wt, err := w.ItemTypes.Weight(s.Type)
		if err != nil {
			return 0, err
		}
		total += wt * s.Amount
	}
	slots, err := w.Equipment.Get(actor)
	if err != nil {
		return 0, err
	}
	for _, it := range slots {
		if it == 0 {
			continue
		}
		wt, err := w.ItemTypes.Weight(it)
		if err != nil {
			return 0, err
		}
		total += wt
	}
	return total, nil
}

// Check verifies every table invariant and that the grid agrees with the
// actor and item tables.
func (w *World) Check() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"actor types", w.ActorTypes.Check},
		{"item types", w.ItemTypes.Check},
		{"actors", w.Actors.Check},
		{"items", w.Items.Check},
		{"inventory", w.Inventory.Check},
		{"equipment", w.Equipment.Check},
	}
	for _, c := range checks {
		if err := c.fn(); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	if w.Equipment.Len() != w.Actors.Len() {
		return fmt.Errorf("equipment has %d rows for %d actors", w.Equipment.Len(), w.Actors.Len())
	}

	actorCells := 0
	itemCells := 0
	for y := 0; y < w.Grid.Height(); y++ {
		for x := 0; x < w.Grid.Width(); x++ {
			c, _ := w.Grid.At(types.Position{X: x, Y: y})
			if c.Actor != 0 {
				actorCells++
				p, err := w.Actors.Position(c.Actor)
				if err != nil {
					return fmt.Errorf("cell (%d,%d): %w", x, y, err)
				}
				if p != (types.Position{X: x, Y: y}) {
					return fmt.Errorf("cell (%d,%d) holds actor %d positioned at (%d,%d)", x, y, c.Actor, p.X, p.Y)
				}
			}
			if c.Item != 0 {
				itemCells++
				if !w.Items.Contains(c.Item) {
					return fmt.Errorf("cell (%d,%d): item %d: %w", x, y, c.Item, table.ErrNotFound)
				}
			}
		}
	}
	if actorCells != w.Actors.Len() {
		return fmt.Errorf("%d actor cells for %d actors", actorCells, w.Actors.Len())
	}
	if itemCells != w.Items.Len() {
		return fmt.Errorf("%d item cells for %d items", itemCells, w.Items.Len())
	}

	cur := w.Cursor.Current()
	if cur == 0 && w.Actors.Len() > 0 {
		return errors.New("turn cursor empty with live actors")
	}
	if cur != 0 && !w.Actors.Contains(cur) {
		return fmt.Errorf("turn cursor names actor %d: %w", cur, table.ErrNotFound)
	}
	return nil
}
