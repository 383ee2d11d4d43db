// Package grid stores the fixed-size cell array. A cell holds terrain and
// back-references to at most one actor and at most one world item.
package grid

import (
	"errors"
	"fmt"

	"github.com/nathoo/dungeoncore/types"
)

// Floor is the terrain rune of an open cell.
const Floor rune = 0

var (
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrOccupied is returned when claiming a cell that already has an occupant of that kind.
	ErrOccupied = errors.New("cell occupied")
)

// Cell is one grid square. Zero identifiers mean no occupant.
type Cell struct {
	Terrain rune
	Actor   types.ActorID
	Item    types.ItemID
}

// Wall reports whether the cell holds impassable terrain.
func (c Cell) Wall() bool { return c.Terrain != Floor }

// Empty reports whether nothing stands or lies here.
func (c Cell) Empty() bool { return !c.Wall() && c.Actor == 0 && c.Item == 0 }

// Grid is a row-major array of cells.
type Grid struct {
	w, h  int
	cells []Cell
}

// New returns an open w x h grid.
func New(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid{w: w, h: h, cells: make([]Cell, w*h)}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p types.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.w && p.Y < g.h
}

func (g *Grid) index(p types.Position) (int, error) {
	if !g.InBounds(p) {
		return 0, fmt.Errorf("(%d,%d): %w", p.X, p.Y, ErrOutOfBounds)
	}
	return p.Y*g.w + p.X, nil
}

// At returns a copy of the cell at p.
func (g *Grid) At(p types.Position) (Cell, error) {
	i, err := g.index(p)
	if err != nil {
		return Cell{}, err
	}
	return g.cells[i], nil
}

// SetTerrain stores a terrain rune verbatim.
func (g *Grid) SetTerrain(p types.Position, r rune) error {
	i, err := g.index(p)
	if err != nil {
		return err
	}
	g.cells[i].Terrain = r
	return nil
}

// PlaceActor claims p for id.
func (g *Grid) PlaceActor(p types.Position, id types.ActorID) error {
	i, err := g.index(p)
	if err != nil {
		return err
	}
	if g.cells[i].Actor != 0 {
		return fmt.Errorf("(%d,%d) has actor %d: %w", p.X, p.Y, g.cells[i].Actor, ErrOccupied)
	}
	g.cells[i].Actor = id
	return nil
}

// ClearActor releases the actor slot of p.
func (g *Grid) ClearActor(p types.Position) {
	if i, err := g.index(p); err == nil {
		g.cells[i].Actor = 0
	}
}

// MoveActor transfers the occupant of from to the free cell to.
func (g *Grid) MoveActor(from, to types.Position) error {
	src, err := g.index(from)
	if err != nil {
		return err
	}
	dst, err := g.index(to)
	if err != nil {
		return err
	}
	if g.cells[dst].Actor != 0 {
		return fmt.Errorf("(%d,%d): %w", to.X, to.Y, ErrOccupied)
	}
	g.cells[dst].Actor = g.cells[src].Actor
	g.cells[src].Actor = 0
	return nil
}

// PlaceItem puts a world item at p.
func (g *Grid) PlaceItem(p types.Position, id types.ItemID) error {
	i, err := g.index(p)
	if err != nil {
		return err
	}
	if g.cells[i].Item != 0 {
		return fmt.Errorf("(%d,%d) has item %d: %w", p.X, p.Y, g.cells[i].Item, ErrOccupied)
	}
	g.cells[i].Item = id
	return nil
}

// ClearItem releases the item slot of p.
func (g *Grid) ClearItem(p types.Position) {
	if i, err := g.index(p); err == nil {
		g.cells[i].Item = 0
	}
}

// Neighbours returns the in-bounds cells around p in a fixed clockwise order
// starting north.
func (g *Grid) Neighbours(p types.Position) []types.Position {
	out := make([]types.Position, 0, 8)
	for _, d := range Directions {
		q := p.Add(d.DX, d.DY)
		if g.InBounds(q) {
			out = append(out, q)
		}
	}
	return out
}

// Delta is a unit step.
type Delta struct{ DX, DY int }

// Directions lists the eight unit steps, clockwise from north.
var Directions = [8]Delta{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}
