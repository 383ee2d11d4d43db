// Package resolve validates a target cell for an actor and classifies what
// occupies it. The checks run in a fixed order and the first failure wins.
package resolve

import (
	"errors"
	"fmt"
	"math"

	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/types"
)

var (
	ErrOutOfBounds = errors.New("target out of bounds")
	ErrSelfTarget  = errors.New("cannot target yourself")
	ErrTooFar      = errors.New("target too far")
	ErrWall        = errors.New("target is a wall")
)

// Kind is what a validated target cell holds.
type Kind int

const (
	Empty Kind = iota
	Item
	Actor
)

func (k Kind) String() string {
	switch k {
	case Item:
		return "item"
	case Actor:
		return "actor"
	default:
		return "empty"
	}
}

// Target is a validated destination.
type Target struct {
	Pos  types.Position
	Kind Kind
	Cell grid.Cell
}

// Distance is the Euclidean distance between a and b, truncated toward zero.
func Distance(a, b types.Position) int {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return int(math.Sqrt(dx*dx + dy*dy))
}

// Check validates to as a target for an actor standing at from. reach is
// exclusive: a distance equal to reach is too far.
func Check(g *grid.Grid, from, to types.Position, reach int) (Target, error) {
	if !g.InBounds(to) {
		return Target{}, fmt.Errorf("(%d,%d): %w", to.X, to.Y, ErrOutOfBounds)
	}
	if from == to {
		return Target{}, ErrSelfTarget
	}
	if d := Distance(from, to); d >= reach {
		return Target{}, fmt.Errorf("distance %d, reach %d: %w", d, reach, ErrTooFar)
	}
	c, err := g.At(to)
	if err != nil {
		return Target{}, err
	}
	if c.Wall() {
		return Target{}, ErrWall
	}
	t := Target{Pos: to, Cell: c}
	switch {
	case c.Actor != 0:
		t.Kind = Actor
	case c.Item != 0:
		t.Kind = Item
	}
	return t, nil
}
