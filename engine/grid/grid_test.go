package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/dungeoncore/types"
)

func TestGrid_Bounds(t *testing.T) {
	g := New(4, 3)
	assert.True(t, g.InBounds(types.Position{X: 3, Y: 2}))
	assert.False(t, g.InBounds(types.Position{X: 4, Y: 0}))
	assert.False(t, g.InBounds(types.Position{X: 0, Y: -1}))

	_, err := g.At(types.Position{X: 9, Y: 9})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestGrid_ActorOccupancy(t *testing.T) {
	g := New(5, 5)
	p := types.Position{X: 2, Y: 2}
	require.NoError(t, g.PlaceActor(p, 7))
	assert.ErrorIs(t, g.PlaceActor(p, 8), ErrOccupied)

	// an item may share the cell with an actor
	require.NoError(t, g.PlaceItem(p, 1))
	c, err := g.At(p)
	require.NoError(t, err)
	assert.Equal(t, Cell{Actor: 7, Item: 1}, c)
	assert.False(t, c.Empty())

	q := types.Position{X: 3, Y: 2}
	require.NoError(t, g.MoveActor(p, q))
	c, _ = g.At(p)
	assert.Zero(t, c.Actor)
	c, _ = g.At(q)
	assert.Equal(t, types.ActorID(7), c.Actor)
}

func TestGrid_Terrain(t *testing.T) {
	g := New(2, 2)
	p := types.Position{X: 1, Y: 1}
	require.NoError(t, g.SetTerrain(p, '#'))
	c, _ := g.At(p)
	assert.True(t, c.Wall())
	assert.Equal(t, '#', c.Terrain)
}

func TestGrid_NeighboursClipped(t *testing.T) {
	g := New(3, 3)
	assert.Len(t, g.Neighbours(types.Position{X: 1, Y: 1}), 8)
	assert.Len(t, g.Neighbours(types.Position{X: 0, Y: 0}), 3)
	assert.Len(t, g.Neighbours(types.Position{X: 1, Y: 0}), 5)
}
