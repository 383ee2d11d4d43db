package engine

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/dungeoncore/engine/resolve"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/logger"
	"github.com/nathoo/dungeoncore/types"
)

func TestMain(m *testing.M) {
	logger.Init("error", "text", io.Discard)
	os.Exit(m.Run())
}

var testPlayer = types.ActorTypeDef{
	Name: "Player", Strength: 5, Health: 15, Energy: 3,
	Attack: 5, Defense: 5, RangedAttack: 5, MaxCarry: 20,
}

// newTestEngine builds an engine from a picture of the map. '.' is floor,
// '@' the player, 'r' a rat, 'k' a cowardly kobold, 'o' an idle ogre, '/' a
// sword, '}' a bow, '[' a helmet, '*' a boulder, anything else a wall.
func newTestEngine(t *testing.T, player types.ActorTypeDef, rows ...string) *Engine {
	t.Helper()
	h := len(rows)
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	defs := state.NewDefs(w, h)

	actorTypes := []types.ActorTypeDef{
		{Icon: 'r', Name: "Rat", Strength: 2, Health: 3, Energy: 1, Attack: 2, Defense: 1, MaxCarry: 5, AI: types.StrategyChase},
		{Icon: 'k', Name: "Kobold", Strength: 4, Health: 6, Energy: 2, Attack: 3, Defense: 2, MaxCarry: 5, AI: types.StrategyCoward},
		{Icon: 'o', Name: "Ogre", Strength: 9, Health: 20, Energy: 1, Attack: 6, Defense: 6, MaxCarry: 30, AI: types.StrategyIdle},
	}
	for _, d := range actorTypes {
		_, err := defs.ActorTypes.Add(d)
		require.NoError(t, err)
	}
	itemTypes := []types.ItemTypeDef{
		{Icon: '/', Name: "Sword", Weight: 3, Attack: 2, Category: types.CategoryMelee},
		{Icon: '}', Name: "Bow", Weight: 2, Attack: 1, Category: types.CategoryRanged},
		{Icon: '[', Name: "Helmet", Weight: 2, Armor: 2, Category: types.CategoryArmor},
		{Icon: '*', Name: "Boulder", Weight: 5, Category: types.CategoryMisc},
	}
	for _, d := range itemTypes {
		_, err := defs.ItemTypes.Add(d)
		require.NoError(t, err)
	}

	for y, row := range rows {
		for x, r := range row {
			if r == '.' {
				continue
			}
			defs.Map.Placements = append(defs.Map.Placements, types.Placement{Pos: types.Position{X: x, Y: y}, Symbol: r})
		}
	}
	world, err := state.NewWorld(defs, player)
	require.NoError(t, err)
	return New(world, DefaultRules(), NewRNG(1))
}

func at(x, y int) types.Position { return types.Position{X: x, Y: y} }

func itemType(t *testing.T, e *Engine, icon rune) types.ItemTypeID {
	t.Helper()
	id, ok := e.World.ItemTypes.ByIcon(icon)
	require.True(t, ok, "item type %q", icon)
	return id
}

func TestMove_IntoEmptyCell(t *testing.T) {
	e := newTestEngine(t, testPlayer,
		"........",
		"........",
		"........",
		"........",
		"........",
		".....@..",
		"........",
	)
	p := e.Player()

	res := e.Move(p, at(6, 5))
	require.NoError(t, res.Err)
	assert.Equal(t, types.Moved, res.Outcome)

	v, err := e.Actor(p)
	require.NoError(t, err)
	assert.Equal(t, at(6, 5), v.Pos)
	assert.Equal(t, 2, v.Energy)

	src, _ := e.Cell(at(5, 5))
	dst, _ := e.Cell(at(6, 5))
	assert.Zero(t, src.Actor)
	assert.Equal(t, p, dst.Actor)
	require.NoError(t, e.World.Check())
}

func TestMove_Preconditions(t *testing.T) {
	e := newTestEngine(t, testPlayer,
		"@#......",
		"........",
	)
	p := e.Player()

	tests := []struct {
		name string
		to   types.Position
	}{
		{"out of bounds", at(-1, 0)},
		{"self", at(0, 0)},
		{"too far", at(7, 0)},
		{"wall", at(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Move(p, tt.to)
			assert.Equal(t, types.Blocked, res.Outcome)
			assert.Error(t, res.Err)
			v, _ := e.Actor(p)
			assert.Equal(t, at(0, 0), v.Pos)
			assert.Equal(t, 3, v.Energy, "blocked moves are free")
		})
	}
}

func TestMove_TeleportWithinReach(t *testing.T) {
	e := newTestEngine(t, testPlayer,
		"@.......",
		"........",
		"........",
		"........",
	)
	res := e.Move(e.Player(), at(3, 3))
	assert.Equal(t, types.Moved, res.Outcome)
}

func TestPickup_Succeeds(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@/..")
	p := e.Player()
	sword := itemType(t, e, '/')

	res := e.Translate(p, 1, 0)
	require.NoError(t, res.Err)
	assert.Equal(t, types.PickedUp, res.Outcome)
	assert.Contains(t, res.Output, "Player picked up Sword")

	v, _ := e.Actor(p)
	assert.Equal(t, at(0, 0), v.Pos, "pickup does not move the actor")
	assert.Equal(t, 3, v.Carried)
	assert.Equal(t, 1, e.World.Inventory.Amount(p, sword))
	assert.Zero(t, e.World.Items.Len())
	c, _ := e.Cell(at(1, 0))
	assert.True(t, c.Empty())
	require.NoError(t, e.World.Check())
}

func TestPickup_OverCapacity(t *testing.T) {
	weak := testPlayer
	weak.MaxCarry = 10
	e := newTestEngine(t, weak, "@*..")
	p := e.Player()
	_, err := e.World.Actors.AddCarried(p, 9)
	require.NoError(t, err)

	res := e.Move(p, at(1, 0))
	assert.Equal(t, types.TooHeavy, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrTooHeavy)
	assert.Contains(t, res.Output, "Player can't carry Boulder")

	v, _ := e.Actor(p)
	assert.Equal(t, 9, v.Carried)
	assert.Equal(t, 3, v.Energy)
	assert.Empty(t, e.World.Inventory.Items(p))
	assert.Equal(t, 1, e.World.Items.Len())
}

func TestPickup_NothingThere(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@...")
	res := e.Pickup(e.Player(), at(2, 0))
	assert.Equal(t, types.NotFound, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrNothingHere)
}

func TestPickup_OutOfReach(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@.............../")
	p := e.Player()

	res := e.Pickup(p, at(16, 0))
	assert.Equal(t, types.Blocked, res.Outcome)
	assert.ErrorIs(t, res.Err, resolve.ErrTooFar)
	assert.Equal(t, 1, e.World.Items.Len(), "the item stays on the map")
	inv, err := e.Inventory(p)
	require.NoError(t, err)
	assert.Empty(t, inv)

	res = e.Pickup(p, at(0, 0))
	assert.Equal(t, types.Blocked, res.Outcome)
	assert.ErrorIs(t, res.Err, resolve.ErrSelfTarget)

	res = e.Pickup(p, at(-1, 0))
	assert.ErrorIs(t, res.Err, resolve.ErrOutOfBounds)
}

func TestCarryInvariant_RandomPickups(t *testing.T) {
	small := testPlayer
	small.MaxCarry = 9
	small.Energy = 100
	e := newTestEngine(t, small,
		"/}[*",
		"*@/}",
		"[*/[",
	)
	p := e.Player()
	limit := small.MaxCarry

	for _, cell := range e.World.Grid.Neighbours(at(1, 1)) {
		before, _ := e.Actor(p)
		res := e.Pickup(p, cell)

		after, _ := e.Actor(p)
		weight, err := e.World.Weight(p)
		require.NoError(t, err)
		assert.Equal(t, weight, after.Carried)
		assert.LessOrEqual(t, after.Carried, limit)
		if res.Outcome == types.TooHeavy {
			assert.Equal(t, before.Carried, after.Carried)
		}
		require.NoError(t, e.World.Check())
	}
}

func TestAttack_Lethal(t *testing.T) {
	brute := testPlayer
	brute.Attack = 60
	e := newTestEngine(t, brute, "@r..")
	p := e.Player()
	rat := e.World.ActorAt(at(1, 0))
	_, err := e.World.Actors.AddHealth(rat, -2)
	require.NoError(t, err)

	res := e.Translate(p, 1, 0)
	require.NotNil(t, res.Attack)
	assert.Equal(t, types.Attacked, res.Outcome)
	assert.Equal(t, types.Hit, res.Attack.Outcome)
	assert.True(t, res.Attack.DefenderDied)
	assert.Contains(t, res.Output, "Rat died")

	assert.False(t, e.World.Actors.Contains(rat))
	c, _ := e.Cell(at(1, 0))
	assert.Zero(t, c.Actor)
	v, _ := e.Actor(p)
	assert.Equal(t, at(0, 0), v.Pos, "attacking does not move the attacker")
	require.NoError(t, e.World.Check())
}

func TestAttack_MissCountersAndCanKillAttacker(t *testing.T) {
	hopeless := testPlayer
	hopeless.Attack = 0
	hopeless.Health = 1
	e := newTestEngine(t, hopeless, "@o..")
	ogre := e.World.ActorAt(at(1, 0))

	// 50 + (0-6)*4 = 26: the player usually misses; keep swinging until it does.
	var res types.Result
	for i := 0; i < 50 && !e.GameOver(); i++ {
		_ = e.World.Actors.SetEnergy(e.Player(), 3)
		res = e.Attack(e.Player(), ogre)
	}
	require.True(t, e.GameOver())
	require.NotNil(t, res.Attack)
	assert.Equal(t, types.Missed, res.Attack.Outcome)
	assert.True(t, res.Attack.AttackerDied)
	assert.Contains(t, res.Output, "You have died.")
	assert.Equal(t, ogre, e.Current(), "cursor moves on from the dead player")

	assert.ErrorIs(t, e.Move(e.Player(), at(2, 0)).Err, ErrGameOver)
	assert.ErrorIs(t, e.Step("wait").Err, ErrGameOver)
}

func TestAttack_Self(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@...")
	res := e.Attack(e.Player(), e.Player())
	assert.Equal(t, types.Blocked, res.Outcome)
	assert.Error(t, res.Err)
}

func TestMove_SameFactionBlocked(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@.rr")
	a := e.World.ActorAt(at(2, 0))
	res := e.Translate(a, 1, 0)
	assert.Equal(t, types.Blocked, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrSameFaction)
}

func TestFire_NeedsRangedWeapon(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@}/...o")
	p := e.Player()

	res := e.Fire(p, at(6, 0))
	assert.ErrorIs(t, res.Err, ErrNoRangedWeapon)
	assert.Contains(t, res.Output, "No ranged weapon to use")

	require.Equal(t, types.PickedUp, e.Translate(p, 1, 0).Outcome)
	require.Equal(t, types.PickedUp, e.Move(p, at(2, 0)).Outcome)

	// A sword in the ranged slot is not a ranged weapon.
	require.Equal(t, types.Equipped, e.Equip(p, types.SlotRanged, itemType(t, e, '/')).Outcome)
	assert.ErrorIs(t, e.Fire(p, at(6, 0)).Err, ErrNoRangedWeapon)

	require.Equal(t, types.Equipped, e.Equip(p, types.SlotRanged, itemType(t, e, '}')).Outcome)
	_ = e.World.Actors.SetEnergy(p, 3)
	res = e.Fire(p, at(6, 0))
	require.NoError(t, res.Err)
	assert.Equal(t, types.Attacked, res.Outcome)
	require.NotNil(t, res.Attack)
	if res.Attack.Outcome == types.Missed {
		assert.Zero(t, res.Attack.Damage, "ranged misses are not answered")
	}

	assert.ErrorIs(t, e.Fire(p, at(4, 0)).Err, ErrNoTarget)
}

func TestFire_RangedReach(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@........o")
	p := e.Player()
	bow := itemType(t, e, '}')
	require.NoError(t, e.World.Inventory.Add(p, bow, 1))
	require.Equal(t, types.Equipped, e.Equip(p, types.SlotRanged, bow).Outcome)

	res := e.Fire(p, at(9, 0))
	assert.Equal(t, types.Blocked, res.Outcome)
	assert.Error(t, res.Err)
}

func TestEquip_RoundTrip(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@...")
	p := e.Player()
	helmet := itemType(t, e, '[')
	require.NoError(t, e.World.Inventory.Add(p, helmet, 2))
	_, err := e.World.Actors.AddCarried(p, 4)
	require.NoError(t, err)

	res := e.Equip(p, types.SlotHead, helmet)
	require.Equal(t, types.Equipped, res.Outcome)
	assert.Equal(t, 1, e.World.Inventory.Amount(p, helmet))
	slots, _ := e.Equipment(p)
	assert.Equal(t, helmet, slots[types.SlotHead])
	v, _ := e.Actor(p)
	assert.Equal(t, 4, v.Carried, "equip leaves carried weight alone")

	res = e.Deequip(p, types.SlotHead)
	require.Equal(t, types.Deequipped, res.Outcome)
	assert.Equal(t, 2, e.World.Inventory.Amount(p, helmet))
	slots, _ = e.Equipment(p)
	assert.Zero(t, slots[types.SlotHead])
	v, _ = e.Actor(p)
	assert.Equal(t, 4, v.Carried)
	require.NoError(t, e.World.Check())
}

func TestEquip_Failures(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@...")
	p := e.Player()
	helmet := itemType(t, e, '[')

	assert.Equal(t, types.InvalidSlot, e.Equip(p, types.EquipSlot(9), helmet).Outcome)
	assert.Equal(t, types.ItemNotFound, e.Equip(p, types.SlotHead, helmet).Outcome)
	assert.Equal(t, types.ItemNotFound, e.EquipIndex(p, types.SlotHead, 1).Outcome)

	res := e.Deequip(p, types.SlotFeet)
	assert.Equal(t, types.SlotEmpty, res.Outcome)
	assert.Contains(t, res.Output, "Can't deequip")
	assert.Equal(t, types.InvalidSlot, e.Deequip(p, types.EquipSlot(-1)).Outcome)
}

func TestEquip_SwapReturnsPrevious(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@...")
	p := e.Player()
	sword := itemType(t, e, '/')
	bow := itemType(t, e, '}')
	require.NoError(t, e.World.Inventory.Add(p, sword, 1))
	require.NoError(t, e.World.Inventory.Add(p, bow, 1))

	require.Equal(t, types.Equipped, e.EquipIndex(p, types.SlotMelee, 1).Outcome)
	require.Equal(t, types.Equipped, e.Equip(p, types.SlotMelee, bow).Outcome)

	assert.Equal(t, 1, e.World.Inventory.Amount(p, sword))
	assert.Zero(t, e.World.Inventory.Amount(p, bow))
	slots, _ := e.Equipment(p)
	assert.Equal(t, bow, slots[types.SlotMelee])
}

func TestDrop(t *testing.T) {
	e := newTestEngine(t, testPlayer,
		"###",
		"#@.",
		"###",
	)
	p := e.Player()
	sword := itemType(t, e, '/')
	require.NoError(t, e.World.Inventory.Add(p, sword, 1))
	_, err := e.World.Actors.AddCarried(p, 3)
	require.NoError(t, err)

	res := e.Drop(p, 1)
	require.Equal(t, types.Dropped, res.Outcome)
	c, _ := e.Cell(at(2, 1))
	assert.NotZero(t, c.Item)
	v, _ := e.Actor(p)
	assert.Zero(t, v.Carried)
	require.NoError(t, e.World.Check())

	require.NoError(t, e.World.Inventory.Add(p, sword, 1))
	res = e.Drop(p, 1)
	assert.ErrorIs(t, res.Err, ErrNoFreeCell)
	assert.Equal(t, types.ItemNotFound, e.Drop(p, 5).Outcome)
}

func TestRemoveActor(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@r..")
	rat := e.World.ActorAt(at(1, 0))
	require.NoError(t, e.RemoveActor(rat))
	assert.False(t, e.World.Actors.Contains(rat))
	assert.Error(t, e.RemoveActor(rat))
	assert.False(t, e.GameOver())
}

func TestGlyph(t *testing.T) {
	e := newTestEngine(t, testPlayer, "@r/#.")
	assert.Equal(t, '@', e.Glyph(at(0, 0)))
	assert.Equal(t, 'r', e.Glyph(at(1, 0)))
	assert.Equal(t, '/', e.Glyph(at(2, 0)))
	assert.Equal(t, '#', e.Glyph(at(3, 0)))
	assert.Equal(t, '.', e.Glyph(at(4, 0)))
}
