package engine

import (
	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/engine/resolve"
	"github.com/nathoo/dungeoncore/engine/table"
	"github.com/nathoo/dungeoncore/types"
)

// idleOrWander weights the choice of a chaser that cannot see the player.
var idleOrWander = []int{70, 30}

// think picks and performs one action for an AI-controlled actor. Every
// strategy falls back to waiting, so a monster always spends its energy.
func (e *Engine) think(id types.ActorID) types.Result {
	a, err := e.World.Actors.Get(id)
	if err != nil {
		return e.fail(id, types.Blocked, err, "")
	}

	switch a.Controller.Strategy {
	case types.StrategyWander:
		return e.wander(id)

	case types.StrategyChase:
		if res, ok := e.chase(id, a.Pos); ok {
			return res
		}
		if e.RNG.WeightedSelect(idleOrWander) == 1 {
			return e.wander(id)
		}

	case types.StrategyCoward:
		if e.hurt(a) {
			if res, ok := e.flee(id, a.Pos); ok {
				return res
			}
		} else if res, ok := e.chase(id, a.Pos); ok {
			return res
		}
	}
	return e.Wait(id)
}

// hurt reports whether a is down to half of its archetype's health.
func (e *Engine) hurt(a table.Actor) bool {
	def, err := e.World.ActorTypes.Get(a.Type)
	if err != nil {
		return false
	}
	return a.Health*2 <= def.Health
}

// wander steps in a random direction, waiting if that is blocked.
func (e *Engine) wander(id types.ActorID) types.Result {
	d := grid.Directions[e.RNG.Intn(len(grid.Directions))]
	if res := e.Translate(id, d.DX, d.DY); acted(res) {
		return res
	}
	return e.Wait(id)
}

// chase steps toward the player when it is in sight. Stepping into the
// player is an attack.
func (e *Engine) chase(id types.ActorID, from types.Position) (types.Result, bool) {
	target, err := e.World.Actors.Position(e.World.Player)
	if err != nil || resolve.Distance(from, target) >= e.Rules.Sight {
		return types.Result{}, false
	}
	dx, dy := sign(target.X-from.X), sign(target.Y-from.Y)
	for _, d := range [][2]int{{dx, dy}, {dx, 0}, {0, dy}} {
		if d == [2]int{0, 0} {
			continue
		}
		if res := e.Translate(id, d[0], d[1]); acted(res) {
			return res, true
		}
	}
	return types.Result{}, false
}

// flee steps away from the player when it is in sight.
func (e *Engine) flee(id types.ActorID, from types.Position) (types.Result, bool) {
	threat, err := e.World.Actors.Position(e.World.Player)
	if err != nil || resolve.Distance(from, threat) >= e.Rules.Sight {
		return types.Result{}, false
	}
	to, ok := e.awayFrom(from, threat)
	if !ok {
		return types.Result{}, false
	}
	res := e.Move(id, to)
	return res, res.Outcome == types.Moved
}

// acted reports whether res spent the actor's energy.
func acted(res types.Result) bool {
	switch res.Outcome {
	case types.OutcomeNone, types.Blocked, types.TooHeavy, types.NotFound:
		return false
	}
	return true
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
