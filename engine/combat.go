package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dungeoncore/engine/events"
	"github.com/nathoo/dungeoncore/engine/resolve"
	"github.com/nathoo/dungeoncore/types"
)

const (
	// UpperLimit bounds every contested roll: rolls are drawn from [0, UpperLimit).
	UpperLimit = 100
	// Scale is how many percentage points one skill point is worth.
	Scale = 4
)

// ActorWins runs one contested check of skill against other. Equal skills
// win half the time and a 12-point lead wins 98 rolls in 100.
func ActorWins(rng *RNG, skill, other int) bool {
	roll := rng.Intn(UpperLimit)
	threshold := UpperLimit/2 + (skill-other)*Scale
	return roll < threshold
}

// ArmorBonus clamps an armor total so that skill plus bonus never exceeds
// UpperLimit.
func ArmorBonus(skill, armor int) int {
	limit := UpperLimit - skill
	if limit < 0 {
		limit = 0
	}
	return max(0, min(armor, limit))
}

// Damage draws blow damage. A defender whose armor bonus exceeds the
// weapon's attack value only takes weak blows.
func Damage(rng *RNG, defenderArmor, weaponAttack int) int {
	if defenderArmor > weaponAttack {
		return rng.Roll(3)
	}
	return 1 + rng.Roll(5+weaponAttack)
}

// combatant gathers the stats one side brings to a fight.
type combatant struct {
	id       types.ActorID
	name     string
	pos      types.Position
	health   int
	maxHP    int
	strength int
	attack   int
	defense  int
	ranged   int
	armor    int
	melee    int // attack value of the melee slot
	bow      int // attack value of the ranged slot
	strategy types.Strategy
}

func (e *Engine) combatant(id types.ActorID) (combatant, error) {
	a, err := e.World.Actors.Get(id)
	if err != nil {
		return combatant{}, err
	}
	def, err := e.World.ActorTypes.Get(a.Type)
	if err != nil {
		return combatant{}, err
	}
	slots, err := e.World.Equipment.Get(id)
	if err != nil {
		return combatant{}, err
	}
	c := combatant{
		id:       id,
		name:     def.Name,
		pos:      a.Pos,
		health:   a.Health,
		maxHP:    def.Health,
		strength: def.Strength,
		attack:   def.Attack,
		defense:  def.Defense,
		ranged:   def.RangedAttack,
		strategy: a.Controller.Strategy,
	}
	for slot, it := range slots {
		if it == 0 {
			continue
		}
		idef, err := e.World.ItemTypes.Get(it)
		if err != nil {
			return combatant{}, err
		}
		c.armor += idef.Armor
		switch types.EquipSlot(slot) {
		case types.SlotMelee:
			c.melee = idef.Attack
		case types.SlotRanged:
			c.bow = idef.Attack
		}
	}
	return c, nil
}

// defence is the skill a combatant resists blows with, armor included.
func (c combatant) defence() int {
	return c.defense + ArmorBonus(c.defense, c.armor)
}

// Attack resolves a melee exchange. A miss lets the defender strike back
// with its melee weapon.
func (e *Engine) Attack(attacker, defender types.ActorID) types.Result {
	if e.gameOver {
		return e.fail(attacker, types.Blocked, ErrGameOver, "The game is over.")
	}
	if attacker == defender {
		return e.fail(attacker, types.Blocked, resolve.ErrSelfTarget, "")
	}
	return e.strike(attacker, defender, false)
}

// Fire resolves a ranged attack on the actor at target. It needs a ranged
// weapon in the ranged slot and a target within ranged reach. Misses are not
// answered.
func (e *Engine) Fire(attacker types.ActorID, target types.Position) types.Result {
	if e.gameOver {
		return e.fail(attacker, types.Blocked, ErrGameOver, "The game is over.")
	}
	from, err := e.World.Actors.Position(attacker)
	if err != nil {
		return e.fail(attacker, types.Blocked, err, "")
	}
	tgt, err := resolve.Check(e.World.Grid, from, target, e.Rules.RangedReach)
	if err != nil {
		return e.fail(attacker, types.Blocked, err, blockedLine(err))
	}
	weapon, err := e.World.Equipment.Slot(attacker, types.SlotRanged)
	if err != nil {
		return e.fail(attacker, types.Blocked, err, "")
	}
	if weapon == 0 {
		return e.fail(attacker, types.Blocked, ErrNoRangedWeapon, "No ranged weapon to use")
	}
	if def, err := e.World.ItemTypes.Get(weapon); err != nil || def.Category != types.CategoryRanged {
		return e.fail(attacker, types.Blocked, ErrNoRangedWeapon, "No ranged weapon to use")
	}
	if tgt.Kind != resolve.Actor {
		return e.fail(attacker, types.Blocked, ErrNoTarget, "There is nobody there.")
	}
	if e.sameFaction(attacker, tgt.Cell.Actor) {
		return e.fail(attacker, types.Blocked, ErrSameFaction, "")
	}
	return e.strike(attacker, tgt.Cell.Actor, true)
}

func (e *Engine) strike(attacker, defender types.ActorID, ranged bool) types.Result {
	att, err := e.combatant(attacker)
	if err != nil {
		return e.fail(attacker, types.Blocked, err, "")
	}
	def, err := e.combatant(defender)
	if err != nil {
		return e.fail(attacker, types.Blocked, err, "")
	}
	e.spend(attacker)

	res := types.Result{Outcome: types.Attacked}
	report := &types.AttackReport{}
	res.Attack = report

	if e.tryFlee(&res, def, att) {
		report.Outcome = types.Fled
		e.trace(attacker, res, logrus.Fields{"defender": defender, "attack": "fled"})
		return res
	}

	skill, weapon, verb := att.attack, att.melee, "attacked"
	if ranged {
		skill, weapon, verb = att.ranged, att.bow, "range attacked"
	}
	skill += ArmorBonus(skill, att.armor)

	if ActorWins(e.RNG, skill, def.defence()) {
		dmg := Damage(e.RNG, ArmorBonus(def.defense, def.armor), weapon)
		report.Outcome = types.Hit
		report.Damage = dmg
		e.emit(&res, events.Hit, fmt.Sprintf("%s %s %s for %d", att.name, verb, def.name, dmg),
			map[string]any{"attacker": attacker, "defender": defender, "damage": dmg, "ranged": ranged})
		report.DefenderDied = e.wound(&res, defender, dmg)
	} else {
		report.Outcome = types.Missed
		if ranged {
			e.emit(&res, events.Missed, fmt.Sprintf("%s missed %s", att.name, def.name),
				map[string]any{"attacker": attacker, "defender": defender, "ranged": true})
		} else {
			dmg := Damage(e.RNG, ArmorBonus(att.defense, att.armor), def.melee)
			report.Damage = dmg
			e.emit(&res, events.Missed, fmt.Sprintf("%s attacked %s for %d", def.name, att.name, dmg),
				map[string]any{"attacker": defender, "defender": attacker, "damage": dmg, "counter": true})
			report.AttackerDied = e.wound(&res, attacker, dmg)
		}
	}

	e.trace(attacker, res, logrus.Fields{
		"defender": defender,
		"attack":   report.Outcome.String(),
		"damage":   report.Damage,
		"ranged":   ranged,
	})
	return res
}

// wound applies damage and removes the victim when its health runs out.
func (e *Engine) wound(res *types.Result, victim types.ActorID, dmg int) bool {
	hp, err := e.World.Actors.AddHealth(victim, -dmg)
	if err != nil || hp > 0 {
		return false
	}
	return e.kill(res, victim) == nil
}

func (e *Engine) kill(res *types.Result, victim types.ActorID) error {
	name := e.actorName(victim)
	if err := e.World.RemoveActor(victim); err != nil {
		e.log.WithError(err).WithField("actor", victim).Error("removing dead actor")
		return err
	}
	e.log.WithFields(logrus.Fields{"actor": victim, "name": name}).Info("actor died")
	e.emit(res, events.Died, name+" died", map[string]any{"actor": victim})
	if victim == e.World.Player {
		e.emit(res, events.PlayerDied, "You have died.", map[string]any{"actor": victim})
	}
	return nil
}

// RemoveActor deletes an actor outright, as a death would.
func (e *Engine) RemoveActor(id types.ActorID) error {
	var res types.Result
	return e.kill(&res, id)
}

// tryFlee lets a hurt coward escape instead of taking the blow.
func (e *Engine) tryFlee(res *types.Result, def, att combatant) bool {
	if def.strategy != types.StrategyCoward || def.health*2 > def.maxHP {
		return false
	}
	if !ActorWins(e.RNG, def.strength, att.strength) {
		return false
	}
	to, ok := e.awayFrom(def.pos, att.pos)
	if !ok {
		return false
	}
	if err := e.World.Grid.MoveActor(def.pos, to); err != nil {
		return false
	}
	_ = e.World.Actors.SetPosition(def.id, to)
	e.emit(res, events.Fled, fmt.Sprintf("%s fled from %s", def.name, att.name),
		map[string]any{"actor": def.id, "x": to.X, "y": to.Y})
	return true
}

// awayFrom picks the empty neighbour of p that lies farthest from threat,
// provided it is farther than p itself.
func (e *Engine) awayFrom(p, threat types.Position) (types.Position, bool) {
	best := p
	bestDist := resolve.Distance(p, threat)
	for _, q := range e.World.Grid.Neighbours(p) {
		c, err := e.World.Grid.At(q)
		if err != nil || !c.Empty() {
			continue
		}
		if d := resolve.Distance(q, threat); d > bestDist {
			best, bestDist = q, d
		}
	}
	return best, best != p
}
