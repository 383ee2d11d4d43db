package table

import (
	"fmt"

	"github.com/nathoo/dungeoncore/types"
)

// ActorTypeTable is the read-mostly catalog of actor archetypes.
type ActorTypeTable struct {
	ids     Index[types.ActorTypeID]
	counter counter[types.ActorTypeID]

	icon         []rune
	name         []string
	strength     []int
	maxCarry     []int
	energy       []int
	health       []int
	attack       []int
	defense      []int
	rangedAttack []int
	ai           []types.Strategy
}

// Add appends a new archetype and returns its identifier.
func (t *ActorTypeTable) Add(def types.ActorTypeDef) (types.ActorTypeID, error) {
	id, err := t.counter.next()
	if err != nil {
		return 0, fmt.Errorf("actor types: %w", err)
	}
	i, err := t.ids.insert(id)
	if err != nil {
		return 0, fmt.Errorf("actor type %d: %w", id, err)
	}
	t.icon = insertAt(t.icon, i, def.Icon)
	t.name = insertAt(t.name, i, def.Name)
	t.strength = insertAt(t.strength, i, def.Strength)
	t.maxCarry = insertAt(t.maxCarry, i, def.MaxCarry)
	t.energy = insertAt(t.energy, i, def.Energy)
	t.health = insertAt(t.health, i, def.Health)
	t.attack = insertAt(t.attack, i, def.Attack)
	t.defense = insertAt(t.defense, i, def.Defense)
	t.rangedAttack = insertAt(t.rangedAttack, i, def.RangedAttack)
	t.ai = insertAt(t.ai, i, def.AI)
	return id, nil
}

// Contains reports whether id names an archetype.
func (t *ActorTypeTable) Contains(id types.ActorTypeID) bool {
	_, ok := t.ids.Find(id)
	return ok
}

func (t *ActorTypeTable) row(id types.ActorTypeID) (int, error) {
	i, ok := t.ids.Find(id)
	if !ok {
		return -1, fmt.Errorf("actor type %d: %w", id, ErrNotFound)
	}
	return i, nil
}

// Get returns the full row for id.
func (t *ActorTypeTable) Get(id types.ActorTypeID) (types.ActorTypeDef, error) {
	i, err := t.row(id)
	if err != nil {
		return types.ActorTypeDef{}, err
	}
	return types.ActorTypeDef{
		Icon:         t.icon[i],
		Name:         t.name[i],
		Strength:     t.strength[i],
		MaxCarry:     t.maxCarry[i],
		Energy:       t.energy[i],
		Health:       t.health[i],
		Attack:       t.attack[i],
		Defense:      t.defense[i],
		RangedAttack: t.rangedAttack[i],
		AI:           t.ai[i],
	}, nil
}

// Name returns the display name of id.
func (t *ActorTypeTable) Name(id types.ActorTypeID) (string, error) {
	i, err := t.row(id)
	if err != nil {
		return "", err
	}
	return t.name[i], nil
}

// MaxCarry returns the carry capacity of id.
func (t *ActorTypeTable) MaxCarry(id types.ActorTypeID) (int, error) {
	i, err := t.row(id)
	if err != nil {
		return 0, err
	}
	return t.maxCarry[i], nil
}

// ByIcon returns the archetype drawn with r.
func (t *ActorTypeTable) ByIcon(r rune) (types.ActorTypeID, bool) {
	for i, icon := range t.icon {
		if icon == r {
			return t.ids.At(i), true
		}
	}
	return 0, false
}

// IDs returns the identifier column in order.
func (t *ActorTypeTable) IDs() []types.ActorTypeID { return t.ids.Keys() }

// Len returns the number of archetypes.
func (t *ActorTypeTable) Len() int { return t.ids.Len() }

// Check verifies the sorted-index invariant.
func (t *ActorTypeTable) Check() error {
	return t.ids.check(len(t.icon), len(t.name), len(t.strength), len(t.maxCarry),
		len(t.energy), len(t.health), len(t.attack), len(t.defense), len(t.rangedAttack), len(t.ai))
}

// ItemTypeTable is the catalog of item archetypes.
type ItemTypeTable struct {
	ids     Index[types.ItemTypeID]
	counter counter[types.ItemTypeID]

	icon     []rune
	name     []string
	weight   []int
	armor    []int
	attack   []int
	category []types.ItemCategory
}

// Add appends a new item archetype and returns its identifier.
func (t *ItemTypeTable) Add(def types.ItemTypeDef) (types.ItemTypeID, error) {
	id, err := t.counter.next()
	if err != nil {
		return 0, fmt.Errorf("item types: %w", err)
	}
	i, err := t.ids.insert(id)
	if err != nil {
		return 0, fmt.Errorf("item type %d: %w", id, err)
	}
	t.icon = insertAt(t.icon, i, def.Icon)
	t.name = insertAt(t.name, i, def.Name)
	t.weight = insertAt(t.weight, i, def.Weight)
	t.armor = insertAt(t.armor, i, def.Armor)
	t.attack = insertAt(t.attack, i, def.Attack)
	t.category = insertAt(t.category, i, def.Category)
	return id, nil
}

// Contains reports whether id names an item archetype.
func (t *ItemTypeTable) Contains(id types.ItemTypeID) bool {
	_, ok := t.ids.Find(id)
	return ok
}

func (t *ItemTypeTable) row(id types.ItemTypeID) (int, error) {
	i, ok := t.ids.Find(id)
	if !ok {
		return -1, fmt.Errorf("item type %d: %w", id, ErrNotFound)
	}
	return i, nil
}

// Get returns the full row for id.
func (t *ItemTypeTable) Get(id types.ItemTypeID) (types.ItemTypeDef, error) {
	i, err := t.row(id)
	if err != nil {
		return types.ItemTypeDef{}, err
	}
	return types.ItemTypeDef{
		Icon:     t.icon[i],
		Name:     t.name[i],
		Weight:   t.weight[i],
		Armor:    t.armor[i],
		Attack:   t.attack[i],
		Category: t.category[i],
	}, nil
}

// Weight returns the weight of one unit of id.
func (t *ItemTypeTable) Weight(id types.ItemTypeID) (int, error) {
	i, err := t.row(id)
	if err != nil {
		return 0, err
	}
	return t.weight[i], nil
}

// ByIcon returns the item archetype drawn with r.
func (t *ItemTypeTable) ByIcon(r rune) (types.ItemTypeID, bool) {
	for i, icon := range t.icon {
		if icon == r {
			return t.ids.At(i), true
		}
	}
	return 0, false
}

// IDs returns the identifier column in order.
func (t *ItemTypeTable) IDs() []types.ItemTypeID { return t.ids.Keys() }

// Len returns the number of item archetypes.
func (t *ItemTypeTable) Len() int { return t.ids.Len() }

// Check verifies the sorted-index invariant.
func (t *ItemTypeTable) Check() error {
	return t.ids.check(len(t.icon), len(t.name), len(t.weight), len(t.armor), len(t.attack), len(t.category))
}
