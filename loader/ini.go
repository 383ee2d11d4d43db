package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nathoo/dungeoncore/types"
)

// DefaultValue in a definition file keeps the field's default.
const DefaultValue = "default"

// DefaultActorType is the archetype every monster block starts from.
func DefaultActorType() types.ActorTypeDef {
	return types.ActorTypeDef{
		Name:     "Monster",
		Strength: 1,
		MaxCarry: 20,
		Energy:   3,
		Health:   15,
		Attack:   1,
		Defense:  1,
		AI:       types.StrategyChase,
	}
}

// DefaultItemType is the archetype every item block starts from.
func DefaultItemType() types.ItemTypeDef {
	return types.ItemTypeDef{Name: "Item", Weight: 1}
}

type entry struct {
	key, value string
	line       int
}

type block struct {
	line    int
	entries []entry
}

// readBlocks splits a definition file into blank-line separated blocks of
// key=value pairs. Comment lines start with '#'. Lines with no '=' or with '='
// at either end are skipped.
func readBlocks(r io.Reader) ([]block, error) {
	var (
		blocks []block
		cur    block
		n      int
	)
	flush := func() {
		if len(cur.entries) > 0 {
			blocks = append(blocks, cur)
		}
		cur = block{}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.TrimSpace(line) == "":
			flush()
			continue
		case strings.HasPrefix(line, "#"):
			continue
		}
		split := strings.IndexByte(line, '=')
		if split <= 0 || split == len(line)-1 {
			continue
		}
		if len(cur.entries) == 0 {
			cur.line = n
		}
		cur.entries = append(cur.entries, entry{
			key:   strings.TrimSpace(line[:split]),
			value: strings.TrimSpace(line[split+1:]),
			line:  n,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return blocks, nil
}

// ParseActorTypes reads monster archetypes from an INI-style file.
func ParseActorTypes(r io.Reader) ([]types.ActorTypeDef, error) {
	blocks, err := readBlocks(r)
	if err != nil {
		return nil, err
	}
	ve := &ValidationError{}
	defs := make([]types.ActorTypeDef, 0, len(blocks))
	for _, b := range blocks {
		def := DefaultActorType()
		for _, e := range b.entries {
			if err := setActorField(&def, e.key, e.value); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("line %d: %v", e.line, err))
			}
		}
		defs = append(defs, def)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return defs, nil
}

// ParseItemTypes reads item archetypes from an INI-style file.
func ParseItemTypes(r io.Reader) ([]types.ItemTypeDef, error) {
	blocks, err := readBlocks(r)
	if err != nil {
		return nil, err
	}
	ve := &ValidationError{}
	defs := make([]types.ItemTypeDef, 0, len(blocks))
	for _, b := range blocks {
		def := DefaultItemType()
		var f itemFlags
		for _, e := range b.entries {
			if err := setItemField(&def, &f, e.key, e.value); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("line %d: %v", e.line, err))
			}
		}
		def.Category = f.category(def)
		defs = append(defs, def)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return defs, nil
}

func setActorField(def *types.ActorTypeDef, key, value string) error {
	if value == DefaultValue {
		return nil
	}
	var (
		dst *int
		err error
	)
	switch key {
	case "char", "icon":
		def.Icon, err = parseIcon(value)
		return err
	case "name":
		def.Name = value
		return nil
	case "ai":
		def.AI = types.Strategy(strings.ToLower(value))
		return nil
	case "strength":
		dst = &def.Strength
	case "energy":
		dst = &def.Energy
	case "health":
		dst = &def.Health
	case "attack":
		dst = &def.Attack
	case "defense":
		dst = &def.Defense
	case "ranged_attack", "rangedAttack":
		dst = &def.RangedAttack
	case "maxCarryWeight", "max_carry":
		dst = &def.MaxCarry
	default:
		// Unknown keys are ignored.
		return nil
	}
	*dst, err = parseInt(key, value)
	return err
}

// itemFlags holds the legacy category switches until the block is complete.
type itemFlags struct {
	melee, ranged bool
	explicit      bool
}

func (f itemFlags) category(def types.ItemTypeDef) types.ItemCategory {
	switch {
	case f.explicit:
		return def.Category
	case f.ranged:
		return types.CategoryRanged
	case f.melee:
		return types.CategoryMelee
	case def.Armor > 0:
		return types.CategoryArmor
	}
	return types.CategoryMisc
}

func setItemField(def *types.ItemTypeDef, f *itemFlags, key, value string) error {
	if value == DefaultValue {
		return nil
	}
	var err error
	switch key {
	case "char", "icon":
		def.Icon, err = parseIcon(value)
	case "name":
		def.Name = value
	case "weight":
		def.Weight, err = parseInt(key, value)
	case "armor":
		def.Armor, err = parseInt(key, value)
	case "attack":
		def.Attack, err = parseInt(key, value)
	case "isMelee", "is_melee":
		f.melee, err = parseBool(key, value)
	case "isRanged", "is_ranged":
		f.ranged, err = parseBool(key, value)
	case "category":
		def.Category, err = ParseCategory(value)
		f.explicit = err == nil
	}
	return err
}

// ParseCategory maps a category name to its value.
func ParseCategory(s string) (types.ItemCategory, error) {
	switch strings.ToLower(s) {
	case "misc":
		return types.CategoryMisc, nil
	case "melee":
		return types.CategoryMelee, nil
	case "ranged":
		return types.CategoryRanged, nil
	case "armor", "armour":
		return types.CategoryArmor, nil
	}
	return types.CategoryMisc, fmt.Errorf("unknown category %q", s)
}

func parseIcon(s string) (rune, error) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("icon %q must be a single character", s)
	}
	return r[0], nil
}

func parseInt(key, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, s)
	}
	return n, nil
}

func parseBool(key, s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%s: %q is not true or false", key, s)
}
