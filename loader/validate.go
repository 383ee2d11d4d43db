package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/logger"
	"github.com/nathoo/dungeoncore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// reserved symbols cannot name an archetype: they mean something in a map.
var reserved = map[rune]string{
	state.PlayerSymbol: "the player start",
	EmptyCell:          "an empty map cell",
	',':                "the map separator",
}

var knownStrategies = map[types.Strategy]bool{
	types.StrategyIdle:   true,
	types.StrategyWander: true,
	types.StrategyChase:  true,
	types.StrategyCoward: true,
}

// validate checks definitions and map for consistency.
func validate(defs Definitions, layout types.MapLayout) error {
	ve := &ValidationError{}
	owner := map[rune]string{}
	var claimed []rune // definition order

	claim := func(icon rune, what string) {
		if icon == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s has no icon", what))
			return
		}
		if r, ok := reserved[icon]; ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s uses icon %q, reserved for %s", what, icon, r))
			return
		}
		if prev, ok := owner[icon]; ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s reuses icon %q of %s", what, icon, prev))
			return
		}
		owner[icon] = what
		claimed = append(claimed, icon)
	}

	for _, a := range defs.Actors {
		what := fmt.Sprintf("monster %q", a.Name)
		claim(a.Icon, what)
		if a.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("monster %q has no name", a.Icon))
		}
		if a.Health <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: health must be positive", what))
		}
		if a.Energy <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: energy must be positive", what))
		}
		if a.MaxCarry < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: max_carry is negative", what))
		}
		if !knownStrategies[a.AI] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: unknown ai %q", what, a.AI))
		}
	}

	for _, it := range defs.Items {
		what := fmt.Sprintf("item %q", it.Name)
		claim(it.Icon, what)
		if it.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("item %q has no name", it.Icon))
		}
		if it.Weight < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: weight is negative", what))
		}
	}

	if layout.Width <= 0 || layout.Height <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("map size %dx%d is empty", layout.Width, layout.Height))
	}
	starts := 0
	used := map[rune]bool{}
	for _, p := range layout.Placements {
		used[p.Symbol] = true
		if p.Symbol == state.PlayerSymbol {
			starts++
		}
	}
	switch {
	case starts == 0:
		ve.Errors = append(ve.Errors, state.ErrNoPlayerStart.Error())
	case starts > 1:
		ve.Errors = append(ve.Errors, fmt.Sprintf("map has %d player starts", starts))
	}

	for _, icon := range claimed {
		if !used[icon] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s never appears on the map", owner[icon]))
		}
	}

	for _, w := range ve.Warnings {
		logger.Log.Warn(w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
