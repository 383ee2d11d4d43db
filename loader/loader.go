// Package loader reads monster and item archetypes and the map from disk
// into state.Defs. Definition files are INI-style blocks or sandboxed Lua
// scripts; the map is a CSV grid of symbols.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/logger"
)

// Paths names the files of one game. Relative paths resolve against Dir.
// Monsters and Items may name the same Lua script; it is read once.
type Paths struct {
	Dir      string
	Map      string
	Monsters string
	Items    string
	Width    int
	Height   int
}

func (p Paths) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.Dir, name)
}

// Load reads every file named by p, validates the result and returns the
// definitions ready for state.NewWorld. Nothing is returned on error.
func Load(p Paths) (*state.Defs, error) {
	var all Definitions
	seen := map[string]bool{}
	for i, name := range []string{p.Monsters, p.Items} {
		if name == "" {
			continue
		}
		path := filepath.Clean(p.resolve(name))
		if seen[path] {
			continue
		}
		seen[path] = true
		defs, err := readDefinitions(path, i == 0)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		all.Actors = append(all.Actors, defs.Actors...)
		all.Items = append(all.Items, defs.Items...)
	}

	mapPath := p.resolve(p.Map)
	f, err := os.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("loading map: %w", err)
	}
	defer f.Close()
	layout, err := ParseMap(f, p.Width, p.Height)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", mapPath, err)
	}

	if err := validate(all, layout); err != nil {
		return nil, err
	}

	defs := state.NewDefs(p.Width, p.Height)
	defs.Map = layout
	for _, a := range all.Actors {
		if _, err := defs.ActorTypes.Add(a); err != nil {
			return nil, fmt.Errorf("registering monster %q: %w", a.Name, err)
		}
	}
	for _, it := range all.Items {
		if _, err := defs.ItemTypes.Add(it); err != nil {
			return nil, fmt.Errorf("registering item %q: %w", it.Name, err)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"monsters":   defs.ActorTypes.Len(),
		"items":      defs.ItemTypes.Len(),
		"placements": len(layout.Placements),
		"map":        mapPath,
	}).Info("definitions loaded")
	return defs, nil
}

// readDefinitions parses one definition file. Lua scripts may declare both
// kinds; an INI file holds monsters or items depending on its role.
func readDefinitions(path string, monsters bool) (Definitions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Definitions{}, err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".lua") {
		return ParseLua(filepath.Base(path), f)
	}
	if monsters {
		actors, err := ParseActorTypes(f)
		return Definitions{Actors: actors}, err
	}
	items, err := ParseItemTypes(f)
	return Definitions{Items: items}, err
}
