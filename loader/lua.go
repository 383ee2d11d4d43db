package loader

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/dungeoncore/types"
)

// Definitions are the archetypes read from one or more definition files.
type Definitions struct {
	Actors []types.ActorTypeDef
	Items  []types.ItemTypeDef
}

// collector accumulates Lua definitions during script execution.
type collector struct {
	monsters []*lua.LTable
	items    []*lua.LTable
}

// ParseLua runs a definition script in a sandboxed VM and returns the
// archetypes it declared with Monster { ... } and Item { ... }. The VM is
// discarded afterwards.
func ParseLua(name string, r io.Reader) (Definitions, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	fn, err := L.Load(r, name)
	if err != nil {
		return Definitions{}, err
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return Definitions{}, err
	}
	return coll.compile()
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the script.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	// Keep math.random deterministic across runs.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

func registerAPI(L *lua.LState, coll *collector) {
	// Monster { char = "r", name = "Rat", ... }
	L.SetGlobal("Monster", L.NewFunction(func(L *lua.LState) int {
		coll.monsters = append(coll.monsters, L.CheckTable(1))
		return 0
	}))
	// Item { char = "/", name = "Sword", ... }
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		coll.items = append(coll.items, L.CheckTable(1))
		return 0
	}))
}

func (c *collector) compile() (Definitions, error) {
	ve := &ValidationError{}
	var defs Definitions

	for i, tbl := range c.monsters {
		def := DefaultActorType()
		tbl.ForEach(func(k, v lua.LValue) {
			key, ok := k.(lua.LString)
			if !ok {
				return
			}
			if err := setActorField(&def, string(key), luaString(v)); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("Monster #%d: %v", i+1, err))
			}
		})
		defs.Actors = append(defs.Actors, def)
	}

	for i, tbl := range c.items {
		def := DefaultItemType()
		var f itemFlags
		tbl.ForEach(func(k, v lua.LValue) {
			key, ok := k.(lua.LString)
			if !ok {
				return
			}
			if err := setItemField(&def, &f, string(key), luaString(v)); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("Item #%d: %v", i+1, err))
			}
		})
		def.Category = f.category(def)
		defs.Items = append(defs.Items, def)
	}

	if len(ve.Errors) > 0 {
		return Definitions{}, ve
	}
	return defs, nil
}

// luaString renders a field value the way it would appear in an INI file.
func luaString(v lua.LValue) string {
	switch val := v.(type) {
	case lua.LBool:
		if val {
			return "true"
		}
		return "false"
	case lua.LNumber:
		return fmt.Sprintf("%d", int(val))
	case lua.LString:
		return strings.TrimSpace(string(val))
	default:
		return v.String()
	}
}
