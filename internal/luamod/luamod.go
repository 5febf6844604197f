// Package luamod loads user item packs written in Lua on top of the
// builtin catalog. Pattern declarations compile straight to Go values
// and need no VM afterwards; action and bonus hooks are Lua functions,
// so the loaded state stays alive behind small Go wrappers.
//
// A pack declares items through curried constructors:
//
//	Pattern "cross" { title = "Cross", shape = "-x-/xxx/-x-", points = 15, freq = "rare" }
//	Action "purge" { title = "Purge", freq = "uncommon",
//	    execute = function(board, arg) return board:gsub("x", "-") end }
//	Bonus "surge" { title = "Surge",
//	    apply = function(score) score.flat_points = score.flat_points + 5 end }
//
// Action functions receive the board in its text form ("x"/"-"/"#",
// rows joined by "/") plus the player's argument and return the new
// board text. Bonus functions receive a mutable score table.
package luamod

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nnat-dev/nnat/internal/grid"
	"github.com/nnat-dev/nnat/internal/item"
	"github.com/nnat-dev/nnat/internal/score"
)

// ErrLoad wraps every pack loading failure.
var ErrLoad = errors.New("cannot load item pack")

type rawItem struct {
	kind  item.Kind
	name  string
	table *lua.LTable
}

// Load runs the Lua file at path and adds its items to the catalog.
// The returned close function tears the Lua state down; it must only be
// called once no loaded action or bonus can fire anymore.
func Load(path string, catalog *item.Catalog) (func(), error) {
	L := lua.NewState()

	var raws []rawItem
	register(L, &raws)

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("luamod: %s: %v: %w", path, err, ErrLoad)
	}
	if err := compile(L, raws, catalog); err != nil {
		L.Close()
		return nil, fmt.Errorf("luamod: %s: %w", path, err)
	}
	return L.Close, nil
}

// LoadString is Load for in-memory sources, used by tests.
func LoadString(src string, catalog *item.Catalog) (func(), error) {
	L := lua.NewState()

	var raws []rawItem
	register(L, &raws)

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("luamod: %v: %w", err, ErrLoad)
	}
	if err := compile(L, raws, catalog); err != nil {
		L.Close()
		return nil, fmt.Errorf("luamod: %w", err)
	}
	return L.Close, nil
}

// register installs the curried constructors: Kind "name" { ... }.
func register(L *lua.LState, raws *[]rawItem) {
	constructor := func(kind item.Kind) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			name := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				*raws = append(*raws, rawItem{kind: kind, name: name, table: tbl})
				return 0
			}))
			return 1
		})
	}
	L.SetGlobal("Pattern", constructor(item.KindPattern))
	L.SetGlobal("Action", constructor(item.KindAction))
	L.SetGlobal("Bonus", constructor(item.KindBonus))
}

func compile(L *lua.LState, raws []rawItem, catalog *item.Catalog) error {
	for _, raw := range raws {
		it := item.Item{
			Name:     raw.name,
			Title:    getString(raw.table, "title"),
			Desc:     getString(raw.table, "desc"),
			FreqMult: getFloat(raw.table, "freq_mult", 1),
			Priority: int(getFloat(raw.table, "priority", 100)),
			Limit:    int(getFloat(raw.table, "limit", 0)),
			Kind:     raw.kind,
		}
		if it.Title == "" {
			it.Title = raw.name
		}

		freq, err := parseFreq(getString(raw.table, "freq"))
		if err != nil {
			return fmt.Errorf("%s: %v: %w", raw.name, err, ErrLoad)
		}
		it.Freq = freq

		switch raw.kind {
		case item.KindPattern:
			shape, err := grid.Parse(getString(raw.table, "shape"))
			if err != nil {
				return fmt.Errorf("%s: %v: %w", raw.name, err, ErrLoad)
			}
			points := getFloat(raw.table, "points", 0)
			if points <= 0 {
				return fmt.Errorf("%s: pattern worth %v points: %w", raw.name, points, ErrLoad)
			}
			it.Pattern = &score.Pattern{Name: raw.name, Shape: shape, Points: points}

		case item.KindAction:
			fn, ok := raw.table.RawGetString("execute").(*lua.LFunction)
			if !ok {
				return fmt.Errorf("%s: action without an execute function: %w", raw.name, ErrLoad)
			}
			it.Action = bridgeAction(L, raw.name, fn)

		case item.KindBonus:
			fn, ok := raw.table.RawGetString("apply").(*lua.LFunction)
			if !ok {
				return fmt.Errorf("%s: bonus without an apply function: %w", raw.name, ErrLoad)
			}
			it.Bonus = &score.Bonus{Name: raw.name, Apply: bridgeBonus(L, fn)}
		}

		if err := catalog.Add(it); err != nil {
			return fmt.Errorf("%v: %w", err, ErrLoad)
		}
	}
	return nil
}

// bridgeAction wraps a Lua board transform into a pure Go action. The
// board crosses the boundary in its text form both ways.
func bridgeAction(L *lua.LState, name string, fn *lua.LFunction) *item.Action {
	return &item.Action{Execute: func(g grid.Grid, arg int) (grid.Grid, error) {
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
			lua.LString(g.String()), lua.LNumber(arg)); err != nil {
			return grid.Grid{}, fmt.Errorf("luamod: %s: %w", name, err)
		}
		ret := L.Get(-1)
		L.Pop(1)

		spec, ok := ret.(lua.LString)
		if !ok {
			return grid.Grid{}, fmt.Errorf("luamod: %s returned %s, want a board string", name, ret.Type())
		}
		out, err := grid.Parse(string(spec))
		if err != nil {
			return grid.Grid{}, fmt.Errorf("luamod: %s returned a bad board: %w", name, err)
		}
		if out.Rows != g.Rows || out.Cols != g.Cols {
			return grid.Grid{}, fmt.Errorf("luamod: %s resized the board to %dx%d", name, out.Rows, out.Cols)
		}
		return out, nil
	}}
}

// bridgeBonus wraps a Lua hook into a scoring bonus. The score is
// mirrored into a Lua table, mutated there, and read back. Hook errors
// are swallowed: a broken pack must not corrupt an in-progress score.
func bridgeBonus(L *lua.LState, fn *lua.LFunction) func(*score.Score, grid.Grid) {
	return func(s *score.Score, g grid.Grid) {
		tbl := scoreToLua(L, s)
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true},
			tbl, lua.LString(g.String())); err != nil {
			return
		}
		luaToScore(tbl, s)
	}
}

func scoreToLua(L *lua.LState, s *score.Score) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("flat_points", lua.LNumber(s.FlatPoints))
	tbl.RawSetString("multiplier", lua.LNumber(s.Multiplier))

	comps := L.NewTable()
	for _, c := range s.Components {
		ct := L.NewTable()
		ct.RawSetString("cells", lua.LNumber(len(c.Cells)))
		ct.RawSetString("multiplier", lua.LNumber(c.Multiplier))
		ct.RawSetString("cell_points", lua.LNumber(c.CellPoints))
		ct.RawSetString("always_scoring", lua.LBool(c.AlwaysScoring))

		mt := L.NewTable()
		for _, m := range c.Matches {
			mt.Append(lua.LNumber(m.Points))
		}
		ct.RawSetString("match_points", mt)
		comps.Append(ct)
	}
	tbl.RawSetString("components", comps)
	return tbl
}

func luaToScore(tbl *lua.LTable, s *score.Score) {
	s.FlatPoints = getFloat(tbl, "flat_points", s.FlatPoints)
	s.Multiplier = getFloat(tbl, "multiplier", s.Multiplier)

	comps, ok := tbl.RawGetString("components").(*lua.LTable)
	if !ok {
		return
	}
	for i, c := range s.Components {
		ct, ok := comps.RawGetInt(i + 1).(*lua.LTable)
		if !ok {
			continue
		}
		c.Multiplier = getFloat(ct, "multiplier", c.Multiplier)
		c.CellPoints = getFloat(ct, "cell_points", c.CellPoints)
		if b, ok := ct.RawGetString("always_scoring").(lua.LBool); ok {
			c.AlwaysScoring = bool(b)
		}
		if mt, ok := ct.RawGetString("match_points").(*lua.LTable); ok {
			for j := range c.Matches {
				if n, ok := mt.RawGetInt(j + 1).(lua.LNumber); ok {
					c.Matches[j].Points = float64(n)
				}
			}
		}
	}
}

func parseFreq(s string) (item.Freq, error) {
	switch s {
	case "", "common":
		return item.Common, nil
	case "uncommon":
		return item.Uncommon, nil
	case "rare":
		return item.Rare, nil
	default:
		return 0, fmt.Errorf("unknown freq %q", s)
	}
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getFloat returns a numeric field from a Lua table, or fallback.
func getFloat(tbl *lua.LTable, key string, fallback float64) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return fallback
}
