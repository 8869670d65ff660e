package scripting

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// ToLua converts a plain Go value into a Lua value owned by L. Supported
// inputs are nil, bool, string, the integer and float kinds, []any,
// []map[string]any, map[string]any and lua.LValue.
//
// Postcondition: Returns an error naming the first unsupported type.
func ToLua(L *lua.LState, v any) (lua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return lua.LNil, nil
	case lua.LValue:
		return x, nil
	case bool:
		return lua.LBool(x), nil
	case string:
		return lua.LString(x), nil
	case int:
		return lua.LNumber(x), nil
	case int64:
		return lua.LNumber(x), nil
	case float64:
		return lua.LNumber(x), nil
	case []any:
		tbl := L.CreateTable(len(x), 0)
		for _, item := range x {
			lv, err := ToLua(L, item)
			if err != nil {
				return nil, err
			}
			tbl.Append(lv)
		}
		return tbl, nil
	case []map[string]any:
		tbl := L.CreateTable(len(x), 0)
		for _, item := range x {
			lv, err := ToLua(L, item)
			if err != nil {
				return nil, err
			}
			tbl.Append(lv)
		}
		return tbl, nil
	case map[string]any:
		tbl := L.CreateTable(0, len(x))
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lv, err := ToLua(L, x[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			tbl.RawSetString(k, lv)
		}
		return tbl, nil
	default:
		return nil, fmt.Errorf("scripting: cannot convert %T to Lua", v)
	}
}

// FromLua converts a Lua value into plain Go: strings, float64, bool, nil,
// []any for sequences and map[string]any for tables with string keys.
// Functions and userdata become nil.
func FromLua(v lua.LValue) any {
	switch x := v.(type) {
	case lua.LString:
		return string(x)
	case lua.LNumber:
		return float64(x)
	case lua.LBool:
		return bool(x)
	case *lua.LTable:
		if n := x.Len(); n > 0 {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, FromLua(x.RawGetInt(i)))
			}
			return out
		}
		out := make(map[string]any)
		x.ForEach(func(k, val lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				out[string(ks)] = FromLua(val)
			}
		})
		return out
	default:
		return nil
	}
}
