package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/bossfight/internal/scripting"
)

func TestToLua_Scalars(t *testing.T) {
	L := scripting.NewSandboxedState(0)
	defer L.Close()

	cases := []struct {
		in   any
		want lua.LValue
	}{
		{nil, lua.LNil},
		{true, lua.LTrue},
		{"x", lua.LString("x")},
		{7, lua.LNumber(7)},
		{int64(8), lua.LNumber(8)},
		{2.5, lua.LNumber(2.5)},
	}
	for _, tc := range cases {
		got, err := scripting.ToLua(L, tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestFromLua_Tables(t *testing.T) {
	L := scripting.NewSandboxedState(0)
	defer L.Close()
	require.NoError(t, L.DoString(`result = { action = "bolt", target = "p1", hits = { 1, 2 } }`))

	got := scripting.FromLua(L.GetGlobal("result"))
	assert.Equal(t, map[string]any{
		"action": "bolt",
		"target": "p1",
		"hits":   []any{1.0, 2.0},
	}, got)
}

func TestFromLua_FunctionIsNil(t *testing.T) {
	L := scripting.NewSandboxedState(0)
	defer L.Close()
	require.NoError(t, L.DoString(`function f() end`))
	assert.Nil(t, scripting.FromLua(L.GetGlobal("f")))
}

func TestProperty_ToLuaFromLuaPreservesMaps(t *testing.T) {
	L := scripting.NewSandboxedState(0)
	defer L.Close()
	rapid.Check(t, func(rt *rapid.T) {
		keys := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z]{1,8}`), rapid.ID[string]).Draw(rt, "keys")
		in := make(map[string]any, len(keys))
		for _, k := range keys {
			in[k] = float64(rapid.IntRange(-1000, 1000).Draw(rt, k))
		}
		lv, err := scripting.ToLua(L, in)
		require.NoError(rt, err)
		assert.Equal(rt, in, scripting.FromLua(lv))
	})
}
