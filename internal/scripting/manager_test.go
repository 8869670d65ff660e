package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/bossfight/internal/scripting"
)

func newTestManager(t testing.TB, instLimit int) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(zap.New(core), instLimit)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func hasLevel(logs *observer.ObservedLogs, level zapcore.Level) bool {
	for _, e := range logs.All() {
		if e.Level == level {
			return true
		}
	}
	return false
}

func TestManager_LoadFile_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	path := writeTempLua(t, "hooks.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadFile("boss", path))
	assert.True(t, mgr.Has("boss"))
	ret, err := mgr.CallHook("boss", "test_hook", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_CallHook_TableArguments(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("boss", `
		function describe(actor)
			return actor.name .. ":" .. #actor.actions .. ":" .. actor.actions[2].id
		end
	`))
	actor := map[string]any{
		"name":    "Lich",
		"actions": []map[string]any{{"id": "bolt"}, {"id": "ward"}},
	}
	ret, err := mgr.CallHook("boss", "describe", actor)
	require.NoError(t, err)
	assert.Equal(t, lua.LString("Lich:2:ward"), ret)
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("boss", `-- no functions`))
	ret, err := mgr.CallHook("boss", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_UnknownScript_LogsInfoReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	ret, err := mgr.CallHook("no_such_script", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.InfoLevel), "expected Info log for missing script")
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("boss", `
		function bad_hook()
			error("intentional error")
		end
	`))
	ret, err := mgr.CallHook("boss", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.WarnLevel), "expected Warn log for Lua runtime error")
}

func TestManager_CallHook_BudgetResetPerCall(t *testing.T) {
	mgr, logs := newTestManager(t, 500)
	require.NoError(t, mgr.LoadString("boss", `
		function spin() while true do end end
		function work()
			local s = 0
			for i = 1, 20 do s = s + i end
			return s
		end
	`))

	ret, err := mgr.CallHook("boss", "spin")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.WarnLevel))

	for range 10 {
		ret, err = mgr.CallHook("boss", "work")
		require.NoError(t, err)
		assert.Equal(t, lua.LNumber(210), ret)
	}
}

func TestManager_CallHook_UnsupportedArgument(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("boss", `function f(x) return x end`))
	_, err := mgr.CallHook("boss", "f", struct{}{})
	assert.Error(t, err)
}

func TestManager_EngineLog(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("boss", `function hello() engine.log("hi") end`))
	_, err := mgr.CallHook("boss", "hello")
	require.NoError(t, err)
	entries := logs.FilterMessage("lua").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hi", entries[0].ContextMap()["msg"])
	assert.Equal(t, "boss", entries[0].ContextMap()["script"])
}

func TestManager_LoadFile_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	path := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	assert.Error(t, mgr.LoadFile("bad", path))
	assert.False(t, mgr.Has("bad"))
}

func TestManager_LoadFile_Reload_ReplacesVM(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("boss", `function v() return 1 end`))
	require.NoError(t, mgr.LoadString("boss", `function v() return 2 end`))
	ret, err := mgr.CallHook("boss", "v")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(2), ret)
}

func TestProperty_CallHookMissingScriptNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "key")
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		count := rapid.IntRange(1, 20).Draw(rt, "count")
		for range count {
			mgr.CallHook(key, hook) //nolint:errcheck
		}
	})
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() {
		scripting.NewManager(nil, 0)
	})
}

func TestManager_Close_ReleasesScripts(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("boss", `function get_x() return x end`))
	mgr.Close()
	ret, err := mgr.CallHook("boss", "get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}
