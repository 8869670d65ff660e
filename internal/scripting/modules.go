package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine Lua table into L.
//
//	engine.log(msg)  logs msg at debug level, tagged with the script key.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, key string) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("lua",
			zap.String("script", key),
			zap.String("msg", L.CheckString(1)),
		)
		return 0
	}))
	L.SetGlobal("engine", engine)
}
