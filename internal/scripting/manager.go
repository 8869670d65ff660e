package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Manager owns one sandboxed LState per loaded script and exposes hook dispatch.
//
// A Manager is not safe for concurrent CallHook: each LState is
// single-threaded. Concurrent simulations use one Manager per worker.
type Manager struct {
	mu        sync.Mutex
	states    map[string]*lua.LState
	instLimit int
	logger    *zap.Logger
}

// NewManager creates a Manager whose hook calls each get a fresh budget of
// instLimit opcodes.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 uses DefaultInstructionLimit).
// Postcondition: Returns a non-nil Manager with no scripts loaded.
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		states:    make(map[string]*lua.LState),
		instLimit: instLimit,
		logger:    logger,
	}
}

// LoadFile creates a sandboxed VM for key, registers the engine module, then
// executes the Lua file at path. Reloading a key replaces its VM.
//
// Precondition: key must be non-empty; path must be a readable Lua file.
// Postcondition: The VM is registered; returns an error on Lua load failure.
func (m *Manager) LoadFile(key, path string) error {
	return m.load(key, func(L *lua.LState) error { return L.DoFile(path) }, path)
}

// LoadString is LoadFile for in-memory source.
func (m *Manager) LoadString(key, src string) error {
	return m.load(key, func(L *lua.LState) error { return L.DoString(src) }, "<string>")
}

func (m *Manager) load(key string, run func(*lua.LState) error, origin string) error {
	L := NewSandboxedState(m.instLimit)
	m.RegisterModules(L, key)

	if err := run(L); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q for %q: %w", origin, key, err)
	}

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		old.Close()
	}
	m.states[key] = L
	m.mu.Unlock()
	return nil
}

// Has reports whether a VM is loaded for key.
func (m *Manager) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[key]
	return ok
}

// CallHook calls the named Lua global function in key's VM with args
// converted by ToLua. Returns (LNil, nil) if the hook is not defined or no VM
// exists. Lua runtime errors, including an exhausted instruction budget, are
// logged at Warn level and never propagated.
//
// Precondition: args must be convertible by ToLua.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...any) (lua.LValue, error) {
	m.mu.Lock()
	L := m.states[key]
	m.mu.Unlock()

	if L == nil {
		m.logger.Info("scripting: no VM for script",
			zap.String("script", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	largs := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		lv, err := ToLua(L, a)
		if err != nil {
			return lua.LNil, fmt.Errorf("scripting: hook %q: %w", hook, err)
		}
		largs = append(largs, lv)
	}

	cancel := SetBudget(L, m.instLimit)
	defer cancel()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, largs...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, L := range m.states {
		L.Close()
		delete(m.states, k)
	}
}
