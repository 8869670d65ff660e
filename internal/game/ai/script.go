package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// ChooseActionHook is the Lua global a boss script defines to pick its action.
const ChooseActionHook = "choose_action"

// ScriptCaller is the interface ScriptPolicy needs to run Lua hooks.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given script's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(key, hook string, args ...any) (lua.LValue, error)
}

// ScriptPolicy asks a Lua script for each decision and falls back to another
// policy whenever the script returns nothing usable.
//
// Invariant: caller, fallback and logger are non-nil.
type ScriptPolicy struct {
	caller   ScriptCaller
	key      string
	fallback Policy
	logger   *zap.Logger
}

// NewScriptPolicy builds a ScriptPolicy that calls choose_action in key's VM.
//
// Precondition: caller and logger must not be nil; a nil fallback means HeuristicPolicy.
func NewScriptPolicy(caller ScriptCaller, key string, fallback Policy, logger *zap.Logger) *ScriptPolicy {
	if caller == nil {
		panic("ai.NewScriptPolicy: caller must not be nil")
	}
	if logger == nil {
		panic("ai.NewScriptPolicy: logger must not be nil")
	}
	if fallback == nil {
		fallback = HeuristicPolicy{}
	}
	return &ScriptPolicy{caller: caller, key: key, fallback: fallback, logger: logger}
}

// Choose implements Policy. The script sees the actor and fight tables built
// by WorldState.ToScript and returns {action = id, target = id} or nil.
// Errors, unknown actions and actions that fail CanExecute fall back.
func (p *ScriptPolicy) Choose(s *combat.FightState, actorID string) (Decision, bool) {
	if d, ok := p.fromScript(s, actorID); ok {
		return d, true
	}
	return p.fallback.Choose(s, actorID)
}

func (p *ScriptPolicy) fromScript(s *combat.FightState, actorID string) (Decision, bool) {
	if s.Over {
		return Decision{}, false
	}
	ws, ok := NewWorldState(s, actorID)
	if !ok || !ws.Actor.IsAlive() {
		return Decision{}, false
	}
	actor, fight := ws.ToScript()
	ret, err := p.caller.CallHook(p.key, ChooseActionHook, actor, fight)
	if err != nil {
		p.logger.Warn("ai: script call failed",
			zap.String("script", p.key),
			zap.String("actor", actorID),
			zap.Error(err),
		)
		return Decision{}, false
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return Decision{}, false
	}
	d := Decision{
		ActionID: lua.LVAsString(tbl.RawGetString("action")),
		TargetID: lua.LVAsString(tbl.RawGetString("target")),
	}
	check := combat.CanExecute(ws.Actor, ws.Actor.Action(d.ActionID))
	if !check.OK {
		p.logger.Debug("ai: script decision rejected",
			zap.String("script", p.key),
			zap.String("actor", actorID),
			zap.String("action", d.ActionID),
			zap.String("reason", string(check.Reason)),
		)
		return Decision{}, false
	}
	return d, true
}
