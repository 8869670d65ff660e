package ai

import (
	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// Decision is one chosen action and, for manual actions, its target.
type Decision struct {
	ActionID string `json:"actionId"`
	TargetID string `json:"targetId,omitempty"`
}

// Request converts d into an engine request for actorID.
func (d Decision) Request(actorID string) combat.Request {
	return combat.Request{ActorID: actorID, ActionID: d.ActionID, TargetID: d.TargetID}
}

// Policy picks the next action for a character.
type Policy interface {
	// Choose returns the action actorID should take in s, or false when it
	// has nothing usable and should pass its turn.
	Choose(s *combat.FightState, actorID string) (Decision, bool)
}

// lowHealthPercent is the health share below which allies get healed and
// actors raise shields.
const lowHealthPercent = 50

// HeuristicPolicy is a deterministic rule-based policy. In priority order it
// revives a fallen ally, heals an ally in need, tops up minions, shields when
// hurt, attacks with the hardest-hitting action (manual attacks finish the
// weakest enemy) and finally rests.
type HeuristicPolicy struct{}

// Choose implements Policy.
func (HeuristicPolicy) Choose(s *combat.FightState, actorID string) (Decision, bool) {
	if s.Over {
		return Decision{}, false
	}
	ws, ok := NewWorldState(s, actorID)
	if !ok || !ws.Actor.IsAlive() {
		return Decision{}, false
	}
	usable := ws.Usable()
	if len(usable) == 0 {
		return Decision{}, false
	}
	for _, rule := range []func(*WorldState, []*combat.Action) (Decision, bool){
		chooseRevive,
		chooseHeal,
		chooseSpawn,
		chooseShield,
		chooseAttack,
		chooseRest,
	} {
		if d, ok := rule(ws, usable); ok {
			return d, true
		}
	}
	return Decision{}, false
}

func hasTargetEffect(a *combat.Action, kind combat.EffectKind) bool {
	for _, e := range a.TargetEffects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func hasSelfEffect(a *combat.Action, kind combat.EffectKind) bool {
	for _, e := range a.SelfEffects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func chooseRevive(ws *WorldState, usable []*combat.Action) (Decision, bool) {
	if len(ws.Fallen) == 0 {
		return Decision{}, false
	}
	for _, a := range usable {
		if combat.EffectiveTarget(ws.Actor, a) == combat.TargetManual && hasTargetEffect(a, combat.EffectRevive) {
			return Decision{ActionID: a.ID, TargetID: ws.Fallen[0].ID}, true
		}
	}
	return Decision{}, false
}

func chooseHeal(ws *WorldState, usable []*combat.Action) (Decision, bool) {
	party := append([]*combat.Character{ws.Actor}, ws.Allies...)
	hurt := Weakest(party)
	if hurt == nil || hurt.HealthPercent() >= lowHealthPercent {
		return Decision{}, false
	}
	for _, a := range usable {
		if !hasTargetEffect(a, combat.EffectHeal) {
			continue
		}
		switch combat.EffectiveTarget(ws.Actor, a) {
		case combat.TargetManual:
			return Decision{ActionID: a.ID, TargetID: hurt.ID}, true
		case combat.TargetAllParty:
			return Decision{ActionID: a.ID}, true
		case combat.TargetSelf:
			if hurt == ws.Actor {
				return Decision{ActionID: a.ID}, true
			}
		}
	}
	return Decision{}, false
}

func chooseSpawn(ws *WorldState, usable []*combat.Action) (Decision, bool) {
	if !ws.CanSpawn || ws.Minions >= combat.MaxMinionsPerSpawner {
		return Decision{}, false
	}
	for _, a := range usable {
		if hasSelfEffect(a, combat.EffectSpawnMinion) {
			return Decision{ActionID: a.ID}, true
		}
	}
	return Decision{}, false
}

func chooseShield(ws *WorldState, usable []*combat.Action) (Decision, bool) {
	if ws.Actor.HealthPercent() >= lowHealthPercent || ws.Actor.State.Shield >= ws.Actor.Attributes.ShieldCapacity {
		return Decision{}, false
	}
	for _, a := range usable {
		if hasSelfEffect(a, combat.EffectAddShield) {
			return Decision{ActionID: a.ID}, true
		}
	}
	return Decision{}, false
}

// expectedDamage estimates the raw damage a would deal this turn.
func expectedDamage(ws *WorldState, a *combat.Action) int {
	per := 0
	for _, e := range a.TargetEffects {
		if e.Kind == combat.EffectDamage {
			per += e.Amount + ws.Actor.Attributes.Power
		}
	}
	switch combat.EffectiveTarget(ws.Actor, a) {
	case combat.TargetRandom:
		return per * a.HitCount()
	case combat.TargetManual:
		if a.Target == combat.TargetRandom {
			return per * a.HitCount()
		}
		return per
	case combat.TargetAllEnemies:
		return per * len(ws.Enemies)
	default:
		return 0
	}
}

func chooseAttack(ws *WorldState, usable []*combat.Action) (Decision, bool) {
	target := Weakest(ws.Enemies)
	if target == nil {
		return Decision{}, false
	}
	var best *combat.Action
	bestDamage := 0
	for _, a := range usable {
		if !hasTargetEffect(a, combat.EffectDamage) {
			continue
		}
		if d := expectedDamage(ws, a); d > bestDamage {
			best, bestDamage = a, d
		}
	}
	if best == nil {
		return Decision{}, false
	}
	d := Decision{ActionID: best.ID}
	if combat.EffectiveTarget(ws.Actor, best) == combat.TargetManual {
		d.TargetID = target.ID
	}
	return d, true
}

func chooseRest(ws *WorldState, usable []*combat.Action) (Decision, bool) {
	for _, a := range usable {
		if a.ID == combat.ActionRest {
			return Decision{ActionID: a.ID}, true
		}
	}
	return Decision{}, false
}
