// Package ai chooses actions for characters no human controls.
package ai

import (
	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// WorldState is the snapshot a policy decides from, seen from one actor.
//
// Invariant: Actor must not be nil.
type WorldState struct {
	Actor *combat.Character
	// Allies are the living characters on the actor's side, actor excluded.
	Allies []*combat.Character
	// Fallen are the dead characters on the actor's side.
	Fallen []*combat.Character
	// Enemies are the living opponents.
	Enemies []*combat.Character
	// Minions is the number of living minions the actor controls.
	Minions int
	// CanSpawn reports whether the fight holds a minion template for the actor.
	CanSpawn bool
	Round    int
}

// NewWorldState captures s from actorID's point of view.
//
// Postcondition: Returns (nil, false) when actorID is unknown.
func NewWorldState(s *combat.FightState, actorID string) (*WorldState, bool) {
	actor := s.Character(actorID)
	if actor == nil {
		return nil, false
	}
	ws := &WorldState{
		Actor:   actor,
		Minions: s.LivingMinions(actor.ID),
		Round:   s.Round,
	}
	_, ws.CanSpawn = s.MinionTemplates[actor.ID]
	for _, c := range s.Characters {
		switch {
		case c == actor:
		case actor.IsOpponent(c):
			if c.IsAlive() {
				ws.Enemies = append(ws.Enemies, c)
			}
		case c.IsAlive():
			ws.Allies = append(ws.Allies, c)
		default:
			ws.Fallen = append(ws.Fallen, c)
		}
	}
	return ws, true
}

// Weakest returns the character with the lowest health percentage, or nil.
//
// Postcondition: ties are broken by slice order.
func Weakest(cs []*combat.Character) *combat.Character {
	var best *combat.Character
	for _, c := range cs {
		if best == nil || c.HealthPercent() < best.HealthPercent() {
			best = c
		}
	}
	return best
}

// Usable returns the actor's actions that currently pass CanExecute.
func (ws *WorldState) Usable() []*combat.Action {
	var out []*combat.Action
	for i := range ws.Actor.Actions {
		a := &ws.Actor.Actions[i]
		if combat.CanExecute(ws.Actor, a).OK {
			out = append(out, a)
		}
	}
	return out
}

// ToScript renders the snapshot as the (actor, fight) tables passed to Lua.
func (ws *WorldState) ToScript() (map[string]any, map[string]any) {
	actor := characterTable(ws.Actor)
	actions := make([]map[string]any, 0, len(ws.Actor.Actions))
	for i := range ws.Actor.Actions {
		a := &ws.Actor.Actions[i]
		actions = append(actions, map[string]any{
			"id":     a.ID,
			"name":   a.Name,
			"cost":   combat.EffectiveCost(ws.Actor, a),
			"target": string(combat.EffectiveTarget(ws.Actor, a)),
			"usable": combat.CanExecute(ws.Actor, a).OK,
		})
	}
	actor["actions"] = actions

	fight := map[string]any{
		"round":     ws.Round,
		"minions":   ws.Minions,
		"can_spawn": ws.CanSpawn,
		"allies":    characterTables(ws.Allies),
		"fallen":    characterTables(ws.Fallen),
		"enemies":   characterTables(ws.Enemies),
	}
	return actor, fight
}

func characterTables(cs []*combat.Character) []map[string]any {
	out := make([]map[string]any, 0, len(cs))
	for _, c := range cs {
		out = append(out, characterTable(c))
	}
	return out
}

func characterTable(c *combat.Character) map[string]any {
	return map[string]any{
		"id":              c.ID,
		"name":            c.Name,
		"role":            string(c.Role),
		"class":           c.Class,
		"alive":           c.IsAlive(),
		"health":          c.State.Health,
		"max_health":      c.Attributes.MaxHealth,
		"health_pct":      c.HealthPercent(),
		"ap":              c.State.AP,
		"max_ap":          c.Attributes.MaxAP,
		"shield":          c.State.Shield,
		"shield_capacity": c.Attributes.ShieldCapacity,
		"power":           c.Attributes.Power,
		"evasiveness":     c.Attributes.Evasiveness,
	}
}
