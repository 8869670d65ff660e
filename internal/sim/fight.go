// Package sim runs fights to completion without a human in the loop and
// aggregates their outcomes for balance tuning.
package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/bossfight/internal/game/ai"
	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// FightReport is the outcome of one simulated fight.
type FightReport struct {
	ID     string
	Seed   uint64
	Result combat.Result
	// TimedOut is set when the fight hit the turn cap while still ongoing.
	TimedOut bool
	Turns    int
	Rounds   int
	// Actions counts executed actions; passed turns are not included.
	Actions int
	// DamageByClass sums shield plus health damage dealt to enemies per player class.
	DamageByClass    map[string]int
	SurvivingPlayers int
}

// Won reports whether the party won the fight.
func (r FightReport) Won() bool { return r.Result == combat.ResultVictory }

// RunFight plays one fight to its end with policy choosing every action. A
// character whose policy returns nothing passes its turn.
//
// Precondition: policy and src must be non-nil; maxTurns >= 1.
// Postcondition: Returns a finished or timed-out report, or an error when the
// fight cannot be created, a policy picks an action the engine rejects, or ctx is done.
func RunFight(ctx context.Context, players []combat.Character, enemy combat.EnemyDefinition, policy ai.Policy, src combat.Source, maxTurns int) (FightReport, error) {
	if maxTurns < 1 {
		return FightReport{}, fmt.Errorf("sim: max turns must be >= 1, got %d", maxTurns)
	}
	s, err := combat.CreateFight(players, enemy, src)
	if err != nil {
		return FightReport{}, fmt.Errorf("sim: creating fight: %w", err)
	}
	s.ID = uuid.NewString()

	report := FightReport{ID: s.ID, DamageByClass: make(map[string]int)}
	for !s.Over {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if report.Turns >= maxTurns {
			report.TimedOut = true
			break
		}
		actor := combat.CurrentActor(s)
		if actor == nil || !actor.IsAlive() {
			return report, errors.New("sim: no living actor in an ongoing fight")
		}
		report.Turns++

		if d, ok := policy.Choose(s, actor.ID); ok {
			next, res := combat.Execute(s, d.Request(actor.ID), src)
			if !res.Success {
				return report, fmt.Errorf("sim: policy decision rejected: %w", res.Err())
			}
			report.Actions++
			if actor.Role == combat.RolePlayer {
				recordDamage(report.DamageByClass, actor.Class, next, res)
			}
			s = next
		}
		if !s.Over {
			s = combat.AdvanceTurn(s)
		}
	}

	report.Result = s.Result
	report.Rounds = s.Round
	for _, c := range s.Characters {
		if c.Role == combat.RolePlayer && c.IsAlive() {
			report.SurvivingPlayers++
		}
	}
	return report, nil
}

func recordDamage(byClass map[string]int, class string, s *combat.FightState, res combat.ActionResult) {
	for _, e := range res.TargetEffects {
		if e.Kind != combat.EffectDamage {
			continue
		}
		if t := s.Character(e.TargetID); t != nil && t.IsEnemy() {
			byClass[class] += e.ShieldAbsorbed + e.HealthDamage
		}
	}
}
