package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bossfight/internal/game/ai"
	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// errQuit is returned when the user leaves the fight early.
var errQuit = errors.New("fight abandoned")

// driver runs one fight: the user picks player actions on in, policy drives
// everyone else, and every step is printed to out.
type driver struct {
	in     *bufio.Scanner
	out    io.Writer
	policy ai.Policy
	src    combat.Source
	logger *zap.Logger
	// auto hands the players to policy as well.
	auto bool
	// maxTurns ends the fight undecided once reached.
	maxTurns int
}

// run plays s to completion and returns the final state.
func (d *driver) run(s *combat.FightState) (*combat.FightState, error) {
	d.printRoster(s)
	round, turns := 0, 0
	for !s.Over {
		if turns >= d.maxTurns {
			fmt.Fprintf(d.out, "\nTurn limit of %d reached, fight undecided\n", d.maxTurns)
			return s, nil
		}
		if s.Round != round {
			round = s.Round
			fmt.Fprintf(d.out, "\n=== Round %d ===\n", round)
		}
		actor := combat.CurrentActor(s)
		if actor == nil || !actor.IsAlive() {
			return s, errors.New("no living actor in an ongoing fight")
		}

		var (
			dec ai.Decision
			ok  bool
			err error
		)
		if actor.Role == combat.RolePlayer && !d.auto {
			dec, ok, err = d.prompt(s, actor)
			if err != nil {
				return s, err
			}
		} else {
			dec, ok = d.policy.Choose(s, actor.ID)
		}

		if !ok {
			fmt.Fprintf(d.out, "%s passes.\n", actor.Name)
		} else {
			next, res := combat.Execute(s, dec.Request(actor.ID), d.src)
			d.logger.Debug("action executed",
				zap.String("fight", s.ID),
				zap.String("actor", actor.ID),
				zap.String("action", dec.ActionID),
				zap.String("target", dec.TargetID),
				zap.Bool("success", res.Success),
			)
			if !res.Success {
				fmt.Fprintf(d.out, "%s cannot use %s: %s\n", actor.Name, dec.ActionID, res.Reason)
				if actor.Role == combat.RolePlayer && !d.auto {
					continue
				}
			} else {
				printResult(d.out, next, res)
				s = next
			}
		}
		turns++
		if !s.Over {
			s = combat.AdvanceTurn(s)
		}
	}
	fmt.Fprintf(d.out, "\nFight over after %d rounds: %s\n", s.Round, s.Result)
	return s, nil
}

// prompt asks the user for actor's action. ok is false when the user passes.
func (d *driver) prompt(s *combat.FightState, actor *combat.Character) (ai.Decision, bool, error) {
	fmt.Fprintf(d.out, "\n%s\n", statusLine(actor))
	for i := range actor.Actions {
		a := &actor.Actions[i]
		note := ""
		if check := combat.CanExecute(actor, a); !check.OK {
			note = " (" + string(check.Reason) + ")"
		}
		fmt.Fprintf(d.out, "  %d) %-14s cost %d  %s%s\n", i+1, a.Name, combat.EffectiveCost(actor, a), combat.EffectiveTarget(actor, a), note)
	}
	for {
		line, err := d.ask("action [number, p = pass, q = quit]: ")
		if err != nil {
			return ai.Decision{}, false, err
		}
		switch line {
		case "p", "pass":
			return ai.Decision{}, false, nil
		case "q", "quit":
			return ai.Decision{}, false, errQuit
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(actor.Actions) {
			fmt.Fprintln(d.out, "pick one of the listed numbers")
			continue
		}
		a := &actor.Actions[n-1]
		dec := ai.Decision{ActionID: a.ID}
		if combat.EffectiveTarget(actor, a) == combat.TargetManual {
			target, err := d.pickTarget(s)
			if err != nil {
				return ai.Decision{}, false, err
			}
			dec.TargetID = target
		}
		return dec, true, nil
	}
}

func (d *driver) pickTarget(s *combat.FightState) (string, error) {
	for i, c := range s.Characters {
		fmt.Fprintf(d.out, "  %d) %s\n", i+1, statusLine(c))
	}
	for {
		line, err := d.ask("target: ")
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(s.Characters) {
			return s.Characters[n-1].ID, nil
		}
		fmt.Fprintln(d.out, "pick one of the listed numbers")
	}
}

func (d *driver) ask(prompt string) (string, error) {
	fmt.Fprint(d.out, prompt)
	if !d.in.Scan() {
		if err := d.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(d.in.Text()), nil
}

func (d *driver) printRoster(s *combat.FightState) {
	fmt.Fprintf(d.out, "Fight %s\n", s.ID)
	for _, c := range s.Characters {
		fmt.Fprintf(d.out, "  %s\n", statusLine(c))
	}
	names := make([]string, 0, len(s.TurnOrder))
	for _, id := range s.TurnOrder {
		names = append(names, s.Character(id).Name)
	}
	fmt.Fprintf(d.out, "Turn order: %s\n", strings.Join(names, ", "))
}

func statusLine(c *combat.Character) string {
	state := ""
	if !c.IsAlive() {
		state = " [dead]"
	}
	return fmt.Sprintf("%s (%s) HP %d/%d  AP %d/%d  shield %d/%d%s",
		c.Name, c.Role, c.State.Health, c.Attributes.MaxHealth,
		c.State.AP, c.Attributes.MaxAP, c.State.Shield, c.Attributes.ShieldCapacity, state)
}

func printResult(out io.Writer, s *combat.FightState, res combat.ActionResult) {
	actor := s.Character(res.ActorID)
	fmt.Fprintf(out, "%s uses %s (-%d AP)\n", actor.Name, res.ActionID, res.APSpent)
	for _, w := range res.Wheel {
		if w.Hit {
			fmt.Fprintf(out, "  wheel %.1f° -> %s\n", w.Roll, nameOf(s, w.TargetID))
		} else {
			fmt.Fprintf(out, "  wheel %.1f° -> miss\n", w.Roll)
		}
	}
	for _, e := range append(append([]combat.EffectResult(nil), res.TargetEffects...), res.SelfEffects...) {
		fmt.Fprintf(out, "  %s\n", describeEffect(s, e))
		for _, r := range e.Reactions {
			fmt.Fprintf(out, "    %s's %s (%s) -> %s %d\n", nameOf(s, r.HolderID), r.PassiveID, r.Kind, nameOf(s, r.TargetID), r.Amount)
		}
	}
	for _, id := range res.Spawned {
		fmt.Fprintf(out, "  %s joins the fight\n", nameOf(s, id))
	}
}

func describeEffect(s *combat.FightState, e combat.EffectResult) string {
	target := nameOf(s, e.TargetID)
	if e.Skipped {
		return fmt.Sprintf("%s on %s has no effect", e.Kind, target)
	}
	switch e.Kind {
	case combat.EffectDamage:
		msg := fmt.Sprintf("%s takes %d damage (%d absorbed by shield, %d to health)", target, e.Amount, e.ShieldAbsorbed, e.HealthDamage)
		switch {
		case e.SurvivedFatal:
			msg += ", clings to life"
		case e.Killed:
			msg += ", dies"
		}
		return msg
	case combat.EffectHeal:
		return fmt.Sprintf("%s heals %d", target, e.Amount)
	case combat.EffectRevive:
		return fmt.Sprintf("%s is revived with %d health", target, e.Amount)
	default:
		return fmt.Sprintf("%s on %s: %d", e.Kind, target, e.Amount)
	}
}

func nameOf(s *combat.FightState, id string) string {
	if c := s.Character(id); c != nil {
		return c.Name
	}
	return id
}
