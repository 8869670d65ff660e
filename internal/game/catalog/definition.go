package catalog

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// Unlock grants extra actions and passives once a player reaches Level.
type Unlock struct {
	Level    int              `yaml:"level"`
	Actions  []combat.Action  `yaml:"actions"`
	Passives []combat.Passive `yaml:"passives"`
}

// ClassDef is the static definition of a player class, loaded from YAML.
type ClassDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Base are the level 1 attributes.
	Base combat.Attributes `yaml:"base"`
	// PerLevel is added once for every level above 1.
	PerLevel combat.Attributes `yaml:"per_level"`
	Actions  []combat.Action   `yaml:"actions"`
	Passives []combat.Passive  `yaml:"passives"`
	Unlocks  []Unlock          `yaml:"unlocks"`
}

// MinionDef describes the minion a boss spawns.
type MinionDef struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Attributes combat.Attributes `yaml:"attributes"`
	Actions    []combat.Action   `yaml:"actions"`
	Passives   []combat.Passive  `yaml:"passives"`
}

// BossDef is the static definition of a boss encounter, loaded from YAML.
type BossDef struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Attributes  combat.Attributes `yaml:"attributes"`
	Actions     []combat.Action   `yaml:"actions"`
	Passives    []combat.Passive  `yaml:"passives"`
	// Minion is the spawn template; nil disables spawning.
	Minion *MinionDef `yaml:"minion"`
	// StartingMinions are copies of Minion present when the fight begins.
	StartingMinions int `yaml:"starting_minions"`
	// Script is a Lua behaviour file name relative to the scripts directory.
	Script string `yaml:"script"`
}

// Validate checks the class definition for data errors.
//
// Postcondition: Returns nil or an error naming the first violation.
func (d *ClassDef) Validate() error {
	if d.ID == "" {
		return errors.New("class id must not be empty")
	}
	if d.Base.MaxHealth < 1 {
		return fmt.Errorf("class %q: base max_health must be >= 1, got %d", d.ID, d.Base.MaxHealth)
	}
	if d.Base.MaxAP < 0 {
		return fmt.Errorf("class %q: base max_ap must be >= 0, got %d", d.ID, d.Base.MaxAP)
	}
	actions := append([]combat.Action(nil), d.Actions...)
	passives := append([]combat.Passive(nil), d.Passives...)
	for _, u := range d.Unlocks {
		if u.Level < 2 {
			return fmt.Errorf("class %q: unlock level must be >= 2, got %d", d.ID, u.Level)
		}
		actions = append(actions, u.Actions...)
		passives = append(passives, u.Passives...)
	}
	if err := validateKit(actions, passives); err != nil {
		return fmt.Errorf("class %q: %w", d.ID, err)
	}
	return nil
}

// Validate checks the boss definition for data errors.
//
// Postcondition: Returns nil or an error naming the first violation.
func (d *BossDef) Validate() error {
	if d.ID == "" {
		return errors.New("boss id must not be empty")
	}
	if d.Attributes.MaxHealth < 1 {
		return fmt.Errorf("boss %q: max_health must be >= 1, got %d", d.ID, d.Attributes.MaxHealth)
	}
	if err := validateKit(d.Actions, d.Passives); err != nil {
		return fmt.Errorf("boss %q: %w", d.ID, err)
	}
	if d.StartingMinions < 0 || d.StartingMinions > combat.MaxMinionsPerSpawner {
		return fmt.Errorf("boss %q: starting_minions must be in [0, %d], got %d",
			d.ID, combat.MaxMinionsPerSpawner, d.StartingMinions)
	}
	spawns := false
	for _, a := range d.Actions {
		for _, e := range append(append([]combat.Effect(nil), a.TargetEffects...), a.SelfEffects...) {
			spawns = spawns || e.Kind == combat.EffectSpawnMinion
		}
	}
	if d.Minion == nil {
		if spawns || d.StartingMinions > 0 {
			return fmt.Errorf("boss %q: spawns minions but has no minion template", d.ID)
		}
		return nil
	}
	if d.Minion.ID == "" {
		return fmt.Errorf("boss %q: minion id must not be empty", d.ID)
	}
	if d.Minion.Attributes.MaxHealth < 1 {
		return fmt.Errorf("boss %q: minion max_health must be >= 1, got %d", d.ID, d.Minion.Attributes.MaxHealth)
	}
	if err := validateKit(d.Minion.Actions, d.Minion.Passives); err != nil {
		return fmt.Errorf("boss %q minion: %w", d.ID, err)
	}
	return nil
}

// validateKit rejects duplicate or malformed actions and passives.
func validateKit(actions []combat.Action, passives []combat.Passive) error {
	seen := make(map[string]bool, len(actions))
	for _, a := range actions {
		if a.ID == "" {
			return errors.New("action id must not be empty")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate action %q", a.ID)
		}
		seen[a.ID] = true
		if a.Cost < 0 {
			return fmt.Errorf("action %q: cost must be >= 0, got %d", a.ID, a.Cost)
		}
		if !a.Target.Valid() {
			return fmt.Errorf("action %q: unknown target %q", a.ID, a.Target)
		}
		if a.MaxUses < 0 {
			return fmt.Errorf("action %q: max_uses must be >= 0, got %d", a.ID, a.MaxUses)
		}
		for _, e := range append(append([]combat.Effect(nil), a.TargetEffects...), a.SelfEffects...) {
			if err := validateEffect(e); err != nil {
				return fmt.Errorf("action %q: %w", a.ID, err)
			}
		}
	}
	for _, p := range passives {
		if !p.Trigger.Valid() {
			return fmt.Errorf("passive %q: unknown trigger %q", p.ID, p.Trigger)
		}
		if !p.Effect.Kind.Valid() {
			return fmt.Errorf("passive %q: unknown kind %q", p.ID, p.Effect.Kind)
		}
		if id := p.Effect.ActionID; id != "" && !seen[id] {
			return fmt.Errorf("passive %q: unknown action %q", p.ID, id)
		}
	}
	return nil
}

func validateEffect(e combat.Effect) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
	if e.Kind == combat.EffectModifyAttribute && !combat.KnownAttribute(e.Attribute) {
		return fmt.Errorf("unknown attribute %q", e.Attribute)
	}
	if e.Kind == combat.EffectSpawnMinion && e.Count < 1 {
		return fmt.Errorf("spawnMinion count must be >= 1, got %d", e.Count)
	}
	return nil
}
