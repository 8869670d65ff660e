package combat

import (
	"errors"
	"fmt"
)

// MaxMinionsPerSpawner caps the number of living minions one spawner may control.
const MaxMinionsPerSpawner = 3

// Result is the outcome of a fight from the party's point of view.
type Result string

const (
	ResultOngoing Result = "ongoing"
	ResultVictory Result = "victory"
	ResultDefeat  Result = "defeat"
)

// EnemyDefinition is the resolved enemy side of a fight.
type EnemyDefinition struct {
	Boss Character `json:"boss"`
	// Minions are present from the start of the fight.
	Minions []Character `json:"minions,omitempty"`
	// MinionTemplate is copied by the boss's spawnMinion effects; nil disables spawning.
	MinionTemplate *Character `json:"minionTemplate,omitempty"`
}

// FightState is the complete, serializable state of one fight.
type FightState struct {
	ID         string       `json:"id"`
	Characters []*Character `json:"characters"`
	// TurnOrder is fixed at creation; spawned minions are appended.
	TurnOrder []string `json:"turnOrder"`
	TurnIndex int      `json:"turnIndex"`
	Round     int      `json:"round"`
	Over      bool     `json:"over"`
	Result    Result   `json:"result"`
	// MinionTemplates maps spawner id to the minion it spawns.
	MinionTemplates map[string]Character `json:"minionTemplates,omitempty"`
	// SpawnCount numbers spawned minions so their ids stay unique.
	SpawnCount int `json:"spawnCount"`
}

// CreateFight builds a fresh fight: inputs are deep-copied, every character is
// filled to full health and AP with no shield, per-fight counters are reset,
// the turn order is shuffled with src and onFightStart passives fire.
//
// Precondition: src must be non-nil.
// Postcondition: Returns an ongoing FightState or an error describing invalid input data.
func CreateFight(players []Character, enemy EnemyDefinition, src Source) (*FightState, error) {
	if len(players) == 0 {
		return nil, errors.New("combat: fight needs at least one player")
	}
	if enemy.Boss.ID == "" {
		return nil, errors.New("combat: enemy definition has no boss")
	}

	state := &FightState{
		Round:           1,
		Result:          ResultOngoing,
		MinionTemplates: make(map[string]Character),
	}
	seen := make(map[string]bool)
	add := func(c Character, role Role) error {
		if c.ID == "" {
			return fmt.Errorf("combat: %s %q has no id", role, c.Name)
		}
		if seen[c.ID] {
			return fmt.Errorf("combat: duplicate character id %q", c.ID)
		}
		if c.Attributes.MaxHealth < 1 {
			return fmt.Errorf("combat: character %q must have max health >= 1, got %d", c.ID, c.Attributes.MaxHealth)
		}
		if c.Attributes.MaxAP < 0 {
			return fmt.Errorf("combat: character %q must have max AP >= 0, got %d", c.ID, c.Attributes.MaxAP)
		}
		seen[c.ID] = true
		cp := prepare(c, role)
		state.Characters = append(state.Characters, cp)
		state.TurnOrder = append(state.TurnOrder, cp.ID)
		return nil
	}

	for _, p := range players {
		if err := add(p, RolePlayer); err != nil {
			return nil, err
		}
	}
	if err := add(enemy.Boss, RoleBoss); err != nil {
		return nil, err
	}
	for _, m := range enemy.Minions {
		if m.OwnerID == "" {
			m.OwnerID = enemy.Boss.ID
		}
		if err := add(m, RoleMinion); err != nil {
			return nil, err
		}
	}
	if enemy.MinionTemplate != nil {
		state.MinionTemplates[enemy.Boss.ID] = *enemy.MinionTemplate.Clone()
	}

	// Fisher-Yates
	for i := len(state.TurnOrder) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		state.TurnOrder[i], state.TurnOrder[j] = state.TurnOrder[j], state.TurnOrder[i]
	}

	for _, c := range state.Characters {
		dispatch(TriggerOnFightStart, c, nil)
	}
	return state, nil
}

// prepare returns a fight-ready deep copy of c with the given role.
func prepare(c Character, role Role) *Character {
	cp := c.Clone()
	cp.Role = role
	cp.Fill()
	for i := range cp.Actions {
		cp.Actions[i].UsesRemaining = cp.Actions[i].MaxUses
	}
	for i := range cp.Passives {
		cp.Passives[i].Used = false
	}
	return cp
}

// Clone returns a deep copy of s that shares no mutable data with it.
func (s *FightState) Clone() *FightState {
	cp := *s
	cp.Characters = make([]*Character, len(s.Characters))
	for i, c := range s.Characters {
		cp.Characters[i] = c.Clone()
	}
	cp.TurnOrder = append([]string(nil), s.TurnOrder...)
	if s.MinionTemplates != nil {
		cp.MinionTemplates = make(map[string]Character, len(s.MinionTemplates))
		for k, v := range s.MinionTemplates {
			cp.MinionTemplates[k] = *v.Clone()
		}
	}
	return &cp
}

// Character returns the character with the given id, or nil.
func (s *FightState) Character(id string) *Character {
	if id == "" {
		return nil
	}
	for _, c := range s.Characters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Allies returns the living characters on actor's side, actor included.
func (s *FightState) Allies(actor *Character) []*Character {
	var out []*Character
	for _, c := range s.Characters {
		if c.IsAlive() && !actor.IsOpponent(c) {
			out = append(out, c)
		}
	}
	return out
}

// Opponents returns the living characters on the side opposing actor.
func (s *FightState) Opponents(actor *Character) []*Character {
	var out []*Character
	for _, c := range s.Characters {
		if c.IsAlive() && actor.IsOpponent(c) {
			out = append(out, c)
		}
	}
	return out
}

// LivingMinions returns the number of living minions owned by spawnerID.
func (s *FightState) LivingMinions(spawnerID string) int {
	n := 0
	for _, c := range s.Characters {
		if c.Role == RoleMinion && c.OwnerID == spawnerID && c.IsAlive() {
			n++
		}
	}
	return n
}

// CurrentActor returns the character whose turn it is, or nil for an empty turn order.
func CurrentActor(s *FightState) *Character {
	if len(s.TurnOrder) == 0 {
		return nil
	}
	return s.Character(s.TurnOrder[s.TurnIndex%len(s.TurnOrder)])
}

// AdvanceTurn returns a copy of s whose turn index points at the next living
// character, scanning circularly for at most one full cycle. Bosses and
// minions landing on their turn get AP refilled; onTurnStart passives fire.
//
// Postcondition: When every character is dead the index is unchanged.
// Postcondition: s is not mutated.
func AdvanceTurn(s *FightState) *FightState {
	next := s.Clone()
	n := len(next.TurnOrder)
	for step := 1; step <= n; step++ {
		idx := (next.TurnIndex + step) % n
		c := next.Character(next.TurnOrder[idx])
		if c == nil || !c.IsAlive() {
			continue
		}
		if idx <= next.TurnIndex {
			next.Round++
		}
		next.TurnIndex = idx
		if c.IsEnemy() {
			c.State.AP = max(c.Attributes.MaxAP, 0)
		}
		dispatch(TriggerOnTurnStart, c, nil)
		return next
	}
	return next
}

// spawnMinions realizes a spawnMinion request from spawner, truncated to the
// remaining headroom under MaxMinionsPerSpawner.
//
// Postcondition: Returns the ids of the minions appended to Characters and TurnOrder.
func (s *FightState) spawnMinions(spawner *Character, count int) []string {
	tmpl, ok := s.MinionTemplates[spawner.ID]
	if !ok {
		return nil
	}
	headroom := MaxMinionsPerSpawner - s.LivingMinions(spawner.ID)
	count = min(count, headroom)
	var ids []string
	for range max(count, 0) {
		s.SpawnCount++
		m := prepare(tmpl, RoleMinion)
		m.ID = fmt.Sprintf("%s-minion-%d", spawner.ID, s.SpawnCount)
		m.Name = fmt.Sprintf("%s %d", tmpl.Name, s.SpawnCount)
		m.OwnerID = spawner.ID
		s.Characters = append(s.Characters, m)
		s.TurnOrder = append(s.TurnOrder, m.ID)
		ids = append(ids, m.ID)
	}
	return ids
}

// checkFightEnd sets Over and Result once a side has been wiped out.
func (s *FightState) checkFightEnd() {
	playersAlive, enemiesAlive := false, false
	for _, c := range s.Characters {
		if !c.IsAlive() {
			continue
		}
		if c.IsEnemy() {
			enemiesAlive = true
		} else {
			playersAlive = true
		}
	}
	switch {
	case !enemiesAlive:
		s.Over, s.Result = true, ResultVictory
	case !playersAlive:
		s.Over, s.Result = true, ResultDefeat
	}
}
