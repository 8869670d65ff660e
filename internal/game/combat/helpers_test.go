package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// fixedSrc is a deterministic Source for testing. Intn always returns n-bounded
// f.n and Float64 always returns f.roll.
type fixedSrc struct {
	roll float64
	n    int
}

func (f fixedSrc) Intn(n int) int   { return f.n % n }
func (f fixedSrc) Float64() float64 { return f.roll }

// seqSrc replays rolls in order, wrapping around.
type seqSrc struct {
	rolls []float64
	i     int
}

func (s *seqSrc) Intn(_ int) int { return 0 }

func (s *seqSrc) Float64() float64 {
	v := s.rolls[s.i%len(s.rolls)]
	s.i++
	return v
}

func baseAttrs() combat.Attributes {
	return combat.Attributes{
		MaxHealth:      30,
		MaxAP:          5,
		ShieldCapacity: 3,
		ShieldStrength: 5,
		Dexterity:      100,
	}
}

// live returns a filled, alive character outside of any fight.
func live(id string, role combat.Role, a combat.Attributes, passives ...combat.Passive) *combat.Character {
	c := &combat.Character{ID: id, Name: id, Role: role, Attributes: a, Passives: passives}
	c.Fill()
	return c
}

func passive(trigger combat.Trigger, kind combat.PassiveKind, value int) combat.Passive {
	return combat.Passive{ID: string(kind), Trigger: trigger, Effect: combat.PassiveEffect{Kind: kind, Value: value}}
}

func damage(amount int) combat.Effect {
	return combat.Effect{Kind: combat.EffectDamage, Amount: amount}
}

var (
	strike = combat.Action{
		ID: "strike", Name: "Strike", Cost: 1, Target: combat.TargetManual,
		TargetEffects: []combat.Effect{damage(5)},
	}
	volley = combat.Action{
		ID: "volley", Name: "Volley", Cost: 2, Target: combat.TargetRandom, Hits: 3,
		TargetEffects: []combat.Effect{damage(4)},
	}
	sweep = combat.Action{
		ID: "sweep", Name: "Sweep", Cost: 2, Target: combat.TargetAllEnemies,
		TargetEffects: []combat.Effect{damage(6)},
		SelfEffects:   []combat.Effect{{Kind: combat.EffectHeal, Drain: true}},
	}
	rest = combat.Action{
		ID: combat.ActionRest, Name: "Rest", Cost: 0, Target: combat.TargetSelf,
		SelfEffects: []combat.Effect{{Kind: combat.EffectModifyAP, Amount: 3}},
	}
	raiseShield = combat.Action{
		ID: combat.ActionShield, Name: "Shield", Cost: 1, Target: combat.TargetSelf,
		SelfEffects: []combat.Effect{{Kind: combat.EffectAddShield, Amount: 1}},
	}
	summon = combat.Action{
		ID: "summon", Name: "Summon", Cost: 0, Target: combat.TargetSelf,
		SelfEffects: []combat.Effect{{Kind: combat.EffectSpawnMinion, Count: 2}},
	}
)

func player(id string, actions ...combat.Action) combat.Character {
	return combat.Character{ID: id, Name: id, Role: combat.RolePlayer, Class: "warrior", Level: 1, Attributes: baseAttrs(), Actions: actions}
}

func boss(id string, health int, actions ...combat.Action) combat.Character {
	a := baseAttrs()
	a.MaxHealth = health
	return combat.Character{ID: id, Name: id, Role: combat.RoleBoss, Attributes: a, Actions: actions}
}

func minionTemplate() *combat.Character {
	a := baseAttrs()
	a.MaxHealth = 8
	return &combat.Character{ID: "imp", Name: "Imp", Role: combat.RoleMinion, Attributes: a, Actions: []combat.Action{strike}}
}

func newFight(t *testing.T, players []combat.Character, enemy combat.EnemyDefinition) *combat.FightState {
	t.Helper()
	s, err := combat.CreateFight(players, enemy, fixedSrc{})
	require.NoError(t, err)
	return s
}

// assertInvariants checks the resource invariants on every character.
func assertInvariants(t require.TestingT, s *combat.FightState) {
	for _, c := range s.Characters {
		require.GreaterOrEqual(t, c.State.Health, 0, "%s health", c.ID)
		require.LessOrEqual(t, c.State.Health, c.Attributes.MaxHealth, "%s health", c.ID)
		require.GreaterOrEqual(t, c.State.AP, 0, "%s ap", c.ID)
		require.LessOrEqual(t, c.State.AP, c.Attributes.MaxAP, "%s ap", c.ID)
		require.GreaterOrEqual(t, c.State.Shield, 0, "%s shield", c.ID)
		require.LessOrEqual(t, c.State.Shield, c.Attributes.ShieldCapacity, "%s shield", c.ID)
		require.Equal(t, c.State.Health > 0, c.State.Alive, "%s alive flag", c.ID)
	}
}
