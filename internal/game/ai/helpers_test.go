package ai_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// firstSrc keeps the turn order as declared.
type firstSrc struct{}

func (firstSrc) Intn(n int) int   { return n - 1 }
func (firstSrc) Float64() float64 { return 0.99 }

func attrs(health int) combat.Attributes {
	return combat.Attributes{MaxHealth: health, MaxAP: 4, ShieldCapacity: 2, ShieldStrength: 5, Dexterity: 100}
}

var (
	strike = combat.Action{
		ID: "strike", Name: "Strike", Cost: 1, Target: combat.TargetManual,
		TargetEffects: []combat.Effect{{Kind: combat.EffectDamage, Amount: 5}},
	}
	volley = combat.Action{
		ID: "volley", Name: "Volley", Cost: 2, Target: combat.TargetRandom, Hits: 3,
		TargetEffects: []combat.Effect{{Kind: combat.EffectDamage, Amount: 4}},
	}
	mend = combat.Action{
		ID: "mend", Name: "Mend", Cost: 1, Target: combat.TargetManual,
		TargetEffects: []combat.Effect{{Kind: combat.EffectHeal, Amount: 10}},
	}
	resurrect = combat.Action{
		ID: "resurrect", Name: "Resurrect", Cost: 2, Target: combat.TargetManual,
		TargetEffects: []combat.Effect{{Kind: combat.EffectRevive, Amount: 10}},
	}
	shield = combat.Action{
		ID: combat.ActionShield, Name: "Shield", Cost: 1, Target: combat.TargetSelf,
		SelfEffects: []combat.Effect{{Kind: combat.EffectAddShield, Amount: 1}},
	}
	rest = combat.Action{
		ID: combat.ActionRest, Name: "Rest", Cost: 0, Target: combat.TargetSelf,
		SelfEffects: []combat.Effect{{Kind: combat.EffectModifyAP, Amount: 2}},
	}
	summon = combat.Action{
		ID: "summon", Name: "Summon", Cost: 0, Target: combat.TargetSelf,
		SelfEffects: []combat.Effect{{Kind: combat.EffectSpawnMinion, Count: 2}},
	}
)

func player(id string, actions ...combat.Action) combat.Character {
	return combat.Character{ID: id, Name: id, Class: "test", Level: 1, Attributes: attrs(30), Actions: actions}
}

func enemy(health int, withTemplate bool, actions ...combat.Action) combat.EnemyDefinition {
	def := combat.EnemyDefinition{
		Boss: combat.Character{ID: "boss", Name: "Boss", Attributes: attrs(health), Actions: actions},
	}
	if withTemplate {
		def.MinionTemplate = &combat.Character{ID: "imp", Name: "Imp", Attributes: attrs(8), Actions: []combat.Action{strike}}
	}
	return def
}

func newFight(t *testing.T, players []combat.Character, def combat.EnemyDefinition) *combat.FightState {
	t.Helper()
	s, err := combat.CreateFight(players, def, firstSrc{})
	require.NoError(t, err)
	return s
}

func kill(s *combat.FightState, id string) {
	c := s.Character(id)
	c.State.Health = 0
	c.State.Alive = false
}
