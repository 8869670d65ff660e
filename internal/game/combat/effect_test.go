package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

func TestApplyEffect_Damage_ShieldAbsorbsWholePoints(t *testing.T) {
	target := live("t", combat.RoleBoss, baseAttrs())
	target.State.Shield = 2

	r := combat.ApplyEffect(target, damage(12), nil)

	assert.Equal(t, 12, r.Amount)
	assert.Equal(t, 2, r.ShieldPointsDestroyed)
	assert.Equal(t, 10, r.ShieldAbsorbed)
	assert.Equal(t, 2, r.HealthDamage)
	assert.Equal(t, 0, target.State.Shield)
	assert.Equal(t, 28, target.State.Health)
}

func TestApplyEffect_Damage_SmallHitStillBreaksOnePoint(t *testing.T) {
	a := baseAttrs()
	a.ShieldStrength = 10
	target := live("t", combat.RoleBoss, a)
	target.State.Shield = 2

	r := combat.ApplyEffect(target, damage(3), nil)

	assert.Equal(t, 1, r.ShieldPointsDestroyed)
	assert.Equal(t, 0, r.ShieldAbsorbed)
	assert.Equal(t, 3, r.HealthDamage)
	assert.Equal(t, 1, target.State.Shield)
	assert.Equal(t, 27, target.State.Health)
}

func TestApplyEffect_Damage_PartialPointIsNotAbsorbed(t *testing.T) {
	tests := []struct {
		name       string
		amount     int
		shield     int
		points     int
		absorbed   int
		health     int
		shieldLeft int
	}{
		{"overflow spills to health", 7, 2, 1, 5, 2, 1},
		{"exact strength breaks one point", 5, 2, 1, 0, 5, 1},
		{"one point then exact remainder", 10, 2, 1, 5, 5, 1},
		{"small hit on last point", 3, 1, 1, 0, 3, 0},
		{"shield exhausted", 20, 2, 2, 10, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := live("t", combat.RoleBoss, baseAttrs())
			target.State.Shield = tt.shield

			r := combat.ApplyEffect(target, damage(tt.amount), nil)

			assert.Equal(t, tt.points, r.ShieldPointsDestroyed)
			assert.Equal(t, tt.absorbed, r.ShieldAbsorbed)
			assert.Equal(t, tt.health, r.HealthDamage)
			assert.Equal(t, tt.shieldLeft, target.State.Shield)
			assert.Equal(t, 30-tt.health, target.State.Health)
		})
	}
}

func TestApplyEffect_Damage_ZeroDamageBreaksOnePoint(t *testing.T) {
	target := live("t", combat.RoleBoss, baseAttrs())
	target.State.Shield = 3

	r := combat.ApplyEffect(target, damage(0), nil)

	assert.Equal(t, 1, r.ShieldPointsDestroyed)
	assert.Equal(t, 0, r.ShieldAbsorbed)
	assert.Equal(t, 2, target.State.Shield)
}

func TestApplyEffect_Damage_Property_PiercingNeverTouchesShield(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := baseAttrs()
		a.ShieldStrength = rapid.IntRange(0, 20).Draw(rt, "strength")
		target := live("t", combat.RoleBoss, a)
		target.State.Shield = rapid.IntRange(0, a.ShieldCapacity).Draw(rt, "shield")
		before := target.State.Shield
		amount := rapid.IntRange(0, 100).Draw(rt, "amount")

		r := combat.ApplyEffect(target, combat.Effect{Kind: combat.EffectDamage, Amount: amount, Piercing: true}, nil)

		assert.Equal(rt, before, target.State.Shield)
		assert.Zero(rt, r.ShieldPointsDestroyed)
		assert.Zero(rt, r.ShieldAbsorbed)
		assert.Equal(rt, min(amount, a.MaxHealth), r.HealthDamage)
	})
}

func TestApplyEffect_Damage_Property_ShieldAlwaysBreaks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := baseAttrs()
		a.ShieldStrength = rapid.IntRange(0, 50).Draw(rt, "strength")
		target := live("t", combat.RoleBoss, a)
		target.State.Shield = rapid.IntRange(1, a.ShieldCapacity).Draw(rt, "shield")
		before := target.State.Shield
		amount := rapid.IntRange(0, 100).Draw(rt, "amount")

		r := combat.ApplyEffect(target, damage(amount), nil)

		assert.GreaterOrEqual(rt, r.ShieldPointsDestroyed, 1)
		assert.Equal(rt, before-r.ShieldPointsDestroyed, target.State.Shield)
		assert.Zero(rt, r.ShieldAbsorbed%max(a.ShieldStrength, 1), "only whole points absorb")
		overkill := max(0, amount-r.ShieldAbsorbed-a.MaxHealth)
		assert.Equal(rt, amount, r.ShieldAbsorbed+r.HealthDamage+overkill)
		assert.GreaterOrEqual(rt, target.State.Shield, 0)
	})
}

func TestApplyEffect_Damage_PassiveModifiers(t *testing.T) {
	aa := baseAttrs()
	aa.Power = 3
	attacker := live("a", combat.RolePlayer, aa,
		passive(combat.TriggerAlways, combat.PassiveGlassCannon, 2))
	target := live("t", combat.RoleBoss, baseAttrs(),
		passive(combat.TriggerAlways, combat.PassiveDamageReduction, 4),
		passive(combat.TriggerAlways, combat.PassiveGlassCannon, 1))

	r := combat.ApplyEffect(target, damage(10), attacker)

	// 10 + power 3 + glass cannon 2 - reduction 4 + target glass cannon 1
	assert.Equal(t, 12, r.Amount)
	assert.Equal(t, 12, r.HealthDamage)
}

func TestApplyEffect_Damage_FloorsAtZero(t *testing.T) {
	target := live("t", combat.RoleBoss, baseAttrs(),
		passive(combat.TriggerAlways, combat.PassiveDamageReduction, 50))
	r := combat.ApplyEffect(target, damage(10), nil)
	assert.Equal(t, 0, r.Amount)
	assert.Equal(t, 30, target.State.Health)
}

func TestApplyEffect_Damage_SelfDamageIgnoresOwnPower(t *testing.T) {
	a := baseAttrs()
	a.Power = 10
	c := live("c", combat.RolePlayer, a)
	r := combat.ApplyEffect(c, damage(3), c)
	assert.Equal(t, 3, r.HealthDamage)
}

func TestApplyEffect_Damage_Kills(t *testing.T) {
	target := live("t", combat.RoleBoss, baseAttrs())
	r := combat.ApplyEffect(target, damage(100), nil)
	assert.True(t, r.Killed)
	assert.Equal(t, 30, r.HealthDamage)
	assert.False(t, target.IsAlive())
	assert.Equal(t, 0, target.State.Health)
}

func TestApplyEffect_Damage_SurviveFatalOncePerFight(t *testing.T) {
	target := live("t", combat.RolePlayer, baseAttrs(),
		passive(combat.TriggerOnFatalDamage, combat.PassiveSurviveFatal, 0))

	r := combat.ApplyEffect(target, damage(100), nil)
	require.True(t, r.SurvivedFatal)
	assert.False(t, r.Killed)
	assert.Equal(t, 1, target.State.Health)
	assert.True(t, target.IsAlive())
	assert.Equal(t, 29, r.HealthDamage)
	assert.True(t, target.Passives[0].Used)

	r = combat.ApplyEffect(target, damage(100), nil)
	assert.True(t, r.Killed)
	assert.False(t, r.SurvivedFatal)
	assert.False(t, target.IsAlive())
}

func TestApplyEffect_DeadTargetSkipped(t *testing.T) {
	target := live("t", combat.RoleBoss, baseAttrs())
	target.State.Health = 0
	target.State.Alive = false

	for _, e := range []combat.Effect{
		damage(5),
		{Kind: combat.EffectHeal, Amount: 5},
		{Kind: combat.EffectModifyAP, Amount: 1},
		{Kind: combat.EffectAddShield, Amount: 1},
	} {
		r := combat.ApplyEffect(target, e, nil)
		assert.True(t, r.Skipped, "kind %s", e.Kind)
	}
	assert.Equal(t, 0, target.State.Health)
	assert.False(t, target.IsAlive())
}

func TestApplyEffect_Heal_CappedWithBonus(t *testing.T) {
	caster := live("c", combat.RolePlayer, baseAttrs(),
		passive(combat.TriggerAlways, combat.PassiveHealBonus, 3))
	target := live("t", combat.RolePlayer, baseAttrs())
	target.State.Health = 20

	r := combat.ApplyEffect(target, combat.Effect{Kind: combat.EffectHeal, Amount: 4}, caster)
	assert.Equal(t, 7, r.Requested)
	assert.Equal(t, 7, r.Amount)
	assert.Equal(t, 27, target.State.Health)

	r = combat.ApplyEffect(target, combat.Effect{Kind: combat.EffectHeal, Amount: 10}, caster)
	assert.Equal(t, 3, r.Amount)
	assert.Equal(t, 30, target.State.Health)
}

func TestApplyEffect_AddShield(t *testing.T) {
	t.Run("capped at capacity", func(t *testing.T) {
		c := live("c", combat.RolePlayer, baseAttrs())
		c.State.Shield = 2
		r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectAddShield, Amount: 5}, nil)
		assert.Equal(t, 1, r.Amount)
		assert.Equal(t, 3, c.State.Shield)
	})
	t.Run("doubled below threshold", func(t *testing.T) {
		p := passive(combat.TriggerAlways, combat.PassiveModifyShieldGain, 0)
		p.Effect.Threshold = 50
		c := live("c", combat.RolePlayer, baseAttrs(), p)
		c.State.Health = 10
		r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectAddShield, Amount: 1}, nil)
		assert.Equal(t, 2, r.Requested)
		assert.Equal(t, 2, c.State.Shield)
	})
	t.Run("not doubled above threshold", func(t *testing.T) {
		p := passive(combat.TriggerAlways, combat.PassiveModifyShieldGain, 0)
		p.Effect.Threshold = 50
		c := live("c", combat.RolePlayer, baseAttrs(), p)
		r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectAddShield, Amount: 1}, nil)
		assert.Equal(t, 1, r.Amount)
	})
}

func TestApplyEffect_ModifyAP_ReportsActualDelta(t *testing.T) {
	c := live("c", combat.RolePlayer, baseAttrs())
	c.State.AP = 2

	r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectModifyAP, Amount: 10}, nil)
	assert.Equal(t, 5, c.State.AP)
	assert.Equal(t, 3, r.Amount)
	assert.Equal(t, 10, r.Requested)

	r = combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectModifyAP, Amount: -7}, nil)
	assert.Equal(t, 0, c.State.AP)
	assert.Equal(t, -5, r.Amount)
}

func TestApplyEffect_ModifyAP_Property_StaysInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := live("c", combat.RolePlayer, baseAttrs())
		c.State.AP = rapid.IntRange(0, c.Attributes.MaxAP).Draw(rt, "ap")
		before := c.State.AP
		delta := rapid.IntRange(-20, 20).Draw(rt, "delta")
		r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectModifyAP, Amount: delta}, nil)
		assert.GreaterOrEqual(rt, c.State.AP, 0)
		assert.LessOrEqual(rt, c.State.AP, c.Attributes.MaxAP)
		assert.Equal(rt, c.State.AP-before, r.Amount)
	})
}

func TestApplyEffect_RemoveShield(t *testing.T) {
	c := live("c", combat.RoleBoss, baseAttrs())
	c.State.Shield = 3
	r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectRemoveShield}, nil)
	assert.Equal(t, 3, r.Amount)
	assert.Equal(t, 0, c.State.Shield)
}

func TestApplyEffect_Revive(t *testing.T) {
	t.Run("dead character returns", func(t *testing.T) {
		c := live("c", combat.RolePlayer, baseAttrs())
		combat.ApplyEffect(c, damage(100), nil)
		require.False(t, c.IsAlive())
		c.State.AP = 4

		r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectRevive, Amount: 50}, nil)
		assert.True(t, c.IsAlive())
		assert.Equal(t, 30, c.State.Health)
		assert.Equal(t, 0, c.State.AP)
		assert.Equal(t, 30, r.Amount)
	})
	t.Run("living character is healed", func(t *testing.T) {
		c := live("c", combat.RolePlayer, baseAttrs())
		c.State.Health = 10
		c.State.AP = 4
		r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectRevive, Amount: 5}, nil)
		assert.Equal(t, 15, c.State.Health)
		assert.Equal(t, 4, c.State.AP)
		assert.Equal(t, 5, r.Amount)
	})
}

func TestApplyEffect_ModifyAttribute(t *testing.T) {
	c := live("c", combat.RoleBoss, baseAttrs())

	r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectModifyAttribute, Attribute: combat.AttrPower, Amount: -5}, nil)
	assert.Equal(t, 0, c.Attributes.Power, "power floors at zero")
	assert.Equal(t, 0, r.Amount)

	combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectModifyAttribute, Attribute: combat.AttrEvasiveness, Amount: -40}, nil)
	assert.Equal(t, -40, c.Attributes.Evasiveness, "provoke drives evasiveness negative")

	c.State.Shield = 3
	combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectModifyAttribute, Attribute: combat.AttrMaxHealth, Amount: -10}, nil)
	combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectModifyAttribute, Attribute: combat.AttrShieldCapacity, Amount: -2}, nil)
	assert.Equal(t, 20, c.State.Health)
	assert.Equal(t, 1, c.State.Shield)

	r = combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectModifyAttribute, Attribute: "charisma", Amount: 1}, nil)
	assert.True(t, r.Skipped)
}

func TestApplyEffect_ModifyAttribute_FatalDebuff(t *testing.T) {
	drain := combat.Effect{Kind: combat.EffectModifyAttribute, Attribute: combat.AttrMaxHealth, Amount: -30}

	t.Run("kills and fires onKill", func(t *testing.T) {
		source := live("s", combat.RolePlayer, baseAttrs(),
			passive(combat.TriggerOnKill, combat.PassiveRestoreAP, 2))
		source.State.AP = 0
		c := live("c", combat.RoleBoss, baseAttrs())

		r := combat.ApplyEffect(c, drain, source)

		assert.True(t, r.Killed)
		assert.False(t, c.IsAlive())
		assert.Equal(t, 0, c.State.Health)
		require.Len(t, r.Reactions, 1)
		assert.Equal(t, combat.TriggerOnKill, r.Reactions[0].Trigger)
		assert.Equal(t, 2, source.State.AP)
	})
	t.Run("surviveFatal intercepts", func(t *testing.T) {
		c := live("c", combat.RolePlayer, baseAttrs(),
			passive(combat.TriggerOnFatalDamage, combat.PassiveSurviveFatal, 0))

		r := combat.ApplyEffect(c, drain, nil)

		assert.True(t, r.SurvivedFatal)
		assert.False(t, r.Killed)
		assert.True(t, c.IsAlive())
		assert.Equal(t, 1, c.State.Health)
		assert.Equal(t, 1, c.Attributes.MaxHealth)
		assert.Equal(t, -29, r.Amount)
		assert.True(t, c.Passives[0].Used)
	})
	t.Run("non-fatal debuff leaves state alone", func(t *testing.T) {
		c := live("c", combat.RoleBoss, baseAttrs())
		r := combat.ApplyEffect(c, combat.Effect{Kind: combat.EffectModifyAttribute, Attribute: combat.AttrMaxHealth, Amount: -29}, nil)
		assert.False(t, r.Killed)
		assert.Equal(t, 1, c.State.Health)
		assert.True(t, c.IsAlive())
	})
}
