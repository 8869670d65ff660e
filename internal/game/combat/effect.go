package combat

// EffectResult reports what one effect application actually did.
type EffectResult struct {
	TargetID string     `json:"targetId"`
	Kind     EffectKind `json:"kind"`
	// Requested is the amount asked for after passive modifiers, before clamping.
	Requested int `json:"requested"`
	// Amount is the amount actually applied: health healed, shield gained,
	// AP delta, shield points stripped, total damage dealt or minions spawned.
	Amount int `json:"amount"`

	Piercing              bool `json:"piercing,omitempty"`
	ShieldAbsorbed        int  `json:"shieldAbsorbed,omitempty"`
	ShieldPointsDestroyed int  `json:"shieldPointsDestroyed,omitempty"`
	HealthDamage          int  `json:"healthDamage,omitempty"`
	Killed                bool `json:"killed,omitempty"`
	SurvivedFatal         bool `json:"survivedFatal,omitempty"`

	// Skipped is set when the effect could not apply (dead target, unknown attribute).
	Skipped bool `json:"skipped,omitempty"`
	// Spawned lists minion ids created by a spawnMinion effect.
	Spawned   []string   `json:"spawned,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

type damageOutcome struct {
	ShieldAbsorbed        int
	ShieldPointsDestroyed int
	HealthDamage          int
	Killed                bool
	SurvivedFatal         bool
}

// ApplyEffect applies effect to target, mutating it in place. source is the
// character responsible for the effect and may be nil.
//
// spawnMinion is not realized here; the requested count is returned in
// Requested for the executor, which owns the character list.
//
// Postcondition: target's resource invariants hold.
func ApplyEffect(target *Character, effect Effect, source *Character) EffectResult {
	res := EffectResult{TargetID: target.ID, Kind: effect.Kind}
	if !target.IsAlive() && effect.Kind != EffectRevive && effect.Kind != EffectSpawnMinion {
		res.Skipped = true
		return res
	}

	switch effect.Kind {
	case EffectDamage:
		applyDamage(target, effect, source, &res)
	case EffectHeal:
		amount := effect.Amount
		if !effect.Drain {
			amount += sumAlways(source, PassiveHealBonus)
		}
		res.Requested = amount
		res.Amount = addHealth(target, amount)
	case EffectAddShield:
		amount := effect.Amount
		if pe, ok := hasAlways(target, PassiveModifyShieldGain); ok && target.HealthPercent() < pe.Threshold {
			amount *= 2
		}
		res.Requested = amount
		before := target.State.Shield
		target.State.Shield = clamp(before+amount, 0, max(target.Attributes.ShieldCapacity, 0))
		res.Amount = target.State.Shield - before
	case EffectModifyAP:
		res.Requested = effect.Amount
		res.Amount = addAP(target, effect.Amount)
	case EffectRemoveShield:
		res.Requested = target.State.Shield
		res.Amount = target.State.Shield
		target.State.Shield = 0
	case EffectRevive:
		if target.IsAlive() {
			amount := effect.Amount + sumAlways(source, PassiveHealBonus)
			res.Requested = amount
			res.Amount = addHealth(target, amount)
			break
		}
		res.Requested = effect.Amount
		target.State.Alive = true
		target.State.Health = clamp(effect.Amount, 1, max(target.Attributes.MaxHealth, 1))
		target.State.AP = 0
		res.Amount = target.State.Health
	case EffectModifyAttribute:
		field := attributeField(&target.Attributes, effect.Attribute)
		if field == nil {
			res.Skipped = true
			return res
		}
		res.Requested = effect.Amount
		before := *field
		*field += effect.Amount
		if effect.Attribute == AttrPower && *field < 0 {
			*field = 0
		}
		health := target.State.Health
		target.clampState()
		if target.State.Health == 0 && health > 0 {
			res.Killed, res.SurvivedFatal = resolveFatal(target)
			if res.Killed && source != nil && source != target && source.IsAlive() {
				res.Reactions = dispatch(TriggerOnKill, source, target)
			}
		}
		res.Amount = *field - before
	case EffectSpawnMinion:
		res.Requested = max(effect.Count, 0)
	default:
		res.Skipped = true
	}
	return res
}

// applyDamage resolves the full damage pipeline and the reactive passives it triggers.
func applyDamage(target *Character, effect Effect, source *Character, res *EffectResult) {
	attacker := source
	if attacker == target {
		attacker = nil
	}

	total := effect.Amount
	if attacker != nil {
		total += attacker.Attributes.Power + sumAlways(attacker, PassiveGlassCannon)
	}
	total -= sumAlways(target, PassiveDamageReduction)
	total += sumAlways(target, PassiveGlassCannon)
	total = max(total, 0)

	res.Requested = total
	res.Amount = total
	res.Piercing = effect.Piercing

	out := absorbDamage(target, total, effect.Piercing)
	res.ShieldAbsorbed = out.ShieldAbsorbed
	res.ShieldPointsDestroyed = out.ShieldPointsDestroyed
	res.HealthDamage = out.HealthDamage
	res.Killed = out.Killed
	res.SurvivedFatal = out.SurvivedFatal

	res.Reactions = append(res.Reactions, dispatch(TriggerOnLowHP, target, attacker)...)
	res.Reactions = append(res.Reactions, dispatch(TriggerOnTakeDamage, target, attacker)...)
	if attacker != nil && attacker.IsAlive() {
		res.Reactions = append(res.Reactions, dispatch(TriggerOnHit, attacker, target)...)
		if out.Killed {
			res.Reactions = append(res.Reactions, dispatch(TriggerOnKill, attacker, target)...)
		}
	}
}

// absorbDamage runs shield absorption and the health/fatal check for damage
// that has already been through the passive modifiers.
//
// Shield points are consumed whole: each absorbs exactly ShieldStrength while
// more than that much damage remains. A non-piercing hit that consumes no
// point this way still breaks one, absorbing nothing.
func absorbDamage(target *Character, total int, piercing bool) damageOutcome {
	var out damageOutcome
	remaining := total
	if !piercing && target.State.Shield > 0 {
		strength := max(target.Attributes.ShieldStrength, 0)
		for strength > 0 && remaining > strength && target.State.Shield > 0 {
			remaining -= strength
			out.ShieldAbsorbed += strength
			out.ShieldPointsDestroyed++
			target.State.Shield--
		}
		if out.ShieldPointsDestroyed == 0 {
			target.State.Shield--
			out.ShieldPointsDestroyed = 1
		}
	}

	before := target.State.Health
	target.State.Health = max(before-remaining, 0)
	if target.State.Health == 0 && before > 0 {
		out.Killed, out.SurvivedFatal = resolveFatal(target)
	}
	out.HealthDamage = before - target.State.Health
	return out
}

// resolveFatal settles a character whose health just reached 0: an unused
// surviveFatal passive leaves it at 1 health, otherwise it dies.
func resolveFatal(c *Character) (killed, survived bool) {
	if consumeSurviveFatal(c) {
		c.Attributes.MaxHealth = max(c.Attributes.MaxHealth, 1)
		c.State.Health = 1
		return false, true
	}
	c.State.Alive = false
	return true, false
}

// addHealth heals c by amount without exceeding MaxHealth.
//
// Postcondition: Returns the health actually gained (>= 0).
func addHealth(c *Character, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.State.Health
	c.State.Health = clamp(before+amount, 0, max(c.Attributes.MaxHealth, 0))
	return c.State.Health - before
}

// addAP changes c's AP by delta, clamped to [0, MaxAP].
//
// Postcondition: Returns the actual delta applied.
func addAP(c *Character, delta int) int {
	before := c.State.AP
	c.State.AP = clamp(before+delta, 0, max(c.Attributes.MaxAP, 0))
	return c.State.AP - before
}
