package combat

// Trigger names the fixed point at which a passive is evaluated.
type Trigger string

const (
	TriggerAlways        Trigger = "always"
	TriggerOnHit         Trigger = "onHit"
	TriggerOnTakeDamage  Trigger = "onTakeDamage"
	TriggerOnKill        Trigger = "onKill"
	TriggerOnFightStart  Trigger = "onFightStart"
	TriggerOnTurnStart   Trigger = "onTurnStart"
	TriggerOnLowHP       Trigger = "onLowHP"
	TriggerOnFatalDamage Trigger = "onFatalDamage"
)

// Valid reports whether t is one of the known triggers.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerAlways, TriggerOnHit, TriggerOnTakeDamage, TriggerOnKill,
		TriggerOnFightStart, TriggerOnTurnStart, TriggerOnLowHP, TriggerOnFatalDamage:
		return true
	default:
		return false
	}
}

// PassiveKind tags the passive effect variant.
type PassiveKind string

const (
	// Read while computing values (TriggerAlways).
	PassiveModifyAbilityCost PassiveKind = "modifyAbilityCost"
	PassiveGlassCannon       PassiveKind = "glassCannon"
	PassiveDamageReduction   PassiveKind = "damageReduction"
	PassiveModifyShieldGain  PassiveKind = "modifyShieldGain"
	PassiveSecondWind        PassiveKind = "secondWind"
	PassivePrecision         PassiveKind = "precision"
	PassiveHealBonus         PassiveKind = "healBonus"

	// Executed by reactive dispatch.
	PassiveReflectDamage PassiveKind = "reflectDamage"
	PassiveGainShield    PassiveKind = "gainShield"
	PassiveRestoreAP     PassiveKind = "restoreAP"
	PassiveHeal          PassiveKind = "heal"

	// Consumed by the fatal-damage check.
	PassiveSurviveFatal PassiveKind = "surviveFatal"
)

// Valid reports whether k is one of the known passive kinds. The engine
// ignores unknown kinds; content loaders reject them.
func (k PassiveKind) Valid() bool {
	switch k {
	case PassiveModifyAbilityCost, PassiveGlassCannon, PassiveDamageReduction, PassiveModifyShieldGain,
		PassiveSecondWind, PassivePrecision, PassiveHealBonus, PassiveReflectDamage, PassiveGainShield,
		PassiveRestoreAP, PassiveHeal, PassiveSurviveFatal:
		return true
	default:
		return false
	}
}

// PassiveEffect is the declarative payload of a passive.
type PassiveEffect struct {
	Kind  PassiveKind `json:"kind" yaml:"kind"`
	Value int         `json:"value,omitempty" yaml:"value"`
	// Threshold is a health percentage (0-100) used by modifyShieldGain,
	// gainShield and onLowHP passives.
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold"`
	// ActionID restricts modifyAbilityCost to one action; empty means all.
	ActionID string `json:"actionId,omitempty" yaml:"action_id"`
}

// Passive is a non-action ability evaluated at its trigger point.
type Passive struct {
	ID      string        `json:"id" yaml:"id"`
	Trigger Trigger       `json:"trigger" yaml:"trigger"`
	Effect  PassiveEffect `json:"effect" yaml:"effect"`
	// Used marks single-use passives (surviveFatal, onLowHP) consumed this fight.
	Used bool `json:"used,omitempty" yaml:"-"`
}

// Reaction records one reactive passive that fired during an effect application.
type Reaction struct {
	HolderID  string      `json:"holderId"`
	PassiveID string      `json:"passiveId"`
	Trigger   Trigger     `json:"trigger"`
	Kind      PassiveKind `json:"kind"`
	// TargetID is the character the reaction changed.
	TargetID string `json:"targetId"`
	Amount   int    `json:"amount"`
}

// sumAlways totals the values of c's always-passives of the given kind.
func sumAlways(c *Character, kind PassiveKind) int {
	if c == nil {
		return 0
	}
	total := 0
	for _, p := range c.Passives {
		if p.Trigger == TriggerAlways && p.Effect.Kind == kind {
			total += p.Effect.Value
		}
	}
	return total
}

// hasAlways reports whether c carries an always-passive of the given kind.
func hasAlways(c *Character, kind PassiveKind) (PassiveEffect, bool) {
	for _, p := range c.Passives {
		if p.Trigger == TriggerAlways && p.Effect.Kind == kind {
			return p.Effect, true
		}
	}
	return PassiveEffect{}, false
}

// EffectiveCost returns the AP cost of action for actor after modifyAbilityCost passives.
//
// Postcondition: Returns >= 1 when action.Cost > 0; returns action.Cost (0) for free actions.
func EffectiveCost(actor *Character, action *Action) int {
	if action.Cost <= 0 {
		return max(action.Cost, 0)
	}
	cost := action.Cost
	for _, p := range actor.Passives {
		if p.Trigger != TriggerAlways || p.Effect.Kind != PassiveModifyAbilityCost {
			continue
		}
		if p.Effect.ActionID != "" && p.Effect.ActionID != action.ID {
			continue
		}
		cost += p.Effect.Value
	}
	return max(cost, 1)
}

// EffectiveTarget returns the target kind actor actually uses for action;
// a precision passive turns random actions into manual ones.
func EffectiveTarget(actor *Character, action *Action) TargetKind {
	if action.Target == TargetRandom {
		if _, ok := hasAlways(actor, PassivePrecision); ok {
			return TargetManual
		}
	}
	return action.Target
}

// dispatch evaluates holder's passives registered for trigger. other is the
// counterpart of the event (attacker for onTakeDamage, victim for onHit/onKill)
// and may be nil. Unrecognized passive kinds are ignored.
//
// Postcondition: Returns one Reaction per passive that changed state.
func dispatch(trigger Trigger, holder, other *Character) []Reaction {
	var out []Reaction
	for i := range holder.Passives {
		p := &holder.Passives[i]
		if p.Trigger != trigger {
			continue
		}
		if trigger == TriggerOnLowHP {
			if p.Used || !holder.IsAlive() || holder.HealthPercent() >= p.Effect.Threshold {
				continue
			}
			p.Used = true
		}
		r, ok := runPassive(p, holder, other)
		if !ok {
			continue
		}
		r.HolderID = holder.ID
		r.PassiveID = p.ID
		r.Trigger = trigger
		r.Kind = p.Effect.Kind
		out = append(out, r)
	}
	return out
}

func runPassive(p *Passive, holder, other *Character) (Reaction, bool) {
	switch p.Effect.Kind {
	case PassiveReflectDamage:
		if other == nil || other == holder || !holder.IsAlive() || !other.IsAlive() {
			return Reaction{}, false
		}
		res := absorbDamage(other, max(p.Effect.Value, 0), false)
		return Reaction{TargetID: other.ID, Amount: res.HealthDamage + res.ShieldAbsorbed}, true
	case PassiveGainShield:
		if !holder.IsAlive() {
			return Reaction{}, false
		}
		if p.Effect.Threshold > 0 && holder.HealthPercent() >= p.Effect.Threshold {
			return Reaction{}, false
		}
		before := holder.State.Shield
		holder.State.Shield = clamp(before+p.Effect.Value, 0, max(holder.Attributes.ShieldCapacity, 0))
		return Reaction{TargetID: holder.ID, Amount: holder.State.Shield - before}, true
	case PassiveRestoreAP:
		if !holder.IsAlive() {
			return Reaction{}, false
		}
		return Reaction{TargetID: holder.ID, Amount: addAP(holder, p.Effect.Value)}, true
	case PassiveHeal:
		if !holder.IsAlive() {
			return Reaction{}, false
		}
		return Reaction{TargetID: holder.ID, Amount: addHealth(holder, p.Effect.Value)}, true
	default:
		// Unknown and value-modifier kinds do nothing on reactive dispatch.
		return Reaction{}, false
	}
}

// consumeSurviveFatal marks c's first unused surviveFatal passive used.
//
// Postcondition: Returns true iff a passive was consumed.
func consumeSurviveFatal(c *Character) bool {
	for i := range c.Passives {
		p := &c.Passives[i]
		if p.Effect.Kind == PassiveSurviveFatal && !p.Used {
			p.Used = true
			return true
		}
	}
	return false
}
