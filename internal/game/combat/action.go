package combat

// Basic action ids the engine treats specially. Every other action id is opaque data.
const (
	// ActionRest is the player AP-recovery action; secondWind passives add healing to it.
	ActionRest = "rest"
	// ActionShield cannot be used while the actor's shield is at capacity.
	ActionShield = "shield"
)

// TargetKind selects how an action's targets are found.
type TargetKind string

const (
	TargetSelf       TargetKind = "self"
	TargetManual     TargetKind = "manual"
	TargetRandom     TargetKind = "random"
	TargetAllParty   TargetKind = "allParty"
	TargetAllEnemies TargetKind = "allEnemies"
)

// Valid reports whether k is one of the known target kinds.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetSelf, TargetManual, TargetRandom, TargetAllParty, TargetAllEnemies:
		return true
	default:
		return false
	}
}

// Action is a usable ability definition plus its per-fight usage counter.
type Action struct {
	ID     string     `json:"id" yaml:"id"`
	Name   string     `json:"name" yaml:"name"`
	Cost   int        `json:"cost" yaml:"cost"`
	Target TargetKind `json:"target" yaml:"target"`
	// Hits is the number of wheel spins for random actions. Values < 1 mean 1.
	Hits          int      `json:"hits,omitempty" yaml:"hits"`
	TargetEffects []Effect `json:"targetEffects,omitempty" yaml:"target_effects"`
	SelfEffects   []Effect `json:"selfEffects,omitempty" yaml:"self_effects"`
	// MaxUses limits uses per fight; 0 means unlimited.
	MaxUses       int `json:"maxUses,omitempty" yaml:"max_uses"`
	UsesRemaining int `json:"usesRemaining,omitempty" yaml:"-"`
}

// Limited reports whether a has a per-fight use limit.
func (a *Action) Limited() bool { return a.MaxUses > 0 }

// HitCount returns the number of independent target resolutions for a random action.
//
// Postcondition: Returns >= 1.
func (a *Action) HitCount() int {
	if a.Hits < 1 {
		return 1
	}
	return a.Hits
}

// EffectKind tags the Effect variant.
type EffectKind string

const (
	EffectDamage          EffectKind = "damage"
	EffectHeal            EffectKind = "heal"
	EffectAddShield       EffectKind = "addShield"
	EffectModifyAP        EffectKind = "modifyAP"
	EffectRemoveShield    EffectKind = "removeShield"
	EffectRevive          EffectKind = "revive"
	EffectSpawnMinion     EffectKind = "spawnMinion"
	EffectModifyAttribute EffectKind = "modifyAttribute"
)

// Valid reports whether k is one of the known effect kinds.
func (k EffectKind) Valid() bool {
	switch k {
	case EffectDamage, EffectHeal, EffectAddShield, EffectModifyAP, EffectRemoveShield,
		EffectRevive, EffectSpawnMinion, EffectModifyAttribute:
		return true
	default:
		return false
	}
}

// Effect is declarative effect data; only the fields relevant to Kind are read.
type Effect struct {
	Kind   EffectKind `json:"kind" yaml:"kind"`
	Amount int        `json:"amount,omitempty" yaml:"amount"`
	// Piercing damage bypasses shields.
	Piercing bool `json:"piercing,omitempty" yaml:"piercing"`
	// Drain heals by the health damage dealt earlier in the same action.
	Drain bool `json:"drain,omitempty" yaml:"drain"`
	// Attribute names the attribute changed by modifyAttribute.
	Attribute string `json:"attribute,omitempty" yaml:"attribute"`
	// Count is the number of minions requested by spawnMinion.
	Count int `json:"count,omitempty" yaml:"count"`
}

// Attribute names accepted by modifyAttribute effects.
const (
	AttrMaxHealth      = "maxHealth"
	AttrMaxAP          = "maxAP"
	AttrPower          = "power"
	AttrShieldCapacity = "shieldCapacity"
	AttrShieldStrength = "shieldStrength"
	AttrDexterity      = "dexterity"
	AttrEvasiveness    = "evasiveness"
)

// attributeField returns a pointer to the named attribute, or nil when unknown.
func attributeField(a *Attributes, name string) *int {
	switch name {
	case AttrMaxHealth:
		return &a.MaxHealth
	case AttrMaxAP:
		return &a.MaxAP
	case AttrPower:
		return &a.Power
	case AttrShieldCapacity:
		return &a.ShieldCapacity
	case AttrShieldStrength:
		return &a.ShieldStrength
	case AttrDexterity:
		return &a.Dexterity
	case AttrEvasiveness:
		return &a.Evasiveness
	default:
		return nil
	}
}

// KnownAttribute reports whether name is accepted by modifyAttribute.
func KnownAttribute(name string) bool {
	var a Attributes
	return attributeField(&a, name) != nil
}
