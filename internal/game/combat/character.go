// Package combat implements the party-vs-boss combat resolution engine.
//
// Every exported operation takes the FightState and random source explicitly;
// the package holds no mutable globals, so independent fights may run on
// independent goroutines.
package combat

// Role distinguishes the three kinds of fight participant.
type Role string

const (
	RolePlayer Role = "player"
	RoleBoss   Role = "boss"
	RoleMinion Role = "minion"
)

// IsEnemy reports whether r fights on the boss's side.
func (r Role) IsEnemy() bool { return r == RoleBoss || r == RoleMinion }

// Attributes are a character's baseline numbers. They only change through
// modifyAttribute effects or external level-up allocation.
type Attributes struct {
	MaxHealth      int `json:"maxHealth" yaml:"max_health"`
	MaxAP          int `json:"maxAP" yaml:"max_ap"`
	Power          int `json:"power" yaml:"power"`
	ShieldCapacity int `json:"shieldCapacity" yaml:"shield_capacity"`
	ShieldStrength int `json:"shieldStrength" yaml:"shield_strength"`
	// Dexterity is accuracy on a 0-100 scale.
	Dexterity int `json:"dexterity" yaml:"dexterity"`
	// Evasiveness is dodge on a 0-100 scale. Negative values (provoke)
	// make the character easier to hit.
	Evasiveness int `json:"evasiveness" yaml:"evasiveness"`
}

// Add returns the field-wise sum of a and b.
func (a Attributes) Add(b Attributes) Attributes {
	return Attributes{
		MaxHealth:      a.MaxHealth + b.MaxHealth,
		MaxAP:          a.MaxAP + b.MaxAP,
		Power:          a.Power + b.Power,
		ShieldCapacity: a.ShieldCapacity + b.ShieldCapacity,
		ShieldStrength: a.ShieldStrength + b.ShieldStrength,
		Dexterity:      a.Dexterity + b.Dexterity,
		Evasiveness:    a.Evasiveness + b.Evasiveness,
	}
}

// State is the mutable per-fight resource pool of a character.
//
// Invariant: 0 <= Health <= MaxHealth, 0 <= AP <= MaxAP, 0 <= Shield <= ShieldCapacity.
// Invariant: Alive == false iff Health reached 0 without a surviveFatal intercept.
type State struct {
	Health int  `json:"health"`
	AP     int  `json:"ap"`
	Shield int  `json:"shield"`
	Alive  bool `json:"alive"`
}

// Character is one fight participant.
type Character struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
	// Class and Level are only meaningful for players.
	Class string `json:"class,omitempty"`
	Level int    `json:"level,omitempty"`
	// OwnerID is the id of the character that spawned this minion.
	OwnerID    string     `json:"ownerId,omitempty"`
	Attributes Attributes `json:"attributes"`
	State      State      `json:"state"`
	Actions    []Action   `json:"actions"`
	Passives   []Passive  `json:"passives,omitempty"`
}

// IsAlive reports whether c can still act and be targeted.
func (c *Character) IsAlive() bool { return c.State.Alive }

// IsEnemy reports whether c fights on the boss's side.
func (c *Character) IsEnemy() bool { return c.Role.IsEnemy() }

// IsOpponent reports whether c and other fight on opposite sides.
func (c *Character) IsOpponent(other *Character) bool {
	return c.IsEnemy() != other.IsEnemy()
}

// HealthPercent returns current health as a percentage of MaxHealth.
//
// Postcondition: Returns 0 when MaxHealth <= 0.
func (c *Character) HealthPercent() float64 {
	if c.Attributes.MaxHealth <= 0 {
		return 0
	}
	return float64(c.State.Health) * 100 / float64(c.Attributes.MaxHealth)
}

// Action returns the action with the given id, or nil.
func (c *Character) Action(id string) *Action {
	for i := range c.Actions {
		if c.Actions[i].ID == id {
			return &c.Actions[i]
		}
	}
	return nil
}

// Fill sets health and AP to their maxima, clears shield and marks c alive.
func (c *Character) Fill() {
	c.State = State{
		Health: max(c.Attributes.MaxHealth, 0),
		AP:     max(c.Attributes.MaxAP, 0),
		Alive:  c.Attributes.MaxHealth > 0,
	}
}

// Clone returns a deep copy of c. Per-fight counters on actions and passives
// are copied, never shared; effect lists are immutable definitions and stay shared.
func (c *Character) Clone() *Character {
	cp := *c
	cp.Actions = append([]Action(nil), c.Actions...)
	cp.Passives = append([]Passive(nil), c.Passives...)
	return &cp
}

// clampState re-establishes the resource invariants after a capacity change.
// A drop to 0 health is left for the caller to settle.
func (c *Character) clampState() {
	c.State.Health = clamp(c.State.Health, 0, max(c.Attributes.MaxHealth, 0))
	c.State.AP = clamp(c.State.AP, 0, max(c.Attributes.MaxAP, 0))
	c.State.Shield = clamp(c.State.Shield, 0, max(c.Attributes.ShieldCapacity, 0))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
