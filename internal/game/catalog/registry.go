package catalog

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// Build selects a class and level for one player slot.
type Build struct {
	ID    string
	Name  string
	Class string
	Level int
	// Allocation is the externally chosen level-up attribute spend.
	Allocation combat.Attributes
}

// Registry holds all known classes and bosses keyed by id.
type Registry struct {
	classes map[string]*ClassDef
	bosses  map[string]*BossDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*ClassDef),
		bosses:  make(map[string]*BossDef),
	}
}

// RegisterClass adds def to the registry.
//
// Precondition: def must be non-nil.
// Postcondition: Returns an error if a class with the same id is already registered.
func (r *Registry) RegisterClass(def *ClassDef) error {
	if _, ok := r.classes[def.ID]; ok {
		return fmt.Errorf("duplicate class %q", def.ID)
	}
	r.classes[def.ID] = def
	return nil
}

// RegisterBoss adds def to the registry.
//
// Precondition: def must be non-nil.
// Postcondition: Returns an error if a boss with the same id is already registered.
func (r *Registry) RegisterBoss(def *BossDef) error {
	if _, ok := r.bosses[def.ID]; ok {
		return fmt.Errorf("duplicate boss %q", def.ID)
	}
	r.bosses[def.ID] = def
	return nil
}

// Class returns the ClassDef for id, or (nil, false) if not found.
func (r *Registry) Class(id string) (*ClassDef, bool) {
	d, ok := r.classes[id]
	return d, ok
}

// Boss returns the BossDef for id, or (nil, false) if not found.
func (r *Registry) Boss(id string) (*BossDef, bool) {
	d, ok := r.bosses[id]
	return d, ok
}

// ClassIDs returns the registered class ids in sorted order.
func (r *Registry) ClassIDs() []string {
	return sortedKeys(r.classes)
}

// BossIDs returns the registered boss ids in sorted order.
func (r *Registry) BossIDs() []string {
	return sortedKeys(r.bosses)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Player resolves b into a fight-ready player character: base attributes plus
// one PerLevel step per level above 1 plus the allocation, and every action
// and passive unlocked at or below the build's level.
//
// Precondition: b.Level >= 1.
// Postcondition: Returns a character with Role player, or an error for an unknown class.
func (r *Registry) Player(b Build) (combat.Character, error) {
	def, ok := r.classes[b.Class]
	if !ok {
		return combat.Character{}, fmt.Errorf("unknown class %q", b.Class)
	}
	if b.Level < 1 {
		return combat.Character{}, fmt.Errorf("player %q: level must be >= 1, got %d", b.ID, b.Level)
	}
	attrs := def.Base
	for range b.Level - 1 {
		attrs = attrs.Add(def.PerLevel)
	}
	attrs = attrs.Add(b.Allocation)

	name := b.Name
	if name == "" {
		name = def.Name
	}
	c := combat.Character{
		ID:         b.ID,
		Name:       name,
		Role:       combat.RolePlayer,
		Class:      def.ID,
		Level:      b.Level,
		Attributes: attrs,
		Actions:    append([]combat.Action(nil), def.Actions...),
		Passives:   append([]combat.Passive(nil), def.Passives...),
	}
	for _, u := range def.Unlocks {
		if u.Level <= b.Level {
			c.Actions = append(c.Actions, u.Actions...)
			c.Passives = append(c.Passives, u.Passives...)
		}
	}
	return c, nil
}

// Enemy resolves the boss with the given id into an EnemyDefinition. A
// positive healthOverride replaces the boss's max health.
//
// Postcondition: Returns the enemy side of a fight, or an error for an unknown boss.
func (r *Registry) Enemy(bossID string, healthOverride int) (combat.EnemyDefinition, error) {
	def, ok := r.bosses[bossID]
	if !ok {
		return combat.EnemyDefinition{}, fmt.Errorf("unknown boss %q", bossID)
	}
	attrs := def.Attributes
	if healthOverride > 0 {
		attrs.MaxHealth = healthOverride
	}
	enemy := combat.EnemyDefinition{
		Boss: combat.Character{
			ID:         def.ID,
			Name:       def.Name,
			Role:       combat.RoleBoss,
			Attributes: attrs,
			Actions:    append([]combat.Action(nil), def.Actions...),
			Passives:   append([]combat.Passive(nil), def.Passives...),
		},
	}
	if def.Minion == nil {
		return enemy, nil
	}
	tmpl := def.Minion.character(def.ID)
	enemy.MinionTemplate = &tmpl
	for i := range def.StartingMinions {
		m := def.Minion.character(def.ID)
		m.ID = fmt.Sprintf("%s-guard-%d", def.ID, i+1)
		m.Name = fmt.Sprintf("%s Guard %d", def.Minion.Name, i+1)
		enemy.Minions = append(enemy.Minions, m)
	}
	return enemy, nil
}

func (m *MinionDef) character(ownerID string) combat.Character {
	return combat.Character{
		ID:         m.ID,
		Name:       m.Name,
		Role:       combat.RoleMinion,
		OwnerID:    ownerID,
		Attributes: m.Attributes,
		Actions:    append([]combat.Action(nil), m.Actions...),
		Passives:   append([]combat.Passive(nil), m.Passives...),
	}
}
