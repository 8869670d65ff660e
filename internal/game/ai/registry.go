package ai

import (
	"fmt"

	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// Registry indexes Policies by character ID and routes everyone else to a
// default policy. A Registry is itself a Policy.
//
// Invariant: each character ID is registered at most once.
type Registry struct {
	policies map[string]Policy
	fallback Policy
}

// NewRegistry returns an empty Registry that uses fallback for unregistered
// characters. A nil fallback means HeuristicPolicy.
func NewRegistry(fallback Policy) *Registry {
	if fallback == nil {
		fallback = HeuristicPolicy{}
	}
	return &Registry{policies: make(map[string]Policy), fallback: fallback}
}

// Register stores policy for characterID.
//
// Precondition: policy must not be nil.
// Postcondition: returns error on character ID collision.
func (r *Registry) Register(characterID string, policy Policy) error {
	if policy == nil {
		return fmt.Errorf("ai.Registry: nil policy for %q", characterID)
	}
	if _, exists := r.policies[characterID]; exists {
		return fmt.Errorf("ai.Registry: character %q already registered", characterID)
	}
	r.policies[characterID] = policy
	return nil
}

// PolicyFor returns the policy for characterID, or false if only the fallback applies.
func (r *Registry) PolicyFor(characterID string) (Policy, bool) {
	p, ok := r.policies[characterID]
	return p, ok
}

// Choose implements Policy.
func (r *Registry) Choose(s *combat.FightState, actorID string) (Decision, bool) {
	if p, ok := r.policies[actorID]; ok {
		return p.Choose(s, actorID)
	}
	return r.fallback.Choose(s, actorID)
}
