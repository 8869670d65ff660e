package combat

// ResolveTargets maps action's target specification to concrete targets.
// Random actions spin the wheel HitCount times against the opposing living
// pool captured once before the first spin; a miss contributes no target, and
// the same character may appear more than once.
//
// Precondition: state, actor and action must be non-nil; src must be non-nil for random actions.
// Postcondition: Returns the targets in resolution order and one WheelResult per spin.
func ResolveTargets(state *FightState, actor *Character, action *Action, manualTargetID string, src Source) ([]*Character, []WheelResult) {
	switch EffectiveTarget(actor, action) {
	case TargetSelf:
		return []*Character{actor}, nil
	case TargetManual:
		t := state.Character(manualTargetID)
		if t == nil {
			return nil, nil
		}
		if action.Target == TargetRandom {
			// precision: every hit lands on the chosen target
			targets := make([]*Character, action.HitCount())
			for i := range targets {
				targets[i] = t
			}
			return targets, nil
		}
		return []*Character{t}, nil
	case TargetAllParty:
		return state.Allies(actor), nil
	case TargetAllEnemies:
		return state.Opponents(actor), nil
	case TargetRandom:
		pool := state.Opponents(actor)
		sectors := BuildSectors(actor, pool)
		byID := make(map[string]*Character, len(pool))
		for _, c := range pool {
			byID[c.ID] = c
		}
		var targets []*Character
		trace := make([]WheelResult, 0, action.HitCount())
		for range action.HitCount() {
			spin := Spin(sectors, src)
			trace = append(trace, spin)
			if spin.Hit {
				targets = append(targets, byID[spin.TargetID])
			}
		}
		return targets, trace
	default:
		return nil, nil
	}
}
