package combat

// Reason explains why an action cannot be executed.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonActorDead       Reason = "actor is dead"
	ReasonInsufficientAP  Reason = "insufficient AP"
	ReasonShieldFull      Reason = "shield is at capacity"
	ReasonNoUsesRemaining Reason = "no uses remaining"
	ReasonFightOver       Reason = "fight is over"
	ReasonUnknownActor    Reason = "unknown actor"
	ReasonUnknownAction   Reason = "unknown action"
)

// ValidationError adapts a Reason to the error interface.
type ValidationError struct {
	ActorID  string
	ActionID string
	Reason   Reason
}

func (e *ValidationError) Error() string {
	return "combat: " + e.ActorID + " cannot use " + e.ActionID + ": " + string(e.Reason)
}

// Check is the result of CanExecute.
type Check struct {
	OK     bool   `json:"ok"`
	Reason Reason `json:"reason,omitempty"`
}

// CanExecute reports whether actor may use action right now. It never mutates its arguments.
//
// Postcondition: Returns OK=true, or OK=false with the first failing Reason.
func CanExecute(actor *Character, action *Action) Check {
	switch {
	case actor == nil:
		return Check{Reason: ReasonUnknownActor}
	case action == nil:
		return Check{Reason: ReasonUnknownAction}
	case !actor.IsAlive():
		return Check{Reason: ReasonActorDead}
	case actor.State.AP < EffectiveCost(actor, action):
		return Check{Reason: ReasonInsufficientAP}
	case action.ID == ActionShield && actor.State.Shield >= actor.Attributes.ShieldCapacity:
		return Check{Reason: ReasonShieldFull}
	case action.Limited() && action.UsesRemaining <= 0:
		return Check{Reason: ReasonNoUsesRemaining}
	}
	return Check{OK: true}
}

// Request names the action to execute.
type Request struct {
	ActorID  string `json:"actorId"`
	ActionID string `json:"actionId"`
	// TargetID is the manual target; ignored for other target kinds.
	TargetID string `json:"targetId,omitempty"`
}

// ActionResult is the full record of one Execute call.
type ActionResult struct {
	Success  bool   `json:"success"`
	Reason   Reason `json:"reason,omitempty"`
	ActorID  string `json:"actorId"`
	ActionID string `json:"actionId"`
	APSpent  int    `json:"apSpent"`
	// TargetEffects holds one entry per (target, effect) pair in application order.
	TargetEffects []EffectResult `json:"targetEffects,omitempty"`
	SelfEffects   []EffectResult `json:"selfEffects,omitempty"`
	Wheel         []WheelResult  `json:"wheel,omitempty"`
	Spawned       []string       `json:"spawned,omitempty"`
	FightOver     bool           `json:"fightOver"`
	Outcome       Result         `json:"outcome"`
}

// Err returns a *ValidationError for failed results and nil otherwise.
func (r ActionResult) Err() error {
	if r.Success {
		return nil
	}
	return &ValidationError{ActorID: r.ActorID, ActionID: r.ActionID, Reason: r.Reason}
}

// HealthDamage returns the health damage dealt by target effects.
func (r ActionResult) HealthDamage() int {
	total := 0
	for _, e := range r.TargetEffects {
		total += e.HealthDamage
	}
	return total
}

// Execute resolves one action: validate, deduct the effective cost, resolve
// targets, apply target effects, apply self effects, then check for fight end.
//
// A failed validation returns s itself, unmodified, and a result with Success=false.
// The cost is not refunded when the action lands on zero targets.
//
// Precondition: s and src must be non-nil.
// Postcondition: s is never mutated; on success the returned state is a new value.
func Execute(s *FightState, req Request, src Source) (*FightState, ActionResult) {
	res := ActionResult{ActorID: req.ActorID, ActionID: req.ActionID, Outcome: s.Result}
	if s.Over {
		res.Reason = ReasonFightOver
		res.FightOver = true
		return s, res
	}
	actor := s.Character(req.ActorID)
	if actor == nil {
		res.Reason = ReasonUnknownActor
		return s, res
	}
	action := actor.Action(req.ActionID)
	if check := CanExecute(actor, action); !check.OK {
		res.Reason = check.Reason
		return s, res
	}

	next := s.Clone()
	actor = next.Character(req.ActorID)
	action = actor.Action(req.ActionID)

	cost := EffectiveCost(actor, action)
	actor.State.AP -= cost
	if action.Limited() {
		action.UsesRemaining--
	}
	res.Success = true
	res.APSpent = cost

	targets, wheel := ResolveTargets(next, actor, action, req.TargetID, src)
	res.Wheel = wheel

	for _, target := range targets {
		for _, eff := range action.TargetEffects {
			res.TargetEffects = append(res.TargetEffects, applyWithSpawn(next, actor, target, eff))
		}
	}

	drained := res.HealthDamage()
	for _, eff := range action.SelfEffects {
		if eff.Kind == EffectHeal && eff.Drain {
			eff.Amount = drained
		}
		res.SelfEffects = append(res.SelfEffects, applyWithSpawn(next, actor, actor, eff))
	}

	if action.ID == ActionRest && actor.IsAlive() {
		if bonus := sumAlways(actor, PassiveSecondWind); bonus > 0 {
			r := ApplyEffect(actor, Effect{Kind: EffectHeal, Amount: bonus}, nil)
			res.SelfEffects = append(res.SelfEffects, r)
		}
	}

	for _, e := range append(append([]EffectResult(nil), res.TargetEffects...), res.SelfEffects...) {
		res.Spawned = append(res.Spawned, e.Spawned...)
	}

	next.checkFightEnd()
	res.FightOver = next.Over
	res.Outcome = next.Result
	return next, res
}

// applyWithSpawn applies eff to target on behalf of actor, realizing spawnMinion
// requests against the whole fight.
func applyWithSpawn(s *FightState, actor, target *Character, eff Effect) EffectResult {
	if eff.Kind != EffectSpawnMinion {
		return ApplyEffect(target, eff, actor)
	}
	r := EffectResult{TargetID: actor.ID, Kind: eff.Kind, Requested: max(eff.Count, 0)}
	if !actor.IsAlive() {
		r.Skipped = true
		return r
	}
	r.Spawned = s.spawnMinions(actor, r.Requested)
	r.Amount = len(r.Spawned)
	return r
}
