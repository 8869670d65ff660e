package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/bossfight/internal/game/ai"
	"github.com/cory-johannsen/bossfight/internal/game/combat"
	"github.com/cory-johannsen/bossfight/internal/game/dice"
	"github.com/cory-johannsen/bossfight/internal/scripting"
)

// Scenario is the party and enemy every fight of a batch starts from.
type Scenario struct {
	Players []combat.Character
	Enemy   combat.EnemyDefinition
	// ScriptPath is a Lua file driving the boss; empty leaves the boss to the heuristic.
	ScriptPath string
}

// BatchOptions sizes a batch.
type BatchOptions struct {
	Fights   int
	Workers  int
	MaxTurns int
	// Seed is the base seed; fight i draws from a source seeded with Seed+i.
	Seed uint64
	// InstructionLimit is the per-hook Lua budget; 0 uses the scripting default.
	InstructionLimit int
}

func (o BatchOptions) validate() error {
	switch {
	case o.Fights < 1:
		return fmt.Errorf("sim: fights must be >= 1, got %d", o.Fights)
	case o.Workers < 1:
		return fmt.Errorf("sim: workers must be >= 1, got %d", o.Workers)
	case o.MaxTurns < 1:
		return fmt.Errorf("sim: max turns must be >= 1, got %d", o.MaxTurns)
	}
	return nil
}

// RunBatch simulates opts.Fights fights of sc across opts.Workers goroutines.
// Each worker owns its own Lua VMs. Results depend only on sc and opts.Seed,
// never on the worker count, as long as boss scripts keep no global state
// between calls.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns the summary of every fight, or the first error.
func RunBatch(ctx context.Context, sc Scenario, opts BatchOptions, logger *zap.Logger) (Summary, error) {
	if err := opts.validate(); err != nil {
		return Summary{}, err
	}
	runID := uuid.NewString()
	start := time.Now()
	reports := make([]FightReport, opts.Fights)

	g, gctx := errgroup.WithContext(ctx)
	indices := make(chan int)
	g.Go(func() error {
		defer close(indices)
		for i := range opts.Fights {
			select {
			case indices <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for range min(opts.Workers, opts.Fights) {
		g.Go(func() error {
			policy, release, err := newPolicy(sc, opts.InstructionLimit, logger)
			if err != nil {
				return err
			}
			defer release()
			for i := range indices {
				seed := opts.Seed + uint64(i)
				r, err := RunFight(gctx, sc.Players, sc.Enemy, policy, dice.NewSeededSource(seed), opts.MaxTurns)
				if err != nil {
					return fmt.Errorf("sim: fight %d: %w", i, err)
				}
				r.Seed = seed
				reports[i] = r
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summarize(reports)
	sum.RunID = runID
	logger.Info("batch complete",
		zap.String("run_id", runID),
		zap.String("boss", sc.Enemy.Boss.ID),
		zap.Int("boss_health", sc.Enemy.Boss.Attributes.MaxHealth),
		zap.Int("fights", sum.Fights),
		zap.Float64("win_rate", sum.WinRate),
		zap.Float64("avg_turns", sum.AvgTurns),
		zap.Int("timeouts", sum.Timeouts),
		zap.Duration("elapsed", time.Since(start)),
	)
	return sum, nil
}

// newPolicy builds one worker's policy: the boss script when sc names one,
// the heuristic for everyone else.
func newPolicy(sc Scenario, instLimit int, logger *zap.Logger) (ai.Policy, func(), error) {
	reg := ai.NewRegistry(ai.HeuristicPolicy{})
	if sc.ScriptPath == "" {
		return reg, func() {}, nil
	}
	mgr := scripting.NewManager(logger, instLimit)
	key := sc.Enemy.Boss.ID
	if err := mgr.LoadFile(key, sc.ScriptPath); err != nil {
		mgr.Close()
		return nil, nil, err
	}
	if err := reg.Register(key, ai.NewScriptPolicy(mgr, key, ai.HeuristicPolicy{}, logger)); err != nil {
		mgr.Close()
		return nil, nil, err
	}
	return reg, mgr.Close, nil
}
