package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// TuneOptions bounds the boss health search.
type TuneOptions struct {
	// TargetWinRate is the party win rate to reach, in [0, 1].
	TargetWinRate float64
	// Tolerance is the accepted distance from TargetWinRate.
	Tolerance  float64
	MinHealth  int
	MaxHealth  int
	Iterations int
}

// TuneStep records one batch of the search.
type TuneStep struct {
	Health  int
	Summary Summary
}

// TuneResult is the outcome of TuneBossHealth.
type TuneResult struct {
	// Health is the tested health whose win rate came closest to the target.
	Health  int
	WinRate float64
	// Converged is set when WinRate is within Tolerance of the target.
	Converged bool
	Steps     []TuneStep
}

// ScenarioFunc builds the scenario for a boss with the given max health.
type ScenarioFunc func(health int) (Scenario, error)

// TuneBossHealth binary-searches boss max health in [MinHealth, MaxHealth]
// for the party win rate closest to TargetWinRate. It assumes the win rate
// does not increase with boss health. Every batch uses the same seed so
// steps differ only in health.
//
// Precondition: build and logger must be non-nil.
// Postcondition: Returns every step taken and the best health seen, or the first error.
func TuneBossHealth(ctx context.Context, build ScenarioFunc, batch BatchOptions, opts TuneOptions, logger *zap.Logger) (TuneResult, error) {
	switch {
	case opts.MinHealth < 1 || opts.MaxHealth < opts.MinHealth:
		return TuneResult{}, fmt.Errorf("sim: invalid health range [%d, %d]", opts.MinHealth, opts.MaxHealth)
	case opts.Iterations < 1:
		return TuneResult{}, fmt.Errorf("sim: iterations must be >= 1, got %d", opts.Iterations)
	case opts.TargetWinRate < 0 || opts.TargetWinRate > 1:
		return TuneResult{}, fmt.Errorf("sim: target win rate must be in [0, 1], got %g", opts.TargetWinRate)
	}

	var res TuneResult
	bestDist := math.Inf(1)
	lo, hi := opts.MinHealth, opts.MaxHealth
	for range opts.Iterations {
		if lo > hi {
			break
		}
		health := lo + (hi-lo)/2
		sc, err := build(health)
		if err != nil {
			return res, fmt.Errorf("sim: building scenario at health %d: %w", health, err)
		}
		sum, err := RunBatch(ctx, sc, batch, logger)
		if err != nil {
			return res, err
		}
		res.Steps = append(res.Steps, TuneStep{Health: health, Summary: sum})
		logger.Info("tune step",
			zap.Int("step", len(res.Steps)),
			zap.Int("health", health),
			zap.Float64("win_rate", sum.WinRate),
			zap.Int("lo", lo),
			zap.Int("hi", hi),
		)

		dist := math.Abs(sum.WinRate - opts.TargetWinRate)
		if dist < bestDist {
			bestDist = dist
			res.Health, res.WinRate = health, sum.WinRate
		}
		if dist <= opts.Tolerance {
			res.Converged = true
			break
		}
		if sum.WinRate > opts.TargetWinRate {
			lo = health + 1
		} else {
			hi = health - 1
		}
	}
	return res, nil
}
