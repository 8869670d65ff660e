// Package main provides the tuner binary: Monte Carlo batches of boss fights
// and a binary search for the boss health that yields a target win rate.
//
// Usage:
//
//	tuner run  [-config path] [-boss id] [-health n] [-fights n] [-seed n]
//	tuner tune [-config path] [-boss id] [-target rate] [-fights n] [-seed n]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bossfight/internal/config"
	"github.com/cory-johannsen/bossfight/internal/game/catalog"
	"github.com/cory-johannsen/bossfight/internal/observability"
	"github.com/cory-johannsen/bossfight/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	switch cmd {
	case "run", "tune":
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", "configs/tuner.yaml", "path to configuration file")
	boss := fs.String("boss", "", "boss id; overrides simulation.boss")
	health := fs.Int("health", 0, "boss max health for run; 0 keeps the catalog value")
	target := fs.Float64("target", -1, "target win rate for tune; overrides simulation.target_win_rate")
	fights := fs.Int("fights", 0, "fights per batch; overrides simulation.fights")
	seed := fs.Uint64("seed", 0, "base seed; overrides simulation.seed")
	_ = fs.Parse(os.Args[2:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	simCfg := cfg.Simulation
	if *boss != "" {
		simCfg.Boss = *boss
	}
	if *target >= 0 {
		simCfg.TargetWinRate = *target
	}
	if *fights > 0 {
		simCfg.Fights = *fights
	}
	if *seed > 0 {
		simCfg.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadStart := time.Now()
	reg, err := catalog.Load(cfg.Content.ClassesDir, cfg.Content.BossesDir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Strings("classes", reg.ClassIDs()),
		zap.Strings("bosses", reg.BossIDs()),
		zap.Duration("elapsed", time.Since(loadStart)),
	)
	if simCfg.Boss == "" {
		logger.Fatal("no boss selected; set simulation.boss or -boss")
	}

	scriptsDir := ""
	if cfg.Scripting.Enabled {
		scriptsDir = cfg.Content.ScriptsDir
	}
	party := partyBuilds(simCfg.Party)
	build := func(h int) (sim.Scenario, error) {
		return sim.NewScenario(reg, party, simCfg.Boss, h, scriptsDir)
	}
	batch := sim.BatchOptions{
		Fights:           simCfg.Fights,
		Workers:          simCfg.Workers,
		MaxTurns:         simCfg.MaxTurns,
		Seed:             simCfg.Seed,
		InstructionLimit: cfg.Scripting.InstructionLimit,
	}

	switch cmd {
	case "run":
		sc, err := build(*health)
		if err != nil {
			logger.Fatal("building scenario", zap.Error(err))
		}
		sum, err := sim.RunBatch(ctx, sc, batch, logger)
		if err != nil {
			logger.Fatal("running batch", zap.Error(err))
		}
		printSummary(sc.Enemy.Boss.Attributes.MaxHealth, sum)
	case "tune":
		res, err := sim.TuneBossHealth(ctx, build, batch, sim.TuneOptions{
			TargetWinRate: simCfg.TargetWinRate,
			Tolerance:     simCfg.Tolerance,
			MinHealth:     simCfg.MinHealth,
			MaxHealth:     simCfg.MaxHealth,
			Iterations:    simCfg.Iterations,
		}, logger)
		if err != nil {
			logger.Fatal("tuning boss health", zap.Error(err))
		}
		for i, step := range res.Steps {
			fmt.Printf("step %2d  health %5d  win rate %.3f\n", i+1, step.Health, step.Summary.WinRate)
		}
		status := "best effort"
		if res.Converged {
			status = "converged"
		}
		fmt.Printf("\n%s: boss %s health %d (win rate %.3f, target %.3f)\n",
			status, simCfg.Boss, res.Health, res.WinRate, simCfg.TargetWinRate)
	}
}

func partyBuilds(members []config.PartyMember) []catalog.Build {
	builds := make([]catalog.Build, 0, len(members))
	for _, m := range members {
		builds = append(builds, catalog.Build{Class: m.Class, Level: m.Level})
	}
	return sim.Party(builds...)
}

func printSummary(health int, sum sim.Summary) {
	fmt.Printf("run %s: %d fights at boss health %d\n", sum.RunID, sum.Fights, health)
	fmt.Printf("  wins %d  losses %d  timeouts %d  win rate %.3f\n", sum.Wins, sum.Losses, sum.Timeouts, sum.WinRate)
	fmt.Printf("  turns avg %.1f  min %d  max %d  rounds avg %.1f\n", sum.AvgTurns, sum.MinTurns, sum.MaxTurns, sum.AvgRounds)
	fmt.Printf("  surviving players avg %.2f\n", sum.AvgSurvivors)
	classes := make([]string, 0, len(sum.DamageShare))
	for c := range sum.DamageShare {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	for _, c := range classes {
		fmt.Printf("  damage share %-10s %5.1f%%\n", c, sum.DamageShare[c]*100)
	}
}

func printUsage() {
	fmt.Println(`tuner: boss fight balance simulator

Usage: tuner <command> [options]

Commands:
  run   Simulate one batch at the configured (or -health) boss health
  tune  Binary-search boss health for the target party win rate

Examples:
  tuner run -boss dragon -health 800 -fights 2000
  tuner tune -config configs/tuner.yaml -target 0.55`)
}
