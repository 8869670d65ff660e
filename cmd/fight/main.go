// Package main provides an interactive text driver for a single boss fight:
// the user plays the party, the AI plays the boss and its minions.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/bossfight/internal/config"
	"github.com/cory-johannsen/bossfight/internal/game/ai"
	"github.com/cory-johannsen/bossfight/internal/game/catalog"
	"github.com/cory-johannsen/bossfight/internal/game/combat"
	"github.com/cory-johannsen/bossfight/internal/game/dice"
	"github.com/cory-johannsen/bossfight/internal/observability"
	"github.com/cory-johannsen/bossfight/internal/scripting"
	"github.com/cory-johannsen/bossfight/internal/sim"
)

func main() {
	configPath := flag.String("config", "configs/tuner.yaml", "path to configuration file")
	bossID := flag.String("boss", "", "boss id; overrides simulation.boss")
	health := flag.Int("health", 0, "boss max health; 0 keeps the catalog value")
	partySpec := flag.String("party", "", "comma-separated class:level list, e.g. warrior:3,cleric:3; overrides simulation.party")
	seed := flag.Uint64("seed", 0, "seed for a reproducible fight; 0 draws from crypto/rand")
	auto := flag.Bool("auto", false, "let the AI play the party too")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	reg, err := catalog.Load(cfg.Content.ClassesDir, cfg.Content.BossesDir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	boss := cfg.Simulation.Boss
	if *bossID != "" {
		boss = *bossID
	}
	party := make([]catalog.Build, 0, len(cfg.Simulation.Party))
	for _, m := range cfg.Simulation.Party {
		party = append(party, catalog.Build{Class: m.Class, Level: m.Level})
	}
	if *partySpec != "" {
		if party, err = parseParty(*partySpec); err != nil {
			log.Fatalf("parsing -party: %v", err)
		}
	}
	scriptsDir := ""
	if cfg.Scripting.Enabled {
		scriptsDir = cfg.Content.ScriptsDir
	}
	sc, err := sim.NewScenario(reg, sim.Party(party...), boss, *health, scriptsDir)
	if err != nil {
		logger.Fatal("building scenario", zap.Error(err))
	}

	var src combat.Source = dice.NewCryptoSource()
	if *seed > 0 {
		src = dice.NewSeededSource(*seed)
	}
	src = dice.NewLoggedSource(src, logger)

	policy := ai.NewRegistry(ai.HeuristicPolicy{})
	if sc.ScriptPath != "" {
		mgr := scripting.NewManager(logger, cfg.Scripting.InstructionLimit)
		defer mgr.Close()
		if err := mgr.LoadFile(boss, sc.ScriptPath); err != nil {
			logger.Fatal("loading boss script", zap.Error(err))
		}
		if err := policy.Register(boss, ai.NewScriptPolicy(mgr, boss, ai.HeuristicPolicy{}, logger)); err != nil {
			logger.Fatal("registering boss script", zap.Error(err))
		}
	}

	s, err := combat.CreateFight(sc.Players, sc.Enemy, src)
	if err != nil {
		logger.Fatal("creating fight", zap.Error(err))
	}
	s.ID = uuid.NewString()

	d := &driver{
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
		policy:   policy,
		src:      src,
		logger:   logger,
		auto:     *auto,
		maxTurns: cfg.Simulation.MaxTurns,
	}
	if _, err := d.run(s); err != nil {
		if errors.Is(err, errQuit) {
			fmt.Println("\nFight abandoned.")
			return
		}
		logger.Fatal("running fight", zap.Error(err))
	}
}

// parseParty reads "class:level,class:level". A missing level means 1.
func parseParty(spec string) ([]catalog.Build, error) {
	var out []catalog.Build
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		class, lvl, found := strings.Cut(part, ":")
		b := catalog.Build{Class: class, Level: 1}
		if found {
			n, err := strconv.Atoi(lvl)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("bad level in %q", part)
			}
			b.Level = n
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, errors.New("party is empty")
	}
	return out, nil
}
