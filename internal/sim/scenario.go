package sim

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cory-johannsen/bossfight/internal/game/catalog"
	"github.com/cory-johannsen/bossfight/internal/game/combat"
)

// NewScenario resolves a party and a boss from reg. A positive health
// replaces the boss's max health. The boss script is looked up under
// scriptsDir; an empty scriptsDir disables scripting.
//
// Precondition: reg must be non-nil.
// Postcondition: Returns an error for unknown classes or bosses, or an empty party.
func NewScenario(reg *catalog.Registry, party []catalog.Build, bossID string, health int, scriptsDir string) (Scenario, error) {
	if len(party) == 0 {
		return Scenario{}, errors.New("sim: party is empty")
	}
	sc := Scenario{Players: make([]combat.Character, 0, len(party))}
	for _, b := range party {
		p, err := reg.Player(b)
		if err != nil {
			return Scenario{}, fmt.Errorf("sim: player %q: %w", b.ID, err)
		}
		sc.Players = append(sc.Players, p)
	}
	enemy, err := reg.Enemy(bossID, health)
	if err != nil {
		return Scenario{}, fmt.Errorf("sim: %w", err)
	}
	sc.Enemy = enemy
	if def, ok := reg.Boss(bossID); ok && def.Script != "" && scriptsDir != "" {
		sc.ScriptPath = filepath.Join(scriptsDir, def.Script)
	}
	return sc, nil
}

// Party gives every build without an id the id p<n>, n being its 1-based position.
func Party(members ...catalog.Build) []catalog.Build {
	out := make([]catalog.Build, len(members))
	for i, m := range members {
		if m.ID == "" {
			m.ID = fmt.Sprintf("p%d", i+1)
		}
		out[i] = m
	}
	return out
}
