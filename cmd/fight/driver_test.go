package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/bossfight/internal/game/ai"
	"github.com/cory-johannsen/bossfight/internal/game/catalog"
	"github.com/cory-johannsen/bossfight/internal/game/combat"
	"github.com/cory-johannsen/bossfight/internal/game/dice"
)

func duelFight(t *testing.T) *combat.FightState {
	t.Helper()
	strike := combat.Action{
		ID: "strike", Name: "Strike", Cost: 1, Target: combat.TargetManual,
		TargetEffects: []combat.Effect{{Kind: combat.EffectDamage, Amount: 5}},
	}
	s, err := combat.CreateFight(
		[]combat.Character{{
			ID: "p1", Name: "Hero", Class: "warrior", Level: 1,
			Attributes: combat.Attributes{MaxHealth: 30, MaxAP: 100, Dexterity: 100},
			Actions:    []combat.Action{strike},
		}},
		combat.EnemyDefinition{Boss: combat.Character{
			ID: "ogre", Name: "Ogre",
			Attributes: combat.Attributes{MaxHealth: 25, MaxAP: 1, Dexterity: 100},
			Actions:    []combat.Action{strike},
		}},
		dice.NewSeededSource(5),
	)
	require.NoError(t, err)
	return s
}

func newDriver(input string, out *bytes.Buffer) *driver {
	return &driver{
		in:       bufio.NewScanner(strings.NewReader(input)),
		out:      out,
		policy:   ai.HeuristicPolicy{},
		src:      dice.NewSeededSource(5),
		logger:   zap.NewNop(),
		maxTurns: 100,
	}
}

func TestDriver_PlayerWinsDuel(t *testing.T) {
	var out bytes.Buffer
	// "x" and "9" are rejected and re-asked.
	input := "x\n9\n1\n2\n" + strings.Repeat("1\n2\n", 10)
	s, err := newDriver(input, &out).run(duelFight(t))
	require.NoError(t, err)
	assert.Equal(t, combat.ResultVictory, s.Result)
	assert.Contains(t, out.String(), "pick one of the listed numbers")
	assert.Contains(t, out.String(), "Ogre takes 5 damage")
	assert.Contains(t, out.String(), "victory")
}

func TestDriver_QuitAndEOF(t *testing.T) {
	var out bytes.Buffer
	_, err := newDriver("q\n", &out).run(duelFight(t))
	assert.ErrorIs(t, err, errQuit)

	_, err = newDriver("", &out).run(duelFight(t))
	assert.ErrorIs(t, err, errQuit)
}

func TestDriver_PassingHitsTurnLimit(t *testing.T) {
	var out bytes.Buffer
	d := newDriver(strings.Repeat("p\n", 50), &out)
	d.maxTurns = 4
	s := duelFight(t)
	s.Character("ogre").Actions = nil
	s, err := d.run(s)
	require.NoError(t, err)
	assert.False(t, s.Over)
	assert.Contains(t, out.String(), "Turn limit of 4 reached")
}

func TestDriver_AutoPlay(t *testing.T) {
	var out bytes.Buffer
	d := newDriver("", &out)
	d.auto = true
	s, err := d.run(duelFight(t))
	require.NoError(t, err)
	assert.Equal(t, combat.ResultVictory, s.Result)
}

func TestParseParty(t *testing.T) {
	got, err := parseParty("warrior:3, cleric ,mage:2")
	require.NoError(t, err)
	assert.Equal(t, []catalog.Build{
		{Class: "warrior", Level: 3},
		{Class: "cleric", Level: 1},
		{Class: "mage", Level: 2},
	}, got)

	_, err = parseParty("warrior:zero")
	assert.Error(t, err)
	_, err = parseParty(" , ")
	assert.Error(t, err)
}
