package engine

import (
	"testing"

	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/platform/logger"
)

// scriptedDice replays fixed values, then falls back to 1, 0.99 and 0.
type scriptedDice struct {
	rolls  []int
	floats []float64
	ints   []int
}

func (d *scriptedDice) Roll() int {
	if len(d.rolls) == 0 {
		return 1
	}
	v := d.rolls[0]
	d.rolls = d.rolls[1:]
	return v
}

func (d *scriptedDice) Float64() float64 {
	if len(d.floats) == 0 {
		return 0.99
	}
	v := d.floats[0]
	d.floats = d.floats[1:]
	return v
}

func (d *scriptedDice) Intn(n int) int {
	if len(d.ints) == 0 {
		return 0
	}
	v := d.ints[0]
	d.ints = d.ints[1:]
	return v % n
}

func newTestEngine(t *testing.T, dice Dice) *Engine {
	t.Helper()
	return NewEngine(catalog.Default(), events.NewEventLog(nil),
		TurnOptions{Dice: dice, Pacer: NoPacer{}}, logger.NewDiscard())
}

func soloSetup() Setup {
	return Setup{HumanName: "Ava", HumanAvatar: "🦊", Difficulty: catalog.DifficultyTweens}
}

func withBots(personalities ...catalog.Personality) Setup {
	s := soloSetup()
	for i, p := range personalities {
		s.Bots = append(s.Bots, catalog.BotProfile{ID: "bot", Name: "Bot" + string(rune('A'+i)), Avatar: "🤖", Personality: p})
	}
	return s
}

// arrange rewrites players in the live game via Restore.
func arrange(t *testing.T, e *Engine, fn func(st *GameState)) {
	t.Helper()
	st := e.Snapshot()
	setup, ok := e.store.Setup()
	if !ok {
		t.Fatal("no game in progress")
	}
	fn(&st)
	e.Restore(st, setup)
}

func freeAssets(cat *catalog.Catalog, ids ...string) []catalog.Asset {
	var out []catalog.Asset
	for _, id := range ids {
		a, _ := cat.AssetByID(id)
		out = append(out, a)
	}
	return out
}

func mustPlayer(t *testing.T, e *Engine, id int) player.Player {
	t.Helper()
	for _, p := range e.Snapshot().Players {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("player %d not found", id)
	return player.Player{}
}
