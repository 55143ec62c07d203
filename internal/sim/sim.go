// Package sim plays whole games headlessly. The human seat is driven by an
// autopilot that copies a bot personality, and no pauses are taken.
package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/rules"
	"github.com/kidcapital/server/internal/engine"
	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/platform/logger"
)

// Options controls a batch of simulated games.
type Options struct {
	Games      int
	Seed       int64 // game i uses Seed+i
	Bots       int
	Autopilot  catalog.Personality
	MaxTurns   int // human turns before a game is called unfinished
	Difficulty catalog.Difficulty
	Catalog    *catalog.Catalog // nil means catalog.Default()
}

func (o Options) normalized() (Options, error) {
	if o.Games < 1 {
		return o, fmt.Errorf("games must be at least 1, got %d", o.Games)
	}
	if o.Bots < 0 || o.Bots > engine.MaxBots {
		return o, fmt.Errorf("bots must be between 0 and %d, got %d", engine.MaxBots, o.Bots)
	}
	if !o.Autopilot.Valid() {
		return o, fmt.Errorf("unknown autopilot personality %q", o.Autopilot)
	}
	if o.MaxTurns < 1 {
		o.MaxTurns = 200
	}
	if o.Catalog == nil {
		o.Catalog = catalog.Default()
	}
	if o.Bots > len(o.Catalog.Bots) {
		return o, fmt.Errorf("catalog has only %d bot profiles", len(o.Catalog.Bots))
	}
	return o, nil
}

// PlayerResult is one seat at the end of a game.
type PlayerResult struct {
	ID       int
	Name     string
	Human    bool
	Freedom  int
	NetWorth int
}

// GameResult summarises one simulated game.
type GameResult struct {
	Seed     int64
	Finished bool // someone reached Financial Freedom
	WinnerID int
	Winner   string
	Months   int
	Turns    int
	Players  []PlayerResult
}

// Run plays opts.Games games in order.
func Run(ctx context.Context, opts Options, log *logger.Logger) ([]GameResult, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	results := make([]GameResult, 0, opts.Games)
	for i := 0; i < opts.Games; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := playGame(ctx, opts, opts.Seed+int64(i), log)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func playGame(ctx context.Context, opts Options, seed int64, log *logger.Logger) (GameResult, error) {
	eng := engine.NewEngine(opts.Catalog, events.NewEventLog(nil), engine.TurnOptions{
		Dice:  engine.NewRandDice(seed),
		Pacer: engine.NoPacer{},
	}, log)
	pilotDice := engine.NewRandDice(seed * 7919)

	setup := engine.Setup{
		HumanName:   "Autopilot",
		HumanAvatar: "🤖",
		Bots:        opts.Catalog.Bots[:opts.Bots],
		Difficulty:  opts.Difficulty,
	}
	if err := eng.InitGame(setup); err != nil {
		return GameResult{}, fmt.Errorf("failed to start game %d: %w", seed, err)
	}

	turns := 0
	for turns < opts.MaxTurns {
		st := eng.Snapshot()
		if st.IsGameOver || !st.Players[st.CurrentPlayerIndex].IsHuman {
			break
		}
		if !eng.Roll(ctx) {
			break
		}
		pilotTurn(ctx, eng, opts.Autopilot, pilotDice)
		turns++
		if eng.Snapshot().IsGameOver {
			break
		}
		if !eng.Advance(ctx) {
			break
		}
	}
	return summarize(eng.Snapshot(), seed, turns), nil
}

// pilotTurn resolves the open modal, if any, and closes it.
func pilotTurn(ctx context.Context, eng *engine.Engine, personality catalog.Personality, dice engine.Dice) {
	st := eng.Snapshot()
	if st.TurnPhase != engine.PhaseModalOpen || st.Modal == nil {
		return
	}
	human := st.Players[st.CurrentPlayerIndex]
	if action, req, ok := engine.SuggestAction(personality, human, *st.Modal, dice); ok {
		eng.Act(action, req)
	}
	eng.CloseModal(ctx)
}

func summarize(st engine.GameState, seed int64, turns int) GameResult {
	res := GameResult{Seed: seed, Months: st.Month, Turns: turns, WinnerID: -1}
	for _, p := range st.Players {
		res.Players = append(res.Players, PlayerResult{
			ID:       p.ID,
			Name:     p.Name,
			Human:    p.IsHuman,
			Freedom:  rules.FreedomPercent(p),
			NetWorth: p.NetWorth(),
		})
		if st.WinnerID != nil && *st.WinnerID == p.ID {
			res.Finished = true
			res.WinnerID = p.ID
			res.Winner = p.Name
		}
	}
	return res
}

// Summary aggregates a batch.
type Summary struct {
	Games     int
	Finished  int
	Wins      map[string]int
	AvgMonths float64 // over finished games
}

// Summarize counts wins per player name.
func Summarize(results []GameResult) Summary {
	s := Summary{Games: len(results), Wins: map[string]int{}}
	months := 0
	for _, r := range results {
		if !r.Finished {
			continue
		}
		s.Finished++
		s.Wins[r.Winner]++
		months += r.Months
	}
	if s.Finished > 0 {
		s.AvgMonths = float64(months) / float64(s.Finished)
	}
	return s
}

// Leaders returns winner names, most wins first.
func (s Summary) Leaders() []string {
	names := make([]string, 0, len(s.Wins))
	for n := range s.Wins {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Wins[names[i]] != s.Wins[names[j]] {
			return s.Wins[names[i]] > s.Wins[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
