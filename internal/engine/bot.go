package engine

import (
	"sort"

	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
	"github.com/kidcapital/server/internal/domain/rules"
)

const (
	botQuizAccuracy     = 0.55
	botTemptationChance = 0.3 // aggressive bots only
	quizWrongPenalty    = -5
)

// purchase is a bot's invest decision.
type purchase struct {
	asset catalog.Asset
	loan  bool
}

// strategy is one personality's policy.
type strategy struct {
	invest     func(p player.Player, available []catalog.Asset) (purchase, bool)
	temptation func(p player.Player, t catalog.Temptation, dice Dice) bool
	bankPct    int // share of cash deposited on a bank space
}

var strategies = map[catalog.Personality]strategy{
	catalog.Conservative: {invest: investCheapestCash, temptation: neverTempted, bankPct: 50},
	catalog.Aggressive:   {invest: investHighestIncome, temptation: sometimesTempted, bankPct: 0},
	catalog.Balanced:     {invest: investBestRatio, temptation: neverTempted, bankPct: 30},
}

func strategyFor(p catalog.Personality) strategy {
	if s, ok := strategies[p]; ok {
		return s
	}
	return strategies[catalog.Balanced]
}

// investCheapestCash buys the cheapest business payable in cash.
func investCheapestCash(p player.Player, available []catalog.Asset) (purchase, bool) {
	var options []catalog.Asset
	for _, a := range available {
		if rules.CanBuyCash(p, a) {
			options = append(options, a)
		}
	}
	if len(options) == 0 {
		return purchase{}, false
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Cost < options[j].Cost })
	return purchase{asset: options[0]}, true
}

// investHighestIncome buys the top earner reachable by cash or loan.
func investHighestIncome(p player.Player, available []catalog.Asset) (purchase, bool) {
	options := financeable(p, available)
	if len(options) == 0 {
		return purchase{}, false
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Income > options[j].Income })
	return preferCash(p, options[0]), true
}

// investBestRatio buys the best income per dollar reachable by cash or loan.
func investBestRatio(p player.Player, available []catalog.Asset) (purchase, bool) {
	options := financeable(p, available)
	if len(options) == 0 {
		return purchase{}, false
	}
	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i], options[j]
		return a.Income*b.Cost > b.Income*a.Cost
	})
	return preferCash(p, options[0]), true
}

func financeable(p player.Player, available []catalog.Asset) []catalog.Asset {
	var out []catalog.Asset
	for _, a := range available {
		if opts := rules.CanBuy(p, a); opts.Cash || opts.Loan {
			out = append(out, a)
		}
	}
	return out
}

func preferCash(p player.Player, a catalog.Asset) purchase {
	return purchase{asset: a, loan: !rules.CanBuyCash(p, a)}
}

func neverTempted(player.Player, catalog.Temptation, Dice) bool { return false }

func sometimesTempted(p player.Player, t catalog.Temptation, dice Dice) bool {
	return dice.Float64() < botTemptationChance && p.Cash >= t.Cost
}
