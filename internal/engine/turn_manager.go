package engine

import (
	"context"
	"sync"
	"time"

	"github.com/kidcapital/server/internal/domain/board"
	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
	"github.com/kidcapital/server/internal/domain/rules"
	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/platform/logger"
)

// TurnOptions configure pacing and randomness.
type TurnOptions struct {
	Dice   Dice
	Pacer  Pacer
	Timing Timing
}

// TurnManager drives rolls, movement, space resolution and bot autoplay.
// Requests that arrive in the wrong phase are ignored, never queued.
type TurnManager struct {
	store   *Store
	catalog *catalog.Catalog
	dice    Dice
	pacer   Pacer
	timing  Timing
	logger  *logger.Logger

	// actionMu serialises modal transitions: in-modal choices and closing.
	actionMu sync.Mutex
}

// NewTurnManager wires a turn manager to its store.
func NewTurnManager(store *Store, cat *catalog.Catalog, opts TurnOptions, log *logger.Logger) *TurnManager {
	if opts.Dice == nil {
		opts.Dice = NewRandDice(1)
	}
	if opts.Pacer == nil {
		opts.Pacer = SleepPacer{}
	}
	return &TurnManager{
		store:   store,
		catalog: cat,
		dice:    opts.Dice,
		pacer:   opts.Pacer,
		timing:  opts.Timing,
		logger:  log,
	}
}

func (tm *TurnManager) pause(ctx context.Context, d time.Duration) {
	tm.pacer.Pause(ctx, d)
}

// RollForHumanTurn runs the human's roll through movement to either an open
// modal or turn_end. It returns false if a roll was not allowed.
func (tm *TurnManager) RollForHumanTurn(ctx context.Context) bool {
	human, ok := tm.store.TryBeginHumanRoll()
	if !ok {
		return false
	}

	roll := tm.dice.Roll()
	tm.store.SetDiceResult(human.ID, roll)
	tm.pause(ctx, tm.timing.DiceRoll)

	tm.store.SetTurnPhase(PhaseMoving)
	start := human.Position
	final, passedGo := board.Advance(start, roll)
	pos := start
	for step := 1; step <= roll; step++ {
		pos, _ = board.Step(pos)
		tm.store.MovePlayerTo(human.ID, pos, step == roll && passedGo)
		tm.pause(ctx, tm.timing.StepMove)
	}
	if passedGo {
		tm.pause(ctx, tm.timing.PassGo)
	}
	tm.pause(ctx, tm.timing.SpaceArrival)

	space := board.At(final)
	if space.Type == board.SpaceStart {
		tm.store.EndTurn()
		return true
	}
	tm.store.OpenModal(tm.drawModal(space.Type, tm.store.Player(human.ID)))
	return true
}

// drawModal prepares the card the human will see.
func (tm *TurnManager) drawModal(typ board.SpaceType, p player.Player) ModalState {
	m := ModalState{Type: typ, PlayerID: p.ID}
	switch typ {
	case board.SpaceInvest:
		for _, a := range tm.catalog.AvailableAssets(p.AssetIDs(), catalog.TierPremium) {
			opts := rules.CanBuy(p, a)
			m.Offers = append(m.Offers, Offer{Asset: a, CanBuyCash: opts.Cash, CanBuyLoan: opts.Loan, Loan: rules.LoanFor(a)})
		}
	case board.SpaceLife:
		e := tm.catalog.RandomLifeEvent(tm.dice)
		m.LifeEvent = &e
	case board.SpaceHustle:
		h := tm.catalog.RandomHustle(tm.dice)
		m.Hustle = &h
	case board.SpaceTemptation:
		t := tm.catalog.RandomTemptation(tm.dice)
		m.Temptation = &t
	case board.SpaceChallenge:
		snap := tm.store.Snapshot()
		if ch, ok := tm.catalog.RandomChallenge(tm.dice, snap.Difficulty, snap.SeenChallenges); ok {
			m.Challenge = &ch
		}
	}
	return m
}

// CloseActionModal ends the human's space action and checks for a winner.
func (tm *TurnManager) CloseActionModal(ctx context.Context) bool {
	tm.actionMu.Lock()
	ok := tm.store.TryCloseModal()
	tm.actionMu.Unlock()
	if !ok {
		return false
	}

	tm.pause(ctx, tm.timing.PostAction)
	if winner, won := tm.store.CheckWinCondition(); won {
		tm.logger.Infof("Player %d wins the game", winner)
		tm.pause(ctx, tm.timing.WinCelebrate)
		tm.store.SetTurnLocked(false)
		return true
	}
	tm.store.EndTurn()
	return true
}

// AdvanceToNextTurn passes the turn on and plays bots until a human is up
// or someone wins.
func (tm *TurnManager) AdvanceToNextTurn(ctx context.Context) bool {
	if !tm.store.TryAdvance() {
		return false
	}
	tm.ResumeBots(ctx)
	return true
}

// ResumeBots plays bot turns while a bot is up, for example after a saved
// game is restored mid-round.
func (tm *TurnManager) ResumeBots(ctx context.Context) {
	for tm.playBotTurn(ctx) {
	}
}

// playBotTurn runs one full bot turn. It reports whether the turn passed on
// so the caller should try the next player.
func (tm *TurnManager) playBotTurn(ctx context.Context) bool {
	bot, ok := tm.store.TryBeginBotTurn()
	if !ok {
		return false
	}
	tm.pause(ctx, tm.timing.BotStep)

	roll := tm.dice.Roll()
	tm.store.SetDiceResult(bot.ID, roll)
	tm.pause(ctx, tm.timing.BotStep)

	pos, passedGo := board.Advance(bot.Position, roll)
	tm.store.MovePlayerTo(bot.ID, pos, passedGo)
	tm.pause(ctx, tm.timing.BotStep)

	tm.resolveBotSpace(bot.ID, board.At(pos).Type, bot.Personality)
	tm.pause(ctx, tm.timing.BotStep)

	if _, won := tm.store.CheckWinCondition(); won {
		tm.logger.Infof("Bot %s wins the game", bot.Name)
		tm.store.SetTurnLocked(false)
		return false
	}
	tm.store.EndBotTurn()
	return true
}

// resolveBotSpace applies the personality policy for the landed space.
func (tm *TurnManager) resolveBotSpace(id int, typ board.SpaceType, personality catalog.Personality) {
	bot := tm.store.Player(id)
	strat := strategyFor(personality)

	switch typ {
	case board.SpaceInvest:
		if bot.Debt > 0 {
			tm.store.Record(events.EventTypeBotSkipped, id, bot.Avatar+" "+bot.Name+" can't invest (has debt)", nil)
			return
		}
		available := tm.catalog.AvailableAssets(bot.AssetIDs(), catalog.TierPremium)
		if len(available) == 0 {
			return
		}
		choice, ok := strat.invest(bot, available)
		if !ok {
			tm.store.Record(events.EventTypeBotSkipped, id, bot.Avatar+" "+bot.Name+" skipped investing", nil)
			return
		}
		if choice.loan {
			tm.store.PlayerBuyAssetLoan(id, choice.asset)
		} else {
			tm.store.PlayerBuyAssetCash(id, choice.asset)
		}

	case board.SpacePayday:
		tm.store.PlayerPayday(id)

	case board.SpaceLife:
		e := tm.catalog.RandomLifeEvent(tm.dice)
		tm.store.PlayerApplyLifeEvent(id, e.Amount, e.Title)

	case board.SpaceHustle:
		h := tm.catalog.RandomHustle(tm.dice)
		tm.store.PlayerApplyHustle(id, h.Amount, h.Title)

	case board.SpaceTemptation:
		t := tm.catalog.RandomTemptation(tm.dice)
		if strat.temptation(bot, t, tm.dice) {
			tm.store.PlayerBuyTemptation(id, t)
		} else {
			tm.store.PlayerSkipTemptation(id, t)
		}

	case board.SpaceChallenge:
		correct := tm.dice.Float64() < botQuizAccuracy
		reward := 0
		if correct {
			reward = catalog.QuizReward
		}
		tm.store.PlayerQuizResult(id, correct, reward, "")
		if !correct {
			tm.store.PlayerApplyLifeEvent(id, quizWrongPenalty, "Quiz miss")
		}

	case board.SpaceBank:
		if strat.bankPct == 0 {
			tm.store.Record(events.EventTypeBotSkipped, id, bot.Avatar+" "+bot.Name+" skipped saving", nil)
			return
		}
		if amount := bot.Cash * strat.bankPct / 100; amount > 0 {
			tm.store.PlayerDeposit(id, amount)
		}
	}
}
