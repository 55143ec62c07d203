package engine

import (
	"github.com/kidcapital/server/internal/domain/board"
	"github.com/kidcapital/server/internal/domain/player"
	"github.com/kidcapital/server/internal/domain/rules"
)

// withModal runs fn against the open modal if it is of the given type and
// belongs to the human. oneShot modals reject a second choice.
func (tm *TurnManager) withModal(typ board.SpaceType, oneShot bool, fn func(m ModalState, p player.Player) bool) bool {
	tm.actionMu.Lock()
	defer tm.actionMu.Unlock()

	m, ok := tm.store.Modal()
	if !ok || m.Type != typ || m.PlayerID != player.HumanID {
		return false
	}
	if oneShot && m.Resolved {
		return false
	}
	return fn(m, tm.store.Player(m.PlayerID))
}

// BuyAssetCash buys an offered asset outright.
func (tm *TurnManager) BuyAssetCash(assetID string) bool {
	return tm.buy(assetID, false)
}

// BuyAssetLoan buys an offered asset with a down payment.
func (tm *TurnManager) BuyAssetLoan(assetID string) bool {
	return tm.buy(assetID, true)
}

func (tm *TurnManager) buy(assetID string, loan bool) bool {
	return tm.withModal(board.SpaceInvest, true, func(m ModalState, p player.Player) bool {
		var offered bool
		for _, o := range m.Offers {
			if o.Asset.ID == assetID {
				offered = true
				break
			}
		}
		a, ok := tm.catalog.AssetByID(assetID)
		if !offered || !ok {
			return false
		}
		var bought bool
		if loan {
			bought = tm.store.PlayerBuyAssetLoan(p.ID, a)
		} else {
			bought = tm.store.PlayerBuyAssetCash(p.ID, a)
		}
		if bought {
			tm.store.MarkModalResolved(nil)
		}
		return bought
	})
}

// CollectPayday applies the monthly cash flow the payday card previews.
func (tm *TurnManager) CollectPayday() (rules.PaydayReport, bool) {
	var report rules.PaydayReport
	ok := tm.withModal(board.SpacePayday, true, func(_ ModalState, p player.Player) bool {
		report = tm.store.PlayerPayday(p.ID)
		tm.store.MarkModalResolved(nil)
		return true
	})
	return report, ok
}

// CollectLifeEvent applies the drawn life event.
func (tm *TurnManager) CollectLifeEvent() bool {
	return tm.withModal(board.SpaceLife, true, func(m ModalState, p player.Player) bool {
		if m.LifeEvent == nil {
			return false
		}
		tm.store.PlayerApplyLifeEvent(p.ID, m.LifeEvent.Amount, m.LifeEvent.Title)
		tm.store.MarkModalResolved(nil)
		return true
	})
}

// CollectHustle pays out the drawn side hustle.
func (tm *TurnManager) CollectHustle() bool {
	return tm.withModal(board.SpaceHustle, true, func(m ModalState, p player.Player) bool {
		if m.Hustle == nil {
			return false
		}
		tm.store.PlayerApplyHustle(p.ID, m.Hustle.Amount, m.Hustle.Title)
		tm.store.MarkModalResolved(nil)
		return true
	})
}

// BuyTemptation spends cash on the drawn temptation.
func (tm *TurnManager) BuyTemptation() bool {
	return tm.withModal(board.SpaceTemptation, true, func(m ModalState, p player.Player) bool {
		if m.Temptation == nil || !tm.store.PlayerBuyTemptation(p.ID, *m.Temptation) {
			return false
		}
		tm.store.MarkModalResolved(nil)
		return true
	})
}

// SkipTemptation resists the drawn temptation for the skip reward.
func (tm *TurnManager) SkipTemptation() bool {
	return tm.withModal(board.SpaceTemptation, true, func(m ModalState, p player.Player) bool {
		if m.Temptation == nil {
			return false
		}
		tm.store.PlayerSkipTemptation(p.ID, *m.Temptation)
		tm.store.MarkModalResolved(nil)
		return true
	})
}

// AnswerQuiz grades the human's choice. The first return value is whether
// the answer was correct; the second whether it was accepted at all.
func (tm *TurnManager) AnswerQuiz(option int) (bool, bool) {
	var correct bool
	ok := tm.withModal(board.SpaceChallenge, true, func(m ModalState, p player.Player) bool {
		ch := m.Challenge
		if ch == nil || option < 0 || option >= len(ch.Options) {
			return false
		}
		correct = option == ch.CorrectIndex
		if correct {
			tm.store.PlayerQuizResult(p.ID, true, ch.Reward, ch.ID)
		} else {
			tm.store.PlayerQuizResult(p.ID, false, 0, ch.ID)
			tm.store.PlayerApplyLifeEvent(p.ID, quizWrongPenalty, "Quiz miss")
		}
		tm.store.MarkModalResolved(&correct)
		return true
	})
	return correct, ok
}

// Deposit moves cash into savings while the bank card is open.
func (tm *TurnManager) Deposit(amount int) bool {
	return tm.withModal(board.SpaceBank, false, func(_ ModalState, p player.Player) bool {
		return tm.store.PlayerDeposit(p.ID, amount)
	})
}

// Withdraw moves savings back to cash while the bank card is open.
func (tm *TurnManager) Withdraw(amount int) bool {
	return tm.withModal(board.SpaceBank, false, func(_ ModalState, p player.Player) bool {
		return tm.store.PlayerWithdraw(p.ID, amount)
	})
}
