package engine

import (
	"github.com/kidcapital/server/internal/domain/board"
	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
)

// SuggestAction picks the modal choice a bot of the given personality would
// make in the human's seat. ok is false when the modal is best left alone,
// e.g. nothing affordable or a start space.
func SuggestAction(personality catalog.Personality, p player.Player, m ModalState, dice Dice) (action string, req ActionRequest, ok bool) {
	if m.Resolved {
		return "", ActionRequest{}, false
	}
	strat := strategyFor(personality)

	switch m.Type {
	case board.SpaceInvest:
		if p.Debt > 0 {
			return "", ActionRequest{}, false
		}
		available := make([]catalog.Asset, 0, len(m.Offers))
		for _, o := range m.Offers {
			available = append(available, o.Asset)
		}
		choice, found := strat.invest(p, available)
		if !found {
			return "", ActionRequest{}, false
		}
		if choice.loan {
			return ActionBuyLoan, ActionRequest{AssetID: choice.asset.ID}, true
		}
		return ActionBuyCash, ActionRequest{AssetID: choice.asset.ID}, true

	case board.SpacePayday:
		return ActionCollectPayday, ActionRequest{}, true
	case board.SpaceLife:
		return ActionCollectLife, ActionRequest{}, true
	case board.SpaceHustle:
		return ActionCollectHustle, ActionRequest{}, true

	case board.SpaceTemptation:
		if m.Temptation != nil && strat.temptation(p, *m.Temptation, dice) {
			return ActionBuyTemptation, ActionRequest{}, true
		}
		return ActionSkipTemptation, ActionRequest{}, true

	case board.SpaceChallenge:
		if m.Challenge == nil || len(m.Challenge.Options) == 0 {
			return "", ActionRequest{}, false
		}
		option := m.Challenge.CorrectIndex
		if n := len(m.Challenge.Options); n > 1 && dice.Float64() >= botQuizAccuracy {
			option = (option + 1 + dice.Intn(n-1)) % n
		}
		return ActionAnswerQuiz, ActionRequest{Option: option}, true

	case board.SpaceBank:
		amount := p.Cash * strat.bankPct / 100
		if amount <= 0 {
			return "", ActionRequest{}, false
		}
		return ActionDeposit, ActionRequest{Amount: amount}, true
	}
	return "", ActionRequest{}, false
}
