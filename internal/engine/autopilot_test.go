package engine

import (
	"testing"

	"github.com/kidcapital/server/internal/domain/board"
	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
)

func TestSuggestAction(t *testing.T) {
	cat := catalog.Default()
	rich := player.New(0, "Ava", "🦊", true, "")
	rich.Cash = 100
	indebted := rich
	indebted.Debt = 10

	offers := []Offer{}
	for _, a := range freeAssets(cat, "a1", "a2") {
		offers = append(offers, Offer{Asset: a})
	}
	quiz := cat.Challenges[0]
	temptation := cat.Temptations[0]

	tests := []struct {
		name        string
		personality catalog.Personality
		p           player.Player
		modal       ModalState
		dice        *scriptedDice
		wantAction  string
		wantOK      bool
	}{
		{"conservative invests", catalog.Conservative, rich, ModalState{Type: board.SpaceInvest, Offers: offers}, &scriptedDice{}, ActionBuyCash, true},
		{"debt blocks invest", catalog.Balanced, indebted, ModalState{Type: board.SpaceInvest, Offers: offers}, &scriptedDice{}, "", false},
		{"payday", catalog.Balanced, rich, ModalState{Type: board.SpacePayday}, &scriptedDice{}, ActionCollectPayday, true},
		{"resolved modal", catalog.Balanced, rich, ModalState{Type: board.SpacePayday, Resolved: true}, &scriptedDice{}, "", false},
		{"balanced skips temptation", catalog.Balanced, rich, ModalState{Type: board.SpaceTemptation, Temptation: &temptation}, &scriptedDice{}, ActionSkipTemptation, true},
		{"aggressive buys temptation", catalog.Aggressive, rich, ModalState{Type: board.SpaceTemptation, Temptation: &temptation}, &scriptedDice{floats: []float64{0.1}}, ActionBuyTemptation, true},
		{"quiz", catalog.Balanced, rich, ModalState{Type: board.SpaceChallenge, Challenge: &quiz}, &scriptedDice{floats: []float64{0.1}}, ActionAnswerQuiz, true},
		{"conservative deposits", catalog.Conservative, rich, ModalState{Type: board.SpaceBank}, &scriptedDice{}, ActionDeposit, true},
		{"aggressive never saves", catalog.Aggressive, rich, ModalState{Type: board.SpaceBank}, &scriptedDice{}, "", false},
		{"start space", catalog.Balanced, rich, ModalState{Type: board.SpaceStart}, &scriptedDice{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, _, ok := SuggestAction(tt.personality, tt.p, tt.modal, tt.dice)
			if action != tt.wantAction || ok != tt.wantOK {
				t.Errorf("got (%q, %v), want (%q, %v)", action, ok, tt.wantAction, tt.wantOK)
			}
		})
	}
}

func TestSuggestActionQuizAnswers(t *testing.T) {
	quiz := catalog.Default().Challenges[0]
	modal := ModalState{Type: board.SpaceChallenge, Challenge: &quiz}
	p := player.New(0, "Ava", "🦊", true, "")

	_, req, _ := SuggestAction(catalog.Balanced, p, modal, &scriptedDice{floats: []float64{0.1}})
	if req.Option != quiz.CorrectIndex {
		t.Errorf("a lucky draw should answer correctly, got option %d", req.Option)
	}
	_, req, _ = SuggestAction(catalog.Balanced, p, modal, &scriptedDice{floats: []float64{0.9}})
	if req.Option == quiz.CorrectIndex {
		t.Error("an unlucky draw should answer wrongly")
	}
}
