package engine

import (
	"encoding/json"

	"github.com/kidcapital/server/internal/domain/board"
	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
	"github.com/kidcapital/server/internal/domain/rules"
)

// TurnPhase is the turn state machine position.
type TurnPhase string

const (
	PhaseIdle       TurnPhase = "idle"
	PhaseRolling    TurnPhase = "rolling"
	PhaseMoving     TurnPhase = "moving"
	PhaseModalOpen  TurnPhase = "modal_open"
	PhaseActionDone TurnPhase = "action_done"
	PhaseTurnEnd    TurnPhase = "turn_end"
	PhaseBotActing  TurnPhase = "bot_acting"
)

// Offer is one business shown in an invest modal.
type Offer struct {
	Asset      catalog.Asset   `json:"asset"`
	CanBuyCash bool            `json:"canBuyCash"`
	CanBuyLoan bool            `json:"canBuyLoan"`
	Loan       rules.LoanTerms `json:"loan"`
}

// ModalState is the open space modal of the human's turn. At most one card
// field is set, matching Type.
type ModalState struct {
	Type     board.SpaceType `json:"type"`
	PlayerID int             `json:"playerId"`

	LifeEvent  *catalog.LifeEvent  `json:"lifeEvent,omitempty"`
	Hustle     *catalog.Hustle     `json:"hustle,omitempty"`
	Temptation *catalog.Temptation `json:"temptation,omitempty"`
	Challenge  *catalog.Challenge  `json:"challenge,omitempty"` // encoded as a ChallengeCard

	// Offers are priced when the modal opens; Payday is a live preview.
	Offers []Offer             `json:"offers,omitempty"`
	Payday *rules.PaydayReport `json:"payday,omitempty"`

	// Resolved is set once the one-shot choice has been taken. Bank modals
	// never resolve.
	Resolved bool  `json:"resolved"`
	Correct  *bool `json:"correct,omitempty"` // quiz outcome once answered
}

// ChallengeCard is the quiz question as clients see it. The answer and the
// explanation are only filled once the modal is resolved.
type ChallengeCard struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	Reward       int      `json:"reward"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
}

// NewChallengeCard builds the client view of ch. reveal adds the answer.
func NewChallengeCard(ch catalog.Challenge, reveal bool) *ChallengeCard {
	c := &ChallengeCard{
		ID:       ch.ID,
		Question: ch.Question,
		Options:  append([]string(nil), ch.Options...),
		Reward:   ch.Reward,
	}
	if reveal {
		idx := ch.CorrectIndex
		c.CorrectIndex = &idx
		c.Explanation = ch.Explanation
	}
	return c
}

type modalFields ModalState

// MarshalJSON hides the answer of an unresolved quiz.
func (m ModalState) MarshalJSON() ([]byte, error) {
	out := struct {
		modalFields
		Challenge *ChallengeCard `json:"challenge,omitempty"`
	}{modalFields: modalFields(m)}
	if m.Challenge != nil {
		out.Challenge = NewChallengeCard(*m.Challenge, m.Resolved)
	}
	return json.Marshal(out)
}

func (m *ModalState) clone() *ModalState {
	if m == nil {
		return nil
	}
	c := *m
	if m.Challenge != nil {
		ch := *m.Challenge
		ch.Options = append([]string(nil), ch.Options...)
		c.Challenge = &ch
	}
	if m.Correct != nil {
		v := *m.Correct
		c.Correct = &v
	}
	c.Offers = append([]Offer(nil), m.Offers...)
	return &c
}

// GameState is the whole session. Values returned by Store.Snapshot are
// deep copies.
type GameState struct {
	// Version increases with every change; a newer snapshot has a larger one.
	Version            uint64             `json:"version"`
	GameID             string             `json:"gameId"`
	Players            []player.Player    `json:"players"`
	CurrentPlayerIndex int                `json:"currentPlayerIndex"`
	Month              int                `json:"month"`
	TurnPhase          TurnPhase          `json:"turnPhase"`
	DiceResult         *int               `json:"diceResult"`
	IsGameOver         bool               `json:"isGameOver"`
	WinnerID           *int               `json:"winnerId"`
	Difficulty         catalog.Difficulty `json:"difficulty"`
	DailyBonus         int                `json:"dailyBonus"`
	TurnLocked         bool               `json:"turnLocked"`
	Modal              *ModalState        `json:"modal"`
	SeenChallenges     []string           `json:"seenChallenges"`
}

func (g GameState) clone() GameState {
	c := g
	c.Players = make([]player.Player, len(g.Players))
	for i, p := range g.Players {
		c.Players[i] = p.Clone()
	}
	if g.DiceResult != nil {
		v := *g.DiceResult
		c.DiceResult = &v
	}
	if g.WinnerID != nil {
		v := *g.WinnerID
		c.WinnerID = &v
	}
	c.Modal = g.Modal.clone()
	c.SeenChallenges = append([]string(nil), g.SeenChallenges...)
	return c
}

// CurrentPlayer returns the player whose turn it is.
func (g GameState) CurrentPlayer() (player.Player, bool) {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return player.Player{}, false
	}
	return g.Players[g.CurrentPlayerIndex], true
}

// Human returns the human player.
func (g GameState) Human() (player.Player, bool) {
	for _, p := range g.Players {
		if p.IsHuman {
			return p, true
		}
	}
	return player.Player{}, false
}
