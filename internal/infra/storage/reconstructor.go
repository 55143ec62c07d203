// Package storage - reconstructor.go
// Game recap: rebuilds a player's money story from the persisted log.
package storage

import (
	"context"
	"fmt"
)

// Reconstructor rebuilds per-player summaries from the event log. Used for
// the end-of-game recap and for auditing a saved game.
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new recap builder.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// RebuiltState totals what a player did during a game.
type RebuiltState struct {
	PlayerID     int  `json:"player_id"`
	AssetsBought int  `json:"assets_bought"`
	LoansTaken   int  `json:"loans_taken"`
	Paydays      int  `json:"paydays"`
	PaydayNet    int  `json:"payday_net"`
	LifeEventNet int  `json:"life_event_net"`
	HustleIncome int  `json:"hustle_income"`
	WantsBought  int  `json:"wants_bought"`
	WantsSpent   int  `json:"wants_spent"`
	WantsSkipped int  `json:"wants_skipped"`
	QuizCorrect  int  `json:"quiz_correct"`
	QuizTotal    int  `json:"quiz_total"`
	Deposited    int  `json:"deposited"`
	Withdrawn    int  `json:"withdrawn"`
	PassedGo     int  `json:"passed_go"`
	WonGame      bool `json:"won_game"`
}

// RecapEvent is a simplified event for the recap screen.
type RecapEvent struct {
	Month     int    `json:"month"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"` // Human-readable description
	Impact    string `json:"impact"`  // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

// RebuildPlayerState totals a player's activity in one game.
func (r *Reconstructor) RebuildPlayerState(ctx context.Context, gameID string, playerID int) (*RebuiltState, error) {
	events, err := r.eventRepo.GetByPlayer(ctx, gameID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for player: %w", err)
	}

	state := RebuiltState{PlayerID: playerID}
	for _, e := range events {
		r.applyEventToState(&state, e)
	}
	return &state, nil
}

// GenerateRecap lists what happened to a player from a month onwards,
// including game-wide events.
func (r *Reconstructor) GenerateRecap(ctx context.Context, gameID string, playerID int, sinceMonth int) ([]RecapEvent, error) {
	allEvents, err := r.eventRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game events: %w", err)
	}

	recap := []RecapEvent{}
	for _, e := range allEvents {
		if e.Month < sinceMonth {
			continue
		}
		if e.PlayerID != playerID && e.PlayerID != -1 && e.EventType != "GAME_WON" {
			continue
		}
		if e.Message == "" {
			continue
		}
		recap = append(recap, RecapEvent{
			Month:     e.Month,
			EventType: e.EventType,
			Summary:   e.Message,
			Impact:    r.determineImpact(e),
		})
	}
	return recap, nil
}

// applyEventToState folds one event into the totals.
func (r *Reconstructor) applyEventToState(state *RebuiltState, event GameEvent) {
	switch event.EventType {
	case "ASSET_BOUGHT":
		state.AssetsBought++
		if loan, _ := event.Payload["loan"].(bool); loan {
			state.LoansTaken++
		}
	case "PAYDAY":
		state.Paydays++
		state.PaydayNet += intField(event.Payload, "net")
	case "LIFE_EVENT":
		state.LifeEventNet += intField(event.Payload, "amount")
	case "HUSTLE":
		state.HustleIncome += intField(event.Payload, "amount")
	case "TEMPTATION_BOUGHT":
		state.WantsBought++
		state.WantsSpent += intField(event.Payload, "amount")
	case "TEMPTATION_SKIPPED":
		state.WantsSkipped++
	case "QUIZ_ANSWERED":
		state.QuizTotal++
		if correct, _ := event.Payload["correct"].(bool); correct {
			state.QuizCorrect++
		}
	case "DEPOSIT":
		state.Deposited += intField(event.Payload, "amount")
	case "WITHDRAW":
		state.Withdrawn += intField(event.Payload, "amount")
	case "PASSED_GO":
		state.PassedGo++
	case "GAME_WON":
		state.WonGame = true
	}
}

// determineImpact classifies the event impact.
func (r *Reconstructor) determineImpact(event GameEvent) string {
	switch event.EventType {
	case "ASSET_BOUGHT", "HUSTLE", "TEMPTATION_SKIPPED", "PASSED_GO", "DEPOSIT", "GAME_WON":
		return "POSITIVE"
	case "TEMPTATION_BOUGHT":
		return "NEGATIVE"
	case "LIFE_EVENT":
		return signImpact(intField(event.Payload, "amount"))
	case "PAYDAY":
		return signImpact(intField(event.Payload, "net"))
	case "QUIZ_ANSWERED":
		if correct, _ := event.Payload["correct"].(bool); correct {
			return "POSITIVE"
		}
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}

func signImpact(n int) string {
	switch {
	case n > 0:
		return "POSITIVE"
	case n < 0:
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}

// intField reads a JSON number from a decoded payload.
func intField(payload map[string]interface{}, key string) int {
	if v, ok := payload[key].(float64); ok {
		return int(v)
	}
	return 0
}
