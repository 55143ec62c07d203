// Package events provides the append-only activity log of the game.
// Every roll, move, purchase and settlement is recorded here; UI feeds,
// achievement tracking and the sqlite ledger all read from it.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeGameStarted       EventType = "GAME_STARTED"
	EventTypeDiceRolled        EventType = "DICE_ROLLED"
	EventTypePlayerMoved       EventType = "PLAYER_MOVED"
	EventTypePassedGo          EventType = "PASSED_GO"
	EventTypeModalOpened       EventType = "MODAL_OPENED"
	EventTypeAssetBought       EventType = "ASSET_BOUGHT"
	EventTypePayday            EventType = "PAYDAY"
	EventTypeDeposit           EventType = "DEPOSIT"
	EventTypeWithdraw          EventType = "WITHDRAW"
	EventTypeLifeEvent         EventType = "LIFE_EVENT"
	EventTypeHustle            EventType = "HUSTLE"
	EventTypeTemptationBought  EventType = "TEMPTATION_BOUGHT"
	EventTypeTemptationSkipped EventType = "TEMPTATION_SKIPPED"
	EventTypeQuizAnswered      EventType = "QUIZ_ANSWERED"
	EventTypeBotSkipped        EventType = "BOT_SKIPPED"
	EventTypeTurnAdvanced      EventType = "TURN_ADVANCED"
	EventTypeGameWon           EventType = "GAME_WON"
)

// MovePayload records a position change.
type MovePayload struct {
	From     int  `json:"from"`
	To       int  `json:"to"`
	PassedGo bool `json:"passedGo"`
}

// AssetPayload records a business purchase.
type AssetPayload struct {
	AssetID string `json:"assetId"`
	Name    string `json:"name"`
	Cost    int    `json:"cost"`
	Loan    bool   `json:"loan"`
	Paid    int    `json:"paid"` // cash spent now
}

// AmountPayload records a single cash or savings movement.
type AmountPayload struct {
	Amount int    `json:"amount"`
	Ref    string `json:"ref,omitempty"` // card reference, if any
}

// PaydayPayload summarises a monthly settlement.
type PaydayPayload struct {
	Net      int `json:"net"`
	NewCash  int `json:"newCash"`
	DebtPaid int `json:"debtPaid"`
	NewDebt  int `json:"newDebt"`
}

// QuizPayload records an answered question.
type QuizPayload struct {
	ChallengeID string `json:"challengeId,omitempty"` // empty for simulated bot answers
	Correct     bool   `json:"correct"`
	Reward      int    `json:"reward"`
}

// GameEvent represents an immutable record of an action in the game.
type GameEvent struct {
	ID        string      `json:"id"`
	GameID    string      `json:"game_id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	PlayerID  int         `json:"player_id"` // -1 for game-wide events
	Month     int         `json:"month"`
	Message   string      `json:"message"` // human-readable activity line
	Payload   interface{} `json:"payload,omitempty"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
// Persistence runs on a single background writer so the store keeps order.
// Append never waits on the writer: pending events queue up in memory.
//
// Only the current game is held in memory. A GAME_STARTED event drops the
// events before it; positions used by Since and Len keep counting from the
// first event ever appended.
type EventLog struct {
	mu      sync.RWMutex
	events  []GameEvent
	trimmed int // events dropped from the front so far

	persister EventPersister
	pmu       sync.Mutex
	pending   []GameEvent
	wake      chan struct{}
	done      chan struct{}
	onError   func(GameEvent, error)
	closed    bool
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	el := &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
	if persister != nil {
		el.wake = make(chan struct{}, 1)
		el.done = make(chan struct{})
		go el.drain()
	}
	return el
}

// OnPersistError registers a callback for failed writes. Call before use.
func (el *EventLog) OnPersistError(fn func(GameEvent, error)) {
	el.onError = fn
}

func (el *EventLog) drain() {
	defer close(el.done)
	for range el.wake {
		for {
			el.pmu.Lock()
			batch := el.pending
			el.pending = nil
			closed := el.closed
			el.pmu.Unlock()

			for _, e := range batch {
				if err := el.persister.Append(e); err != nil && el.onError != nil {
					el.onError(e, err)
				}
			}
			if len(batch) == 0 {
				if closed {
					return
				}
				break
			}
		}
	}
}

// enqueue hands an event to the writer without blocking.
func (el *EventLog) enqueue(event GameEvent) {
	if el.wake == nil {
		return
	}
	el.pmu.Lock()
	if el.closed {
		el.pmu.Unlock()
		return
	}
	el.pending = append(el.pending, event)
	select {
	case el.wake <- struct{}{}:
	default:
	}
	el.pmu.Unlock()
}

// Pending is the number of events waiting for the persister.
func (el *EventLog) Pending() int {
	el.pmu.Lock()
	defer el.pmu.Unlock()
	return len(el.pending)
}

// Append adds a new event to the log, filling ID and Timestamp when unset.
// Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) GameEvent {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	el.mu.Lock()
	if event.Type == EventTypeGameStarted && len(el.events) > 0 {
		el.trimmed += len(el.events)
		el.events = make([]GameEvent, 0, 64)
	}
	el.events = append(el.events, event)
	el.enqueue(event) // under mu so the writer sees the in-memory order
	el.mu.Unlock()
	return event
}

// Close flushes pending writes and stops the persister goroutine. Events
// appended afterwards stay in memory only.
func (el *EventLog) Close() {
	if el.wake == nil {
		return
	}
	el.pmu.Lock()
	if el.closed {
		el.pmu.Unlock()
		return
	}
	el.closed = true
	close(el.wake)
	el.pmu.Unlock()
	<-el.done
}

// GetByPlayer returns all events of a player within a game.
func (el *EventLog) GetByPlayer(gameID string, playerID int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.GameID == gameID && e.PlayerID == playerID {
			result = append(result, e)
		}
	}
	return result
}

// GetByMonth returns all events of a game that happened in a month.
func (el *EventLog) GetByMonth(gameID string, month int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.GameID == gameID && e.Month == month {
			result = append(result, e)
		}
	}
	return result
}

// GetByGame returns the history of one game in order.
func (el *EventLog) GetByGame(gameID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.GameID == gameID {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of the full history.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// Since returns the events appended after the first n, together with the
// cursor to pass on the next call. A cursor pointing into a trimmed game
// resumes at the oldest event still held.
func (el *EventLog) Since(n int) ([]GameEvent, int) {
	el.mu.RLock()
	defer el.mu.RUnlock()
	next := el.trimmed + len(el.events)
	i := n - el.trimmed
	if i >= len(el.events) {
		return nil, next
	}
	if i < 0 {
		i = 0
	}
	out := make([]GameEvent, len(el.events)-i)
	copy(out, el.events[i:])
	return out, next
}

// Len is the number of events appended so far, trimmed ones included.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.trimmed + len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
