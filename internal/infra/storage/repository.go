// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/kidcapital/server/internal/domain/achievement"
	"github.com/kidcapital/server/internal/engine"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("storage: not found")

// GameEvent mirrors the activity log entry for persistence. Payloads come
// back as generic JSON maps.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	GameID    string                 `json:"game_id" db:"game_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	PlayerID  int                    `json:"player_id" db:"player_id"`
	Month     int                    `json:"month" db:"month"`
	Message   string                 `json:"message" db:"message"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetByGameID retrieves all events for a game in append order.
	GetByGameID(ctx context.Context, gameID string) ([]GameEvent, error)

	// GetByPlayer retrieves all events of one player in a game.
	GetByPlayer(ctx context.Context, gameID string, playerID int) ([]GameEvent, error)

	// GetByMonth retrieves all events from a game month.
	GetByMonth(ctx context.Context, gameID string, month int) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, gameID string, eventType string) ([]GameEvent, error)
}

// SavedGame is the last saved session of a local player.
type SavedGame struct {
	LocalID   string           `json:"local_id"`
	State     engine.GameState `json:"state"`
	Setup     engine.Setup     `json:"setup"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SnapshotRepository saves and restores whole game sessions.
type SnapshotRepository interface {
	// Save overwrites the local player's saved game.
	Save(ctx context.Context, localID string, state engine.GameState, setup engine.Setup) error

	// Latest returns the saved game or ErrNotFound.
	Latest(ctx context.Context, localID string) (*SavedGame, error)

	// Delete drops the saved game. Missing rows are not an error.
	Delete(ctx context.Context, localID string) error
}

// ProfileRepository keeps lifetime progress and the login streak.
type ProfileRepository interface {
	SaveProfile(ctx context.Context, localID string, p achievement.Profile) error

	// LoadProfile returns the profile or ErrNotFound.
	LoadProfile(ctx context.Context, localID string) (*achievement.Profile, error)

	SaveDailyReward(ctx context.Context, localID string, d achievement.DailyReward) error

	// LoadDailyReward returns the zero streak when nothing was claimed yet.
	LoadDailyReward(ctx context.Context, localID string) (achievement.DailyReward, error)
}
