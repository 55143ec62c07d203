package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kidcapital/server/internal/domain/achievement"
	"github.com/kidcapital/server/internal/engine"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, game_id, timestamp, event_type, player_id, month, message, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.GameID, event.Timestamp.UTC(), event.EventType, event.PlayerID,
		event.Month, event.Message, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

const eventColumns = `id, game_id, timestamp, event_type, player_id, month, message, payload`

func (r *SQLiteEventRepository) getMany(ctx context.Context, where string, args ...interface{}) ([]GameEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + where + ` ORDER BY seq ASC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.GameID, &e.Timestamp, &e.EventType, &e.PlayerID,
			&e.Month, &e.Message, &payloadStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of %s: %w", e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetByGameID(ctx context.Context, gameID string) ([]GameEvent, error) {
	return r.getMany(ctx, `game_id = ?`, gameID)
}

func (r *SQLiteEventRepository) GetByPlayer(ctx context.Context, gameID string, playerID int) ([]GameEvent, error) {
	return r.getMany(ctx, `game_id = ? AND player_id = ?`, gameID, playerID)
}

func (r *SQLiteEventRepository) GetByMonth(ctx context.Context, gameID string, month int) ([]GameEvent, error) {
	return r.getMany(ctx, `game_id = ? AND month = ?`, gameID, month)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, gameID string, eventType string) ([]GameEvent, error) {
	return r.getMany(ctx, `game_id = ? AND event_type = ?`, gameID, eventType)
}

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

type SQLiteSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) Save(ctx context.Context, localID string, state engine.GameState, setup engine.Setup) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}
	setupJSON, err := json.Marshal(setup)
	if err != nil {
		return fmt.Errorf("failed to marshal setup: %w", err)
	}

	query := `
		INSERT INTO saved_games (local_id, game_id, state_json, setup_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(local_id) DO UPDATE SET
			game_id=excluded.game_id,
			state_json=excluded.state_json,
			setup_json=excluded.setup_json,
			updated_at=excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, localID, state.GameID, string(stateJSON), string(setupJSON), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepository) Latest(ctx context.Context, localID string) (*SavedGame, error) {
	query := `SELECT state_json, setup_json, updated_at FROM saved_games WHERE local_id = ?`
	var stateJSON, setupJSON string
	saved := SavedGame{LocalID: localID}
	err := r.db.QueryRowContext(ctx, query, localID).Scan(&stateJSON, &setupJSON, &saved.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load saved game: %w", err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &saved.State); err != nil {
		return nil, fmt.Errorf("failed to decode game state: %w", err)
	}
	if err := json.Unmarshal([]byte(setupJSON), &saved.Setup); err != nil {
		return nil, fmt.Errorf("failed to decode setup: %w", err)
	}
	return &saved, nil
}

func (r *SQLiteSnapshotRepository) Delete(ctx context.Context, localID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM saved_games WHERE local_id = ?`, localID); err != nil {
		return fmt.Errorf("failed to delete saved game: %w", err)
	}
	return nil
}

// ---------------------------------------------------------
// SQLiteProfileRepository
// ---------------------------------------------------------

type SQLiteProfileRepository struct {
	db *sql.DB
}

func NewSQLiteProfileRepository(db *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: db}
}

func (r *SQLiteProfileRepository) SaveProfile(ctx context.Context, localID string, p achievement.Profile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	query := `
		INSERT INTO profiles (local_id, username, xp, profile_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(local_id) DO UPDATE SET
			username=excluded.username,
			xp=excluded.xp,
			profile_json=excluded.profile_json,
			updated_at=excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, localID, p.Username, p.XP, string(body), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (r *SQLiteProfileRepository) LoadProfile(ctx context.Context, localID string) (*achievement.Profile, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT profile_json FROM profiles WHERE local_id = ?`, localID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	var p achievement.Profile
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if p.Unlocked == nil {
		p.Unlocked = []string{}
	}
	return &p, nil
}

func (r *SQLiteProfileRepository) SaveDailyReward(ctx context.Context, localID string, d achievement.DailyReward) error {
	query := `
		INSERT INTO daily_rewards (local_id, last_claim_date, streak)
		VALUES (?, ?, ?)
		ON CONFLICT(local_id) DO UPDATE SET
			last_claim_date=excluded.last_claim_date,
			streak=excluded.streak
	`
	if _, err := r.db.ExecContext(ctx, query, localID, d.LastClaimDate, d.Streak); err != nil {
		return fmt.Errorf("failed to save daily reward: %w", err)
	}
	return nil
}

func (r *SQLiteProfileRepository) LoadDailyReward(ctx context.Context, localID string) (achievement.DailyReward, error) {
	var d achievement.DailyReward
	err := r.db.QueryRowContext(ctx, `SELECT last_claim_date, streak FROM daily_rewards WHERE local_id = ?`, localID).
		Scan(&d.LastClaimDate, &d.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return achievement.DailyReward{}, nil
	}
	if err != nil {
		return d, fmt.Errorf("failed to load daily reward: %w", err)
	}
	return d, nil
}
