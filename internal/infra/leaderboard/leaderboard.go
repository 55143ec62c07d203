// Package leaderboard publishes the local player's standing to a shared
// Postgres leaderboard. Publishing is best-effort: failures are logged and
// counted, never returned to the game.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kidcapital/server/internal/domain/achievement"
)

// Entry is one leaderboard row.
type Entry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	NetWorth int    `json:"net_worth"`
}

// EntryFor builds the row for a profile. netWorth is taken from the human's
// latest game.
func EntryFor(id string, p achievement.Profile, netWorth int) Entry {
	return Entry{
		ID:       id,
		Username: p.Username,
		Avatar:   p.Avatar,
		Level:    achievement.LevelForXP(p.XP).Level,
		XP:       p.XP,
		NetWorth: netWorth,
	}
}

// Publisher writes leaderboard rows.
type Publisher interface {
	Publish(ctx context.Context, e Entry) error
	Close()
}

// Noop is used when no leaderboard is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Entry) error { return nil }
func (Noop) Close()                               {}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	username   TEXT NOT NULL,
	avatar     TEXT NOT NULL DEFAULT '',
	level      INTEGER NOT NULL DEFAULT 1,
	xp         INTEGER NOT NULL DEFAULT 0,
	net_worth  INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres upserts rows into the profiles table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects and makes sure the profiles table exists.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create leaderboard pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach leaderboard database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create profiles table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Publish upserts the row keyed by id.
func (p *Postgres) Publish(ctx context.Context, e Entry) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO profiles (id, username, avatar, level, xp, net_worth, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			avatar = EXCLUDED.avatar,
			level = EXCLUDED.level,
			xp = EXCLUDED.xp,
			net_worth = EXCLUDED.net_worth,
			updated_at = now()
	`, e.ID, e.Username, e.Avatar, e.Level, e.XP, e.NetWorth)
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", e.ID, err)
	}
	return nil
}

// Top returns the n best rows by XP, then net worth.
func (p *Postgres) Top(ctx context.Context, n int) ([]Entry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, username, avatar, level, xp, net_worth
		FROM profiles
		ORDER BY xp DESC, net_worth DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.Username, &e.Avatar, &e.Level, &e.XP, &e.NetWorth)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan leaderboard: %w", err)
	}
	return entries, nil
}

// Rank returns the 1-based XP rank of id, or ok=false if it has no row.
func (p *Postgres) Rank(ctx context.Context, id string) (rank int, ok bool, err error) {
	err = p.pool.QueryRow(ctx, `
		SELECT r FROM (
			SELECT id, RANK() OVER (ORDER BY xp DESC, net_worth DESC) AS r FROM profiles
		) ranked WHERE id = $1
	`, id).Scan(&rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to rank profile %s: %w", id, err)
	}
	return rank, true, nil
}

func (p *Postgres) Close() { p.pool.Close() }

// Recorder receives publish outcomes, typically the metrics collector.
type Recorder interface {
	RecordLeaderboardPublish(latency time.Duration, err error)
}
