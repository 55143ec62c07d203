// Package scheduler runs the periodic background jobs: saving the game in
// progress and syncing the leaderboard row.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/kidcapital/server/internal/engine"
	"github.com/kidcapital/server/internal/infra/leaderboard"
	"github.com/kidcapital/server/internal/infra/storage"
	"github.com/kidcapital/server/internal/platform/logger"
)

// LeaderboardSink accepts leaderboard rows without blocking.
type LeaderboardSink interface {
	Submit(e leaderboard.Entry)
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron      *cron.Cron
	engine    *engine.Engine
	snapshots storage.SnapshotRepository
	profiles  storage.ProfileRepository
	board     LeaderboardSink
	localID   string
	logger    *logger.Logger
	ctx       context.Context
}

// New creates a Scheduler. Any of snapshots, profiles and board may be nil;
// the matching job then does nothing.
func New(ctx context.Context, eng *engine.Engine, snapshots storage.SnapshotRepository, profiles storage.ProfileRepository,
	board LeaderboardSink, localID string, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		engine:    eng,
		snapshots: snapshots,
		profiles:  profiles,
		board:     board,
		localID:   localID,
		logger:    log,
		ctx:       ctx,
	}
}

// RegisterAll registers the backup and leaderboard jobs. An empty spec
// leaves that job off.
func (s *Scheduler) RegisterAll(backupCron, leaderboardCron string) error {
	if backupCron != "" {
		if _, err := s.cron.AddFunc(backupCron, s.backupTask); err != nil {
			return fmt.Errorf("register backup task: %w", err)
		}
	}
	if leaderboardCron != "" {
		if _, err := s.cron.AddFunc(leaderboardCron, s.SyncLeaderboardNow); err != nil {
			return fmt.Errorf("register leaderboard task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) backupTask() {
	if err := s.BackupNow(); err != nil {
		s.logger.Errorf("Backup failed: %v", err)
	}
}

// BackupNow saves the game in progress and the progress profile.
func (s *Scheduler) BackupNow() error {
	if s.profiles != nil {
		if err := s.profiles.SaveProfile(s.ctx, s.localID, s.engine.Progress().Profile()); err != nil {
			return fmt.Errorf("failed to back up profile: %w", err)
		}
	}
	if s.snapshots == nil {
		return nil
	}
	setup, ok := s.engine.Store().Setup()
	if !ok {
		return nil
	}
	state := s.engine.Snapshot()
	if err := s.snapshots.Save(s.ctx, s.localID, state, setup); err != nil {
		return fmt.Errorf("failed to back up game %s: %w", state.GameID, err)
	}
	return nil
}

// SyncLeaderboardNow submits the local player's current row. Nothing is sent
// before the player has a name.
func (s *Scheduler) SyncLeaderboardNow() {
	if s.board == nil {
		return
	}
	profile := s.engine.Progress().Profile()
	if profile.Username == "" {
		return
	}
	netWorth := 0
	for _, p := range s.engine.Snapshot().Players {
		if p.IsHuman {
			netWorth = p.NetWorth()
		}
	}
	s.board.Submit(leaderboard.EntryFor(s.localID, profile, netWorth))
}
