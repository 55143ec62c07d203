package engine

import (
	"sync"

	"github.com/kidcapital/server/internal/domain/achievement"
	"github.com/kidcapital/server/internal/domain/player"
	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/platform/logger"
)

// ProgressSystem folds the human's game events into their lifetime profile:
// stats, achievements and XP. Bots never earn progress.
type ProgressSystem struct {
	store  *Store
	logger *logger.Logger

	mu       sync.Mutex
	profile  *achievement.Profile
	onChange func(achievement.Profile, []achievement.Achievement)
}

// NewProgressSystem starts with an empty profile.
func NewProgressSystem(store *Store, log *logger.Logger) *ProgressSystem {
	return &ProgressSystem{
		store:   store,
		logger:  log,
		profile: achievement.NewProfile("", ""),
	}
}

// Load replaces the tracked profile, typically with one read from storage.
func (ps *ProgressSystem) Load(p achievement.Profile) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	cp := p
	cp.Unlocked = append([]string{}, p.Unlocked...)
	ps.profile = &cp
}

// Profile returns a copy of the tracked profile.
func (ps *ProgressSystem) Profile() achievement.Profile {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	cp := *ps.profile
	cp.Unlocked = append([]string{}, ps.profile.Unlocked...)
	return cp
}

// SetIdentity updates the name and avatar shown on the leaderboard.
func (ps *ProgressSystem) SetIdentity(username, avatar string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.profile.Username = username
	ps.profile.Avatar = avatar
}

// OnChange registers fn to run after each event that changed the profile,
// with any achievements that event unlocked.
func (ps *ProgressSystem) OnChange(fn func(achievement.Profile, []achievement.Achievement)) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.onChange = fn
}

// OnEvent is dispatched by the engine for every logged event.
func (ps *ProgressSystem) OnEvent(ev events.GameEvent) {
	ps.mu.Lock()
	changed, fresh := ps.apply(ev)
	var snap achievement.Profile
	fn := ps.onChange
	if changed {
		snap = *ps.profile
		snap.Unlocked = append([]string{}, ps.profile.Unlocked...)
	}
	ps.mu.Unlock()

	for _, a := range fresh {
		ps.logger.Event("ACHIEVEMENT_UNLOCKED", snap.Username, a.Icon+" "+a.Title)
	}
	if changed && fn != nil {
		fn(snap, fresh)
	}
}

func (ps *ProgressSystem) apply(ev events.GameEvent) (bool, []achievement.Achievement) {
	p := ps.profile
	switch ev.Type {
	case events.EventTypeGameStarted:
		p.ResetSession()
		return false, nil
	case events.EventTypeGameWon:
		months := 0
		if payload, ok := ev.Payload.(events.AmountPayload); ok {
			months = payload.Amount
		}
		return true, p.RecordGameEnd(ev.PlayerID == player.HumanID, months)
	}

	if ev.PlayerID != player.HumanID {
		return false, nil
	}

	var fresh []achievement.Achievement
	switch ev.Type {
	case events.EventTypeAssetBought:
		fresh = p.RecordAssetBought()
	case events.EventTypeQuizAnswered:
		payload, ok := ev.Payload.(events.QuizPayload)
		if !ok {
			return false, nil
		}
		fresh = p.RecordQuizResult(payload.Correct)
	case events.EventTypeTemptationSkipped:
		fresh = p.RecordTemptationSkip()
	case events.EventTypeTemptationBought:
		p.ResetTemptationStreak()
		return false, nil
	case events.EventTypePayday:
		if payload, ok := ev.Payload.(events.PaydayPayload); ok && payload.DebtPaid > 0 && payload.NewDebt == 0 {
			fresh = p.RecordDebtPaidOff()
		}
	case events.EventTypeDeposit, events.EventTypeTurnAdvanced:
	default:
		return false, nil
	}

	fresh = append(fresh, ps.observeHoldings(ev.GameID)...)
	return true, fresh
}

// observeHoldings records the human's current asset count and savings if the
// event still belongs to the live game.
func (ps *ProgressSystem) observeHoldings(gameID string) []achievement.Achievement {
	snap := ps.store.Snapshot()
	if snap.GameID != gameID {
		return nil
	}
	human, ok := snap.Human()
	if !ok {
		return nil
	}
	return ps.profile.ObserveTurn(len(human.Assets), human.Savings)
}
