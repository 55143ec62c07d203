package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kidcapital/server/internal/domain/achievement"
	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
	"github.com/kidcapital/server/internal/engine"
	"github.com/kidcapital/server/internal/events"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "nested", "kidcap.db"))
	if err != nil {
		t.Fatalf("InitSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEventRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteEventRepository(db)
	persister := NewEventPersister(repo, time.Second)
	ctx := context.Background()

	log := []events.GameEvent{
		{ID: "e1", GameID: "g1", Type: events.EventTypeGameStarted, PlayerID: -1, Month: 1, Message: "Ava started"},
		{ID: "e2", GameID: "g1", Type: events.EventTypeAssetBought, PlayerID: 0, Month: 1, Message: "bought",
			Payload: events.AssetPayload{AssetID: "a1", Cost: 80, Loan: true, Paid: 32}},
		{ID: "e3", GameID: "g1", Type: events.EventTypePayday, PlayerID: 1, Month: 2, Message: "payday",
			Payload: events.PaydayPayload{Net: 5, NewCash: 105}},
		{ID: "e4", GameID: "g2", Type: events.EventTypeGameStarted, PlayerID: -1, Month: 1},
	}
	for _, e := range log {
		e.Timestamp = time.Now()
		if err := persister.Append(e); err != nil {
			t.Fatalf("append %s: %v", e.ID, err)
		}
	}

	all, err := repo.GetByGameID(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "e1" || all[2].ID != "e3" {
		t.Fatalf("unexpected game events %+v", all)
	}
	if loan, _ := all[1].Payload["loan"].(bool); !loan || all[1].Payload["assetId"] != "a1" {
		t.Errorf("payload not restored: %v", all[1].Payload)
	}

	byPlayer, _ := repo.GetByPlayer(ctx, "g1", 1)
	if len(byPlayer) != 1 || byPlayer[0].ID != "e3" {
		t.Errorf("GetByPlayer returned %+v", byPlayer)
	}
	byMonth, _ := repo.GetByMonth(ctx, "g1", 1)
	if len(byMonth) != 2 {
		t.Errorf("GetByMonth returned %d events, want 2", len(byMonth))
	}
	byType, _ := repo.GetByEventType(ctx, "g1", "PAYDAY")
	if len(byType) != 1 {
		t.Errorf("GetByEventType returned %d events, want 1", len(byType))
	}

	if err := persister.Append(log[0]); err == nil {
		t.Error("duplicate event id should be rejected")
	}
}

func TestSnapshotRepository(t *testing.T) {
	repo := NewSQLiteSnapshotRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.Latest(ctx, "local"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	roll := 4
	state := engine.GameState{
		GameID:     "g1",
		Players:    []player.Player{player.New(0, "Ava", "🦊", true, "")},
		Month:      3,
		TurnPhase:  engine.PhaseTurnEnd,
		DiceResult: &roll,
		Difficulty: catalog.DifficultyKids,
	}
	setup := engine.Setup{HumanName: "Ava", Difficulty: catalog.DifficultyKids, DailyBonus: 15}
	if err := repo.Save(ctx, "local", state, setup); err != nil {
		t.Fatal(err)
	}
	state.Month = 4
	if err := repo.Save(ctx, "local", state, setup); err != nil {
		t.Fatal(err)
	}

	saved, err := repo.Latest(ctx, "local")
	if err != nil {
		t.Fatal(err)
	}
	if saved.State.Month != 4 || saved.State.Players[0].Name != "Ava" || *saved.State.DiceResult != 4 {
		t.Errorf("unexpected saved state %+v", saved.State)
	}
	if saved.Setup.DailyBonus != 15 {
		t.Errorf("setup not restored: %+v", saved.Setup)
	}

	if err := repo.Delete(ctx, "local"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Latest(ctx, "local"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestProfileRepository(t *testing.T) {
	repo := NewSQLiteProfileRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.LoadProfile(ctx, "local"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p := achievement.NewProfile("Ava", "🦊")
	p.RecordAssetBought()
	if err := repo.SaveProfile(ctx, "local", *p); err != nil {
		t.Fatal(err)
	}
	got, err := repo.LoadProfile(ctx, "local")
	if err != nil {
		t.Fatal(err)
	}
	if got.XP != p.XP || !got.HasUnlocked("first_business") || got.Stats.TotalAssetsEverBought != 1 {
		t.Errorf("profile not restored: %+v", got)
	}

	d, err := repo.LoadDailyReward(ctx, "local")
	if err != nil || d.Streak != 0 {
		t.Fatalf("expected empty streak, got %+v (%v)", d, err)
	}
	if err := repo.SaveDailyReward(ctx, "local", achievement.DailyReward{LastClaimDate: "2026-10-14", Streak: 3}); err != nil {
		t.Fatal(err)
	}
	d, _ = repo.LoadDailyReward(ctx, "local")
	if d.Streak != 3 || d.LastClaimDate != "2026-10-14" {
		t.Errorf("daily reward not restored: %+v", d)
	}
}

func TestReconstructor(t *testing.T) {
	repo := NewSQLiteEventRepository(openTestDB(t))
	p := NewEventPersister(repo, time.Second)
	for i, e := range []events.GameEvent{
		{GameID: "g", Type: events.EventTypeGameStarted, PlayerID: -1, Month: 1, Message: "start"},
		{GameID: "g", Type: events.EventTypeAssetBought, PlayerID: 0, Month: 1, Message: "buy", Payload: events.AssetPayload{Loan: true}},
		{GameID: "g", Type: events.EventTypeLifeEvent, PlayerID: 0, Month: 2, Message: "oops", Payload: events.AmountPayload{Amount: -12}},
		{GameID: "g", Type: events.EventTypeHustle, PlayerID: 1, Month: 2, Message: "bot job", Payload: events.AmountPayload{Amount: 20}},
		{GameID: "g", Type: events.EventTypeQuizAnswered, PlayerID: 0, Month: 2, Message: "quiz", Payload: events.QuizPayload{Correct: true, Reward: 10}},
		{GameID: "g", Type: events.EventTypePlayerMoved, PlayerID: 0, Month: 2, Payload: events.MovePayload{From: 1, To: 2}},
		{GameID: "g", Type: events.EventTypeGameWon, PlayerID: 1, Month: 3, Message: "bot won", Payload: events.AmountPayload{Amount: 3}},
	} {
		e.ID = string(rune('a' + i))
		e.Timestamp = time.Now()
		if err := p.Append(e); err != nil {
			t.Fatal(err)
		}
	}
	r := NewReconstructor(repo)
	ctx := context.Background()

	state, err := r.RebuildPlayerState(ctx, "g", 0)
	if err != nil {
		t.Fatal(err)
	}
	if state.AssetsBought != 1 || state.LoansTaken != 1 || state.LifeEventNet != -12 || state.QuizCorrect != 1 || state.WonGame {
		t.Errorf("unexpected rebuilt state %+v", state)
	}

	recap, err := r.GenerateRecap(ctx, "g", 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	// oops, quiz, bot won; the silent move and the bot's hustle are left out.
	if len(recap) != 3 {
		t.Fatalf("recap has %d entries, want 3: %+v", len(recap), recap)
	}
	if recap[0].Impact != "NEGATIVE" || recap[1].Impact != "POSITIVE" || recap[2].EventType != "GAME_WON" {
		t.Errorf("unexpected recap %+v", recap)
	}
}
