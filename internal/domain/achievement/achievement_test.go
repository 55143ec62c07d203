package achievement

import (
	"testing"
	"time"
)

func ids(list []Achievement) map[string]bool {
	out := map[string]bool{}
	for _, a := range list {
		out[a.ID] = true
	}
	return out
}

func TestDefinitions(t *testing.T) {
	if len(All) != 15 {
		t.Errorf("Expected 15 achievements, got %d", len(All))
	}
	seen := map[string]bool{}
	for _, a := range All {
		if seen[a.ID] {
			t.Errorf("Duplicate achievement id %s", a.ID)
		}
		seen[a.ID] = true
		if a.Check(Stats{}) {
			t.Errorf("%s should not unlock on empty stats", a.ID)
		}
	}
}

func TestFirstPurchaseUnlocksOnce(t *testing.T) {
	p := NewProfile("Ava", "🦊")

	got := ids(p.RecordAssetBought())
	if !got["first_business"] || p.XP != 20 {
		t.Fatalf("Expected first_business for 20 XP, got %v xp=%d", got, p.XP)
	}
	if again := p.RecordAssetBought(); len(again) != 0 {
		t.Errorf("Expected nothing new on the second purchase, got %v", ids(again))
	}
	if p.XP != 20 {
		t.Errorf("XP should not be granted twice, got %d", p.XP)
	}
}

func TestQuizStreak(t *testing.T) {
	p := NewProfile("Ava", "🦊")
	for i := 0; i < 4; i++ {
		p.RecordQuizResult(true)
	}
	p.RecordQuizResult(false)
	if p.QuizStreak != 0 || p.Stats.QuizCorrectStreak != 4 {
		t.Errorf("Expected streak reset to 0 with best 4, got %d/%d", p.QuizStreak, p.Stats.QuizCorrectStreak)
	}

	var unlocked map[string]bool
	for i := 0; i < 5; i++ {
		unlocked = ids(p.RecordQuizResult(true))
	}
	if !unlocked["quiz_whiz"] {
		t.Errorf("Expected quiz_whiz on the fifth straight correct answer, got %v", unlocked)
	}
	if p.Stats.TotalQuizTotal != 10 || p.Stats.TotalQuizCorrect != 9 {
		t.Errorf("Unexpected totals %+v", p.Stats)
	}
}

func TestTemptationStreak(t *testing.T) {
	p := NewProfile("Ava", "🦊")
	p.RecordTemptationSkip()
	p.RecordTemptationSkip()
	p.ResetTemptationStreak()
	if got := p.RecordTemptationSkip(); len(got) != 0 {
		t.Errorf("Streak was reset, nothing should unlock, got %v", ids(got))
	}
	p.RecordTemptationSkip()
	if got := ids(p.RecordTemptationSkip()); !got["no_impulse"] {
		t.Errorf("Expected no_impulse after three straight skips, got %v", got)
	}
}

func TestRecordGameEnd(t *testing.T) {
	p := NewProfile("Ava", "🦊")
	p.RecordGameEnd(false, 30)
	if p.Stats.TotalGamesPlayed != 1 || p.Stats.FastestWin != 0 {
		t.Errorf("Unexpected stats after a loss: %+v", p.Stats)
	}

	got := ids(p.RecordGameEnd(true, 14))
	if !got["first_win"] || got["speed_runner"] {
		t.Errorf("Expected first_win only, got %v", got)
	}
	got = ids(p.RecordGameEnd(true, 11))
	if !got["speed_runner"] || p.Stats.FastestWin != 11 {
		t.Errorf("Expected speed_runner with fastest 11, got %v fastest=%d", got, p.Stats.FastestWin)
	}
	p.RecordGameEnd(true, 20)
	if p.Stats.FastestWin != 11 {
		t.Errorf("A slower win must not replace the record, got %d", p.Stats.FastestWin)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		xp, level, next, progress int
	}{
		{0, 1, 100, 0},
		{50, 1, 100, 50},
		{100, 2, 300, 0},
		{450, 3, 600, 50},
		{2500, 6, 2000, 100},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp).Level; got != tt.level {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.level)
		}
		if got := XPToNextLevel(tt.xp); got.Next != tt.next || got.Progress != tt.progress {
			t.Errorf("XPToNextLevel(%d) = %+v", tt.xp, got)
		}
	}
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", s)
	return t
}

func TestDailyReward(t *testing.T) {
	var d DailyReward
	offer := d.Check(day("2026-03-01 09:00"))
	if !offer.Available || offer.Streak != 1 || offer.BonusCash != 10 {
		t.Fatalf("Unexpected first offer: %+v", offer)
	}

	d, _ = d.Claim(day("2026-03-01 09:00"))
	if again := d.Check(day("2026-03-01 23:59")); again.Available {
		t.Error("Reward should not be available twice on the same day")
	}
	if _, o := d.Claim(day("2026-03-01 23:00")); o.Available || o.BonusCash != 0 {
		t.Errorf("Second claim on the same day should grant nothing, got %+v", o)
	}

	d, offer = d.Claim(day("2026-03-02 08:00"))
	if offer.Streak != 2 || offer.BonusCash != 15 {
		t.Errorf("Expected streak 2 with $15, got %+v", offer)
	}

	for _, date := range []string{"2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08", "2026-03-09", "2026-03-10"} {
		d, offer = d.Claim(day(date + " 12:00"))
	}
	if offer.Streak != 10 || offer.BonusCash != 50 {
		t.Errorf("Expected bonus capped at $50 on day 10, got %+v", offer)
	}

	_, offer = d.Claim(day("2026-03-13 12:00"))
	if offer.Streak != 1 || offer.BonusCash != 10 {
		t.Errorf("Expected streak reset after a gap, got %+v", offer)
	}
}
