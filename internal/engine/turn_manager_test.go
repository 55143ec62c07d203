package engine

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kidcapital/server/internal/domain/achievement"
	"github.com/kidcapital/server/internal/domain/board"
	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/platform/logger"
)

func TestRollLandingOnStartEndsTurn(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{3}})
	e.InitGame(soloSetup())
	arrange(t, e, func(st *GameState) { st.Players[0].Position = 17 })

	if !e.Roll(context.Background()) {
		t.Fatal("roll rejected")
	}
	st := e.Snapshot()
	if st.Players[0].Position != 0 {
		t.Errorf("position %d, want 0", st.Players[0].Position)
	}
	if st.Players[0].Cash != player.StartCash+10 || st.Month != 2 {
		t.Errorf("GO not applied: cash %d month %d", st.Players[0].Cash, st.Month)
	}
	if st.TurnPhase != PhaseTurnEnd || st.TurnLocked || st.Modal != nil {
		t.Errorf("expected unlocked turn_end with no modal, got %s locked=%v", st.TurnPhase, st.TurnLocked)
	}
}

func TestRollIgnoredOutsideIdle(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{1, 1}})
	if e.Roll(context.Background()) {
		t.Error("roll accepted with no game")
	}
	e.InitGame(soloSetup())
	e.Roll(context.Background())
	if e.Roll(context.Background()) {
		t.Error("second roll accepted while a modal is open")
	}
	if e.Advance(context.Background()) {
		t.Error("advance accepted while a modal is open")
	}
}

func TestInvestModalFlow(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{1}})
	e.InitGame(soloSetup())
	e.Roll(context.Background())

	st := e.Snapshot()
	if st.TurnPhase != PhaseModalOpen || !st.TurnLocked {
		t.Fatalf("expected locked modal_open, got %s locked=%v", st.TurnPhase, st.TurnLocked)
	}
	if st.Modal == nil || st.Modal.Type != board.SpaceInvest || len(st.Modal.Offers) != 10 {
		t.Fatalf("expected invest modal with 10 offers, got %+v", st.Modal)
	}
	for _, o := range st.Modal.Offers {
		switch o.Asset.ID {
		case "a1":
			if !o.CanBuyCash {
				t.Error("a1 should be affordable in cash")
			}
		case "a4":
			if o.CanBuyCash || !o.CanBuyLoan || o.Loan.DownPayment != 80 {
				t.Errorf("a4 offer %+v, want loan-only with $80 down", o)
			}
		}
	}

	if e.Act(ActionBuyCash, ActionRequest{AssetID: "zz"}).Accepted {
		t.Error("unknown asset accepted")
	}
	if !e.Act(ActionBuyCash, ActionRequest{AssetID: "a1"}).Accepted {
		t.Fatal("cash purchase rejected")
	}
	if e.Act(ActionBuyCash, ActionRequest{AssetID: "a2"}).Accepted {
		t.Error("second purchase on the same card accepted")
	}

	if !e.CloseModal(context.Background()) {
		t.Fatal("close rejected")
	}
	if e.CloseModal(context.Background()) {
		t.Error("close accepted twice")
	}
	st = e.Snapshot()
	if st.Players[0].Cash != 20 || len(st.Players[0].Assets) != 1 {
		t.Errorf("cash %d assets %d, want 20 and 1", st.Players[0].Cash, len(st.Players[0].Assets))
	}
	if st.TurnPhase != PhaseTurnEnd || st.TurnLocked {
		t.Errorf("expected unlocked turn_end, got %s", st.TurnPhase)
	}

	if !e.Advance(context.Background()) {
		t.Fatal("advance rejected")
	}
	if st := e.Snapshot(); st.TurnPhase != PhaseIdle || st.CurrentPlayerIndex != 0 {
		t.Errorf("solo game should return to the human, got %s index %d", st.TurnPhase, st.CurrentPlayerIndex)
	}
}

func TestQuizWrongAnswerPenalty(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{1}})
	e.InitGame(soloSetup())
	arrange(t, e, func(st *GameState) { st.Players[0].Position = 8 })
	e.Roll(context.Background())

	m := e.Snapshot().Modal
	if m == nil || m.Type != board.SpaceChallenge || m.Challenge == nil {
		t.Fatalf("expected a quiz modal, got %+v", m)
	}
	wrong := (m.Challenge.CorrectIndex + 1) % len(m.Challenge.Options)
	res := e.Act(ActionAnswerQuiz, ActionRequest{Option: wrong})
	if !res.Accepted || res.Correct == nil || *res.Correct {
		t.Fatalf("unexpected result %+v", res)
	}
	if e.Act(ActionAnswerQuiz, ActionRequest{Option: m.Challenge.CorrectIndex}).Accepted {
		t.Error("a second answer was accepted")
	}

	p := mustPlayer(t, e, 0)
	if p.Cash != player.StartCash-5 || p.QuizTotal != 1 || p.QuizCorrect != 0 {
		t.Errorf("got cash %d quiz %d/%d", p.Cash, p.QuizCorrect, p.QuizTotal)
	}
	if seen := e.Snapshot().SeenChallenges; len(seen) != 1 || seen[0] != m.Challenge.ID {
		t.Errorf("seen challenges %v", seen)
	}
}

func TestQuizCorrectAnswerReward(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{1}})
	e.InitGame(soloSetup())
	arrange(t, e, func(st *GameState) { st.Players[0].Position = 8 })
	e.Roll(context.Background())

	ch := e.Snapshot().Modal.Challenge
	res := e.Act(ActionAnswerQuiz, ActionRequest{Option: ch.CorrectIndex})
	if !res.Accepted || !*res.Correct {
		t.Fatalf("unexpected result %+v", res)
	}
	if p := mustPlayer(t, e, 0); p.Cash != player.StartCash+ch.Reward || p.QuizCorrect != 1 {
		t.Errorf("got cash %d quiz correct %d", p.Cash, p.QuizCorrect)
	}
}

func decodeQuizCard(t *testing.T, raw []byte) ChallengeCard {
	t.Helper()
	var st struct {
		Modal struct {
			Challenge ChallengeCard `json:"challenge"`
		} `json:"modal"`
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return st.Modal.Challenge
}

func TestQuizAnswerHiddenUntilAnswered(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{1}})
	e.InitGame(soloSetup())
	arrange(t, e, func(st *GameState) { st.Players[0].Position = 8 })
	e.Roll(context.Background())

	snap := e.Snapshot()
	if snap.TurnPhase != PhaseModalOpen || snap.Modal == nil || snap.Modal.Challenge == nil {
		t.Fatalf("expected an open quiz, got %s %+v", snap.TurnPhase, snap.Modal)
	}
	ch := *snap.Modal.Challenge
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "correctIndex") || strings.Contains(string(raw), `"explanation"`) {
		t.Fatalf("open quiz leaks its answer: %s", raw)
	}
	if card := decodeQuizCard(t, raw); card.Question != ch.Question || len(card.Options) != len(ch.Options) {
		t.Errorf("open quiz card %+v, want question %q", card, ch.Question)
	}

	// A state saved with the redacted card still grades after a restore.
	var saved GameState
	if err := json.Unmarshal(raw, &saved); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	setup, _ := e.store.Setup()
	e.Restore(saved, setup)
	res := e.Act(ActionAnswerQuiz, ActionRequest{Option: ch.CorrectIndex})
	if !res.Accepted || res.Correct == nil || !*res.Correct {
		t.Fatalf("restored quiz graded %+v", res)
	}

	raw, _ = json.Marshal(e.Snapshot())
	card := decodeQuizCard(t, raw)
	if card.CorrectIndex == nil || *card.CorrectIndex != ch.CorrectIndex || card.Explanation != ch.Explanation {
		t.Errorf("answered quiz should reveal the answer, got %+v", card)
	}
}

func TestBankModalAllowsRepeatedMoves(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{1}})
	e.InitGame(soloSetup())
	arrange(t, e, func(st *GameState) { st.Players[0].Position = 9 })
	e.Roll(context.Background())

	if !e.Act(ActionDeposit, ActionRequest{Amount: 60}).Accepted ||
		!e.Act(ActionWithdraw, ActionRequest{Amount: 20}).Accepted ||
		!e.Act(ActionDeposit, ActionRequest{Amount: 10}).Accepted {
		t.Fatal("bank moves rejected")
	}
	if e.Act(ActionWithdraw, ActionRequest{Amount: 100}).Accepted {
		t.Error("overdraw withdraw accepted")
	}
	if e.Act(ActionCollectPayday, ActionRequest{}).Accepted {
		t.Error("payday accepted on a bank card")
	}
	if p := mustPlayer(t, e, 0); p.Savings != 50 || p.Cash != 50 {
		t.Errorf("savings %d cash %d, want 50/50", p.Savings, p.Cash)
	}
}

func TestPaydayModalPreviewAndCollect(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{5}})
	e.InitGame(soloSetup())
	e.Roll(context.Background())

	m := e.Snapshot().Modal
	if m == nil || m.Payday == nil || m.Payday.Net != 5 {
		t.Fatalf("expected payday preview with net +5, got %+v", m)
	}
	res := e.Act(ActionCollectPayday, ActionRequest{})
	if !res.Accepted || res.Payday.NewCash != 105 {
		t.Fatalf("unexpected payday result %+v", res)
	}
	if e.Act(ActionCollectPayday, ActionRequest{}).Accepted {
		t.Error("payday collected twice")
	}
}

func TestBotTurnChain(t *testing.T) {
	// Human lands on GO, then the conservative bot rolls 5 onto payday.
	e := newTestEngine(t, &scriptedDice{rolls: []int{3, 5}})
	e.InitGame(withBots(catalog.Conservative))
	arrange(t, e, func(st *GameState) { st.Players[0].Position = 17 })

	e.Roll(context.Background())
	if !e.Advance(context.Background()) {
		t.Fatal("advance rejected")
	}

	st := e.Snapshot()
	bot := st.Players[1]
	if bot.Position != 5 || bot.Cash != player.StartCash+5 {
		t.Errorf("bot position %d cash %d, want 5 and 105", bot.Position, bot.Cash)
	}
	if st.CurrentPlayerIndex != 0 || st.TurnPhase != PhaseIdle || st.TurnLocked {
		t.Errorf("expected the human up and idle, got index %d phase %s", st.CurrentPlayerIndex, st.TurnPhase)
	}
}

func TestBotWinEndsGame(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{3, 2}})
	e.InitGame(withBots(catalog.Balanced))
	arrange(t, e, func(st *GameState) {
		st.Players[0].Position = 17
		st.Players[1].Assets = freeAssets(catalog.Default(), "a8", "a9", "a10")
		st.Players[1].Savings = 60
	})

	e.Roll(context.Background())
	e.Advance(context.Background())

	st := e.Snapshot()
	if !st.IsGameOver || st.WinnerID == nil || *st.WinnerID != 1 {
		t.Fatalf("expected bot 1 to win, got over=%v winner=%v", st.IsGameOver, st.WinnerID)
	}
	if st.TurnPhase != PhaseBotActing || st.TurnLocked {
		t.Errorf("terminal state phase %s locked %v", st.TurnPhase, st.TurnLocked)
	}
	if e.Roll(context.Background()) || e.Advance(context.Background()) {
		t.Error("commands accepted after game over")
	}
	won := e.GetEventLog().GetByGame(st.GameID)
	if last := won[len(won)-1]; last.Type != events.EventTypeGameWon || last.PlayerID != 1 {
		t.Errorf("last event %s by %d, want GAME_WON by 1", last.Type, last.PlayerID)
	}
}

func TestHumanWinOnClose(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{1}})
	e.InitGame(withBots(catalog.Aggressive))
	arrange(t, e, func(st *GameState) {
		st.Players[0].Position = 9
		st.Players[0].Assets = freeAssets(catalog.Default(), "a8", "a9", "a10")
		st.Players[0].Savings = 45
	})
	e.Roll(context.Background())
	e.Act(ActionDeposit, ActionRequest{Amount: 5})

	if !e.CloseModal(context.Background()) {
		t.Fatal("close rejected")
	}
	st := e.Snapshot()
	if !st.IsGameOver || *st.WinnerID != 0 || st.TurnPhase != PhaseActionDone || st.TurnLocked {
		t.Errorf("unexpected terminal state: over=%v phase=%s locked=%v", st.IsGameOver, st.TurnPhase, st.TurnLocked)
	}
}

func TestBotBankPolicy(t *testing.T) {
	tests := []struct {
		personality catalog.Personality
		savings     int
		skipped     bool
	}{
		{catalog.Conservative, 50, false},
		{catalog.Balanced, 30, false},
		{catalog.Aggressive, 0, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.personality), func(t *testing.T) {
			// Human lands on GO, then the bot rolls 1 onto the bank.
			e := newTestEngine(t, &scriptedDice{rolls: []int{3, 1}})
			e.InitGame(withBots(tt.personality))
			arrange(t, e, func(st *GameState) {
				st.Players[0].Position = 17
				st.Players[1].Position = 9
			})
			e.Roll(context.Background())
			e.Advance(context.Background())

			bot := mustPlayer(t, e, 1)
			if bot.Position != 10 {
				t.Fatalf("bot position %d, want the bank on 10", bot.Position)
			}
			if bot.Savings != tt.savings || bot.Cash != player.StartCash-tt.savings {
				t.Errorf("savings %d cash %d, want %d/%d", bot.Savings, bot.Cash, tt.savings, player.StartCash-tt.savings)
			}
			var skipped bool
			for _, ev := range e.GetEventLog().GetByPlayer(e.store.GameID(), 1) {
				if ev.Type == events.EventTypeBotSkipped {
					skipped = true
				}
			}
			if skipped != tt.skipped {
				t.Errorf("BOT_SKIPPED recorded=%v, want %v", skipped, tt.skipped)
			}
		})
	}
}

func TestBotQuizOutcome(t *testing.T) {
	tests := []struct {
		name    string
		draw    float64
		cash    int
		correct int
	}{
		{"correct", 0.1, player.StartCash + catalog.QuizReward, 1},
		{"wrong", 0.9, player.StartCash + quizWrongPenalty, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, &scriptedDice{rolls: []int{3, 1}, floats: []float64{tt.draw}})
			e.InitGame(withBots(catalog.Balanced))
			arrange(t, e, func(st *GameState) {
				st.Players[0].Position = 17
				st.Players[1].Position = 8
			})
			e.Roll(context.Background())
			e.Advance(context.Background())

			bot := mustPlayer(t, e, 1)
			if bot.Position != 9 {
				t.Fatalf("bot position %d, want the quiz on 9", bot.Position)
			}
			if bot.Cash != tt.cash || bot.QuizCorrect != tt.correct || bot.QuizTotal != 1 {
				t.Errorf("cash %d quiz %d/%d, want %d and %d/1", bot.Cash, bot.QuizCorrect, bot.QuizTotal, tt.cash, tt.correct)
			}
		})
	}
}

func TestBotSkipsInvestingWithDebt(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{3, 1}})
	e.InitGame(withBots(catalog.Aggressive))
	arrange(t, e, func(st *GameState) {
		st.Players[0].Position = 17
		st.Players[1].Debt = 50
		st.Players[1].LoanPayment = 10
	})
	e.Roll(context.Background())
	e.Advance(context.Background())

	if bot := mustPlayer(t, e, 1); len(bot.Assets) != 0 {
		t.Error("a bot in debt must not invest")
	}
	var skipped bool
	for _, ev := range e.GetEventLog().GetByPlayer(e.store.GameID(), 1) {
		if ev.Type == events.EventTypeBotSkipped {
			skipped = true
		}
	}
	if !skipped {
		t.Error("expected a BOT_SKIPPED event")
	}
}

func TestConcurrentRollsStartOnce(t *testing.T) {
	e := newTestEngine(t, NewRandDice(7))
	e.InitGame(soloSetup())

	var accepted int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if e.Roll(context.Background()) {
				atomic.AddInt32(&accepted, 1)
			}
		}()
	}
	wg.Wait()
	if accepted != 1 {
		t.Errorf("%d rolls accepted, want exactly 1", accepted)
	}
}

func TestInitGameFastForwardsRunningRoll(t *testing.T) {
	slow := StandardTiming()
	slow.DiceRoll = time.Hour
	e := NewEngine(catalog.Default(), events.NewEventLog(nil),
		TurnOptions{Dice: NewRandDice(3), Pacer: SleepPacer{}, Timing: slow}, logger.NewDiscard())
	e.InitGame(soloSetup())

	done := make(chan struct{})
	go func() {
		e.Roll(context.Background())
		close(done)
	}()
	for !e.Snapshot().TurnLocked {
		time.Sleep(time.Millisecond)
	}

	restarted := make(chan error, 1)
	go func() { restarted <- e.InitGame(soloSetup()) }()
	select {
	case err := <-restarted:
		if err != nil {
			t.Fatalf("InitGame: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("InitGame waited on the paused roll")
	}
	<-done
	if st := e.Snapshot(); st.TurnPhase != PhaseIdle || st.TurnLocked {
		t.Errorf("new game should start idle, got %s", st.TurnPhase)
	}
}

func TestProgressTracksHuman(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{1}})
	var unlocked []string
	e.Progress().OnChange(func(_ achievement.Profile, fresh []achievement.Achievement) {
		for _, a := range fresh {
			unlocked = append(unlocked, a.ID)
		}
	})
	e.InitGame(soloSetup())
	e.Roll(context.Background())
	e.Act(ActionBuyCash, ActionRequest{AssetID: "a1"})
	e.ProcessPending()

	prof := e.Progress().Profile()
	if prof.Stats.TotalAssetsEverBought != 1 || prof.XP != 20 {
		t.Errorf("stats %+v xp %d", prof.Stats, prof.XP)
	}
	if len(unlocked) != 1 || unlocked[0] != "first_business" {
		t.Errorf("unlocked %v, want [first_business]", unlocked)
	}
	if prof.Username != "Ava" {
		t.Errorf("username %q", prof.Username)
	}
}

func TestNewGameKeepsProgressFromPreviousGame(t *testing.T) {
	e := newTestEngine(t, &scriptedDice{rolls: []int{1}})
	e.InitGame(soloSetup())
	e.Roll(context.Background())
	e.Act(ActionBuyCash, ActionRequest{AssetID: "a1"})

	// No poll ran before the restart.
	if err := e.RestartGame(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	e.ProcessPending()

	if got := e.Progress().Profile().Stats.TotalAssetsEverBought; got != 1 {
		t.Errorf("purchase from the previous game lost, got %d", got)
	}
	if n := len(e.GetEventLog().GetByGame(e.Snapshot().GameID)); n != 1 {
		t.Errorf("expected only GAME_STARTED in memory for the new game, got %d", n)
	}
}
