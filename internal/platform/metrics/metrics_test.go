package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kidcapital/server/internal/events"
)

func TestObserveEvent(t *testing.T) {
	c := NewCollector()
	c.ObserveEvent(events.GameEvent{Type: events.EventTypeGameStarted, PlayerID: -1})
	c.ObserveEvent(events.GameEvent{Type: events.EventTypeDiceRolled})
	c.ObserveEvent(events.GameEvent{Type: events.EventTypeTurnAdvanced, PlayerID: 2})
	c.ObserveEvent(events.GameEvent{Type: events.EventTypeAssetBought, Payload: events.AssetPayload{Loan: true}})
	c.ObserveEvent(events.GameEvent{Type: events.EventTypeAssetBought, Payload: events.AssetPayload{}})
	c.ObserveEvent(events.GameEvent{Type: events.EventTypeQuizAnswered, Payload: events.QuizPayload{Correct: true}})
	c.ObserveEvent(events.GameEvent{Type: events.EventTypeGameWon, PlayerID: 1})

	if c.GamesStarted != 1 || c.Rolls != 1 || c.BotTurns != 1 || c.HumanTurns != 0 {
		t.Errorf("unexpected turn counters: %+v", c)
	}
	if c.LoanPurchases != 1 || c.CashPurchases != 1 {
		t.Errorf("purchases cash=%d loan=%d, want 1/1", c.CashPurchases, c.LoanPurchases)
	}
	if c.QuizAnswers != 1 || c.QuizCorrect != 1 {
		t.Errorf("quiz counters %d/%d, want 1/1", c.QuizCorrect, c.QuizAnswers)
	}
	if c.GamesWon != 1 || c.BotWins != 1 {
		t.Errorf("wins %d bot wins %d, want 1/1", c.GamesWon, c.BotWins)
	}
}

func TestPrometheusHandler(t *testing.T) {
	c := NewCollector()
	c.RecordWSConnection(1)
	c.RecordLeaderboardPublish(0, nil)

	rec := httptest.NewRecorder()
	c.PrometheusHandler()(rec, httptest.NewRequest("GET", "/metrics/prom", nil))

	body := rec.Body.String()
	for _, want := range []string{"kidcap_ws_connections 1", "kidcap_leaderboard_publishes 1", `kidcap_turns_total{seat="human"} 0`} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in output", want)
		}
	}
}
