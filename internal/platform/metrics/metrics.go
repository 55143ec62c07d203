// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kidcapital/server/internal/events"
)

// Collector gathers game and infrastructure counters.
type Collector struct {
	// Game metrics
	GamesStarted  int64
	GamesWon      int64
	BotWins       int64
	Rolls         int64
	HumanTurns    int64
	BotTurns      int64
	CashPurchases int64
	LoanPurchases int64
	Paydays       int64
	QuizAnswers   int64
	QuizCorrect   int64
	LastEventTime time.Time

	// Event persistence
	EventsWritten    int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// Leaderboard
	LeaderboardPublishes int64
	LeaderboardErrors    int64
	LeaderboardLatSum    int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = NewCollector()

// NewCollector returns an empty collector. Tests use their own; the server
// uses Get.
func NewCollector() *Collector {
	return &Collector{StartTime: time.Now()}
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// ObserveEvent counts a logged game event.
func (c *Collector) ObserveEvent(ev events.GameEvent) {
	switch ev.Type {
	case events.EventTypeGameStarted:
		atomic.AddInt64(&c.GamesStarted, 1)
	case events.EventTypeGameWon:
		atomic.AddInt64(&c.GamesWon, 1)
		if ev.PlayerID != 0 {
			atomic.AddInt64(&c.BotWins, 1)
		}
	case events.EventTypeDiceRolled:
		atomic.AddInt64(&c.Rolls, 1)
	case events.EventTypeTurnAdvanced:
		if ev.PlayerID == 0 {
			atomic.AddInt64(&c.HumanTurns, 1)
		} else {
			atomic.AddInt64(&c.BotTurns, 1)
		}
	case events.EventTypeAssetBought:
		if p, ok := ev.Payload.(events.AssetPayload); ok && p.Loan {
			atomic.AddInt64(&c.LoanPurchases, 1)
		} else {
			atomic.AddInt64(&c.CashPurchases, 1)
		}
	case events.EventTypePayday:
		atomic.AddInt64(&c.Paydays, 1)
	case events.EventTypeQuizAnswered:
		atomic.AddInt64(&c.QuizAnswers, 1)
		if p, ok := ev.Payload.(events.QuizPayload); ok && p.Correct {
			atomic.AddInt64(&c.QuizCorrect, 1)
		}
	}

	c.mu.Lock()
	c.LastEventTime = ev.Timestamp
	c.mu.Unlock()
}

// RecordEventWrite records an event write to the database.
func (c *Collector) RecordEventWrite(err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordLeaderboardPublish records a remote profile upsert.
func (c *Collector) RecordLeaderboardPublish(latency time.Duration, err error) {
	atomic.AddInt64(&c.LeaderboardPublishes, 1)
	atomic.AddInt64(&c.LeaderboardLatSum, int64(latency))
	if err != nil {
		atomic.AddInt64(&c.LeaderboardErrors, 1)
	}
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	publishes := atomic.LoadInt64(&c.LeaderboardPublishes)
	var publishAvg float64
	if publishes > 0 {
		publishAvg = float64(atomic.LoadInt64(&c.LeaderboardLatSum)) / float64(publishes) / 1e6 // ms
	}
	lastEvent := ""
	if !c.LastEventTime.IsZero() {
		lastEvent = c.LastEventTime.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"game": map[string]interface{}{
			"games_started":  atomic.LoadInt64(&c.GamesStarted),
			"games_won":      atomic.LoadInt64(&c.GamesWon),
			"bot_wins":       atomic.LoadInt64(&c.BotWins),
			"rolls":          atomic.LoadInt64(&c.Rolls),
			"human_turns":    atomic.LoadInt64(&c.HumanTurns),
			"bot_turns":      atomic.LoadInt64(&c.BotTurns),
			"cash_purchases": atomic.LoadInt64(&c.CashPurchases),
			"loan_purchases": atomic.LoadInt64(&c.LoanPurchases),
			"paydays":        atomic.LoadInt64(&c.Paydays),
			"quiz_answers":   atomic.LoadInt64(&c.QuizAnswers),
			"quiz_correct":   atomic.LoadInt64(&c.QuizCorrect),
			"last_event":     lastEvent,
		},

		"events": map[string]interface{}{
			"written": atomic.LoadInt64(&c.EventsWritten),
			"errors":  atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"leaderboard": map[string]interface{}{
			"publishes":      publishes,
			"errors":         atomic.LoadInt64(&c.LeaderboardErrors),
			"avg_latency_ms": publishAvg,
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return collector.Handler()
}

// Handler serves this collector as JSON.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return collector.PrometheusHandler()
}

// PrometheusHandler serves this collector in Prometheus text format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		counter := func(name, help string, v int64) {
			fmt.Fprintf(w, "# HELP kidcap_%s %s\n", name, help)
			fmt.Fprintf(w, "# TYPE kidcap_%s counter\n", name)
			fmt.Fprintf(w, "kidcap_%s %d\n\n", name, v)
		}

		// Game metrics
		counter("games_started", "Games started", atomic.LoadInt64(&c.GamesStarted))
		counter("games_won", "Games that reached Financial Freedom", atomic.LoadInt64(&c.GamesWon))
		counter("rolls", "Dice rolls", atomic.LoadInt64(&c.Rolls))
		counter("paydays", "Paydays settled", atomic.LoadInt64(&c.Paydays))

		fmt.Fprintf(w, "# HELP kidcap_turns_total Turns started\n")
		fmt.Fprintf(w, "# TYPE kidcap_turns_total counter\n")
		fmt.Fprintf(w, "kidcap_turns_total{seat=\"human\"} %d\n", atomic.LoadInt64(&c.HumanTurns))
		fmt.Fprintf(w, "kidcap_turns_total{seat=\"bot\"} %d\n\n", atomic.LoadInt64(&c.BotTurns))

		fmt.Fprintf(w, "# HELP kidcap_purchases_total Assets bought\n")
		fmt.Fprintf(w, "# TYPE kidcap_purchases_total counter\n")
		fmt.Fprintf(w, "kidcap_purchases_total{method=\"cash\"} %d\n", atomic.LoadInt64(&c.CashPurchases))
		fmt.Fprintf(w, "kidcap_purchases_total{method=\"loan\"} %d\n\n", atomic.LoadInt64(&c.LoanPurchases))

		// Event metrics
		counter("events_written", "Events persisted", atomic.LoadInt64(&c.EventsWritten))
		counter("event_write_errors", "Event persist errors", atomic.LoadInt64(&c.EventWriteErrors))

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP kidcap_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE kidcap_ws_connections gauge\n")
		fmt.Fprintf(w, "kidcap_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP kidcap_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE kidcap_ws_messages_total counter\n")
		fmt.Fprintf(w, "kidcap_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "kidcap_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		// Leaderboard
		counter("leaderboard_publishes", "Leaderboard upserts attempted", atomic.LoadInt64(&c.LeaderboardPublishes))
		counter("leaderboard_errors", "Leaderboard upserts failed", atomic.LoadInt64(&c.LeaderboardErrors))
	}
}
