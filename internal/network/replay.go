// Package network - replay.go
// Activity log replay: the game's event history as JSON, with filters.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/platform/logger"
)

// ReplayHandler serves the in-memory activity log.
type ReplayHandler struct {
	eventLog *events.EventLog
	current  func() string // id of the game in progress
	logger   *logger.Logger
}

// NewReplayHandler creates a replay handler. current supplies the default
// game id when the request names none.
func NewReplayHandler(el *events.EventLog, current func() string, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		eventLog: el,
		current:  current,
		logger:   log,
	}
}

// ReplayEvent is one activity line.
type ReplayEvent struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"timestamp"`
	Month     int         `json:"month"`
	Type      string      `json:"type"`
	PlayerID  int         `json:"player_id"`
	Summary   string      `json:"summary"`
	Impact    string      `json:"impact"`
	Details   interface{} `json:"details,omitempty"`
}

// ReplayResponse is the API response for a replay.
type ReplayResponse struct {
	GameID      string        `json:"game_id"`
	TotalEvents int           `json:"total_events"`
	FilteredBy  string        `json:"filtered_by,omitempty"`
	GeneratedAt string        `json:"generated_at"`
	Events      []ReplayEvent `json:"events"`
}

// HandleReplay returns the activity log of a game.
// GET /api/game/events?game_id=X&month=N&player=N&type=PAYDAY&since=N
//
// since skips the first N events of the game, so a feed can poll for new
// lines only.
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gameID := q.Get("game_id")
	if gameID == "" {
		gameID = rh.current()
	}
	if gameID == "" {
		jsonError(w, "No game in progress", http.StatusNotFound)
		return
	}

	month, okMonth, err := optionalInt(q.Get("month"))
	if err != nil {
		jsonError(w, "Invalid month", http.StatusBadRequest)
		return
	}
	playerID, okPlayer, err := optionalInt(q.Get("player"))
	if err != nil {
		jsonError(w, "Invalid player", http.StatusBadRequest)
		return
	}
	since, _, err := optionalInt(q.Get("since"))
	if err != nil || since < 0 {
		jsonError(w, "Invalid since", http.StatusBadRequest)
		return
	}
	eventType := q.Get("type")

	var filters []string
	if okMonth {
		filters = append(filters, "month "+strconv.Itoa(month))
	}
	if okPlayer {
		filters = append(filters, "player "+strconv.Itoa(playerID))
	}
	if eventType != "" {
		filters = append(filters, "type "+eventType)
	}

	all := rh.eventLog.GetByGame(gameID)
	if since > len(all) {
		since = len(all)
	}

	replay := []ReplayEvent{}
	for _, e := range all[since:] {
		if okMonth && e.Month != month {
			continue
		}
		if okPlayer && e.PlayerID != playerID {
			continue
		}
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		replay = append(replay, toReplayEvent(e))
	}

	jsonSuccess(w, ReplayResponse{
		GameID:      gameID,
		TotalEvents: len(replay),
		FilteredBy:  strings.Join(filters, ", "),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      replay,
	})
}

// HandleStats counts a game's events by type.
// GET /api/game/events/stats?game_id=X
func (rh *ReplayHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		gameID = rh.current()
	}

	counts := map[string]int{}
	all := rh.eventLog.GetByGame(gameID)
	for _, e := range all {
		counts[string(e.Type)]++
	}

	jsonSuccess(w, map[string]interface{}{
		"game_id":      gameID,
		"generated_at": time.Now().Format(time.RFC3339),
		"total_events": len(all),
		"by_type":      counts,
	})
}

func toReplayEvent(e events.GameEvent) ReplayEvent {
	return ReplayEvent{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format("15:04:05"),
		Month:     e.Month,
		Type:      string(e.Type),
		PlayerID:  e.PlayerID,
		Summary:   e.Message,
		Impact:    impactOf(e),
		Details:   e.Payload,
	}
}

// impactOf classifies an event for the activity feed colouring.
func impactOf(e events.GameEvent) string {
	switch e.Type {
	case events.EventTypeAssetBought, events.EventTypeTemptationSkipped, events.EventTypeGameWon:
		return "POSITIVE"
	case events.EventTypeTemptationBought:
		return "NEGATIVE"
	case events.EventTypeDeposit, events.EventTypeWithdraw:
		return "NEUTRAL"
	}
	switch p := e.Payload.(type) {
	case events.AmountPayload:
		if p.Amount > 0 {
			return "POSITIVE"
		}
		if p.Amount < 0 {
			return "NEGATIVE"
		}
	case events.PaydayPayload:
		if p.Net < 0 {
			return "NEGATIVE"
		}
		return "POSITIVE"
	case events.QuizPayload:
		if p.Correct {
			return "POSITIVE"
		}
		return "NEGATIVE"
	}
	return "NEUTRAL"
}

func optionalInt(s string) (int, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// jsonError sends an error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func jsonSuccess(w http.ResponseWriter, data interface{}) {
	jsonStatus(w, http.StatusOK, data)
}

func jsonStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
