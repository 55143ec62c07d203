// Package network - api.go
// REST surface of the game: lifecycle and turn commands, read-only queries,
// profile and daily reward. Commands go through the same Controller as the
// websocket clients.
package network

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/engine"
	"github.com/kidcapital/server/internal/infra/storage"
	"github.com/kidcapital/server/internal/platform/logger"
)

// API handles the REST routes.
type API struct {
	control   *Controller
	snapshots storage.SnapshotRepository
	recaps    *storage.Reconstructor
	replay    *ReplayHandler
	logger    *logger.Logger
}

// NewAPI creates the REST handler. snapshots and recaps may be nil when no
// database is configured.
func NewAPI(ctrl *Controller, snapshots storage.SnapshotRepository, recaps *storage.Reconstructor, log *logger.Logger) *API {
	eng := ctrl.Engine()
	return &API{
		control:   ctrl,
		snapshots: snapshots,
		recaps:    recaps,
		replay:    NewReplayHandler(eng.GetEventLog(), eng.Store().GameID, log),
		logger:    log,
	}
}

// RegisterRoutes sets up the API routes.
func (a *API) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/game", a.handleNewGame).Methods(http.MethodPost)
	api.HandleFunc("/game", a.handleGetGame).Methods(http.MethodGet)
	api.HandleFunc("/game", a.handleResetGame).Methods(http.MethodDelete)
	api.HandleFunc("/game/restart", a.handleCommand(CmdRestartGame)).Methods(http.MethodPost)
	api.HandleFunc("/game/roll", a.handleCommand(CmdRoll)).Methods(http.MethodPost)
	api.HandleFunc("/game/modal/close", a.handleCommand(CmdCloseModal)).Methods(http.MethodPost)
	api.HandleFunc("/game/next", a.handleCommand(CmdNextTurn)).Methods(http.MethodPost)
	api.HandleFunc("/game/actions/{action}", a.handleAction).Methods(http.MethodPost)

	api.HandleFunc("/game/freedom", a.handleFreedom).Methods(http.MethodGet)
	api.HandleFunc("/game/events", a.replay.HandleReplay).Methods(http.MethodGet)
	api.HandleFunc("/game/events/stats", a.replay.HandleStats).Methods(http.MethodGet)
	api.HandleFunc("/game/recap/{playerID}", a.handleRecap).Methods(http.MethodGet)

	api.HandleFunc("/catalog", a.handleCatalog).Methods(http.MethodGet)
	api.HandleFunc("/profile", a.handleProfile).Methods(http.MethodGet)
	api.HandleFunc("/daily-reward", a.handleDailyReward).Methods(http.MethodGet)
	api.HandleFunc("/daily-reward/claim", a.handleClaimDailyReward).Methods(http.MethodPost)
}

// POST /api/game
func (a *API) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var setup engine.Setup
	if err := json.NewDecoder(r.Body).Decode(&setup); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	state, err := a.control.NewGame(setup)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.logger.Event("GAME_CREATED", state.GameID, strconv.Itoa(len(state.Players))+" players")
	jsonStatus(w, http.StatusCreated, state)
}

// GET /api/game
func (a *API) handleGetGame(w http.ResponseWriter, r *http.Request) {
	jsonSuccess(w, a.control.Engine().Snapshot())
}

// DELETE /api/game drops the game and its saved copy.
func (a *API) handleResetGame(w http.ResponseWriter, r *http.Request) {
	a.control.Engine().ResetGame()
	if a.snapshots != nil {
		if err := a.snapshots.Delete(r.Context(), a.control.localID); err != nil {
			a.logger.Errorf("Failed to delete saved game: %v", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCommand runs a body-less command. A command the engine ignores in the
// current phase answers 409 with the unchanged state.
func (a *API) handleCommand(cmdType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.dispatch(w, r, Command{Type: cmdType})
	}
}

// POST /api/game/actions/{action}
func (a *API) handleAction(w http.ResponseWriter, r *http.Request) {
	var req engine.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	a.dispatch(w, r, Command{Type: CmdAction, Action: mux.Vars(r)["action"], Args: req})
}

func (a *API) dispatch(w http.ResponseWriter, r *http.Request, cmd Command) {
	res, err := a.control.Dispatch(r.Context(), cmd)
	if err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	status := http.StatusOK
	if !res.Accepted {
		status = http.StatusConflict
	}
	jsonStatus(w, status, res)
}

// GET /api/game/freedom?player=N (defaults to the human)
func (a *API) handleFreedom(w http.ResponseWriter, r *http.Request) {
	id, _, err := optionalInt(r.URL.Query().Get("player"))
	if err != nil {
		jsonError(w, "Invalid player", http.StatusBadRequest)
		return
	}
	breakdown, ok := a.control.Engine().Freedom(id)
	if !ok {
		jsonError(w, "Player not found", http.StatusNotFound)
		return
	}
	jsonSuccess(w, map[string]interface{}{
		"player_id": id,
		"freedom":   breakdown,
	})
}

// GET /api/game/recap/{playerID}?since=M&game_id=X
func (a *API) handleRecap(w http.ResponseWriter, r *http.Request) {
	if a.recaps == nil {
		jsonError(w, "Recap needs a database", http.StatusServiceUnavailable)
		return
	}
	playerID, err := strconv.Atoi(mux.Vars(r)["playerID"])
	if err != nil {
		jsonError(w, "Invalid player id", http.StatusBadRequest)
		return
	}
	since, _, err := optionalInt(r.URL.Query().Get("since"))
	if err != nil {
		jsonError(w, "Invalid since", http.StatusBadRequest)
		return
	}
	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		gameID = a.control.Engine().Store().GameID()
	}

	recap, err := a.recaps.GenerateRecap(r.Context(), gameID, playerID, since)
	if err != nil {
		a.logger.Errorf("Failed to build recap: %v", err)
		jsonError(w, "Failed to build recap", http.StatusInternalServerError)
		return
	}
	totals, err := a.recaps.RebuildPlayerState(r.Context(), gameID, playerID)
	if err != nil {
		a.logger.Errorf("Failed to rebuild player totals: %v", err)
		jsonError(w, "Failed to build recap", http.StatusInternalServerError)
		return
	}
	jsonSuccess(w, map[string]interface{}{
		"game_id": gameID,
		"totals":  totals,
		"events":  recap,
	})
}

// catalogView is the catalog with quiz answers left out.
type catalogView struct {
	*catalog.Catalog
	Challenges []engine.ChallengeCard `json:"challenges"`
}

// GET /api/catalog
func (a *API) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := a.control.Engine().Catalog()
	view := catalogView{Catalog: cat, Challenges: make([]engine.ChallengeCard, 0, len(cat.Challenges))}
	for _, ch := range cat.Challenges {
		view.Challenges = append(view.Challenges, *engine.NewChallengeCard(ch, false))
	}
	jsonSuccess(w, view)
}

// GET /api/profile
func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	jsonSuccess(w, a.control.Engine().Progress().Profile())
}

// GET /api/daily-reward
func (a *API) handleDailyReward(w http.ResponseWriter, r *http.Request) {
	offer, err := a.control.DailyReward(r.Context())
	if err != nil {
		a.logger.Errorf("Failed to load daily reward: %v", err)
		jsonError(w, "Failed to load daily reward", http.StatusInternalServerError)
		return
	}
	jsonSuccess(w, offer)
}

// POST /api/daily-reward/claim
func (a *API) handleClaimDailyReward(w http.ResponseWriter, r *http.Request) {
	offer, err := a.control.ClaimDailyReward(r.Context())
	switch {
	case errors.Is(err, ErrAlreadyClaimed):
		jsonError(w, err.Error(), http.StatusConflict)
	case err != nil:
		a.logger.Errorf("Failed to claim daily reward: %v", err)
		jsonError(w, "Failed to claim daily reward", http.StatusInternalServerError)
	default:
		jsonSuccess(w, offer)
	}
}
