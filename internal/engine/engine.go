package engine

import (
	"context"
	"sync"
	"time"

	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/rules"
	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/platform/logger"
)

// Engine is the central orchestrator: it owns the store, the turn manager
// and the progress tracker, and feeds logged events to observers.
type Engine struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	catalog  *catalog.Catalog

	store    *Store
	turns    *TurnManager
	progress *ProgressSystem

	// Sequences hold seq for reading; lifecycle commands take it for writing
	// after cancelling seqCtx so running pauses finish at once.
	seq       sync.RWMutex
	seqMu     sync.Mutex
	seqCtx    context.Context
	seqCancel context.CancelFunc

	observersMu sync.Mutex
	observers   []func(events.GameEvent)

	lastProcessedEvent int
}

// NewEngine initializes the core game systems.
func NewEngine(cat *catalog.Catalog, eventLog *events.EventLog, opts TurnOptions, log *logger.Logger) *Engine {
	store := NewStore(eventLog, log)
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		eventLog:  eventLog,
		logger:    log,
		catalog:   cat,
		store:     store,
		turns:     NewTurnManager(store, cat, opts, log),
		progress:  NewProgressSystem(store, log),
		seqCtx:    ctx,
		seqCancel: cancel,
	}
}

// Start spawns the event processing loop.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting game engine...")
	go e.processEvents(ctx)
}

// Store exposes the game state store for read-side consumers.
func (e *Engine) Store() *Store { return e.store }

// Progress exposes the human's achievement tracker.
func (e *Engine) Progress() *ProgressSystem { return e.progress }

// Catalog returns the content tables in play.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// GetEventLog exposes the activity log.
func (e *Engine) GetEventLog() *events.EventLog { return e.eventLog }

// OnEvent registers an observer called for every logged event, in order, on
// the processing goroutine.
func (e *Engine) OnEvent(fn func(events.GameEvent)) {
	e.observersMu.Lock()
	defer e.observersMu.Unlock()
	e.observers = append(e.observers, fn)
}

// processEvents polls the event log and dispatches new entries.
func (e *Engine) processEvents(ctx context.Context) {
	pollInterval := time.NewTicker(100 * time.Millisecond)
	defer pollInterval.Stop()

	for {
		select {
		case <-ctx.Done():
			e.ProcessPending()
			e.logger.Info("Event processor stopped.")
			return
		case <-pollInterval.C:
			e.ProcessPending()
		}
	}
}

// ProcessPending dispatches every event logged since the last call. The
// simulator and tests call it directly instead of running Start.
func (e *Engine) ProcessPending() int {
	e.observersMu.Lock()
	defer e.observersMu.Unlock()

	newEvents, next := e.eventLog.Since(e.lastProcessedEvent)
	for _, event := range newEvents {
		e.progress.OnEvent(event)
		for _, fn := range e.observers {
			fn(event)
		}
	}
	e.lastProcessedEvent = next
	return len(newEvents)
}

// ---------------------------------------------------------------------------
// Sequencing
// ---------------------------------------------------------------------------

func (e *Engine) sequence(ctx context.Context) (context.Context, func()) {
	e.seq.RLock()
	e.seqMu.Lock()
	base := e.seqCtx
	e.seqMu.Unlock()

	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(base, cancel)
	return merged, func() {
		stop()
		cancel()
		e.seq.RUnlock()
	}
}

func (e *Engine) lifecycle(fn func() error) error {
	e.seqMu.Lock()
	e.seqCancel()
	e.seqMu.Unlock()

	e.seq.Lock()
	defer e.seq.Unlock()

	e.seqMu.Lock()
	e.seqCtx, e.seqCancel = context.WithCancel(context.Background())
	e.seqMu.Unlock()

	// A new game trims the in-memory log; let progress see the old tail first.
	e.ProcessPending()
	return fn()
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// InitGame starts a new game. A sequence still running is fast-forwarded to
// its phase boundary first.
func (e *Engine) InitGame(setup Setup) error {
	return e.lifecycle(func() error {
		if err := e.store.InitGame(setup); err != nil {
			return err
		}
		e.progress.SetIdentity(setup.HumanName, setup.HumanAvatar)
		return nil
	})
}

// RestartGame replays the current setup with fresh players.
func (e *Engine) RestartGame() error {
	return e.lifecycle(e.store.RestartCurrentGame)
}

// ResetGame clears the game entirely.
func (e *Engine) ResetGame() {
	_ = e.lifecycle(func() error {
		e.store.ResetGame()
		return nil
	})
}

// Restore loads a saved game.
func (e *Engine) Restore(saved GameState, setup Setup) {
	saved.Modal = e.rehydrateQuiz(saved.Modal)
	_ = e.lifecycle(func() error {
		e.store.Restore(saved, setup)
		return nil
	})
}

// rehydrateQuiz restores the answer of a saved quiz card, which is not part
// of the encoded state.
func (e *Engine) rehydrateQuiz(m *ModalState) *ModalState {
	if m == nil || m.Challenge == nil {
		return m
	}
	c := m.clone()
	ch, ok := e.catalog.ChallengeByID(m.Challenge.ID)
	if !ok {
		e.logger.Warnf("Saved quiz %s is not in the catalog; it can only be closed", m.Challenge.ID)
		c.Challenge = nil
		return c
	}
	c.Challenge = &ch
	return c
}

// Resume plays any bot turns left pending by Restore.
func (e *Engine) Resume(ctx context.Context) {
	ctx, done := e.sequence(ctx)
	defer done()
	e.turns.ResumeBots(ctx)
}

// Snapshot returns the current game state.
func (e *Engine) Snapshot() GameState { return e.store.Snapshot() }

// Freedom reports a player's progress toward Financial Freedom.
func (e *Engine) Freedom(playerID int) (rules.FreedomBreakdown, bool) {
	snap := e.store.Snapshot()
	for _, p := range snap.Players {
		if p.ID == playerID {
			return rules.Freedom(p), true
		}
	}
	return rules.FreedomBreakdown{}, false
}

// ---------------------------------------------------------------------------
// Turn commands
// ---------------------------------------------------------------------------

// Roll runs the human's roll. It blocks for the paced sequence.
func (e *Engine) Roll(ctx context.Context) bool {
	ctx, done := e.sequence(ctx)
	defer done()
	return e.turns.RollForHumanTurn(ctx)
}

// CloseModal closes the human's action modal.
func (e *Engine) CloseModal(ctx context.Context) bool {
	ctx, done := e.sequence(ctx)
	defer done()
	return e.turns.CloseActionModal(ctx)
}

// Advance passes the turn on and plays any bots that follow.
func (e *Engine) Advance(ctx context.Context) bool {
	ctx, done := e.sequence(ctx)
	defer done()
	return e.turns.AdvanceToNextTurn(ctx)
}

// Action names accepted by Act.
const (
	ActionBuyCash        = "buy-cash"
	ActionBuyLoan        = "buy-loan"
	ActionCollectPayday  = "collect-payday"
	ActionCollectLife    = "collect-life-event"
	ActionCollectHustle  = "collect-hustle"
	ActionBuyTemptation  = "buy-temptation"
	ActionSkipTemptation = "skip-temptation"
	ActionAnswerQuiz     = "answer-quiz"
	ActionDeposit        = "deposit"
	ActionWithdraw       = "withdraw"
)

// ActionRequest carries the arguments of a modal choice. Only the fields the
// action needs are read.
type ActionRequest struct {
	AssetID string `json:"assetId,omitempty"`
	Option  int    `json:"option,omitempty"`
	Amount  int    `json:"amount,omitempty"`
}

// ActionResult tells the caller what happened.
type ActionResult struct {
	Accepted bool                `json:"accepted"`
	Correct  *bool               `json:"correct,omitempty"`
	Payday   *rules.PaydayReport `json:"payday,omitempty"`
}

// Act applies a modal choice for the human. Unknown actions are rejected.
func (e *Engine) Act(action string, req ActionRequest) ActionResult {
	e.seq.RLock()
	defer e.seq.RUnlock()

	tm := e.turns
	switch action {
	case ActionBuyCash:
		return ActionResult{Accepted: tm.BuyAssetCash(req.AssetID)}
	case ActionBuyLoan:
		return ActionResult{Accepted: tm.BuyAssetLoan(req.AssetID)}
	case ActionCollectPayday:
		report, ok := tm.CollectPayday()
		if !ok {
			return ActionResult{}
		}
		return ActionResult{Accepted: true, Payday: &report}
	case ActionCollectLife:
		return ActionResult{Accepted: tm.CollectLifeEvent()}
	case ActionCollectHustle:
		return ActionResult{Accepted: tm.CollectHustle()}
	case ActionBuyTemptation:
		return ActionResult{Accepted: tm.BuyTemptation()}
	case ActionSkipTemptation:
		return ActionResult{Accepted: tm.SkipTemptation()}
	case ActionAnswerQuiz:
		correct, ok := tm.AnswerQuiz(req.Option)
		if !ok {
			return ActionResult{}
		}
		return ActionResult{Accepted: true, Correct: &correct}
	case ActionDeposit:
		return ActionResult{Accepted: tm.Deposit(req.Amount)}
	case ActionWithdraw:
		return ActionResult{Accepted: tm.Withdraw(req.Amount)}
	}
	return ActionResult{}
}
