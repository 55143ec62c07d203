package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kidcapital/server/internal/domain/board"
	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
	"github.com/kidcapital/server/internal/domain/rules"
	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/platform/logger"
)

const (
	MaxPlayers    = 4
	MaxBots       = MaxPlayers - 1
	MaxNameLength = 14
)

// Setup describes a new game.
type Setup struct {
	HumanName   string               `json:"humanName"`
	HumanAvatar string               `json:"humanAvatar"`
	Bots        []catalog.BotProfile `json:"bots"`
	Difficulty  catalog.Difficulty   `json:"difficulty"`
	DailyBonus  int                  `json:"dailyBonus"`
}

// Store owns the canonical game state. Every mutation replaces whole player
// snapshots; nothing else writes to player records.
type Store struct {
	mu          sync.Mutex
	state       GameState
	setup       *Setup
	eventLog    *events.EventLog
	logger      *logger.Logger
	subscribers map[int]func(GameState)
	nextSubID   int
	version     uint64 // bumped on every change, never reset
}

// NewStore creates an empty store. Call InitGame before playing.
func NewStore(eventLog *events.EventLog, log *logger.Logger) *Store {
	return &Store{
		state:       emptyState(),
		eventLog:    eventLog,
		logger:      log,
		subscribers: make(map[int]func(GameState)),
	}
}

func emptyState() GameState {
	return GameState{
		Month:      1,
		TurnPhase:  PhaseIdle,
		Difficulty: catalog.DifficultyTweens,
		Players:    []player.Player{},
	}
}

// Subscribe registers fn to receive a snapshot after every mutation. It runs
// on the mutating goroutine and must not block.
func (s *Store) Subscribe(fn func(GameState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// mutate runs fn under the lock and notifies subscribers when it reports a
// change. Subscribers run after the lock is released and may observe
// snapshots out of order; Version tells them apart.
func (s *Store) mutate(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	var snap GameState
	var subs []func(GameState)
	if changed {
		s.version++
		snap = s.snapshotLocked()
		subs = make([]func(GameState), 0, len(s.subscribers))
		for _, sub := range s.subscribers {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
	return changed
}

// Snapshot returns a deep copy of the state with modal offers refreshed.
func (s *Store) Snapshot() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() GameState {
	snap := s.state.clone()
	snap.Version = s.version
	if m := snap.Modal; m != nil && m.Type == board.SpacePayday && !m.Resolved {
		r := rules.CalculatePayday(s.playerLocked(m.PlayerID))
		m.Payday = &r
	}
	return snap
}

func (s *Store) emitLocked(typ events.EventType, playerID int, msg string, payload interface{}) {
	if s.eventLog == nil {
		return
	}
	s.eventLog.Append(events.GameEvent{
		GameID:   s.state.GameID,
		Type:     typ,
		PlayerID: playerID,
		Month:    s.state.Month,
		Message:  msg,
		Payload:  payload,
	})
}

// Record appends an activity line for the current game.
func (s *Store) Record(typ events.EventType, playerID int, msg string, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitLocked(typ, playerID, msg, payload)
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func normalizeSetup(setup Setup) (Setup, error) {
	name := strings.TrimSpace(setup.HumanName)
	if name == "" {
		return setup, errors.New("player name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	setup.HumanName = name

	if len(setup.Bots) > MaxBots {
		return setup, fmt.Errorf("at most %d bots allowed, got %d", MaxBots, len(setup.Bots))
	}
	for _, b := range setup.Bots {
		if !b.Personality.Valid() {
			return setup, fmt.Errorf("bot %q has unknown personality %q", b.Name, b.Personality)
		}
	}
	d, err := catalog.ParseDifficulty(string(setup.Difficulty))
	if err != nil {
		return setup, err
	}
	setup.Difficulty = d
	if setup.DailyBonus < 0 {
		setup.DailyBonus = 0
	}
	setup.Bots = append([]catalog.BotProfile(nil), setup.Bots...)
	return setup, nil
}

// InitGame replaces the session with a fresh game.
func (s *Store) InitGame(setup Setup) error {
	setup, err := normalizeSetup(setup)
	if err != nil {
		return err
	}

	s.mutate(func() bool {
		players := make([]player.Player, 0, 1+len(setup.Bots))
		human := player.New(player.HumanID, setup.HumanName, setup.HumanAvatar, true, "")
		human.Cash += setup.DailyBonus
		players = append(players, human)
		for i, b := range setup.Bots {
			players = append(players, player.New(i+1, b.Name, b.Avatar, false, b.Personality))
		}

		s.state = emptyState()
		s.state.GameID = uuid.NewString()
		s.state.Players = players
		s.state.Difficulty = setup.Difficulty
		s.state.DailyBonus = setup.DailyBonus
		s.setup = &setup

		s.emitLocked(events.EventTypeGameStarted, -1,
			fmt.Sprintf("%s started a game against %d bot(s)", setup.HumanName, len(setup.Bots)), nil)
		return true
	})
	s.logger.Event(string(events.EventTypeGameStarted), setup.HumanName, "difficulty "+string(setup.Difficulty))
	return nil
}

// RestartCurrentGame starts over with the same roster and settings.
func (s *Store) RestartCurrentGame() error {
	s.mu.Lock()
	setup := s.setup
	s.mu.Unlock()
	if setup == nil {
		return errors.New("no game to restart")
	}
	return s.InitGame(*setup)
}

// ResetGame drops the session entirely.
func (s *Store) ResetGame() {
	s.mutate(func() bool {
		s.state = emptyState()
		s.setup = nil
		return true
	})
}

// Restore replaces the session with a saved state, for example after a
// server restart. The turn lock is cleared and any mid-turn phase rolls
// back to a resumable one.
func (s *Store) Restore(saved GameState, setup Setup) {
	s.mutate(func() bool {
		st := saved.clone()
		st.TurnLocked = false
		switch st.TurnPhase {
		case PhaseRolling, PhaseMoving, PhaseBotActing:
			st.TurnPhase = PhaseIdle
			st.DiceResult = nil
		case PhaseActionDone:
			if !st.IsGameOver {
				st.TurnPhase = PhaseTurnEnd
			}
		}
		s.state = st
		setupCopy := setup
		s.setup = &setupCopy
		return true
	})
}

// GameID identifies the current game; empty before InitGame.
func (s *Store) GameID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GameID
}

// Setup returns the settings of the current game.
func (s *Store) Setup() (Setup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setup == nil {
		return Setup{}, false
	}
	return *s.setup, true
}

// ---------------------------------------------------------------------------
// Player access
// ---------------------------------------------------------------------------

func (s *Store) indexLocked(id int) int {
	for i, p := range s.state.Players {
		if p.ID == id {
			return i
		}
	}
	panic(fmt.Sprintf("engine: unknown player id %d", id))
}

func (s *Store) playerLocked(id int) player.Player {
	return s.state.Players[s.indexLocked(id)]
}

// replaceLocked swaps in a new snapshot for one player.
func (s *Store) replaceLocked(p player.Player) {
	i := s.indexLocked(p.ID)
	roster := make([]player.Player, len(s.state.Players))
	copy(roster, s.state.Players)
	roster[i] = p
	s.state.Players = roster
}

// Player returns a copy of one player. Unknown ids panic.
func (s *Store) Player(id int) player.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerLocked(id).Clone()
}

// CurrentPlayer returns a copy of the player whose turn it is.
func (s *Store) CurrentPlayer() player.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.Players) == 0 {
		panic("engine: no game in progress")
	}
	return s.state.Players[s.state.CurrentPlayerIndex].Clone()
}

// ---------------------------------------------------------------------------
// Turn metadata
// ---------------------------------------------------------------------------

// SetTurnPhase moves the state machine.
func (s *Store) SetTurnPhase(phase TurnPhase) {
	s.mutate(func() bool {
		s.state.TurnPhase = phase
		return true
	})
}

// SetTurnLocked sets the re-entrancy gate.
func (s *Store) SetTurnLocked(locked bool) {
	s.mutate(func() bool {
		s.state.TurnLocked = locked
		return true
	})
}

// SetDiceResult records the last roll.
func (s *Store) SetDiceResult(playerID, roll int) {
	s.mutate(func() bool {
		s.state.DiceResult = &roll
		p := s.playerLocked(playerID)
		s.emitLocked(events.EventTypeDiceRolled, playerID,
			fmt.Sprintf("%s %s rolled %d", p.Avatar, p.Name, roll), events.AmountPayload{Amount: roll})
		return true
	})
}

// TryBeginHumanRoll locks the turn and enters rolling if the human may roll
// now. It is the only way a human roll starts.
func (s *Store) TryBeginHumanRoll() (player.Player, bool) {
	var cur player.Player
	ok := s.mutate(func() bool {
		st := &s.state
		if st.IsGameOver || st.TurnLocked || st.TurnPhase != PhaseIdle || len(st.Players) == 0 {
			return false
		}
		cur = st.Players[st.CurrentPlayerIndex]
		if !cur.IsHuman {
			return false
		}
		st.TurnLocked = true
		st.TurnPhase = PhaseRolling
		return true
	})
	return cur.Clone(), ok
}

// TryBeginBotTurn locks the turn for the current bot.
func (s *Store) TryBeginBotTurn() (player.Player, bool) {
	var cur player.Player
	ok := s.mutate(func() bool {
		st := &s.state
		if st.IsGameOver || st.TurnLocked || st.TurnPhase != PhaseIdle || len(st.Players) == 0 {
			return false
		}
		cur = st.Players[st.CurrentPlayerIndex]
		if cur.IsHuman {
			return false
		}
		st.TurnLocked = true
		st.TurnPhase = PhaseBotActing
		return true
	})
	return cur.Clone(), ok
}

// OpenModal shows a space modal for the current human.
func (s *Store) OpenModal(m ModalState) {
	s.mutate(func() bool {
		s.state.Modal = &m
		s.state.TurnPhase = PhaseModalOpen
		if m.Challenge != nil {
			s.state.SeenChallenges = append(s.state.SeenChallenges, m.Challenge.ID)
		}
		p := s.playerLocked(m.PlayerID)
		s.emitLocked(events.EventTypeModalOpened, m.PlayerID,
			fmt.Sprintf("%s %s landed on %s", p.Avatar, p.Name, board.At(p.Position).Label), nil)
		return true
	})
}

// Modal returns a copy of the open modal, if any.
func (s *Store) Modal() (ModalState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Modal == nil || s.state.TurnPhase != PhaseModalOpen {
		return ModalState{}, false
	}
	return *s.state.Modal.clone(), true
}

// MarkModalResolved records that the one-shot modal choice was taken.
func (s *Store) MarkModalResolved(correct *bool) {
	s.mutate(func() bool {
		if s.state.Modal == nil {
			return false
		}
		s.state.Modal.Resolved = true
		s.state.Modal.Correct = correct
		return true
	})
}

// TryCloseModal leaves modal_open for action_done.
func (s *Store) TryCloseModal() bool {
	return s.mutate(func() bool {
		if s.state.IsGameOver || s.state.TurnPhase != PhaseModalOpen {
			return false
		}
		s.state.Modal = nil
		s.state.TurnPhase = PhaseActionDone
		return true
	})
}

// TryAdvance moves to the next player if the current turn has ended.
func (s *Store) TryAdvance() bool {
	return s.mutate(func() bool {
		st := &s.state
		if st.IsGameOver || st.TurnLocked || st.TurnPhase != PhaseTurnEnd || len(st.Players) == 0 {
			return false
		}
		s.advanceLocked()
		return true
	})
}

// EndTurn enters turn_end and releases the lock in one step.
func (s *Store) EndTurn() {
	s.mutate(func() bool {
		s.state.TurnPhase = PhaseTurnEnd
		s.state.Modal = nil
		s.state.TurnLocked = false
		return true
	})
}

// EndBotTurn releases the lock and passes the turn on in one step, so no
// other command can slip in between.
func (s *Store) EndBotTurn() {
	s.mutate(func() bool {
		if len(s.state.Players) == 0 {
			return false
		}
		s.state.TurnLocked = false
		s.advanceLocked()
		return true
	})
}

// AdvanceTurn passes the turn on unconditionally.
func (s *Store) AdvanceTurn() {
	s.mutate(func() bool {
		if len(s.state.Players) == 0 {
			return false
		}
		s.advanceLocked()
		return true
	})
}

func (s *Store) advanceLocked() {
	st := &s.state
	st.CurrentPlayerIndex = (st.CurrentPlayerIndex + 1) % len(st.Players)
	st.TurnPhase = PhaseIdle
	st.DiceResult = nil
	st.Modal = nil
	next := st.Players[st.CurrentPlayerIndex]
	s.emitLocked(events.EventTypeTurnAdvanced, next.ID,
		fmt.Sprintf("%s %s's turn", next.Avatar, next.Name), nil)
}

// CheckWinCondition ends the game if any player is free. Ties go to roster
// order.
func (s *Store) CheckWinCondition() (int, bool) {
	winner := -1
	s.mutate(func() bool {
		if s.state.IsGameOver && s.state.WinnerID != nil {
			winner = *s.state.WinnerID
			return false
		}
		for _, p := range s.state.Players {
			if rules.CheckFreedom(p) {
				id := p.ID
				winner = id
				s.state.IsGameOver = true
				s.state.WinnerID = &id
				s.emitLocked(events.EventTypeGameWon, id,
					fmt.Sprintf("%s %s reached Financial Freedom in month %d!", p.Avatar, p.Name, s.state.Month),
					events.AmountPayload{Amount: s.state.Month})
				return true
			}
		}
		return false
	})
	if winner < 0 {
		return 0, false
	}
	return winner, true
}

// ---------------------------------------------------------------------------
// Movement and money
// ---------------------------------------------------------------------------

// MovePlayerTo sets a position and pays the GO bonus when passedGo. The month
// only advances when the human passes GO.
func (s *Store) MovePlayerTo(id, pos int, passedGo bool) {
	s.mutate(func() bool {
		p := s.playerLocked(id)
		from := p.Position
		next := p.Clone()
		next.Position = board.Wrap(pos)
		if passedGo {
			next = rules.ApplyGoBonus(next)
		}
		s.replaceLocked(next)
		s.emitLocked(events.EventTypePlayerMoved, id, "",
			events.MovePayload{From: from, To: next.Position, PassedGo: passedGo})

		if passedGo {
			if id == player.HumanID {
				s.state.Month++
			}
			s.emitLocked(events.EventTypePassedGo, id,
				fmt.Sprintf("%s %s passed GO! +$%d", p.Avatar, p.Name, rules.GoBonus),
				events.AmountPayload{Amount: rules.GoBonus})
		}
		return true
	})
}

// PlayerBuyAssetCash buys a business outright.
func (s *Store) PlayerBuyAssetCash(id int, a catalog.Asset) bool {
	return s.buy(id, a, false)
}

// PlayerBuyAssetLoan buys a business with a loan.
func (s *Store) PlayerBuyAssetLoan(id int, a catalog.Asset) bool {
	return s.buy(id, a, true)
}

func (s *Store) buy(id int, a catalog.Asset, loan bool) bool {
	return s.mutate(func() bool {
		p := s.playerLocked(id)
		if p.OwnsAsset(a.ID) {
			return false
		}
		var next player.Player
		var ok bool
		paid := a.Cost
		if loan {
			next, ok = rules.BuyAssetLoan(p, a)
			paid = rules.LoanFor(a).DownPayment
		} else {
			next, ok = rules.BuyAssetCash(p, a)
		}
		if !ok {
			return false
		}
		s.replaceLocked(next)
		how := "cash"
		if loan {
			how = "a loan"
		}
		s.emitLocked(events.EventTypeAssetBought, id,
			fmt.Sprintf("%s %s bought %s with %s", p.Avatar, p.Name, a.Name, how),
			events.AssetPayload{AssetID: a.ID, Name: a.Name, Cost: a.Cost, Loan: loan, Paid: paid})
		return true
	})
}

// PlayerDeposit moves cash to savings.
func (s *Store) PlayerDeposit(id, amount int) bool {
	return s.mutate(func() bool {
		p := s.playerLocked(id)
		next, ok := rules.Deposit(p, amount)
		if !ok {
			return false
		}
		s.replaceLocked(next)
		s.emitLocked(events.EventTypeDeposit, id,
			fmt.Sprintf("%s %s saved $%d", p.Avatar, p.Name, amount), events.AmountPayload{Amount: amount})
		return true
	})
}

// PlayerWithdraw moves savings to cash.
func (s *Store) PlayerWithdraw(id, amount int) bool {
	return s.mutate(func() bool {
		p := s.playerLocked(id)
		next, ok := rules.Withdraw(p, amount)
		if !ok {
			return false
		}
		s.replaceLocked(next)
		s.emitLocked(events.EventTypeWithdraw, id,
			fmt.Sprintf("%s %s withdrew $%d", p.Avatar, p.Name, amount), events.AmountPayload{Amount: amount})
		return true
	})
}

// PlayerApplyLifeEvent applies a life event card or penalty.
func (s *Store) PlayerApplyLifeEvent(id, amount int, title string) {
	s.mutate(func() bool {
		p := s.playerLocked(id)
		s.replaceLocked(rules.ApplyLifeEvent(p, amount))
		s.emitLocked(events.EventTypeLifeEvent, id,
			fmt.Sprintf("%s %s: %s (%s)", p.Avatar, p.Name, title, signed(amount)), events.AmountPayload{Amount: amount, Ref: title})
		return true
	})
}

// PlayerApplyHustle pays a side job.
func (s *Store) PlayerApplyHustle(id, amount int, title string) {
	s.mutate(func() bool {
		p := s.playerLocked(id)
		s.replaceLocked(rules.ApplyHustle(p, amount))
		s.emitLocked(events.EventTypeHustle, id,
			fmt.Sprintf("%s %s: %s +$%d", p.Avatar, p.Name, title, amount), events.AmountPayload{Amount: amount, Ref: title})
		return true
	})
}

// PlayerBuyTemptation spends on a want.
func (s *Store) PlayerBuyTemptation(id int, t catalog.Temptation) bool {
	return s.mutate(func() bool {
		p := s.playerLocked(id)
		next, ok := rules.BuyTemptation(p, t.Cost)
		if !ok {
			return false
		}
		s.replaceLocked(next)
		s.emitLocked(events.EventTypeTemptationBought, id,
			fmt.Sprintf("%s %s bought %s", p.Avatar, p.Name, t.Name), events.AmountPayload{Amount: t.Cost, Ref: t.ID})
		return true
	})
}

// PlayerSkipTemptation rewards skipping a want.
func (s *Store) PlayerSkipTemptation(id int, t catalog.Temptation) {
	s.mutate(func() bool {
		p := s.playerLocked(id)
		s.replaceLocked(rules.SkipTemptation(p))
		s.emitLocked(events.EventTypeTemptationSkipped, id,
			fmt.Sprintf("%s %s skipped %s, +$%d saved", p.Avatar, p.Name, t.Name, rules.SkipReward),
			events.AmountPayload{Amount: rules.SkipReward, Ref: t.ID})
		return true
	})
}

// PlayerPayday settles the month and returns the statement.
func (s *Store) PlayerPayday(id int) rules.PaydayReport {
	var report rules.PaydayReport
	s.mutate(func() bool {
		p := s.playerLocked(id)
		report = rules.CalculatePayday(p)
		s.replaceLocked(rules.ApplyPayday(p, report))
		s.emitLocked(events.EventTypePayday, id,
			fmt.Sprintf("%s %s payday: net %s", p.Avatar, p.Name, signed(report.Net)),
			events.PaydayPayload{Net: report.Net, NewCash: report.NewCash, DebtPaid: report.DebtPaid, NewDebt: report.NewDebt})
		return true
	})
	return report
}

// PlayerQuizResult counts an answer and pays the reward when correct.
func (s *Store) PlayerQuizResult(id int, correct bool, reward int, challengeID string) {
	s.mutate(func() bool {
		p := s.playerLocked(id)
		s.replaceLocked(rules.RecordQuiz(p, correct, reward))
		verdict := "wrong"
		if correct {
			verdict = fmt.Sprintf("correct! +$%d", reward)
		}
		s.emitLocked(events.EventTypeQuizAnswered, id,
			fmt.Sprintf("%s %s quiz: %s", p.Avatar, p.Name, verdict),
			events.QuizPayload{ChallengeID: challengeID, Correct: correct, Reward: reward})
		return true
	})
}

func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+$%d", n)
	}
	return fmt.Sprintf("-$%d", -n)
}
