package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kidcapital/server/internal/domain/achievement"
	"github.com/kidcapital/server/internal/engine"
	"github.com/kidcapital/server/internal/infra/storage"
	"github.com/kidcapital/server/internal/platform/logger"
)

// Command types accepted from clients.
const (
	CmdInitGame    = "INIT_GAME"
	CmdRestartGame = "RESTART_GAME"
	CmdResetGame   = "RESET_GAME"
	CmdRoll        = "ROLL"
	CmdCloseModal  = "CLOSE_MODAL"
	CmdNextTurn    = "NEXT_TURN"
	CmdAction      = "ACTION"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrAlreadyClaimed = errors.New("daily reward already claimed today")
)

// Command is one client request.
type Command struct {
	Type      string               `json:"type"`
	RequestID string               `json:"request_id,omitempty"`
	Action    string               `json:"action,omitempty"`
	Args      engine.ActionRequest `json:"args"`
	Setup     *engine.Setup        `json:"setup,omitempty"`
}

// CommandResult reports whether the engine took the command, plus the state
// after it.
type CommandResult struct {
	Accepted bool                 `json:"accepted"`
	Action   *engine.ActionResult `json:"action,omitempty"`
	State    engine.GameState     `json:"state"`
}

// Controller turns client commands into engine calls. The REST API and
// websocket clients share it, so both paths behave the same.
type Controller struct {
	engine   *engine.Engine
	profiles storage.ProfileRepository
	localID  string
	logger   *logger.Logger
	now      func() time.Time

	mu           sync.Mutex
	pendingBonus int // claimed daily bonus waiting for the next new game
}

// NewController wires the command path. profiles may be nil, in which case
// the daily reward is unavailable.
func NewController(eng *engine.Engine, profiles storage.ProfileRepository, localID string, log *logger.Logger) *Controller {
	return &Controller{
		engine:   eng,
		profiles: profiles,
		localID:  localID,
		logger:   log,
		now:      time.Now,
	}
}

// Engine returns the engine behind the controller.
func (c *Controller) Engine() *engine.Engine { return c.engine }

// NewGame starts a game. Any claimed daily bonus is applied and used up; a
// bonus sent by the client is ignored.
func (c *Controller) NewGame(setup engine.Setup) (engine.GameState, error) {
	c.mu.Lock()
	setup.DailyBonus = c.pendingBonus
	c.mu.Unlock()

	if err := c.engine.InitGame(setup); err != nil {
		return engine.GameState{}, err
	}
	c.mu.Lock()
	c.pendingBonus = 0
	c.mu.Unlock()
	return c.engine.Snapshot(), nil
}

// Dispatch runs one command. Turn commands block for their paced sequence.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (CommandResult, error) {
	var accepted bool
	var action *engine.ActionResult

	switch cmd.Type {
	case CmdInitGame:
		if cmd.Setup == nil {
			return CommandResult{}, errors.New("setup is required")
		}
		if _, err := c.NewGame(*cmd.Setup); err != nil {
			return CommandResult{}, err
		}
		accepted = true
	case CmdRestartGame:
		if err := c.engine.RestartGame(); err != nil {
			return CommandResult{}, err
		}
		accepted = true
	case CmdResetGame:
		c.engine.ResetGame()
		accepted = true
	case CmdRoll:
		accepted = c.engine.Roll(ctx)
	case CmdCloseModal:
		accepted = c.engine.CloseModal(ctx)
	case CmdNextTurn:
		accepted = c.engine.Advance(ctx)
	case CmdAction:
		res := c.engine.Act(cmd.Action, cmd.Args)
		accepted = res.Accepted
		action = &res
	default:
		return CommandResult{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return CommandResult{Accepted: accepted, Action: action, State: c.engine.Snapshot()}, nil
}

// DailyReward reports what claiming today would give.
func (c *Controller) DailyReward(ctx context.Context) (achievement.RewardOffer, error) {
	if c.profiles == nil {
		return achievement.RewardOffer{}, nil
	}
	d, err := c.profiles.LoadDailyReward(ctx, c.localID)
	if err != nil {
		return achievement.RewardOffer{}, err
	}
	return d.Check(c.now()), nil
}

// ClaimDailyReward records today's claim and holds the bonus for the next
// new game.
func (c *Controller) ClaimDailyReward(ctx context.Context) (achievement.RewardOffer, error) {
	if c.profiles == nil {
		return achievement.RewardOffer{}, ErrAlreadyClaimed
	}
	d, err := c.profiles.LoadDailyReward(ctx, c.localID)
	if err != nil {
		return achievement.RewardOffer{}, err
	}
	next, offer := d.Claim(c.now())
	if !offer.Available {
		return offer, ErrAlreadyClaimed
	}
	if err := c.profiles.SaveDailyReward(ctx, c.localID, next); err != nil {
		return achievement.RewardOffer{}, err
	}
	c.mu.Lock()
	c.pendingBonus = offer.BonusCash
	c.mu.Unlock()
	c.logger.Event("DAILY_REWARD", c.localID, fmt.Sprintf("streak %d, +$%d", offer.Streak, offer.BonusCash))
	return offer, nil
}
