package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lcrawf/moonhollow/internal/dependencies/clock"
	"github.com/lcrawf/moonhollow/internal/dependencies/random"
	"github.com/lcrawf/moonhollow/internal/model"
	"github.com/lcrawf/moonhollow/internal/storage"
)

const (
	// PlayerIDAlphabet is the character set for generating bot player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// PlayerIDLength is the length of generated bot player IDs
	PlayerIDLength = 16
)

// Submitter is the engine surface bots submit through. It is the same
// entry point humans use, so every validity rule applies to bots with
// no special casing.
type Submitter interface {
	CastVote(ctx context.Context, code model.RoomCode, voterID, targetID model.PlayerID) error
	SubmitNightAction(ctx context.Context, code model.RoomCode, actorID, targetID model.PlayerID) error
}

// Seat is the coordinator's view of one bot seat at phase start
type Seat struct {
	PlayerID model.PlayerID
	Role     model.Role
	Strategy string
}

// Coordinator schedules synthetic submissions for simulated players.
// Scheduled work is cancelled whenever the phase ends, so a stale
// submission can only ever reach the engine's validation and be
// rejected there.
type Coordinator struct {
	storage    storage.Storage
	strategies map[string]Strategy
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger

	mu     sync.Mutex
	timers map[model.RoomCode][]clock.Timer
}

// NewCoordinator creates a new bot Coordinator
func NewCoordinator(
	store storage.Storage,
	strategies map[string]Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		storage:    store,
		strategies: strategies,
		clock:      clk,
		random:     rnd,
		logger:     logger.With(slog.String("component", "bot-coordinator")),
		timers:     make(map[model.RoomCode][]clock.Timer),
	}
}

// CreateBotPlayer creates a new bot player and saves it to storage
func (c *Coordinator) CreateBotPlayer(ctx context.Context, displayName string, strategy string) (*model.Player, error) {
	if _, ok := c.strategies[strategy]; !ok {
		return nil, fmt.Errorf("unknown bot strategy: %s", strategy)
	}

	player := &model.Player{
		ID:          model.PlayerID("bot-" + c.random.String(PlayerIDLength, PlayerIDAlphabet)),
		DisplayName: displayName,
		IsGuest:     true,
		IsBot:       true,
		BotStrategy: strategy,
		CreatedAt:   c.clock.Now(),
	}

	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

// SchedulePhase plans one submission per living bot for the phase that
// just started. Previously scheduled work for the room is cancelled
// first so a phase change can never double-submit.
func (c *Coordinator) SchedulePhase(sub Submitter, state model.RoomState, bots []Seat) {
	c.CancelRoom(state.Code)

	if state.Phase != model.PhaseDay && state.Phase != model.PhaseNight {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, seat := range bots {
		strategy := c.strategyFor(seat.Strategy)
		if strategy == nil {
			continue
		}

		var target model.PlayerID
		var ok bool
		if state.Phase == model.PhaseDay {
			target, ok = strategy.PickVote(state, seat.PlayerID)
		} else {
			if !seat.Role.HasNightAction() {
				continue
			}
			target, ok = strategy.PickNightAction(state, seat.PlayerID, seat.Role)
		}
		if !ok {
			continue // Abstain
		}

		code := state.Code
		phase := state.Phase
		actorID := seat.PlayerID
		targetID := target

		timer := c.clock.AfterFunc(strategy.Delay(state.Remaining), func() {
			c.submit(sub, code, phase, actorID, targetID)
		})
		c.timers[code] = append(c.timers[code], timer)
	}
}

// CancelRoom stops all scheduled submissions for a room
func (c *Coordinator) CancelRoom(code model.RoomCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.timers[code] {
		t.Stop()
	}
	delete(c.timers, code)
}

// submit pushes the bot's choice through the shared entry point.
// Rejections are expected when the room moved on under the timer.
func (c *Coordinator) submit(sub Submitter, code model.RoomCode, phase model.Phase, actorID, targetID model.PlayerID) {
	ctx := context.Background()

	var err error
	if phase == model.PhaseDay {
		err = sub.CastVote(ctx, code, actorID, targetID)
	} else {
		err = sub.SubmitNightAction(ctx, code, actorID, targetID)
	}
	if err != nil {
		c.logger.Debug("bot submission rejected",
			slog.String("room", string(code)),
			slog.String("bot", string(actorID)),
			slog.String("error", err.Error()),
		)
	}
}

// strategyFor returns the named strategy, falling back to any
// registered strategy when the name is unknown
func (c *Coordinator) strategyFor(name string) Strategy {
	if s, ok := c.strategies[name]; ok {
		return s
	}
	for _, s := range c.strategies {
		return s
	}
	return nil
}
