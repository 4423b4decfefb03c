package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lcrawf/moonhollow/internal/dependencies/clock"
	"github.com/lcrawf/moonhollow/internal/dependencies/random"
	"github.com/lcrawf/moonhollow/internal/model"
	"github.com/lcrawf/moonhollow/internal/services/bot"
	"github.com/lcrawf/moonhollow/internal/services/night"
	"github.com/lcrawf/moonhollow/internal/services/roles"
	"github.com/lcrawf/moonhollow/internal/services/stats"
	"github.com/lcrawf/moonhollow/internal/services/vote"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet avoids visually confusing characters
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Notifier is the presentation channel the engine pushes events to
type Notifier interface {
	// RoomState pushes the full public room state on a mutation
	RoomState(state model.RoomState)
	// Event broadcasts a typed event to everyone in the room
	Event(code model.RoomCode, eventType model.EventType, payload any)
	// Private sends a typed event to a single player
	Private(code model.RoomCode, playerID model.PlayerID, eventType model.EventType, payload any)
	// RoomClosed signals room teardown
	RoomClosed(code model.RoomCode)
}

// Registry owns every live room and the single task that serializes
// each room's mutations. All inbound events, human or bot or timer,
// are routed through it by room code; the underlying map is never
// exposed to callers.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[model.RoomCode]*roomTask
	playerRoom map[model.PlayerID]model.RoomCode

	allocator *roles.Allocator
	nights    *night.Resolver
	votes     *vote.Tally
	bots      *bot.Coordinator
	stats     *stats.Recorder
	notifier  Notifier
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

// Ensure the registry is usable as the bots' submission surface
var _ bot.Submitter = (*Registry)(nil)

// NewRegistry creates a new room Registry
func NewRegistry(
	allocator *roles.Allocator,
	nights *night.Resolver,
	votes *vote.Tally,
	bots *bot.Coordinator,
	statsRecorder *stats.Recorder,
	notifier Notifier,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		rooms:      make(map[model.RoomCode]*roomTask),
		playerRoom: make(map[model.PlayerID]model.RoomCode),
		allocator:  allocator,
		nights:     nights,
		votes:      votes,
		bots:       bots,
		stats:      statsRecorder,
		notifier:   notifier,
		clock:      clk,
		random:     rnd,
		logger:     logger.With(slog.String("component", "engine")),
	}
}

// CreateRoom creates a room with the given player seated as host
func (r *Registry) CreateRoom(ctx context.Context, host model.Player, cfg model.RoomConfig) (model.RoomState, error) {
	if err := cfg.Validate(); err != nil {
		return model.RoomState{}, err
	}

	r.mu.Lock()
	if _, ok := r.playerRoom[host.ID]; ok {
		r.mu.Unlock()
		return model.RoomState{}, model.ErrAlreadyInRoom
	}

	var code model.RoomCode
	for {
		code = model.RoomCode(r.random.String(RoomCodeLength, RoomCodeAlphabet))
		if _, exists := r.rooms[code]; !exists {
			break
		}
	}

	now := r.clock.Now()
	room := model.NewRoom(code, model.Seat{
		PlayerID:    host.ID,
		DisplayName: host.DisplayName,
		IsBot:       false,
		AccountID:   accountRef(host),
	}, cfg, now)

	task := newRoomTask(room, r)
	r.rooms[code] = task
	r.playerRoom[host.ID] = code
	r.mu.Unlock()

	go task.run()

	r.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("host", string(host.ID)),
	)

	state := room.PublicState()
	r.notifier.RoomState(state)
	return state, nil
}

// task finds the owning task for a room code
func (r *Registry) task(code model.RoomCode) (*roomTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return task, nil
}

// JoinRoom seats a player in a room. The playerRoom entry is reserved
// under the lock before the join is dispatched, so two concurrent joins
// for the same player cannot both pass the seated check; the
// reservation is rolled back if the room rejects the join.
func (r *Registry) JoinRoom(ctx context.Context, code model.RoomCode, player model.Player) error {
	r.mu.Lock()
	if _, seated := r.playerRoom[player.ID]; seated {
		r.mu.Unlock()
		return model.ErrAlreadyInRoom
	}
	task, ok := r.rooms[code]
	if !ok {
		r.mu.Unlock()
		return model.ErrRoomNotFound
	}
	r.playerRoom[player.ID] = code
	r.mu.Unlock()

	if err := task.do(ctx, func() error {
		return task.join(player)
	}); err != nil {
		r.mu.Lock()
		delete(r.playerRoom, player.ID)
		r.mu.Unlock()
		return err
	}
	return nil
}

// LeaveRoom removes a player from their room. Disconnections are
// routed here as well; both paths resolve inside the owning task.
func (r *Registry) LeaveRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID) error {
	task, err := r.task(code)
	if err != nil {
		return err
	}
	if err := task.do(ctx, func() error {
		return task.leave(playerID)
	}); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.playerRoom, playerID)
	r.mu.Unlock()
	return nil
}

// RoomForPlayer returns the code of the room the player is seated in
func (r *Registry) RoomForPlayer(playerID model.PlayerID) (model.RoomCode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.playerRoom[playerID]
	return code, ok
}

// RoomState returns the public state of a room
func (r *Registry) RoomState(ctx context.Context, code model.RoomCode) (model.RoomState, error) {
	task, err := r.task(code)
	if err != nil {
		return model.RoomState{}, err
	}

	var state model.RoomState
	err = task.do(ctx, func() error {
		state = task.room.PublicState()
		return nil
	})
	return state, err
}

// UpdateConfig swaps a room's rule configuration, host only, lobby only
func (r *Registry) UpdateConfig(ctx context.Context, code model.RoomCode, requesterID model.PlayerID, cfg model.RoomConfig) error {
	task, err := r.task(code)
	if err != nil {
		return err
	}
	return task.do(ctx, func() error {
		return task.updateConfig(requesterID, cfg)
	})
}

// StartGame begins the game: role assignment, then the first night
func (r *Registry) StartGame(ctx context.Context, code model.RoomCode, requesterID model.PlayerID) error {
	task, err := r.task(code)
	if err != nil {
		return err
	}
	return task.do(ctx, func() error {
		return task.startGame(requesterID)
	})
}

// CastVote records a day-phase vote through the shared entry point
func (r *Registry) CastVote(ctx context.Context, code model.RoomCode, voterID, targetID model.PlayerID) error {
	task, err := r.task(code)
	if err != nil {
		return err
	}
	return task.do(ctx, func() error {
		return task.castVote(voterID, targetID)
	})
}

// SubmitNightAction records a night action; the actor's role selects
// whether it is the team kill, a protection or an investigation
func (r *Registry) SubmitNightAction(ctx context.Context, code model.RoomCode, actorID, targetID model.PlayerID) error {
	task, err := r.task(code)
	if err != nil {
		return err
	}
	return task.do(ctx, func() error {
		return task.submitNightAction(actorID, targetID)
	})
}

// SubmitReckoning records the voted-out bomber's parting choice
func (r *Registry) SubmitReckoning(ctx context.Context, code model.RoomCode, actorID model.PlayerID, targets []model.PlayerID) error {
	task, err := r.task(code)
	if err != nil {
		return err
	}
	return task.do(ctx, func() error {
		return task.submitReckoning(actorID, targets)
	})
}

// ResetRoom returns a finished room to the lobby
func (r *Registry) ResetRoom(ctx context.Context, code model.RoomCode, requesterID model.PlayerID) error {
	task, err := r.task(code)
	if err != nil {
		return err
	}
	return task.do(ctx, func() error {
		return task.reset(requesterID)
	})
}

// AddBot seats a new bot, host only, lobby only
func (r *Registry) AddBot(ctx context.Context, code model.RoomCode, requesterID model.PlayerID, strategy string) (model.PlayerID, error) {
	task, err := r.task(code)
	if err != nil {
		return "", err
	}

	var botID model.PlayerID
	err = task.do(ctx, func() error {
		id, err := task.addBot(ctx, requesterID, strategy)
		botID = id
		return err
	})
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.playerRoom[botID] = code
	r.mu.Unlock()
	return botID, nil
}

// RemoveBot unseats a bot, host only, lobby only
func (r *Registry) RemoveBot(ctx context.Context, code model.RoomCode, requesterID, botID model.PlayerID) error {
	task, err := r.task(code)
	if err != nil {
		return err
	}
	if err := task.do(ctx, func() error {
		return task.removeBot(requesterID, botID)
	}); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.playerRoom, botID)
	r.mu.Unlock()
	return nil
}

// teardown removes a room from the registry. Called from inside the
// room's own task once it has decided to shut down.
func (r *Registry) teardown(task *roomTask) {
	r.mu.Lock()
	delete(r.rooms, task.room.Code)
	for _, s := range task.room.Seats {
		delete(r.playerRoom, s.PlayerID)
	}
	r.mu.Unlock()

	r.bots.CancelRoom(task.room.Code)
	r.notifier.RoomClosed(task.room.Code)
	r.logger.Info("room torn down", slog.String("room", string(task.room.Code)))
}

// accountRef extracts the owning-account reference for a seat
func accountRef(p model.Player) string {
	if p.IsGuest {
		return ""
	}
	return string(p.ID)
}
