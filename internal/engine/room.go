package engine

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/lcrawf/moonhollow/internal/dependencies/clock"
	"github.com/lcrawf/moonhollow/internal/model"
)

// roomTask is the single logical task owning one room's state. Every
// mutation, human submission, bot submission or tick, runs on its
// goroutine, so resolution passes never interleave.
type roomTask struct {
	room     *model.Room
	registry *Registry
	logger   *slog.Logger

	commands chan func()
	done     chan struct{}

	// ticker is the room's single countdown; non-nil only while a
	// timed phase is active
	ticker clock.Ticker
}

func newRoomTask(room *model.Room, registry *Registry) *roomTask {
	return &roomTask{
		room:     room,
		registry: registry,
		logger:   registry.logger.With(slog.String("room", string(room.Code))),
		commands: make(chan func()),
		done:     make(chan struct{}),
	}
}

// run is the room's event loop. It exits only on teardown.
func (t *roomTask) run() {
	for {
		var tickCh <-chan time.Time
		if t.ticker != nil {
			tickCh = t.ticker.Chan()
		}

		select {
		case fn := <-t.commands:
			fn()
		case <-tickCh:
			t.handleTick()
		case <-t.done:
			t.stopCountdown()
			return
		}
	}
}

// do runs fn on the room's task and waits for its result
func (t *roomTask) do(ctx context.Context, fn func() error) error {
	reply := make(chan error, 1)
	wrapped := func() { reply <- fn() }

	select {
	case t.commands <- wrapped:
	case <-t.done:
		return model.ErrRoomNotFound
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startCountdown arranges the per-second tick. At most one countdown
// is ever active for the room.
func (t *roomTask) startCountdown() {
	if t.ticker == nil {
		t.ticker = t.registry.clock.NewTicker(time.Second)
	}
}

// stopCountdown cancels the tick source
func (t *roomTask) stopCountdown() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

// shutdown ends the task and unregisters the room
func (t *roomTask) shutdown() {
	t.stopCountdown()
	close(t.done)
	t.registry.teardown(t)
}

// broadcastState republishes the full public room state
func (t *roomTask) broadcastState() {
	t.room.UpdatedAt = t.registry.clock.Now()
	t.registry.notifier.RoomState(t.room.PublicState())
}

// Membership operations. All run on the room task.

func (t *roomTask) join(player model.Player) error {
	switch t.room.Phase {
	case model.PhaseLobby:
	case model.PhaseGameOver:
		return model.ErrGameOver
	default:
		return model.ErrGameInProgress
	}
	if len(t.room.Seats) >= t.room.Config.MaxPlayers {
		return model.ErrRoomFull
	}

	t.room.Seats = append(t.room.Seats, &model.Seat{
		PlayerID:    player.ID,
		DisplayName: player.DisplayName,
		IsBot:       player.IsBot,
		BotStrategy: player.BotStrategy,
		AccountID:   accountRef(player),
		Alive:       true,
		JoinedAt:    t.registry.clock.Now(),
	})

	t.registry.notifier.Event(t.room.Code, model.EventPlayerJoined, map[string]any{
		"player_id":    player.ID,
		"display_name": player.DisplayName,
	})
	t.broadcastState()
	return nil
}

// leave handles both voluntary leaves and disconnections
func (t *roomTask) leave(playerID model.PlayerID) error {
	seat := t.room.Seat(playerID)
	if seat == nil {
		return model.ErrNotInRoom
	}
	wasAlive := seat.Alive
	inGame := t.room.Phase == model.PhaseNight || t.room.Phase == model.PhaseDay

	t.removeSeat(playerID)

	t.registry.notifier.Event(t.room.Code, model.EventPlayerLeft, map[string]any{
		"player_id": playerID,
	})

	// An empty room, or one populated only by bots, is torn down
	if len(t.room.Seats) == 0 || t.room.HumanCount() == 0 {
		t.shutdown()
		return nil
	}

	if t.room.HostID == playerID {
		t.room.HostID = t.room.Seats[0].PlayerID
		t.registry.notifier.Event(t.room.Code, model.EventHostChanged, map[string]any{
			"host_id": t.room.HostID,
		})
	}

	if inGame {
		// A pending reckoning whose bomber left resolves as a timeout
		if t.room.Reckoning != nil && t.room.Reckoning.BomberID == playerID {
			t.resolveReckoning(t.registry.votes.ResolveReckoningTimeout(t.room))
			return nil
		}

		// Losing a living player is elimination-shaped: re-check the
		// win condition and the early-completion rules
		if wasAlive {
			if t.checkWin() {
				return nil
			}
			switch t.room.Phase {
			case model.PhaseNight:
				if t.registry.nights.Complete(t.room) {
					t.endNight()
					return nil
				}
			case model.PhaseDay:
				if t.room.Reckoning == nil && t.registry.votes.Complete(t.room) {
					t.endDay()
					return nil
				}
			}
		}
	}

	t.broadcastState()
	return nil
}

func (t *roomTask) removeSeat(playerID model.PlayerID) {
	for i, s := range t.room.Seats {
		if s.PlayerID == playerID {
			t.room.Seats = append(t.room.Seats[:i], t.room.Seats[i+1:]...)
			break
		}
	}
	delete(t.room.Votes, playerID)
	delete(t.room.Eliminated, playerID)
	delete(t.room.Protected, playerID)
	if t.room.PendingKill != nil && *t.room.PendingKill == playerID {
		t.room.PendingKill = nil
	}
}

func (t *roomTask) updateConfig(requesterID model.PlayerID, cfg model.RoomConfig) error {
	if t.room.HostID != requesterID {
		return model.ErrNotHost
	}
	if t.room.Phase != model.PhaseLobby {
		return model.ErrGameInProgress
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.MaxPlayers < len(t.room.Seats) {
		return model.ErrRoomFull
	}

	// Swap atomically; the config value is never mutated in place
	t.room.Config = cfg

	t.registry.notifier.Event(t.room.Code, model.EventConfigChanged, cfg)
	t.broadcastState()
	return nil
}

func (t *roomTask) addBot(ctx context.Context, requesterID model.PlayerID, strategy string) (model.PlayerID, error) {
	if t.room.HostID != requesterID {
		return "", model.ErrNotHost
	}
	if t.room.Phase != model.PhaseLobby {
		return "", model.ErrGameInProgress
	}
	if len(t.room.Seats) >= t.room.Config.MaxPlayers {
		return "", model.ErrRoomFull
	}

	botCount := t.room.BotCount()
	bot, err := t.registry.bots.CreateBotPlayer(ctx, botDisplayName(botCount+1), strategy)
	if err != nil {
		return "", err
	}

	t.room.Seats = append(t.room.Seats, &model.Seat{
		PlayerID:    bot.ID,
		DisplayName: bot.DisplayName,
		IsBot:       true,
		BotStrategy: bot.BotStrategy,
		Alive:       true,
		JoinedAt:    t.registry.clock.Now(),
	})

	t.registry.notifier.Event(t.room.Code, model.EventPlayerJoined, map[string]any{
		"player_id":    bot.ID,
		"display_name": bot.DisplayName,
		"is_bot":       true,
	})
	t.broadcastState()
	return bot.ID, nil
}

func (t *roomTask) removeBot(requesterID, botID model.PlayerID) error {
	if t.room.HostID != requesterID {
		return model.ErrNotHost
	}
	if t.room.Phase != model.PhaseLobby {
		return model.ErrGameInProgress
	}

	seat := t.room.Seat(botID)
	if seat == nil {
		return model.ErrNotInRoom
	}
	if !seat.IsBot {
		return model.ErrNotBot
	}

	t.removeSeat(botID)
	t.registry.notifier.Event(t.room.Code, model.EventPlayerLeft, map[string]any{
		"player_id": botID,
	})
	t.broadcastState()
	return nil
}

func (t *roomTask) reset(requesterID model.PlayerID) error {
	if t.room.HostID != requesterID {
		return model.ErrNotHost
	}
	if t.room.Phase != model.PhaseGameOver {
		return model.ErrGameInProgress
	}

	t.room.ResetToLobby()

	t.registry.notifier.Event(t.room.Code, model.EventGameReset, nil)
	t.broadcastState()
	return nil
}

func botDisplayName(n int) string {
	return "Bot " + strconv.Itoa(n)
}
