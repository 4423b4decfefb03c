package engine

import (
	"log/slog"

	"github.com/lcrawf/moonhollow/internal/model"
	"github.com/lcrawf/moonhollow/internal/services/bot"
	"github.com/lcrawf/moonhollow/internal/services/vote"
	"github.com/lcrawf/moonhollow/internal/services/win"
)

// startGame deals roles and enters the first night
func (t *roomTask) startGame(requesterID model.PlayerID) error {
	if t.room.HostID != requesterID {
		return model.ErrNotHost
	}
	switch t.room.Phase {
	case model.PhaseLobby:
	case model.PhaseGameOver:
		return model.ErrGameOver
	default:
		return model.ErrGameInProgress
	}

	seats := len(t.room.Seats)
	if seats < model.MinPlayersToStart {
		return model.ErrInsufficientPlayers
	}
	if t.room.HumanCount() == 0 {
		return model.ErrNoHumanPlayers
	}
	if err := t.room.Config.Validate(); err != nil {
		return err
	}
	// The config was validated against MaxPlayers; the actual table
	// may be smaller, so the derived limits are re-checked here
	if t.room.Config.MafiaCount > model.MaxMafiaForSeats(seats) {
		return model.ErrTooManyMafia
	}
	if t.room.Config.EnablePolice && seats < model.PoliceSeatMinimum {
		return model.ErrPoliceNeedMoreSeats
	}

	pool := t.registry.allocator.AllocatePool(seats, t.room.Config)
	t.registry.allocator.AssignSeats(pool, t.room.Seats)

	t.room.Day = 0
	t.room.GameStartedAt = t.registry.clock.Now()

	t.logger.Info("game started",
		slog.Int("seats", seats),
		slog.Int("mafia", t.room.Config.MafiaCount),
	)
	t.registry.notifier.Event(t.room.Code, model.EventGameStarted, nil)
	t.dealRoles()
	t.enterNight()
	return nil
}

// dealRoles pushes each human's role privately. Mafia-faction members
// also learn who their teammates are.
func (t *roomTask) dealRoles() {
	var mafia []model.PlayerID
	for _, s := range t.room.Seats {
		if s.Role.IsMafiaFaction() {
			mafia = append(mafia, s.PlayerID)
		}
	}

	for _, s := range t.room.Seats {
		if s.IsBot {
			continue
		}
		payload := model.RoleDealtPayload{Role: s.Role}
		if s.Role.IsMafiaFaction() {
			for _, id := range mafia {
				if id != s.PlayerID {
					payload.Teammates = append(payload.Teammates, id)
				}
			}
		}
		t.registry.notifier.Private(t.room.Code, s.PlayerID, model.EventRoleDealt, payload)
	}
}

func (t *roomTask) enterNight() {
	t.room.Phase = model.PhaseNight
	t.room.ClearNightState()
	t.room.Remaining = t.room.Config.NightSeconds
	t.startCountdown()

	t.registry.notifier.Event(t.room.Code, model.EventPhaseChanged, model.PhaseChangedPayload{
		Phase:     model.PhaseNight,
		Day:       t.room.Day,
		Remaining: t.room.Remaining,
	})
	t.broadcastState()
	t.scheduleBots()
}

// endNight resolves the night's actions at dawn
func (t *roomTask) endNight() {
	outcome := t.registry.nights.Resolve(t.room)
	t.room.Day++

	t.registry.notifier.Event(t.room.Code, model.EventNightResolved, model.NightResolvedPayload{
		Killed: outcome.Killed,
		Saved:  outcome.Saved,
	})

	if outcome.Killed != "" && t.checkWin() {
		return
	}
	t.enterDay()
}

func (t *roomTask) enterDay() {
	t.room.Phase = model.PhaseDay
	t.room.ClearVotes()
	t.room.Remaining = t.room.Config.DaySeconds
	t.startCountdown()

	t.registry.notifier.Event(t.room.Code, model.EventPhaseChanged, model.PhaseChangedPayload{
		Phase:     model.PhaseDay,
		Day:       t.room.Day,
		Remaining: t.room.Remaining,
	})
	t.broadcastState()
	t.scheduleBots()
}

// endDay tallies the votes and either eliminates, opens the bomber's
// reckoning window, or moves on after a tie
func (t *roomTask) endDay() {
	outcome := t.registry.votes.Resolve(t.room)

	if outcome.Type == vote.OutcomeReckoning {
		t.registry.notifier.Event(t.room.Code, model.EventReckoningBegan, map[string]any{
			"bomber_id": outcome.Target,
			"remaining": t.room.Reckoning.Remaining,
		})
		t.registry.notifier.Private(t.room.Code, outcome.Target, model.EventReckoningPrompt, model.ReckoningPromptPayload{
			Remaining:  t.room.Reckoning.Remaining,
			MaxTargets: 2,
		})
		t.broadcastState()
		return
	}

	t.registry.notifier.Event(t.room.Code, model.EventVoteResolved, model.VoteResolvedPayload{
		Outcome:    string(outcome.Type),
		Eliminated: outcome.Target,
		Role:       outcome.Role,
	})

	if outcome.Type == vote.OutcomeEliminated && t.checkWin() {
		return
	}
	t.enterNight()
}

// resolveReckoning closes the bomber branch, announced and win-checked
func (t *roomTask) resolveReckoning(result *vote.ReckoningResult) {
	if result == nil {
		return
	}

	t.registry.notifier.Event(t.room.Code, model.EventReckoningEnded, model.ReckoningEndedPayload{
		BomberID:  result.BomberID,
		Killed:    result.Killed,
		Protected: result.Protected,
	})

	if t.checkWin() {
		return
	}
	t.enterNight()
}

// checkWin evaluates the win condition and finishes the game when it
// holds. Callers only invoke it after an elimination-producing event.
func (t *roomTask) checkWin() bool {
	result := win.Evaluate(t.room)
	if !result.Finished {
		return false
	}
	t.finishGame(result.Winner)
	return true
}

func (t *roomTask) finishGame(winner model.Faction) {
	t.stopCountdown()
	t.registry.bots.CancelRoom(t.room.Code)

	t.room.Phase = model.PhaseGameOver
	t.room.Remaining = 0
	t.room.Reckoning = nil
	if winner == model.FactionMafia {
		t.room.MafiaWins++
	} else {
		t.room.TownWins++
	}

	roles := make(map[model.PlayerID]model.Role, len(t.room.Seats))
	for _, s := range t.room.Seats {
		roles[s.PlayerID] = s.Role
	}

	t.registry.stats.RecordGame(t.room, winner)

	t.logger.Info("game over", slog.String("winner", string(winner)))
	t.registry.notifier.Event(t.room.Code, model.EventGameOver, model.GameOverPayload{
		Winner: winner,
		Roles:  roles,
	})
	t.broadcastState()
}

// handleTick advances the room's single countdown by one second. A
// pending reckoning window takes precedence over the phase countdown.
func (t *roomTask) handleTick() {
	if t.room.Phase != model.PhaseNight && t.room.Phase != model.PhaseDay {
		t.stopCountdown()
		return
	}

	if t.room.Reckoning != nil {
		t.room.Reckoning.Remaining--
		if t.room.Reckoning.Remaining <= 0 {
			t.resolveReckoning(t.registry.votes.ResolveReckoningTimeout(t.room))
			return
		}
		t.registry.notifier.Event(t.room.Code, model.EventCountdown, map[string]any{
			"reckoning": true,
			"remaining": t.room.Reckoning.Remaining,
		})
		return
	}

	t.room.Remaining--
	if t.room.Remaining <= 0 {
		switch t.room.Phase {
		case model.PhaseNight:
			t.endNight()
		case model.PhaseDay:
			t.endDay()
		}
		return
	}

	t.registry.notifier.Event(t.room.Code, model.EventCountdown, map[string]any{
		"phase":     t.room.Phase,
		"remaining": t.room.Remaining,
	})
}

// scheduleBots hands the living bots to the coordinator for the phase
// that just began
func (t *roomTask) scheduleBots() {
	var seats []bot.Seat
	for _, s := range t.room.AliveSeats() {
		if s.IsBot {
			seats = append(seats, bot.Seat{
				PlayerID: s.PlayerID,
				Role:     s.Role,
				Strategy: s.BotStrategy,
			})
		}
	}
	t.registry.bots.SchedulePhase(t.registry, t.room.PublicState(), seats)
}
