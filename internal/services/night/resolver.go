package night

import (
	"log/slog"

	"github.com/lcrawf/moonhollow/internal/model"
)

// Resolver validates night submissions and computes the dawn outcome.
// It mutates room state directly and is only ever called from the
// room's owning task.
type Resolver struct {
	logger *slog.Logger
}

// New creates a new Resolver
func New(logger *slog.Logger) *Resolver {
	return &Resolver{
		logger: logger.With(slog.String("component", "night-resolver")),
	}
}

// Outcome is the result of resolving a night
type Outcome struct {
	Killed model.PlayerID // Empty when nobody died
	Saved  bool           // True when a kill was voided by protection
}

// checkPhase rejects submissions outside the night phase
func checkPhase(room *model.Room) error {
	switch room.Phase {
	case model.PhaseNight:
		return nil
	case model.PhaseLobby:
		return model.ErrGameNotStarted
	case model.PhaseGameOver:
		return model.ErrGameOver
	default:
		return model.ErrWrongPhase
	}
}

// SubmitKill records the team-wide mafia kill target. Any living
// mafia-faction member may submit it, once per night, and never
// against another mafia-faction member.
func (r *Resolver) SubmitKill(room *model.Room, actorID, targetID model.PlayerID) error {
	if err := checkPhase(room); err != nil {
		return err
	}

	actor := room.Seat(actorID)
	if actor == nil {
		return model.ErrNotInRoom
	}
	if !actor.Alive {
		return model.ErrActorDead
	}
	if !actor.Role.IsMafiaFaction() {
		return model.ErrWrongRole
	}
	if room.NightActionKeys[model.NightKeyKill] {
		return model.ErrActionConsumed
	}
	if actorID == targetID {
		return model.ErrSelfTarget
	}

	target := room.Seat(targetID)
	if target == nil {
		return model.ErrTargetNotFound
	}
	if !target.Alive {
		return model.ErrTargetDead
	}
	if target.Role.IsMafiaFaction() {
		return model.ErrFriendlyFire
	}

	room.NightActionKeys[model.NightKeyKill] = true
	room.PendingKill = &targetID

	r.logger.Debug("kill target recorded",
		slog.String("room", string(room.Code)),
		slog.String("target", string(targetID)),
	)
	return nil
}

// SubmitProtect records a doctor's protection target, which may be the
// doctor themself.
func (r *Resolver) SubmitProtect(room *model.Room, actorID, targetID model.PlayerID) error {
	if err := checkPhase(room); err != nil {
		return err
	}

	actor := room.Seat(actorID)
	if actor == nil {
		return model.ErrNotInRoom
	}
	if !actor.Alive {
		return model.ErrActorDead
	}
	if actor.Role != model.RoleDoctor {
		return model.ErrWrongRole
	}
	key := model.NightKeyProtect(actorID)
	if room.NightActionKeys[key] {
		return model.ErrActionConsumed
	}

	target := room.Seat(targetID)
	if target == nil {
		return model.ErrTargetNotFound
	}
	if !target.Alive {
		return model.ErrTargetDead
	}

	room.NightActionKeys[key] = true
	room.Protected[targetID] = true
	return nil
}

// SubmitInvestigate records a detective's investigation and returns
// the binary result. Only the ordinary mafia token reads as
// suspicious; the bomber and spy deliberately read as innocent.
func (r *Resolver) SubmitInvestigate(room *model.Room, actorID, targetID model.PlayerID) (bool, error) {
	if err := checkPhase(room); err != nil {
		return false, err
	}

	actor := room.Seat(actorID)
	if actor == nil {
		return false, model.ErrNotInRoom
	}
	if !actor.Alive {
		return false, model.ErrActorDead
	}
	if actor.Role != model.RoleDetective {
		return false, model.ErrWrongRole
	}
	key := model.NightKeyInvestigate(actorID)
	if room.NightActionKeys[key] {
		return false, model.ErrActionConsumed
	}
	if actorID == targetID {
		return false, model.ErrSelfTarget
	}

	target := room.Seat(targetID)
	if target == nil {
		return false, model.ErrTargetNotFound
	}
	if !target.Alive {
		return false, model.ErrTargetDead
	}

	room.NightActionKeys[key] = true
	return target.Role == model.RoleMafia, nil
}

// Complete reports whether every mandatory night action has been
// submitted, which ends the night early.
func (r *Resolver) Complete(room *model.Room) bool {
	mafiaAlive := false
	for _, s := range room.AliveSeats() {
		switch {
		case s.Role.IsMafiaFaction():
			mafiaAlive = true
		case s.Role == model.RoleDoctor:
			if !room.NightActionKeys[model.NightKeyProtect(s.PlayerID)] {
				return false
			}
		case s.Role == model.RoleDetective:
			if !room.NightActionKeys[model.NightKeyInvestigate(s.PlayerID)] {
				return false
			}
		}
	}
	if mafiaAlive && !room.NightActionKeys[model.NightKeyKill] {
		return false
	}
	return true
}

// Resolve applies the recorded actions at dawn. A protected kill
// target survives regardless of who the protector was. The protected
// set is intentionally not cleared here: it must persist through the
// following day for the reckoning branch.
func (r *Resolver) Resolve(room *model.Room) Outcome {
	if room.PendingKill == nil {
		return Outcome{}
	}

	target := *room.PendingKill
	room.PendingKill = nil

	if room.Protected[target] {
		r.logger.Info("kill voided by protection",
			slog.String("room", string(room.Code)),
			slog.String("target", string(target)),
		)
		return Outcome{Saved: true}
	}

	room.Eliminate(target)
	r.logger.Info("night elimination",
		slog.String("room", string(room.Code)),
		slog.String("target", string(target)),
	)
	return Outcome{Killed: target}
}
