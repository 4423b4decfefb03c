package engine

import (
	"github.com/lcrawf/moonhollow/internal/model"
)

// castVote records a day-phase vote and ends the day early once every
// living player has voted
func (t *roomTask) castVote(voterID, targetID model.PlayerID) error {
	if err := t.registry.votes.CastVote(t.room, voterID, targetID); err != nil {
		return err
	}

	t.registry.notifier.Event(t.room.Code, model.EventVoteCast, map[string]any{
		"voter_id":  voterID,
		"target_id": targetID,
	})
	t.broadcastState()

	if t.room.Reckoning == nil && t.registry.votes.Complete(t.room) {
		t.endDay()
	}
	return nil
}

// submitNightAction routes a night submission by the actor's role and
// ends the night early once every mandatory action is in
func (t *roomTask) submitNightAction(actorID, targetID model.PlayerID) error {
	switch t.room.Phase {
	case model.PhaseNight:
	case model.PhaseLobby:
		return model.ErrGameNotStarted
	case model.PhaseGameOver:
		return model.ErrGameOver
	default:
		return model.ErrWrongPhase
	}

	actor := t.room.Seat(actorID)
	if actor == nil {
		return model.ErrNotInRoom
	}

	switch {
	case actor.Role.IsMafiaFaction():
		if err := t.registry.nights.SubmitKill(t.room, actorID, targetID); err != nil {
			return err
		}
	case actor.Role == model.RoleDoctor:
		if err := t.registry.nights.SubmitProtect(t.room, actorID, targetID); err != nil {
			return err
		}
	case actor.Role == model.RoleDetective:
		suspicious, err := t.registry.nights.SubmitInvestigate(t.room, actorID, targetID)
		if err != nil {
			return err
		}
		t.registry.notifier.Private(t.room.Code, actorID, model.EventInvestigationResult, model.InvestigationResultPayload{
			Target:     targetID,
			Suspicious: suspicious,
		})
	default:
		return model.ErrWrongRole
	}

	t.registry.notifier.Private(t.room.Code, actorID, model.EventActionConfirmed, map[string]any{
		"target_id": targetID,
	})

	if t.registry.nights.Complete(t.room) {
		t.endNight()
	}
	return nil
}

// submitReckoning records the voted-out bomber's parting choice and
// resolves the branch immediately
func (t *roomTask) submitReckoning(actorID model.PlayerID, targets []model.PlayerID) error {
	result, err := t.registry.votes.SubmitReckoning(t.room, actorID, targets)
	if err != nil {
		return err
	}
	t.resolveReckoning(result)
	return nil
}
