package vote

import (
	"log/slog"

	"github.com/lcrawf/moonhollow/internal/model"
)

// OutcomeType classifies a day vote resolution
type OutcomeType string

const (
	OutcomeEliminated OutcomeType = "eliminated"
	OutcomeTie        OutcomeType = "tie"
	OutcomeNoVotes    OutcomeType = "no_votes"
	// OutcomeReckoning means the eliminated player is the bomber and
	// their parting choice is now pending; the elimination itself is
	// deferred to the reckoning resolution.
	OutcomeReckoning OutcomeType = "reckoning"
)

// Outcome is the result of tallying a day's votes
type Outcome struct {
	Type   OutcomeType
	Target model.PlayerID // Set for OutcomeEliminated and OutcomeReckoning
	Role   model.Role     // Role of the eliminated player
}

// ReckoningResult is the result of resolving the bomber branch
type ReckoningResult struct {
	BomberID  model.PlayerID
	Killed    []model.PlayerID
	Protected []model.PlayerID
}

// Tally validates vote submissions and resolves day eliminations,
// including the deferred bomber branch. It mutates room state directly
// and is only ever called from the room's owning task.
type Tally struct {
	logger *slog.Logger
}

// New creates a new Tally
func New(logger *slog.Logger) *Tally {
	return &Tally{
		logger: logger.With(slog.String("component", "vote-tally")),
	}
}

// CastVote records or overwrites a living player's vote
func (t *Tally) CastVote(room *model.Room, voterID, targetID model.PlayerID) error {
	switch room.Phase {
	case model.PhaseDay:
	case model.PhaseLobby:
		return model.ErrGameNotStarted
	case model.PhaseGameOver:
		return model.ErrGameOver
	default:
		return model.ErrWrongPhase
	}
	if room.Reckoning != nil {
		// Voting is closed while the bomber decides
		return model.ErrWrongPhase
	}

	voter := room.Seat(voterID)
	if voter == nil {
		return model.ErrNotInRoom
	}
	if !voter.Alive {
		return model.ErrActorDead
	}
	if voterID == targetID {
		return model.ErrSelfTarget
	}

	target := room.Seat(targetID)
	if target == nil {
		return model.ErrTargetNotFound
	}
	if !target.Alive {
		return model.ErrTargetDead
	}

	room.Votes[voterID] = targetID
	return nil
}

// Complete reports whether every living player has voted, which ends
// the day early.
func (t *Tally) Complete(room *model.Room) bool {
	for _, s := range room.AliveSeats() {
		if _, ok := room.Votes[s.PlayerID]; !ok {
			return false
		}
	}
	return true
}

// Resolve tallies the room's votes, restricted to living voters and
// living targets. A shared maximum is a tie and eliminates no one;
// ties are not re-voted. When the uniquely eliminated player is the
// bomber, elimination is deferred and the reckoning branch opens.
func (t *Tally) Resolve(room *model.Room) Outcome {
	counts := make(map[model.PlayerID]int)
	for voterID, targetID := range room.Votes {
		if !room.IsAlive(voterID) || !room.IsAlive(targetID) {
			continue
		}
		counts[targetID]++
	}

	if len(counts) == 0 {
		return Outcome{Type: OutcomeNoVotes}
	}

	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}

	var top []model.PlayerID
	for targetID, n := range counts {
		if n == max {
			top = append(top, targetID)
		}
	}
	if len(top) > 1 {
		t.logger.Info("vote tied",
			slog.String("room", string(room.Code)),
			slog.Int("count", max),
		)
		return Outcome{Type: OutcomeTie}
	}

	target := top[0]
	seat := room.Seat(target)

	if seat.Role == model.RoleBomber {
		room.Reckoning = &model.Reckoning{
			BomberID:  target,
			Remaining: model.ReckoningWindowSeconds,
		}
		t.logger.Info("reckoning opened",
			slog.String("room", string(room.Code)),
			slog.String("bomber", string(target)),
		)
		return Outcome{Type: OutcomeReckoning, Target: target, Role: seat.Role}
	}

	room.Eliminate(target)
	t.logger.Info("day elimination",
		slog.String("room", string(room.Code)),
		slog.String("target", string(target)),
	)
	return Outcome{Type: OutcomeEliminated, Target: target, Role: seat.Role}
}

// SubmitReckoning records the bomber's parting choice of up to two
// living players. Passing no targets resolves the branch with the
// bomber alone; that is also the timeout default.
func (t *Tally) SubmitReckoning(room *model.Room, actorID model.PlayerID, targets []model.PlayerID) (*ReckoningResult, error) {
	if room.Phase == model.PhaseGameOver {
		return nil, model.ErrGameOver
	}
	if room.Reckoning == nil {
		return nil, model.ErrNoReckoning
	}
	if room.Reckoning.BomberID != actorID {
		return nil, model.ErrWrongRole
	}
	if len(targets) > 2 {
		return nil, model.ErrTooManyTargets
	}

	seen := make(map[model.PlayerID]bool)
	for _, id := range targets {
		if id == actorID {
			return nil, model.ErrSelfTarget
		}
		if seen[id] {
			return nil, model.ErrDuplicateTarget
		}
		seen[id] = true

		seat := room.Seat(id)
		if seat == nil {
			return nil, model.ErrTargetNotFound
		}
		if !seat.Alive {
			return nil, model.ErrTargetDead
		}
	}

	return t.resolveReckoning(room, targets), nil
}

// ResolveReckoningTimeout resolves an elapsed decision window with
// zero additional targets.
func (t *Tally) ResolveReckoningTimeout(room *model.Room) *ReckoningResult {
	if room.Reckoning == nil {
		return nil
	}
	return t.resolveReckoning(room, nil)
}

// resolveReckoning eliminates the bomber unconditionally, then each
// chosen target unless that target is still in the protected set from
// the night before. Protection state is cleared afterwards; this is
// the only day-phase outcome that depends on it.
func (t *Tally) resolveReckoning(room *model.Room, targets []model.PlayerID) *ReckoningResult {
	result := &ReckoningResult{BomberID: room.Reckoning.BomberID}

	room.Eliminate(result.BomberID)
	for _, id := range targets {
		if room.Protected[id] {
			result.Protected = append(result.Protected, id)
			continue
		}
		room.Eliminate(id)
		result.Killed = append(result.Killed, id)
	}

	room.Reckoning = nil
	room.Protected = make(map[model.PlayerID]bool)

	t.logger.Info("reckoning resolved",
		slog.String("room", string(room.Code)),
		slog.String("bomber", string(result.BomberID)),
		slog.Int("killed", len(result.Killed)),
		slog.Int("protected", len(result.Protected)),
	)
	return result
}
