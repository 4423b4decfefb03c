package bot

import (
	"time"

	"github.com/lcrawf/moonhollow/internal/dependencies/random"
	"github.com/lcrawf/moonhollow/internal/model"
)

// RandomStrategy targets uniformly among valid living candidates
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// PickVote picks a random living player other than the bot itself
func (s *RandomStrategy) PickVote(state model.RoomState, self model.PlayerID) (model.PlayerID, bool) {
	return s.pick(state, func(seat model.SeatState) bool {
		return seat.Alive && seat.PlayerID != self
	})
}

// PickNightAction picks a random valid target for the role. Bots hold
// the citizen role in practice, so this mostly exists for completeness;
// validity is enforced again by the shared submission entry points.
func (s *RandomStrategy) PickNightAction(state model.RoomState, self model.PlayerID, role model.Role) (model.PlayerID, bool) {
	switch role {
	case model.RoleDoctor:
		// Self-protection is allowed
		return s.pick(state, func(seat model.SeatState) bool {
			return seat.Alive
		})
	case model.RoleMafia, model.RoleBomber, model.RoleSpy, model.RoleDetective:
		return s.pick(state, func(seat model.SeatState) bool {
			return seat.Alive && seat.PlayerID != self
		})
	default:
		return "", false
	}
}

// Delay spreads submissions over the first part of the phase so bots
// do not all act on the same second
func (s *RandomStrategy) Delay(remaining int) time.Duration {
	window := remaining - 5
	if window > 20 {
		window = 20
	}
	if window < 1 {
		window = 1
	}
	return time.Duration(2+s.random.Intn(window)) * time.Second
}

func (s *RandomStrategy) pick(state model.RoomState, valid func(model.SeatState) bool) (model.PlayerID, bool) {
	var candidates []model.PlayerID
	for _, seat := range state.Seats {
		if valid(seat) {
			candidates = append(candidates, seat.PlayerID)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[s.random.Intn(len(candidates))], true
}
