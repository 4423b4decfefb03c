package roles

import (
	"github.com/lcrawf/moonhollow/internal/dependencies/random"
	"github.com/lcrawf/moonhollow/internal/model"
)

// Allocator builds the shuffled role pool for a game. Allocation is
// deterministic given its inputs; only the final shuffle is randomized.
type Allocator struct {
	random random.Random
}

// New creates a new Allocator
func New(rnd random.Random) *Allocator {
	return &Allocator{random: rnd}
}

// AllocatePool returns a flat list of role tokens of length seats.
//
// The bomber and spy each replace one ordinary mafia token, so enabling
// them never increases the mafia-faction headcount. The police trio is
// appended only for large tables; the detective and doctor appear from
// five seats up; citizens pad the remainder.
func (a *Allocator) AllocatePool(seats int, cfg model.RoomConfig) []model.Role {
	pool := make([]model.Role, 0, seats)

	for i := 0; i < cfg.MafiaCount; i++ {
		pool = append(pool, model.RoleMafia)
	}
	if cfg.EnableBomber && cfg.MafiaCount >= model.SpecialMafiaRequirement {
		pool[0] = model.RoleBomber
	}
	if cfg.EnableSpy {
		// Replace the last ordinary mafia token so the bomber survives
		for i := len(pool) - 1; i >= 0; i-- {
			if pool[i] == model.RoleMafia {
				pool[i] = model.RoleSpy
				break
			}
		}
	}

	if seats >= model.PoliceSeatMinimum && cfg.EnablePolice {
		pool = append(pool, model.PoliceRoles()...)
	}
	if seats >= 5 {
		pool = append(pool, model.RoleDetective, model.RoleDoctor)
	}

	for len(pool) < seats {
		pool = append(pool, model.RoleCitizen)
	}

	// Uniform shuffle so seat position carries no information
	a.random.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	return pool
}

// AssignSeats deals the pool across a room's seats. Bots are always
// pre-assigned the citizen role; one citizen token is removed from the
// pool per bot (stopping at zero, without error) so bots never consume
// the non-filler roles meant for human seats. Humans then receive the
// remaining tokens in shuffled order.
func (a *Allocator) AssignSeats(pool []model.Role, seats []*model.Seat) {
	botCount := 0
	for _, s := range seats {
		if s.IsBot {
			botCount++
		}
	}

	remaining := removeCitizens(pool, botCount)

	i := 0
	for _, s := range seats {
		if s.IsBot {
			s.Role = model.RoleCitizen
			continue
		}
		if i < len(remaining) {
			s.Role = remaining[i]
			i++
		} else {
			// More bots than citizen tokens: the pool ran short, pad
			// the leftover human seats with citizens
			s.Role = model.RoleCitizen
		}
	}
}

// removeCitizens strips up to n citizen tokens, preserving order
func removeCitizens(pool []model.Role, n int) []model.Role {
	out := make([]model.Role, 0, len(pool))
	for _, r := range pool {
		if r == model.RoleCitizen && n > 0 {
			n--
			continue
		}
		out = append(out, r)
	}
	return out
}
