package bot

import (
	"time"

	"github.com/lcrawf/moonhollow/internal/model"
)

// Strategy decides what a bot does and when. The target heuristic is a
// collaborator; the coordinator only owns scheduling and submission.
type Strategy interface {
	// PickVote selects a day-phase vote target, or reports abstention
	PickVote(state model.RoomState, self model.PlayerID) (model.PlayerID, bool)

	// PickNightAction selects a night target for the bot's role, or
	// reports abstention
	PickNightAction(state model.RoomState, self model.PlayerID, role model.Role) (model.PlayerID, bool)

	// Delay returns a humanlike think time for a phase with the given
	// seconds remaining
	Delay(remaining int) time.Duration
}
