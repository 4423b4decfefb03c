package win

import "github.com/lcrawf/moonhollow/internal/model"

// Result is the outcome of a win evaluation
type Result struct {
	Finished bool
	Winner   model.Faction
}

// Evaluate applies the win condition to a room's living players. The
// police roles count toward neither side. Town wins when no living
// mafia-faction member remains; mafia wins when it has caught up to
// the town, ties included. Callers must only invoke this after an
// elimination-producing event, never when a night is about to begin.
func Evaluate(room *model.Room) Result {
	counts := room.AliveByFaction()
	mafia := counts[model.FactionMafia]
	town := counts[model.FactionTown]

	switch {
	case mafia == 0:
		return Result{Finished: true, Winner: model.FactionTown}
	case mafia >= town:
		return Result{Finished: true, Winner: model.FactionMafia}
	default:
		return Result{}
	}
}
