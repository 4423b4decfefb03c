package model

import "errors"

// Error taxonomy. Validation errors reject a malformed or out-of-turn
// submission locally with no state change; configuration errors reject
// bad rule values at update or start time; capacity errors reject joins;
// terminal-state errors reject actions outside the playable phases.
// Nothing here is fatal to the process.
var (
	// Validation
	ErrSelfTarget      = errors.New("cannot target yourself")
	ErrTargetDead      = errors.New("target is not alive")
	ErrTargetNotFound  = errors.New("target is not in this room")
	ErrActorDead       = errors.New("dead players cannot act")
	ErrWrongPhase      = errors.New("action not allowed in this phase")
	ErrWrongRole       = errors.New("your role cannot perform this action")
	ErrActionConsumed  = errors.New("this action has already been used tonight")
	ErrFriendlyFire    = errors.New("the kill cannot target a mafia member")
	ErrNoReckoning     = errors.New("no reckoning decision is pending")
	ErrTooManyTargets  = errors.New("too many reckoning targets")
	ErrDuplicateTarget = errors.New("duplicate reckoning target")

	// Configuration
	ErrInvalidConfig       = errors.New("invalid room configuration")
	ErrInsufficientPlayers = errors.New("not enough players to start")
	ErrNoHumanPlayers      = errors.New("at least one human player is required")
	ErrTooManyMafia        = errors.New("too many mafia for this table size")
	ErrPoliceNeedMoreSeats = errors.New("police roles require a larger table")

	// Capacity
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("player is already in a room")
	ErrNotInRoom     = errors.New("player is not in this room")

	// Terminal state
	ErrGameOver       = errors.New("the game is over")
	ErrGameInProgress = errors.New("game is in progress")
	ErrGameNotStarted = errors.New("game has not started")

	// Lookup / authorization
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotHost        = errors.New("player is not the host")
	ErrNotBot         = errors.New("player is not a bot")
	ErrRecordNotFound = errors.New("game record not found")
)
