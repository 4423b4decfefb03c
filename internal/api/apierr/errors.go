package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lcrawf/moonhollow/internal/model"
	"github.com/lcrawf/moonhollow/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotHost             = "NOT_HOST"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodeRecordNotFound      = "RECORD_NOT_FOUND"
	CodeAlreadyInRoom       = "ALREADY_IN_ROOM"
	CodeNotInRoom           = "NOT_IN_ROOM"
	CodeRoomFull            = "ROOM_FULL"
	CodeGameInProgress      = "GAME_IN_PROGRESS"
	CodeGameNotStarted      = "GAME_NOT_STARTED"
	CodeGameOver            = "GAME_OVER"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeNoHumanPlayers      = "NO_HUMAN_PLAYERS"
	CodeTooManyMafia        = "TOO_MANY_MAFIA"
	CodePoliceNeedMoreSeats = "POLICE_NEED_MORE_SEATS"
	CodeWrongPhase          = "WRONG_PHASE"
	CodeWrongRole           = "WRONG_ROLE"
	CodeActorDead           = "ACTOR_DEAD"
	CodeTargetDead          = "TARGET_DEAD"
	CodeTargetNotFound      = "TARGET_NOT_FOUND"
	CodeSelfTarget          = "SELF_TARGET"
	CodeFriendlyFire        = "FRIENDLY_FIRE"
	CodeActionConsumed      = "ACTION_CONSUMED"
	CodeNoReckoning         = "NO_RECKONING"
	CodeTooManyTargets      = "TOO_MANY_TARGETS"
	CodeDuplicateTarget     = "DUPLICATE_TARGET"
	CodeNotBot              = "NOT_BOT"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRecordNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRecordNotFound, "Record not found"}}
	case errors.Is(err, model.ErrTargetNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTargetNotFound, "Target not found"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Not in this room"}}
	case errors.Is(err, model.ErrAlreadyInRoom):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInRoom, "Already in a room"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrGameInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game is in progress"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameNotStarted, "Game has not started"}}
	case errors.Is(err, model.ErrGameOver):
		return &httpError{http.StatusConflict, APIError{CodeGameOver, "Game is over"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrNoHumanPlayers):
		return &httpError{http.StatusConflict, APIError{CodeNoHumanPlayers, "At least one human player is required"}}
	case errors.Is(err, model.ErrTooManyMafia):
		return &httpError{http.StatusConflict, APIError{CodeTooManyMafia, "Too many mafia for the seated players"}}
	case errors.Is(err, model.ErrPoliceNeedMoreSeats):
		return &httpError{http.StatusConflict, APIError{CodePoliceNeedMoreSeats, "Police roles need more seated players"}}
	case errors.Is(err, model.ErrWrongPhase):
		return &httpError{http.StatusConflict, APIError{CodeWrongPhase, "Action not allowed in the current phase"}}
	case errors.Is(err, model.ErrWrongRole):
		return &httpError{http.StatusForbidden, APIError{CodeWrongRole, "Your role cannot perform this action"}}
	case errors.Is(err, model.ErrActorDead):
		return &httpError{http.StatusForbidden, APIError{CodeActorDead, "Dead players cannot act"}}
	case errors.Is(err, model.ErrTargetDead):
		return &httpError{http.StatusConflict, APIError{CodeTargetDead, "Target is already dead"}}
	case errors.Is(err, model.ErrSelfTarget):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfTarget, "Cannot target yourself"}}
	case errors.Is(err, model.ErrFriendlyFire):
		return &httpError{http.StatusBadRequest, APIError{CodeFriendlyFire, "Cannot target a teammate"}}
	case errors.Is(err, model.ErrActionConsumed):
		return &httpError{http.StatusConflict, APIError{CodeActionConsumed, "Action already used this night"}}
	case errors.Is(err, model.ErrNoReckoning):
		return &httpError{http.StatusConflict, APIError{CodeNoReckoning, "No reckoning is pending"}}
	case errors.Is(err, model.ErrTooManyTargets):
		return &httpError{http.StatusBadRequest, APIError{CodeTooManyTargets, "Too many targets"}}
	case errors.Is(err, model.ErrDuplicateTarget):
		return &httpError{http.StatusBadRequest, APIError{CodeDuplicateTarget, "Duplicate target"}}
	case errors.Is(err, model.ErrNotBot):
		return &httpError{http.StatusBadRequest, APIError{CodeNotBot, "Player is not a bot"}}
	case errors.Is(err, model.ErrInvalidConfig):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfig, err.Error()}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
