package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RoomConfigRequest carries the room rule configuration. Zero values
// fall back to the defaults when creating a room.
type RoomConfigRequest struct {
	MaxPlayers   int  `json:"max_players,omitempty"`
	MafiaCount   int  `json:"mafia_count,omitempty"`
	EnableBomber bool `json:"enable_bomber,omitempty"`
	EnableSpy    bool `json:"enable_spy,omitempty"`
	EnablePolice bool `json:"enable_police,omitempty"`
	NightSeconds int  `json:"night_seconds,omitempty"`
	DaySeconds   int  `json:"day_seconds,omitempty"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Config *RoomConfigRequest `json:"config,omitempty"`
}

// UpdateConfigRequest is the request body for updating room config
type UpdateConfigRequest struct {
	Config RoomConfigRequest `json:"config"`
}

// VoteRequest is the request body for casting a day vote
type VoteRequest struct {
	TargetID string `json:"target_id"`
}

// NightActionRequest is the request body for a night action
type NightActionRequest struct {
	TargetID string `json:"target_id"`
}

// ReckoningRequest is the request body for the bomber's parting choice
type ReckoningRequest struct {
	TargetIDs []string `json:"target_ids"`
}

// AddBotRequest is the request body for seating a bot
type AddBotRequest struct {
	Strategy string `json:"strategy,omitempty"`
}
