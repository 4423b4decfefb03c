package model

import "time"

// EventType identifies the type of event pushed over the room channel
type EventType string

const (
	// Room events
	EventRoomState     EventType = "room_state"
	EventPlayerJoined  EventType = "player_joined"
	EventPlayerLeft    EventType = "player_left"
	EventHostChanged   EventType = "host_changed"
	EventConfigChanged EventType = "config_changed"

	// Game events
	EventGameStarted    EventType = "game_started"
	EventPhaseChanged   EventType = "phase_changed"
	EventCountdown      EventType = "countdown"
	EventNightResolved  EventType = "night_resolved"
	EventVoteCast       EventType = "vote_cast"
	EventVoteResolved   EventType = "vote_resolved"
	EventReckoningBegan EventType = "reckoning_began"
	EventReckoningEnded EventType = "reckoning_ended"
	EventGameOver       EventType = "game_over"
	EventGameReset      EventType = "game_reset"

	// Private events (single recipient)
	EventRoleDealt           EventType = "role_dealt"
	EventInvestigationResult EventType = "investigation_result"
	EventActionConfirmed     EventType = "action_confirmed"
	EventReckoningPrompt     EventType = "reckoning_prompt"
)

// Event is the envelope for everything pushed to room channels
type Event struct {
	Type      EventType `json:"type"`
	RoomCode  RoomCode  `json:"room_code"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// PhaseChangedPayload announces a phase transition
type PhaseChangedPayload struct {
	Phase     Phase `json:"phase"`
	Day       int   `json:"day"`
	Remaining int   `json:"remaining"`
}

// NightResolvedPayload announces the dawn outcome. Killed is empty when
// no one died, whether because no kill was submitted or because the
// target was protected.
type NightResolvedPayload struct {
	Killed PlayerID `json:"killed,omitempty"`
	Saved  bool     `json:"saved"`
}

// VoteResolvedPayload announces the day elimination outcome
type VoteResolvedPayload struct {
	Outcome    string   `json:"outcome"` // "eliminated", "tie" or "no_votes"
	Eliminated PlayerID `json:"eliminated,omitempty"`
	Role       Role     `json:"role,omitempty"`
}

// ReckoningEndedPayload announces how the bomber branch resolved
type ReckoningEndedPayload struct {
	BomberID  PlayerID   `json:"bomber_id"`
	Killed    []PlayerID `json:"killed"`
	Protected []PlayerID `json:"protected"`
}

// GameOverPayload announces the winner and the full role reveal
type GameOverPayload struct {
	Winner Faction           `json:"winner"`
	Roles  map[PlayerID]Role `json:"roles"`
}

// RoleDealtPayload privately tells a player their role
type RoleDealtPayload struct {
	Role Role `json:"role"`
	// Teammates lists fellow mafia-faction members, only for mafia roles
	Teammates []PlayerID `json:"teammates,omitempty"`
}

// InvestigationResultPayload privately returns a detective's result
type InvestigationResultPayload struct {
	Target     PlayerID `json:"target"`
	Suspicious bool     `json:"suspicious"`
}

// ReckoningPromptPayload privately offers the bomber their choice
type ReckoningPromptPayload struct {
	Remaining  int `json:"remaining"`
	MaxTargets int `json:"max_targets"`
}
