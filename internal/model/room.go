package model

import (
	"fmt"
	"time"
)

// RoomCode is a human-readable identifier for joining rooms
type RoomCode string

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseNight    Phase = "night"
	PhaseDay      Phase = "day" // Discussion and voting happen together
	PhaseGameOver Phase = "game_over"
)

// Room limits and defaults
const (
	MinPlayersToStart       = 4
	MaxRoomSize             = 16
	PoliceSeatMinimum       = 10 // Seat count at which the police roles unlock
	SpecialMafiaRequirement = 3  // Mafia count needed to enable the bomber

	DefaultNightSeconds    = 60
	DefaultDaySeconds      = 120
	ReckoningWindowSeconds = 30
)

// MaxMafiaForSeats returns the largest allowed mafia count for a table
// of the given size. Values below the start minimum still map to 1 so
// config validation against MaxPlayers is meaningful in small lobbies.
func MaxMafiaForSeats(seats int) int {
	switch {
	case seats <= 5:
		return 1
	case seats <= 8:
		return 2
	case seats <= 11:
		return 3
	default:
		return 4
	}
}

// RoomConfig is an immutable rule configuration for a room. It is
// validated wholesale and swapped atomically; fields are never mutated
// in place.
type RoomConfig struct {
	MaxPlayers   int  `json:"max_players"`
	MafiaCount   int  `json:"mafia_count"`
	EnableBomber bool `json:"enable_bomber"` // Requires MafiaCount >= SpecialMafiaRequirement
	EnableSpy    bool `json:"enable_spy"`
	EnablePolice bool `json:"enable_police"` // Requires a table of at least PoliceSeatMinimum seats
	NightSeconds int  `json:"night_seconds"`
	DaySeconds   int  `json:"day_seconds"`
}

// DefaultRoomConfig returns the default room configuration
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		MaxPlayers:   8,
		MafiaCount:   2,
		NightSeconds: DefaultNightSeconds,
		DaySeconds:   DefaultDaySeconds,
	}
}

// Validate checks the configuration's internal consistency. Rule values
// that violate the derived limits are rejected, never silently clamped.
func (c RoomConfig) Validate() error {
	if c.MaxPlayers < MinPlayersToStart || c.MaxPlayers > MaxRoomSize {
		return fmt.Errorf("%w: max players must be between %d and %d",
			ErrInvalidConfig, MinPlayersToStart, MaxRoomSize)
	}
	if c.MafiaCount < 1 || c.MafiaCount > MaxMafiaForSeats(c.MaxPlayers) {
		return fmt.Errorf("%w: mafia count must be between 1 and %d for %d seats",
			ErrInvalidConfig, MaxMafiaForSeats(c.MaxPlayers), c.MaxPlayers)
	}
	if c.EnableBomber && c.MafiaCount < SpecialMafiaRequirement {
		return fmt.Errorf("%w: bomber requires a mafia count of at least %d",
			ErrInvalidConfig, SpecialMafiaRequirement)
	}
	if c.EnablePolice && c.MaxPlayers < PoliceSeatMinimum {
		return fmt.Errorf("%w: police roles require at least %d seats",
			ErrInvalidConfig, PoliceSeatMinimum)
	}
	if c.NightSeconds < 10 || c.DaySeconds < 10 {
		return fmt.Errorf("%w: phase lengths must be at least 10 seconds", ErrInvalidConfig)
	}
	return nil
}

// Night action keys. The mafia kill is one team-wide action; protection
// and investigation are keyed per role holder.
const NightKeyKill = "kill"

// NightKeyProtect returns the per-doctor protection key
func NightKeyProtect(id PlayerID) string {
	return "protect_" + string(id)
}

// NightKeyInvestigate returns the per-detective investigation key
func NightKeyInvestigate(id PlayerID) string {
	return "investigate_" + string(id)
}

// Reckoning is the pending bomber branch after a day elimination. While
// it is set, the transition to night is deferred.
type Reckoning struct {
	BomberID  PlayerID
	Remaining int // Seconds left in the decision window
}

// Room is one game instance. All of its mutable state is owned by a
// single room task; nothing here is safe for concurrent mutation.
type Room struct {
	Code   RoomCode
	HostID PlayerID
	Phase  Phase
	Day    int // 0 in lobby, 1 after the first night resolves
	// Remaining is the countdown for the current phase in seconds
	Remaining int
	Config    RoomConfig

	// Seats in join order
	Seats []*Seat

	// Eliminated only grows within a game and is cleared on reset
	Eliminated map[PlayerID]bool

	// Day-phase votes, voter -> target, overwritten on revote
	Votes map[PlayerID]PlayerID

	// Night state
	NightActionKeys map[string]bool
	Protected       map[PlayerID]bool
	PendingKill     *PlayerID

	// Pending bomber branch, nil when none
	Reckoning *Reckoning

	// Win tallies across resets
	MafiaWins int
	TownWins  int

	GameStartedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Seat returns the seat for the given player, or nil if not present
func (r *Room) Seat(id PlayerID) *Seat {
	for _, s := range r.Seats {
		if s.PlayerID == id {
			return s
		}
	}
	return nil
}

// IsAlive reports whether the player holds a seat and is alive
func (r *Room) IsAlive(id PlayerID) bool {
	s := r.Seat(id)
	return s != nil && s.Alive
}

// AliveSeats returns all living seats in join order
func (r *Room) AliveSeats() []*Seat {
	var alive []*Seat
	for _, s := range r.Seats {
		if s.Alive {
			alive = append(alive, s)
		}
	}
	return alive
}

// AliveCount returns the number of living players
func (r *Room) AliveCount() int {
	return len(r.AliveSeats())
}

// AliveByFaction counts living players per faction
func (r *Room) AliveByFaction() map[Faction]int {
	counts := make(map[Faction]int)
	for _, s := range r.AliveSeats() {
		counts[s.Role.Faction()]++
	}
	return counts
}

// HumanCount returns the number of human-occupied seats
func (r *Room) HumanCount() int {
	n := 0
	for _, s := range r.Seats {
		if !s.IsBot {
			n++
		}
	}
	return n
}

// BotCount returns the number of bot-occupied seats
func (r *Room) BotCount() int {
	return len(r.Seats) - r.HumanCount()
}

// Eliminate marks a player dead and records them in the eliminated set.
// The alive flag flips to false exactly once per game.
func (r *Room) Eliminate(id PlayerID) {
	if s := r.Seat(id); s != nil && s.Alive {
		s.Alive = false
		r.Eliminated[id] = true
	}
}

// ClearNightState resets the per-night collections. Called on entering
// night so stale keys never leak across nights.
func (r *Room) ClearNightState() {
	r.NightActionKeys = make(map[string]bool)
	r.Protected = make(map[PlayerID]bool)
	r.PendingKill = nil
}

// ClearVotes resets the pending votes. Called on entering day.
func (r *Room) ClearVotes() {
	r.Votes = make(map[PlayerID]PlayerID)
}

// ResetToLobby returns a finished room to the lobby with roles cleared
// and the elimination set emptied. Win tallies survive.
func (r *Room) ResetToLobby() {
	r.Phase = PhaseLobby
	r.Day = 0
	r.Remaining = 0
	r.Eliminated = make(map[PlayerID]bool)
	r.Reckoning = nil
	r.ClearNightState()
	r.ClearVotes()
	for _, s := range r.Seats {
		s.Role = ""
		s.Alive = true
	}
}

// NewRoom creates a room in the lobby phase with the given host seated
func NewRoom(code RoomCode, host Seat, cfg RoomConfig, now time.Time) *Room {
	host.Alive = true
	host.JoinedAt = now
	return &Room{
		Code:            code,
		HostID:          host.PlayerID,
		Phase:           PhaseLobby,
		Config:          cfg,
		Seats:           []*Seat{&host},
		Eliminated:      make(map[PlayerID]bool),
		Votes:           make(map[PlayerID]PlayerID),
		NightActionKeys: make(map[string]bool),
		Protected:       make(map[PlayerID]bool),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
