package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents one connected identity known to the server
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for players without a registered account
	IsBot       bool
	BotStrategy string // strategy name, empty for humans
	CreatedAt   time.Time
}

// Account holds authentication data for a registered player.
// Stored separately from Player so the hash never travels with sessions.
type Account struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Seat is one occupied place in a room. A player occupies at most one
// seat in at most one room; the seat carries all in-game state for them.
type Seat struct {
	PlayerID    PlayerID
	DisplayName string
	IsBot       bool
	BotStrategy string // strategy name, empty for humans
	AccountID   string // empty for anonymous/guest players
	Role        Role   // empty until the game starts
	Alive       bool
	JoinedAt    time.Time
}
