package model

import "time"

// PlayerResult is one player's line in a finished game record
type PlayerResult struct {
	PlayerID PlayerID `json:"player_id"`
	Role     Role     `json:"role"`
	IsBot    bool     `json:"is_bot"`
	Survived bool     `json:"survived"`
	Won      bool     `json:"won"`
}

// GameRecord is the summary of one completed game, handed to the
// statistics sink exactly once per game.
type GameRecord struct {
	ID        string         `json:"id"`
	RoomCode  RoomCode       `json:"room_code"`
	SeatCount int            `json:"seat_count"`
	Players   []PlayerResult `json:"players"`
	Winner    Faction        `json:"winner"`
	Days      int            `json:"days"`
	Duration  time.Duration  `json:"duration"`
	EndedAt   time.Time      `json:"ended_at"`
}
