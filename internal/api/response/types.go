package response

import (
	"time"

	"github.com/lcrawf/moonhollow/internal/model"
	"github.com/lcrawf/moonhollow/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
		IsBot:       p.IsBot,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Room wraps the public room state. The state type already carries its
// wire representation; responses reuse it rather than copying field by
// field.
type Room struct {
	Room model.RoomState `json:"room"`
}

// RoomFromState wraps a room state for a response body
func RoomFromState(state model.RoomState) Room {
	return Room{Room: state}
}

// BotAdded is the response for seating a bot
type BotAdded struct {
	BotID string `json:"bot_id"`
}

// GameRecord represents a finished game in API responses
type GameRecord struct {
	ID        string               `json:"id"`
	RoomCode  string               `json:"room_code"`
	SeatCount int                  `json:"seat_count"`
	Players   []model.PlayerResult `json:"players"`
	Winner    string               `json:"winner"`
	Days      int                  `json:"days"`
	Duration  string               `json:"duration"`
	EndedAt   time.Time            `json:"ended_at"`
}

// GameRecordFromModel converts a model.GameRecord
func GameRecordFromModel(r *model.GameRecord) GameRecord {
	return GameRecord{
		ID:        r.ID,
		RoomCode:  string(r.RoomCode),
		SeatCount: r.SeatCount,
		Players:   r.Players,
		Winner:    string(r.Winner),
		Days:      r.Days,
		Duration:  r.Duration.String(),
		EndedAt:   r.EndedAt,
	}
}

// GameRecordList is the response for listing finished games
type GameRecordList struct {
	Records []GameRecord `json:"records"`
}

// GameRecordListFromModels converts a slice of records
func GameRecordListFromModels(records []*model.GameRecord) GameRecordList {
	out := GameRecordList{Records: make([]GameRecord, 0, len(records))}
	for _, r := range records {
		out.Records = append(out.Records, GameRecordFromModel(r))
	}
	return out
}
