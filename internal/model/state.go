package model

// SeatState is the public view of a seat. Roles stay hidden until a
// player is eliminated or the game ends.
type SeatState struct {
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
	IsBot       bool     `json:"is_bot"`
	IsHost      bool     `json:"is_host"`
	Alive       bool     `json:"alive"`
	HasVoted    bool     `json:"has_voted"`
	Role        Role     `json:"role,omitempty"` // Only revealed for the dead or at game over
}

// RoomState is the full public room state pushed on every mutation
type RoomState struct {
	Code      RoomCode    `json:"code"`
	Phase     Phase       `json:"phase"`
	Day       int         `json:"day"`
	Remaining int         `json:"remaining"`
	Config    RoomConfig  `json:"config"`
	Seats     []SeatState `json:"seats"`
	Reckoning bool        `json:"reckoning"` // True while the bomber decision is pending
	MafiaWins int         `json:"mafia_wins"`
	TownWins  int         `json:"town_wins"`
}

// PublicState builds the broadcastable view of the room. Role reveal
// follows elimination: a dead seat's role is public, a living seat's is
// not until the game is over.
func (r *Room) PublicState() RoomState {
	seats := make([]SeatState, 0, len(r.Seats))
	for _, s := range r.Seats {
		ss := SeatState{
			PlayerID:    s.PlayerID,
			DisplayName: s.DisplayName,
			IsBot:       s.IsBot,
			IsHost:      s.PlayerID == r.HostID,
			Alive:       s.Alive,
		}
		if _, voted := r.Votes[s.PlayerID]; voted && r.Phase == PhaseDay {
			ss.HasVoted = true
		}
		if !s.Alive || r.Phase == PhaseGameOver {
			ss.Role = s.Role
		}
		seats = append(seats, ss)
	}
	return RoomState{
		Code:      r.Code,
		Phase:     r.Phase,
		Day:       r.Day,
		Remaining: r.Remaining,
		Config:    r.Config,
		Seats:     seats,
		Reckoning: r.Reckoning != nil,
		MafiaWins: r.MafiaWins,
		TownWins:  r.TownWins,
	}
}
