package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case RoomResult:
		o.printRoom(v.Room)
	case BotAddedResult:
		fmt.Printf("Bot added: %s\n", v.BotID)
	case GameRecordList:
		o.printGameRecords(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// RoomConfig response type
type RoomConfig struct {
	MaxPlayers   int  `json:"max_players"`
	MafiaCount   int  `json:"mafia_count"`
	EnableBomber bool `json:"enable_bomber"`
	EnableSpy    bool `json:"enable_spy"`
	EnablePolice bool `json:"enable_police"`
	NightSeconds int  `json:"night_seconds"`
	DaySeconds   int  `json:"day_seconds"`
}

// Seat response type
type Seat struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
	IsHost      bool   `json:"is_host"`
	Alive       bool   `json:"alive"`
	HasVoted    bool   `json:"has_voted"`
	Role        string `json:"role,omitempty"`
}

// Room response type
type Room struct {
	Code      string     `json:"code"`
	Phase     string     `json:"phase"`
	Day       int        `json:"day"`
	Remaining int        `json:"remaining"`
	Config    RoomConfig `json:"config"`
	Seats     []Seat     `json:"seats"`
	Reckoning bool       `json:"reckoning"`
	MafiaWins int        `json:"mafia_wins"`
	TownWins  int        `json:"town_wins"`
}

// RoomResult wraps a room as returned by the API
type RoomResult struct {
	Room Room `json:"room"`
}

// BotAddedResult response type
type BotAddedResult struct {
	BotID string `json:"bot_id"`
}

// PlayerResult is one player's line in a finished game
type PlayerResult struct {
	PlayerID string `json:"player_id"`
	Role     string `json:"role"`
	IsBot    bool   `json:"is_bot"`
	Survived bool   `json:"survived"`
	Won      bool   `json:"won"`
}

// GameRecord response type
type GameRecord struct {
	ID        string         `json:"id"`
	RoomCode  string         `json:"room_code"`
	SeatCount int            `json:"seat_count"`
	Players   []PlayerResult `json:"players"`
	Winner    string         `json:"winner"`
	Days      int            `json:"days"`
	Duration  string         `json:"duration"`
	EndedAt   time.Time      `json:"ended_at"`
}

// GameRecordList response type
type GameRecordList struct {
	Records []GameRecord `json:"records"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Phase: %s", r.Phase)
	if r.Phase == "night" || r.Phase == "day" {
		fmt.Printf(" (day %d, %ds remaining)", r.Day, r.Remaining)
	}
	fmt.Println()
	if r.Reckoning {
		fmt.Println("Reckoning pending")
	}
	fmt.Printf("Rules: %d seats, %d mafia", r.Config.MaxPlayers, r.Config.MafiaCount)
	var extras []string
	if r.Config.EnableBomber {
		extras = append(extras, "bomber")
	}
	if r.Config.EnableSpy {
		extras = append(extras, "spy")
	}
	if r.Config.EnablePolice {
		extras = append(extras, "police")
	}
	if len(extras) > 0 {
		fmt.Printf(" (+%s)", strings.Join(extras, ", "))
	}
	fmt.Println()
	if r.MafiaWins > 0 || r.TownWins > 0 {
		fmt.Printf("Score: mafia %d, town %d\n", r.MafiaWins, r.TownWins)
	}
	fmt.Printf("Seats (%d):\n", len(r.Seats))
	for _, s := range r.Seats {
		var tags []string
		if s.IsHost {
			tags = append(tags, "host")
		}
		if s.IsBot {
			tags = append(tags, "bot")
		}
		if !s.Alive {
			tags = append(tags, "dead")
		}
		if s.HasVoted {
			tags = append(tags, "voted")
		}
		if s.Role != "" {
			tags = append(tags, s.Role)
		}
		tagStr := ""
		if len(tags) > 0 {
			tagStr = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s)%s\n", s.DisplayName, s.PlayerID, tagStr)
	}
}

func (o *Output) printGameRecords(l GameRecordList) {
	if len(l.Records) == 0 {
		fmt.Println("No finished games")
		return
	}
	for _, r := range l.Records {
		fmt.Printf("%s  room %s  %d players  winner: %s  (%d days, %s)\n",
			r.EndedAt.Format("2006-01-02 15:04"), r.RoomCode, r.SeatCount, r.Winner, r.Days, r.Duration)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
