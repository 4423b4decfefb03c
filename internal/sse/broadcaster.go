package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lcrawf/moonhollow/internal/model"
)

// Broadcaster turns engine events into SSE messages on the room's hub.
// It satisfies the engine's Notifier contract.
type Broadcaster struct {
	manager *Manager
	logger  *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(manager *Manager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		manager: manager,
		logger:  logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// RoomState pushes the full public room state to every client
func (b *Broadcaster) RoomState(state model.RoomState) {
	b.Event(state.Code, model.EventRoomState, state)
}

// Event broadcasts a typed event to every client in the room
func (b *Broadcaster) Event(code model.RoomCode, eventType model.EventType, payload any) {
	hub := b.manager.GetHub(code)
	if hub == nil {
		return
	}

	data, err := b.encode(code, eventType, payload)
	if err != nil {
		return
	}
	hub.BroadcastEvent(string(eventType), data)
}

// Private sends a typed event to a single player's connections
func (b *Broadcaster) Private(code model.RoomCode, playerID model.PlayerID, eventType model.EventType, payload any) {
	hub := b.manager.GetHub(code)
	if hub == nil {
		return
	}

	data, err := b.encode(code, eventType, payload)
	if err != nil {
		return
	}
	hub.SendEvent(playerID, string(eventType), data)
}

// RoomClosed tears down the room's hub
func (b *Broadcaster) RoomClosed(code model.RoomCode) {
	b.manager.RemoveHub(code)
}

func (b *Broadcaster) encode(code model.RoomCode, eventType model.EventType, payload any) (string, error) {
	event := model.Event{
		Type:      eventType,
		RoomCode:  code,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("room", string(code)),
			slog.String("event", string(eventType)),
			slog.Any("error", err))
		return "", err
	}
	return string(data), nil
}
