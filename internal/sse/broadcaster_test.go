package sse

import (
	"strings"
	"testing"
	"time"

	"github.com/lcrawf/moonhollow/internal/model"
)

func TestBroadcaster_RoomState(t *testing.T) {
	manager := NewManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	state := model.RoomState{
		Code:  "ABC123",
		Phase: model.PhaseDay,
		Day:   2,
		Seats: []model.SeatState{
			{PlayerID: "player1", DisplayName: "Alice", IsHost: true, Alive: true},
			{PlayerID: "player2", DisplayName: "Bob", Alive: false, Role: model.RoleCitizen},
		},
	}

	hub := manager.GetOrCreateHub(state.Code)
	client := NewClient(hub, "player1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.RoomState(state)

	select {
	case msg := <-client.send:
		msgStr := string(msg)
		if !strings.Contains(msgStr, "event: room_state") {
			t.Errorf("message does not contain event name: %s", msgStr)
		}
		if !strings.Contains(msgStr, `"phase":"day"`) {
			t.Errorf("message does not contain phase: %s", msgStr)
		}
		// The dead seat's role is revealed in the payload
		if !strings.Contains(msgStr, `"role":"citizen"`) {
			t.Errorf("message does not contain revealed role: %s", msgStr)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}

	manager.RemoveHub(state.Code)
}

func TestBroadcaster_EventReachesAllClients(t *testing.T) {
	manager := NewManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	code := model.RoomCode("ABC123")
	hub := manager.GetOrCreateHub(code)
	client1 := NewClient(hub, "player1")
	client2 := NewClient(hub, "player2")
	hub.Register(client1)
	hub.Register(client2)
	time.Sleep(10 * time.Millisecond)

	broadcaster.Event(code, model.EventCountdown, map[string]any{"remaining": 30})

	for i, client := range []*Client{client1, client2} {
		select {
		case msg := <-client.send:
			if !strings.Contains(string(msg), "event: countdown") {
				t.Errorf("client %d received wrong event: %s", i+1, string(msg))
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i+1)
		}
	}

	manager.RemoveHub(code)
}

func TestBroadcaster_PrivateTargetsOnePlayer(t *testing.T) {
	manager := NewManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	code := model.RoomCode("ABC123")
	hub := manager.GetOrCreateHub(code)
	target := NewClient(hub, "player1")
	other := NewClient(hub, "player2")
	hub.Register(target)
	hub.Register(other)
	time.Sleep(10 * time.Millisecond)

	broadcaster.Private(code, "player1", model.EventRoleDealt, model.RoleDealtPayload{
		Role: model.RoleDetective,
	})

	select {
	case msg := <-target.send:
		msgStr := string(msg)
		if !strings.Contains(msgStr, "event: role_dealt") {
			t.Errorf("target received wrong event: %s", msgStr)
		}
		if !strings.Contains(msgStr, `"role":"detective"`) {
			t.Errorf("target payload missing role: %s", msgStr)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("target did not receive message")
	}

	select {
	case msg := <-other.send:
		t.Errorf("other player received private message %q", string(msg))
	case <-time.After(50 * time.Millisecond):
	}

	manager.RemoveHub(code)
}

func TestBroadcaster_MissingHubIsNoop(t *testing.T) {
	manager := NewManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	// No hub exists for this code; nothing should panic
	broadcaster.Event("NOHUB1", model.EventCountdown, nil)
	broadcaster.Private("NOHUB1", "player1", model.EventRoleDealt, nil)
	broadcaster.RoomState(model.RoomState{Code: "NOHUB1"})
}

func TestBroadcaster_RoomClosedRemovesHub(t *testing.T) {
	manager := NewManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	manager.GetOrCreateHub("ABC123")
	broadcaster.RoomClosed("ABC123")

	if manager.GetHub("ABC123") != nil {
		t.Error("hub still exists after RoomClosed")
	}
}
