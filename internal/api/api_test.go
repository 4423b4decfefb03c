package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcrawf/moonhollow/internal/api"
	"github.com/lcrawf/moonhollow/internal/api/response"
	"github.com/lcrawf/moonhollow/internal/factory"
	"github.com/lcrawf/moonhollow/internal/model"
	"github.com/lcrawf/moonhollow/internal/services/auth"
	"github.com/lcrawf/moonhollow/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
	auth    *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		Registry:      app.Registry,
		StatsRecorder: app.StatsRecorder,
		HubManager:    app.HubManager,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
		auth:    app.AuthService,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// createGuestPlayer creates a guest player and returns their session token
func (ts *testServer) createGuestPlayer(t *testing.T, displayName string) string {
	t.Helper()

	body := map[string]string{"display_name": displayName}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.SessionToken
}

// createRoom creates a room with the given config and returns its code
func (ts *testServer) createRoom(t *testing.T, token string, cfg map[string]any) string {
	t.Helper()

	var body any
	if cfg != nil {
		body = map[string]any{"config": cfg}
	}
	rr := ts.request(http.MethodPost, "/api/v1/rooms", body, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Room.Code)
	return string(resp.Room.Code)
}

func (ts *testServer) getRoom(t *testing.T, token, code string) model.RoomState {
	t.Helper()

	rr := ts.request(http.MethodGet, "/api/v1/rooms/"+code, nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Room
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateGuestPlayer(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"display_name": "Alice"}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "Alice", resp.Player.DisplayName)
	assert.True(t, resp.Player.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &registerResp)
	require.NoError(t, err)
	assert.False(t, registerResp.Player.IsGuest)

	// Login
	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &loginResp)
	require.NoError(t, err)
	assert.Equal(t, registerResp.Player.ID, loginResp.Player.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	registerBody := map[string]string{
		"username":     "bob",
		"password":     "secret123",
		"display_name": "Bob",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	loginBody := map[string]string{
		"username": "bob",
		"password": "wrong",
	}
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createGuestPlayer(t, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Player
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.DisplayName)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createGuestPlayer(t, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/players/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateRoomWithDefaults(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createGuestPlayer(t, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/rooms", nil, token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Room
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, model.PhaseLobby, resp.Room.Phase)
	assert.Equal(t, 8, resp.Room.Config.MaxPlayers)
	assert.Equal(t, 2, resp.Room.Config.MafiaCount)
	require.Len(t, resp.Room.Seats, 1)
	assert.Equal(t, "Alice", resp.Room.Seats[0].DisplayName)
	assert.True(t, resp.Room.Seats[0].IsHost)
}

func TestCreateRoomInvalidConfig(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createGuestPlayer(t, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/rooms", map[string]any{
		"config": map[string]any{"max_players": 6, "mafia_count": 5},
	}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_CONFIG")
}

func TestGetRoomNotFound(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createGuestPlayer(t, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/rooms/NOPE42", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROOM_NOT_FOUND")
}

func TestJoinRoom(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	guestToken := ts.createGuestPlayer(t, "Bob")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", nil, guestToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Room
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp.Room.Seats, 2)
}

func TestJoinRoomTwice(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	guestToken := ts.createGuestPlayer(t, "Bob")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", nil, guestToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ALREADY_IN_ROOM")
}

func TestLeaveRoom(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	guestToken := ts.createGuestPlayer(t, "Bob")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/leave", nil, guestToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	state := ts.getRoom(t, hostToken, code)
	assert.Len(t, state.Seats, 1)
}

func TestUpdateConfig(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	rr := ts.request(http.MethodPatch, "/api/v1/rooms/"+code+"/config", map[string]any{
		"config": map[string]any{"max_players": 10, "mafia_count": 2, "enable_police": true},
	}, hostToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Room
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Room.Config.MaxPlayers)
	assert.True(t, resp.Room.Config.EnablePolice)
}

func TestUpdateConfigHostOnly(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	guestToken := ts.createGuestPlayer(t, "Bob")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPatch, "/api/v1/rooms/"+code+"/config", map[string]any{
		"config": map[string]any{"max_players": 10},
	}, guestToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_HOST")
}

func TestAddAndRemoveBot(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/bots", nil, hostToken)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.BotAdded
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotEmpty(t, resp.BotID)

	state := ts.getRoom(t, hostToken, code)
	require.Len(t, state.Seats, 2)
	assert.True(t, state.Seats[1].IsBot)

	rr = ts.request(http.MethodDelete, "/api/v1/rooms/"+code+"/bots/"+resp.BotID, nil, hostToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	state = ts.getRoom(t, hostToken, code)
	assert.Len(t, state.Seats, 1)
}

func TestAddBotHostOnly(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	guestToken := ts.createGuestPlayer(t, "Bob")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/bots", nil, guestToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestStartGameNeedsEnoughPlayers(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/start", nil, hostToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "INSUFFICIENT_PLAYERS")
}

func TestStartGameTooManyMafia(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	// Two mafia are allowed for an 8-seat table but not for the four
	// players actually seated at start
	code := ts.createRoom(t, hostToken, nil)

	for i := 0; i < 3; i++ {
		rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/bots", nil, hostToken)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/start", nil, hostToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "TOO_MANY_MAFIA")
}

func TestStartGameEntersNight(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, map[string]any{
		"max_players": 5,
		"mafia_count": 1,
	})

	for i := 0; i < 3; i++ {
		rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/bots", nil, hostToken)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/start", nil, hostToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Room
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseNight, resp.Room.Phase)
	assert.Equal(t, 1, resp.Room.Day)

	// Roles stay hidden in the public view while everyone is alive
	for _, seat := range resp.Room.Seats {
		assert.Empty(t, seat.Role)
	}
}

func TestVoteOutsideDayPhase(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	guestToken := ts.createGuestPlayer(t, "Bob")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	state := ts.getRoom(t, hostToken, code)
	body := map[string]string{"target_id": string(state.Seats[0].PlayerID)}
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/vote", body, guestToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "GAME_NOT_STARTED")
}

func TestVoteRequiresTarget(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/vote", map[string]string{}, hostToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReckoningWithoutPendingWindow(t *testing.T) {
	ts := newTestServer(t)
	hostToken := ts.createGuestPlayer(t, "Alice")
	code := ts.createRoom(t, hostToken, nil)

	body := map[string]any{"target_ids": []string{"someone"}}
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/reckoning", body, hostToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRoomIsolation(t *testing.T) {
	ts := newTestServer(t)

	aliceToken := ts.createGuestPlayer(t, "Alice")
	bobToken := ts.createGuestPlayer(t, "Bob")

	codeA := ts.createRoom(t, aliceToken, nil)
	codeB := ts.createRoom(t, bobToken, nil)
	require.NotEqual(t, codeA, codeB)

	stateA := ts.getRoom(t, aliceToken, codeA)
	stateB := ts.getRoom(t, bobToken, codeB)
	assert.Len(t, stateA.Seats, 1)
	assert.Len(t, stateB.Seats, 1)
	assert.Equal(t, "Alice", stateA.Seats[0].DisplayName)
	assert.Equal(t, "Bob", stateB.Seats[0].DisplayName)
}

func TestListRecentGames(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createGuestPlayer(t, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/games/recent", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.GameRecordList
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Empty(t, resp.Records)
}

func TestListRecentGamesInvalidLimit(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createGuestPlayer(t, "Alice")

	for _, limit := range []string{"0", "101", "abc"} {
		rr := ts.request(http.MethodGet, fmt.Sprintf("/api/v1/games/recent?limit=%s", limit), nil, token)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}
}
