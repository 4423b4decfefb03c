package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcrawf/moonhollow/internal/api"
	"github.com/lcrawf/moonhollow/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "moonhollow-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/moonhollow")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		Registry:      app.Registry,
		StatsRecorder: app.StatsRecorder,
		HubManager:    app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	Player struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	} `json:"player"`
	SessionToken string `json:"session_token"`
}

type roomResponse struct {
	Room struct {
		Code      string `json:"code"`
		Phase     string `json:"phase"`
		Day       int    `json:"day"`
		Remaining int    `json:"remaining"`
		Config    struct {
			MaxPlayers int `json:"max_players"`
			MafiaCount int `json:"mafia_count"`
		} `json:"config"`
		Seats []struct {
			PlayerID    string `json:"player_id"`
			DisplayName string `json:"display_name"`
			IsBot       bool   `json:"is_bot"`
			IsHost      bool   `json:"is_host"`
			Alive       bool   `json:"alive"`
			Role        string `json:"role"`
		} `json:"seats"`
		Reckoning bool `json:"reckoning"`
		MafiaWins int  `json:"mafia_wins"`
		TownWins  int  `json:"town_wins"`
	} `json:"room"`
}

type botAddedResponse struct {
	BotID string `json:"bot_id"`
}

type recordListResponse struct {
	Records []struct {
		RoomCode  string `json:"room_code"`
		SeatCount int    `json:"seat_count"`
		Winner    string `json:"winner"`
		Days      int    `json:"days"`
	} `json:"records"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create guest
	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.True(t, authResp.Player.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	var player struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, "Alice", player.DisplayName)
	assert.Equal(t, authResp.Player.ID, player.ID)
}

func TestCLI_RoomCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create guest
	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	token := authResp.SessionToken

	// Create room
	output, err = cli.runWithToken(token, "room", "create", "--max-players", "6", "--mafia", "1")
	require.NoError(t, err, "output: %s", output)

	var roomResp roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &roomResp))
	assert.Equal(t, "lobby", roomResp.Room.Phase)
	assert.Equal(t, 6, roomResp.Room.Config.MaxPlayers)
	assert.Len(t, roomResp.Room.Seats, 1)
	assert.True(t, roomResp.Room.Seats[0].IsHost)
	roomCode := roomResp.Room.Code

	// Get room
	output, err = cli.runWithToken(token, "room", "get", roomCode)
	require.NoError(t, err, "output: %s", output)

	var getResp roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &getResp))
	assert.Equal(t, roomCode, getResp.Room.Code)

	// Update config
	output, err = cli.runWithToken(token, "room", "config", roomCode, "--max-players", "8", "--mafia", "2")
	require.NoError(t, err, "output: %s", output)

	var configResp roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &configResp))
	assert.Equal(t, 8, configResp.Room.Config.MaxPlayers)
	assert.Equal(t, 2, configResp.Room.Config.MafiaCount)

	// Add a bot
	output, err = cli.runWithToken(token, "room", "add-bot", roomCode)
	require.NoError(t, err, "output: %s", output)

	var botResp botAddedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &botResp))
	require.NotEmpty(t, botResp.BotID)

	// Remove the bot
	output, err = cli.runWithToken(token, "room", "remove-bot", roomCode, botResp.BotID)
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Contains(t, msgResp.Message, "Removed bot")

	// Leave room
	output, err = cli.runWithToken(token, "room", "leave", roomCode)
	require.NoError(t, err, "output: %s", output)

	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Contains(t, msgResp.Message, "Left room")
}

// TestCLI_FullGameFlow plays a complete four-player game over the CLI.
// A four-seat table with one mafia deals no specialist roles, so the
// night ends as soon as the kill is in - and the one player whose
// night-action is accepted must be the mafia. That identifies the
// mafia without peeking at any private state.
func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	names := []string{"Alice", "Bob", "Carol", "Dave"}
	tokens := make([]string, len(names))
	ids := make([]string, len(names))

	for i, name := range names {
		output, err := cli.run("player", "guest", "--name", name)
		require.NoError(t, err, "guest %s: %s", name, output)

		var auth authResponse
		require.NoError(t, json.Unmarshal([]byte(output), &auth))
		tokens[i] = auth.SessionToken
		ids[i] = auth.Player.ID
	}

	// Alice creates the room, everyone else joins
	output, err := cli.runWithToken(tokens[0], "room", "create", "--max-players", "4", "--mafia", "1")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	roomCode := room.Room.Code
	t.Logf("Created room: %s", roomCode)

	for i := 1; i < len(names); i++ {
		output, err = cli.runWithToken(tokens[i], "room", "join", roomCode)
		require.NoError(t, err, "join %s: %s", names[i], output)
	}

	// Alice starts the game
	output, err = cli.runWithToken(tokens[0], "game", "start", roomCode)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, "night", room.Room.Phase)
	assert.Equal(t, 1, room.Room.Day)

	// Find the mafia: the one player whose night kill is accepted.
	// Everyone tries to act against every other player; citizens are
	// rejected with a wrong-role error, the mafia's first valid target
	// goes through and resolves the night.
	mafiaIdx := -1
	for i := range names {
		for j := range names {
			if i == j {
				continue
			}
			output, err = cli.runWithToken(tokens[i], "game", "night-action", roomCode, ids[j])
			if err == nil {
				mafiaIdx = i
				break
			}
		}
		if mafiaIdx >= 0 {
			break
		}
	}
	require.GreaterOrEqual(t, mafiaIdx, 0, "no night action was accepted")
	t.Logf("Mafia is %s", names[mafiaIdx])

	// The kill resolved the night
	output, err = cli.runWithToken(tokens[0], "room", "get", roomCode)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	require.Equal(t, "day", room.Room.Phase)

	// The three survivors vote; the two townsfolk vote out the mafia
	alive := map[string]bool{}
	for _, seat := range room.Room.Seats {
		alive[seat.PlayerID] = seat.Alive
	}

	for i := range names {
		if !alive[ids[i]] {
			continue
		}
		target := ids[mafiaIdx]
		if i == mafiaIdx {
			// The mafia votes for some other living player
			for j := range names {
				if j != i && alive[ids[j]] {
					target = ids[j]
					break
				}
			}
		}
		output, err = cli.runWithToken(tokens[i], "game", "vote", roomCode, target)
		require.NoError(t, err, "vote %s: %s", names[i], output)
	}

	// Town wins: the mafia is eliminated and the game is over
	output, err = cli.runWithToken(tokens[0], "room", "get", roomCode)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, "game_over", room.Room.Phase)
	assert.Equal(t, 1, room.Room.TownWins)

	// Roles are revealed at game over
	for _, seat := range room.Room.Seats {
		assert.NotEmpty(t, seat.Role, "seat %s should reveal its role", seat.DisplayName)
	}

	// The finished game shows up in the record list
	require.Eventually(t, func() bool {
		output, err = cli.runWithToken(tokens[0], "game", "recent")
		if err != nil {
			return false
		}
		var records recordListResponse
		if json.Unmarshal([]byte(output), &records) != nil {
			return false
		}
		for _, r := range records.Records {
			if r.RoomCode == roomCode && r.Winner == "town" {
				return true
			}
		}
		return false
	}, 5*time.Second, 100*time.Millisecond)

	// The host resets the room back to the lobby
	output, err = cli.runWithToken(tokens[0], "room", "reset", roomCode)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, "lobby", room.Room.Phase)
	assert.Equal(t, 1, room.Room.TownWins)
}

func TestCLI_HostOnlyCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var auth1 authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth1))

	output, err = cli.run("player", "guest", "--name", "Bob")
	require.NoError(t, err, "output: %s", output)
	var auth2 authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth2))

	output, err = cli.runWithToken(auth1.SessionToken, "room", "create")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	roomCode := room.Room.Code

	_, err = cli.runWithToken(auth2.SessionToken, "room", "join", roomCode)
	require.NoError(t, err)

	// Bob cannot change the config or seat bots
	output, err = cli.runWithToken(auth2.SessionToken, "room", "config", roomCode, "--mafia", "1")
	assert.Error(t, err, "non-host should not be able to update config")
	assert.Contains(t, strings.ToLower(output), "host")

	output, err = cli.runWithToken(auth2.SessionToken, "room", "add-bot", roomCode)
	assert.Error(t, err, "non-host should not be able to add bots")
	assert.Contains(t, strings.ToLower(output), "host")

	output, err = cli.runWithToken(auth2.SessionToken, "game", "start", roomCode)
	assert.Error(t, err, "non-host should not be able to start")
	assert.Contains(t, strings.ToLower(output), "host")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get player without auth
	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	// Get non-existent room
	output, err = cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err)
	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))

	output, err = cli.runWithToken(auth.SessionToken, "room", "get", "INVALID")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
