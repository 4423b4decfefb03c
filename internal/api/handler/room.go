package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lcrawf/moonhollow/internal/api/middleware"
	"github.com/lcrawf/moonhollow/internal/api/request"
	"github.com/lcrawf/moonhollow/internal/api/response"
	"github.com/lcrawf/moonhollow/internal/engine"
	"github.com/lcrawf/moonhollow/internal/model"
	"github.com/lcrawf/moonhollow/internal/sse"
)

// RoomHandler handles room lifecycle and in-game endpoints
type RoomHandler struct {
	registry   *engine.Registry
	hubManager *sse.Manager
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(registry *engine.Registry, hubManager *sse.Manager) *RoomHandler {
	return &RoomHandler{
		registry:   registry,
		hubManager: hubManager,
	}
}

// configFromRequest builds a full rule configuration from a request
// body, filling unset numeric fields from the defaults
func configFromRequest(req *request.RoomConfigRequest) model.RoomConfig {
	cfg := model.DefaultRoomConfig()
	if req == nil {
		return cfg
	}
	if req.MaxPlayers > 0 {
		cfg.MaxPlayers = req.MaxPlayers
	}
	if req.MafiaCount > 0 {
		cfg.MafiaCount = req.MafiaCount
	}
	if req.NightSeconds > 0 {
		cfg.NightSeconds = req.NightSeconds
	}
	if req.DaySeconds > 0 {
		cfg.DaySeconds = req.DaySeconds
	}
	cfg.EnableBomber = req.EnableBomber
	cfg.EnableSpy = req.EnableSpy
	cfg.EnablePolice = req.EnablePolice
	return cfg
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for default config
		req = request.CreateRoomRequest{}
	}

	state, err := h.registry.CreateRoom(r.Context(), *player, configFromRequest(req.Config))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromState(state))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	state, err := h.registry.RoomState(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromState(state))
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.registry.JoinRoom(r.Context(), code, *player); err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.registry.RoomState(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromState(state))
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.registry.LeaveRoom(r.Context(), code, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdateConfig handles PATCH /api/v1/rooms/{code}/config
func (h *RoomHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.registry.UpdateConfig(r.Context(), code, player.ID, configFromRequest(&req.Config)); err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.registry.RoomState(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromState(state))
}

// AddBot handles POST /api/v1/rooms/{code}/bots
func (h *RoomHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.AddBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for the default strategy
		req = request.AddBotRequest{}
	}
	if req.Strategy == "" {
		req.Strategy = model.BotStrategyRandom
	}

	botID, err := h.registry.AddBot(r.Context(), code, player.ID, req.Strategy)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.BotAdded{BotID: string(botID)})
}

// RemoveBot handles DELETE /api/v1/rooms/{code}/bots/{bot_id}
func (h *RoomHandler) RemoveBot(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	vars := mux.Vars(r)
	code := model.RoomCode(vars["code"])
	botID := model.PlayerID(vars["bot_id"])

	if err := h.registry.RemoveBot(r.Context(), code, player.ID, botID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Start handles POST /api/v1/rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.registry.StartGame(r.Context(), code, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.registry.RoomState(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromState(state))
}

// Vote handles POST /api/v1/rooms/{code}/vote
func (h *RoomHandler) Vote(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.TargetID == "" {
		WriteError(w, NewInvalidRequestError("target_id is required"))
		return
	}

	if err := h.registry.CastVote(r.Context(), code, player.ID, model.PlayerID(req.TargetID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// NightAction handles POST /api/v1/rooms/{code}/night-action
func (h *RoomHandler) NightAction(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.NightActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.TargetID == "" {
		WriteError(w, NewInvalidRequestError("target_id is required"))
		return
	}

	if err := h.registry.SubmitNightAction(r.Context(), code, player.ID, model.PlayerID(req.TargetID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Reckoning handles POST /api/v1/rooms/{code}/reckoning
func (h *RoomHandler) Reckoning(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.ReckoningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	targets := make([]model.PlayerID, 0, len(req.TargetIDs))
	for _, id := range req.TargetIDs {
		targets = append(targets, model.PlayerID(id))
	}

	if err := h.registry.SubmitReckoning(r.Context(), code, player.ID, targets); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Reset handles POST /api/v1/rooms/{code}/reset
func (h *RoomHandler) Reset(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.registry.ResetRoom(r.Context(), code, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.registry.RoomState(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromState(state))
}

// Events handles GET /api/v1/rooms/{code}/events (SSE stream)
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	// The stream is only offered to seated players
	if _, err := h.registry.RoomState(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}
	if roomCode, ok := h.registry.RoomForPlayer(player.ID); !ok || roomCode != code {
		WriteError(w, model.ErrNotInRoom)
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, player.ID)
}
