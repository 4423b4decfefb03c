package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lcrawf/moonhollow/internal/api/handler"
	"github.com/lcrawf/moonhollow/internal/api/middleware"
	"github.com/lcrawf/moonhollow/internal/engine"
	"github.com/lcrawf/moonhollow/internal/services/auth"
	"github.com/lcrawf/moonhollow/internal/services/stats"
	"github.com/lcrawf/moonhollow/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	Registry      *engine.Registry
	StatsRecorder *stats.Recorder
	HubManager    *sse.Manager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.HubManager)
	statsHandler := handler.NewStatsHandler(cfg.StatsRecorder)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Room routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/config", roomHandler.UpdateConfig).Methods(http.MethodPatch)
	rooms.HandleFunc("/{code}/bots", roomHandler.AddBot).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/bots/{bot_id}", roomHandler.RemoveBot).Methods(http.MethodDelete)

	// In-game routes
	rooms.HandleFunc("/{code}/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/vote", roomHandler.Vote).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/night-action", roomHandler.NightAction).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/reckoning", roomHandler.Reckoning).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/reset", roomHandler.Reset).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/events", roomHandler.Events).Methods(http.MethodGet)

	// Finished-game records (auth required)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("/recent", statsHandler.ListRecent).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
