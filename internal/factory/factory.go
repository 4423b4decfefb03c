package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/lcrawf/moonhollow/internal/dependencies/clock"
	"github.com/lcrawf/moonhollow/internal/dependencies/random"
	"github.com/lcrawf/moonhollow/internal/engine"
	"github.com/lcrawf/moonhollow/internal/model"
	"github.com/lcrawf/moonhollow/internal/services/auth"
	"github.com/lcrawf/moonhollow/internal/services/bot"
	"github.com/lcrawf/moonhollow/internal/services/night"
	"github.com/lcrawf/moonhollow/internal/services/roles"
	"github.com/lcrawf/moonhollow/internal/services/stats"
	"github.com/lcrawf/moonhollow/internal/services/vote"
	"github.com/lcrawf/moonhollow/internal/sse"
	"github.com/lcrawf/moonhollow/internal/storage"
	"github.com/lcrawf/moonhollow/internal/storage/memory"
	redisstorage "github.com/lcrawf/moonhollow/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService    *auth.Service
	BotCoordinator *bot.Coordinator
	StatsRecorder  *stats.Recorder
	Registry       *engine.Registry
	HubManager     *sse.Manager
	Broadcaster    *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, clk, authCfg)

	hubManager := sse.NewManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	strategies := map[string]bot.Strategy{
		model.BotStrategyRandom: bot.NewRandomStrategy(rnd),
	}
	botCoordinator := bot.NewCoordinator(store, strategies, clk, rnd, logger)
	statsRecorder := stats.New(store, clk, logger)

	registry := engine.NewRegistry(
		roles.New(rnd),
		night.New(logger),
		vote.New(logger),
		botCoordinator,
		statsRecorder,
		broadcaster,
		clk,
		rnd,
		logger,
	)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		AuthService:    authService,
		BotCoordinator: botCoordinator,
		StatsRecorder:  statsRecorder,
		Registry:       registry,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
	}
}
