package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/edsafest/trivia-service/internal/dependencies/clock"
	"github.com/edsafest/trivia-service/internal/dependencies/random"
	"github.com/edsafest/trivia-service/internal/services/auth"
	configsvc "github.com/edsafest/trivia-service/internal/services/config"
	"github.com/edsafest/trivia-service/internal/services/game"
	"github.com/edsafest/trivia-service/internal/services/prize"
	"github.com/edsafest/trivia-service/internal/services/quiz"
	"github.com/edsafest/trivia-service/internal/services/raffle"
	"github.com/edsafest/trivia-service/internal/services/trivia"
	"github.com/edsafest/trivia-service/internal/services/user"
	"github.com/edsafest/trivia-service/internal/sse"
	"github.com/edsafest/trivia-service/internal/storage"
	"github.com/edsafest/trivia-service/internal/storage/memory"
	redisstorage "github.com/edsafest/trivia-service/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// DefaultRaffleSize is the board size used when none is configured
const DefaultRaffleSize = 100

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService   *auth.Service
	UserService   *user.Service
	TriviaService *trivia.Service
	PrizeService  *prize.Service
	RaffleService *raffle.Service
	ConfigService *configsvc.Service
	Engine        *game.Engine
	QuizRunner    *quiz.Runner

	// SSE
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// RaffleSize is the number of raffle board slots (optional)
	// If zero, defaults to DefaultRaffleSize
	RaffleSize int
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

	raffleSize := cfg.RaffleSize
	if raffleSize == 0 {
		raffleSize = DefaultRaffleSize
	}

	return newWithDependencies(store, clk, rnd, authCfg, raffleSize, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, raffleSize int, logger *slog.Logger) *App {
	// Create services
	authService := auth.New(store, clk, authCfg)
	userService := user.NewService(store, clk, authService.DefaultPassword(), logger)
	triviaService := trivia.NewService(store, logger)
	prizeService := prize.NewService(store, logger)
	raffleService := raffle.NewService(store, rnd, raffleSize, logger)
	configService := configsvc.NewService(store, logger)
	engine := game.NewEngine(store, logger)
	runner := quiz.NewRunner(store, engine, clk, logger)

	hub := sse.NewHub(logger)
	go hub.Run()
	broadcaster := sse.NewBroadcaster(hub, logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		AuthService:   authService,
		UserService:   userService,
		TriviaService: triviaService,
		PrizeService:  prizeService,
		RaffleService: raffleService,
		ConfigService: configService,
		Engine:        engine,
		QuizRunner:    runner,
		Hub:           hub,
		Broadcaster:   broadcaster,
	}
}
