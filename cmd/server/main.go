package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edsafest/trivia-service/internal/api"
	appconfig "github.com/edsafest/trivia-service/internal/config"
	"github.com/edsafest/trivia-service/internal/factory"
	"github.com/edsafest/trivia-service/internal/services/auth"
	redisstorage "github.com/edsafest/trivia-service/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load YAML config; environment variables override
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	fileCfg, err := appconfig.Load(configPath)
	if err != nil {
		logger.Warn("could not load config file, using defaults",
			slog.String("path", configPath),
			slog.String("error", err.Error()))
	}

	storageType := fileCfg.Storage.Type
	if env := os.Getenv("STORAGE_TYPE"); env != "" {
		storageType = env
	}

	cfg := factory.Config{
		Logger:      logger,
		StorageType: storageType,
		RaffleSize:  fileCfg.Raffle.Size,
		AuthConfig: auth.Config{
			SessionDuration: appconfig.Duration(fileCfg.Auth.SessionDuration, 24*time.Hour),
			DefaultPassword: fileCfg.Auth.DefaultPassword,
		},
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := fileCfg.Redis.URL
		if env := os.Getenv("REDIS_URL"); env != "" {
			redisURL = env
		}
		if redisURL == "" {
			logger.Error("redis url required when storage type is redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		if fileCfg.Redis.PoolSize > 0 {
			redisCfg.PoolSize = fileCfg.Redis.PoolSize
		}
		if fileCfg.Redis.MinIdleConns > 0 {
			redisCfg.MinIdleConns = fileCfg.Redis.MinIdleConns
		}
		redisCfg.QuizSessionTTL = appconfig.Duration(fileCfg.Redis.QuizSessionTTL, redisCfg.QuizSessionTTL)
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Storage:       app.Storage,
		AuthService:   app.AuthService,
		UserService:   app.UserService,
		TriviaService: app.TriviaService,
		PrizeService:  app.PrizeService,
		RaffleService: app.RaffleService,
		ConfigService: app.ConfigService,
		Engine:        app.Engine,
		QuizRunner:    app.QuizRunner,
		Hub:           app.Hub,
		Broadcaster:   app.Broadcaster,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if fileCfg.Server.Port != 0 {
		serverConfig.Port = fileCfg.Server.Port
	}
	serverConfig.Host = fileCfg.Server.Host
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		app.Hub.Close()
	}

	logger.Info("server stopped")
}
