package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/edsafest/trivia-service/internal/api/handler"
	apimiddleware "github.com/edsafest/trivia-service/internal/api/middleware"
	"github.com/edsafest/trivia-service/internal/middleware"
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
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	Storage       storage.Storage
	AuthService   *auth.Service
	UserService   *user.Service
	TriviaService *trivia.Service
	PrizeService  *prize.Service
	RaffleService *raffle.Service
	ConfigService *configsvc.Service
	Engine        game.EngineInterface
	QuizRunner    *quiz.Runner
	Hub           *sse.Hub
	Broadcaster   *sse.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Storage)
	quizHandler := handler.NewQuizHandler(cfg.TriviaService, cfg.QuizRunner, cfg.Engine, cfg.Storage, cfg.Broadcaster)
	raffleHandler := handler.NewRaffleHandler(cfg.RaffleService, cfg.Broadcaster)
	prizeHandler := handler.NewPrizeHandler(cfg.PrizeService)
	configHandler := handler.NewConfigHandler(cfg.ConfigService)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)
	adminHandler := handler.NewAdminHandler(
		cfg.UserService,
		cfg.AuthService,
		cfg.TriviaService,
		cfg.PrizeService,
		cfg.RaffleService,
		cfg.ConfigService,
		cfg.Engine,
		cfg.Broadcaster,
	)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	adminMiddleware := apimiddleware.RequireAdmin()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Authenticated routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/password", authHandler.ChangePassword).Methods(http.MethodPost)

	protected.HandleFunc("/trivias", quizHandler.ListActive).Methods(http.MethodGet)
	protected.HandleFunc("/trivias/{trivia_id}/quiz", quizHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/trivias/{trivia_id}/quiz", quizHandler.Current).Methods(http.MethodGet)
	protected.HandleFunc("/trivias/{trivia_id}/quiz/answer", quizHandler.Answer).Methods(http.MethodPost)
	protected.HandleFunc("/trivias/{trivia_id}/quiz/advance", quizHandler.Advance).Methods(http.MethodPost)
	protected.HandleFunc("/trivias/{trivia_id}/results", quizHandler.Results).Methods(http.MethodGet)

	protected.HandleFunc("/raffle", raffleHandler.Board).Methods(http.MethodGet)
	protected.HandleFunc("/raffle/select", raffleHandler.Select).Methods(http.MethodPost)

	protected.HandleFunc("/prizes", prizeHandler.List).Methods(http.MethodGet)

	protected.HandleFunc("/config", configHandler.View).Methods(http.MethodGet)

	protected.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Admin routes
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(adminMiddleware)

	admin.HandleFunc("/users", adminHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{user_id}", adminHandler.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{user_id}", adminHandler.DeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{user_id}/results", adminHandler.UserResults).Methods(http.MethodGet)
	admin.HandleFunc("/users/{user_id}/score", adminHandler.AdjustScore).Methods(http.MethodPost)
	admin.HandleFunc("/users/{user_id}/password-reset", adminHandler.ResetPassword).Methods(http.MethodPost)

	admin.HandleFunc("/trivias", adminHandler.CreateTrivia).Methods(http.MethodPost)
	admin.HandleFunc("/trivias", adminHandler.ListTrivias).Methods(http.MethodGet)
	admin.HandleFunc("/trivias/{trivia_id}", adminHandler.GetTrivia).Methods(http.MethodGet)
	admin.HandleFunc("/trivias/{trivia_id}", adminHandler.UpdateTrivia).Methods(http.MethodPut)
	admin.HandleFunc("/trivias/{trivia_id}", adminHandler.DeleteTrivia).Methods(http.MethodDelete)
	admin.HandleFunc("/trivias/{trivia_id}/reset", adminHandler.ResetTrivia).Methods(http.MethodPost)

	admin.HandleFunc("/prizes", adminHandler.CreatePrize).Methods(http.MethodPost)
	admin.HandleFunc("/prizes", adminHandler.ListPrizes).Methods(http.MethodGet)
	admin.HandleFunc("/prizes/{prize_id}", adminHandler.UpdatePrize).Methods(http.MethodPut)
	admin.HandleFunc("/prizes/{prize_id}", adminHandler.DeletePrize).Methods(http.MethodDelete)

	admin.HandleFunc("/raffle/draw", adminHandler.DrawRaffle).Methods(http.MethodPost)
	admin.HandleFunc("/raffle/reset", adminHandler.ResetRaffle).Methods(http.MethodPost)
	admin.HandleFunc("/raffle/{number}", adminHandler.FreeNumber).Methods(http.MethodDelete)

	admin.HandleFunc("/config", adminHandler.GetConfig).Methods(http.MethodGet)
	admin.HandleFunc("/config", adminHandler.UpdateConfig).Methods(http.MethodPut)
	admin.HandleFunc("/config/raffle", adminHandler.SetRaffleEnabled).Methods(http.MethodPatch)
	admin.HandleFunc("/config/prize-urls", adminHandler.SetPrizeURLsEnabled).Methods(http.MethodPatch)
	admin.HandleFunc("/config/points-limit", adminHandler.SetPointsLimit).Methods(http.MethodPatch)
	admin.HandleFunc("/config/active-trivias", adminHandler.SetActiveTrivias).Methods(http.MethodPatch)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
