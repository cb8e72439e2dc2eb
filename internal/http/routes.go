package http

import (
	"rps_arena/internal/config"
	"rps_arena/internal/game"
	"rps_arena/internal/http/handlers"
	"rps_arena/internal/http/middleware"
	"rps_arena/internal/repository"
	"rps_arena/internal/service"
	"rps_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires repositories, services and handlers onto the engine.
// Returns the ws hub so the caller can inspect it (tests, shutdown).
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) *ws.Hub {
	playerRepo := repository.NewPlayerRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	gameRepo := repository.NewGameRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	hub := ws.NewHub()

	matchSvc := service.NewMatchService(playerRepo, matchRepo, gameRepo, hub)
	gameSvc := service.NewGameService(playerRepo, gameRepo, historyRepo, hub, cfg.GameTimeout)
	practiceSvc := service.NewPracticeService(playerRepo, gameRepo, historyRepo, game.RandomSource{})

	h := handlers.NewHandler(playerRepo, historyRepo, matchSvc, gameSvc, practiceSvc)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Per-IP limiter: Redis-backed when configured, in-process fallback
	// otherwise (single instance deployments).
	apiRL := middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow)
	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)
	if cfg.RedisAddr == "" {
		apiRL = middleware.SimpleRateLimit(cfg.APIRateLimit, cfg.APIRateWindow)
		authRL = middleware.SimpleRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)
	}
	gameRL := middleware.GameRateLimit(cfg.GameRateLimit, cfg.GameRateWindow)

	v1 := r.Group("/api/v1")
	v1.Use(apiRL)

	// Auth
	v1.POST("/auth", authRL, h.Auth)

	// Matchmaking
	v1.POST("/match", middleware.JWT(), gameRL, h.RequestMatch)
	v1.DELETE("/match", middleware.JWT(), h.LeaveQueue)

	// Games
	v1.POST("/game/:id/move", middleware.JWT(), gameRL, h.SubmitMove)
	v1.GET("/game/:id", middleware.JWT(), h.CheckGame)
	v1.POST("/game/practice", middleware.JWT(), gameRL, h.PlayPractice)

	// Stats and history
	v1.GET("/me/stats", middleware.JWT(), h.MyStats)
	v1.GET("/me/games", middleware.JWT(), h.MyGames)
	v1.GET("/stats/:id", h.Stats)
	v1.GET("/leaderboard", h.Leaderboard)

	// WebSocket push channel (match found / game result)
	r.GET("/ws", ws.HandleWS(hub))

	return hub
}
