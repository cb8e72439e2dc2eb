package handlers

import (
	"context"
	"errors"
	"net/http"

	"rps_arena/internal/domain"
	"rps_arena/internal/repository"
	"rps_arena/internal/service"

	"github.com/gin-gonic/gin"
)

// MatchService is the matchmaking surface the handlers need.
type MatchService interface {
	RequestMatch(ctx context.Context, playerID int64) (*service.MatchResult, error)
	LeaveQueue(ctx context.Context, playerID int64) error
}

// GameService is the per-game surface the handlers need.
type GameService interface {
	SubmitMove(ctx context.Context, gameID string, playerID int64, move string) (*service.GameView, error)
	CheckStatus(ctx context.Context, gameID string, playerID int64) (*service.GameView, error)
}

// PracticeService plays one-shot games against the computer.
type PracticeService interface {
	Play(ctx context.Context, playerID int64, move string) (*service.PracticeResult, error)
}

// PlayerRepo is the identity/stats surface the handlers need.
type PlayerRepo interface {
	Create(ctx context.Context, p *domain.Player) error
	GetByID(ctx context.Context, id int64) (*domain.Player, error)
	GetByUsername(ctx context.Context, username string) (*domain.Player, error)
	TopByWins(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error)
}

// HistoryRepo reads a player's game history.
type HistoryRepo interface {
	GetByUser(ctx context.Context, userID int64, limit int) ([]*domain.GameHistory, error)
}

type Handler struct {
	Players  PlayerRepo
	History  HistoryRepo
	Match    MatchService
	Game     GameService
	Practice PracticeService
}

func NewHandler(players PlayerRepo, history HistoryRepo, match MatchService, game GameService, practice PracticeService) *Handler {
	return &Handler{
		Players:  players,
		History:  history,
		Match:    match,
		Game:     game,
		Practice: practice,
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// abortWithServiceError maps the service error taxonomy onto HTTP statuses.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMove):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid move"})
	case errors.Is(err, service.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	case errors.Is(err, service.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
	case errors.Is(err, service.ErrNotAParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your game"})
	case errors.Is(err, service.ErrAlreadyInGame):
		c.JSON(http.StatusConflict, gin.H{"error": "already in a game, retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
