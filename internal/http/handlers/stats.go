package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"rps_arena/internal/repository"

	"github.com/gin-gonic/gin"
)

// MyStats returns the caller's accumulated counters.
func (h *Handler) MyStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.statsFor(c, userID)
}

// Stats returns any player's public counters.
func (h *Handler) Stats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	h.statsFor(c, id)
}

func (h *Handler) statsFor(c *gin.Context, playerID int64) {
	p, err := h.Players.GetByID(c.Request.Context(), playerID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     p.ID,
		"username":    p.Username,
		"total_games": p.TotalGames,
		"wins":        p.Wins,
		"losses":      p.Losses,
		"draws":       p.Draws,
	})
}

// Leaderboard returns the top players by wins.
func (h *Handler) Leaderboard(c *gin.Context) {
	top, err := h.Players.TopByWins(c.Request.Context(), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": top})
}

// MyGames returns the caller's recent game history.
func (h *Handler) MyGames(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	games, err := h.History.GetByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": games})
}
