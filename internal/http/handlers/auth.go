package handlers

import (
	"errors"
	"net/http"

	"rps_arena/internal/domain"
	"rps_arena/internal/repository"
	"rps_arena/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
}

// Auth logs a player in by username, registering them on first sight, and
// issues a session token. Identity is deliberately thin: the game core only
// ever sees the opaque player id.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	ctx := c.Request.Context()

	player, err := h.Players.GetByUsername(ctx, req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		player = &domain.Player{Username: req.Username}
		if err := h.Players.Create(ctx, player); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create player"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := service.GenerateJWT(player.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"player": gin.H{
			"id":       player.ID,
			"username": player.Username,
		},
	})
}
