package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MoveRequest struct {
	Move string `json:"move" binding:"required"`
}

// SubmitMove records the caller's move for the game in the path.
func (h *Handler) SubmitMove(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "move is required"})
		return
	}

	view, err := h.Game.SubmitMove(c.Request.Context(), c.Param("id"), userID, req.Move)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// CheckGame is the polling read for game state; it also forces the timeout
// transition on an expired game.
func (h *Handler) CheckGame(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	view, err := h.Game.CheckStatus(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// PlayPractice resolves one round against the computer opponent.
func (h *Handler) PlayPractice(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "move is required"})
		return
	}

	res, err := h.Practice.Play(c.Request.Context(), userID, req.Move)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
