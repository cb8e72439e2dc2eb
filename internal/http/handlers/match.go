package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestMatch pairs the caller against the oldest waiting player or queues
// them. Polling the endpoint again while queued is how a client learns it has
// been matched.
func (h *Handler) RequestMatch(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Match.RequestMatch(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// LeaveQueue removes the caller from the waiting pool. Idempotent.
func (h *Handler) LeaveQueue(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.Match.LeaveQueue(c.Request.Context(), userID); err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"left": true})
}
