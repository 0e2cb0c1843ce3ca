package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// FreeMinutes returns the allowance after running the daily reset.
func (h *Handler) FreeMinutes(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	container := h.Registry.Get(ctx, userID)
	container.ResetFreeMinutesIfNewDay(ctx, time.Now())
	fm := container.FreeMinutes()

	c.JSON(http.StatusOK, gin.H{
		"free_minutes": fm,
		"available":    fm.HasAvailable(),
	})
}
