package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Discover lists online verified creators with their per-minute rates.
func (h *Handler) Discover(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	creators, err := h.Profiles.ListOnlineCreators(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load creators"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"creators": creators})
}
