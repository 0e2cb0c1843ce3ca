package handlers

import (
	"net/http"

	"discovery_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminStats aggregates platform totals for the admin dashboard.
func (h *Handler) AdminStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Profiles.GetByID(ctx, userID)
	if err != nil || user.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	users, err := h.Profiles.CountUsers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	callStats, err := h.History.Stats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users": users,
		"calls":       callStats,
	})
}
