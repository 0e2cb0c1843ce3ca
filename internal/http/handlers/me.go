package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Me returns the user profile together with the session-wide reward state.
// Reads also run the passive daily housekeeping the home screen triggers:
// free-minutes daily reset and starter-coin expiry.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Profiles.GetByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	container := h.Registry.Get(ctx, userID)
	now := time.Now()
	container.ResetFreeMinutesIfNewDay(ctx, now)
	container.ExpireStarterCoins(ctx, now)

	streak := container.Streak()

	c.JSON(http.StatusOK, gin.H{
		"user":                user,
		"wallet":              container.Wallet(),
		"free_minutes":        container.FreeMinutes(),
		"daily_streak":        streak,
		"streak_claimable":    streak.IsClaimable(now),
		"has_seen_onboarding": container.HasSeenOnboarding(),
	})
}

// MarkOnboardingSeen records that the client finished onboarding.
func (h *Handler) MarkOnboardingSeen(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	h.Registry.Get(c.Request.Context(), userID).MarkOnboardingSeen(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
