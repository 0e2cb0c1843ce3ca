package handlers

import (
	"errors"
	"net/http"
	"time"

	"discovery_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Streak returns the daily streak with claimability and the next reward.
func (h *Handler) Streak(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	streak := h.Registry.Get(c.Request.Context(), userID).Streak()

	c.JSON(http.StatusOK, gin.H{
		"streak":          streak,
		"claimable":       streak.IsClaimable(time.Now()),
		"next_day_reward": h.Policy.StreakCoins(streak.CurrentStreak + 1),
	})
}

// ClaimStreak claims today's streak reward.
func (h *Handler) ClaimStreak(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	day, coins, err := h.Rewards.ClaimStreak(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyClaimedToday) {
			c.JSON(http.StatusConflict, gin.H{"error": "already claimed today"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim streak"})
		return
	}

	container := h.Registry.Get(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"day":          day,
		"coins_earned": coins,
		"wallet":       container.Wallet(),
		"streak":       container.Streak(),
	})
}
