package handlers

import (
	"errors"
	"net/http"
	"time"

	"discovery_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Wallet returns the coin ledger for the authenticated user.
func (h *Handler) Wallet(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	container := h.Registry.Get(ctx, userID)
	container.ExpireStarterCoins(ctx, time.Now())

	c.JSON(http.StatusOK, gin.H{"wallet": container.Wallet()})
}

// StartAd begins a rewarded-ad view, enforcing the daily cap and cooldown.
func (h *Handler) StartAd(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	if err := h.Rewards.StartAd(userID); err != nil {
		switch {
		case errors.Is(err, service.ErrDailyAdCapReached):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "daily ad cap reached"})
		case errors.Is(err, service.ErrAdCooldown):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "ad cooldown active",
				"retry_after": h.Policy.AdCooldownSeconds,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start ad"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "started",
		"coins_per_ad": h.Policy.CoinsPerAd,
		"ads_today":    h.Rewards.AdsWatchedToday(userID),
		"daily_ad_cap": h.Policy.DailyAdCap,
	})
}

// CompleteAd credits the ad reward once the view finishes.
func (h *Handler) CompleteAd(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	balance, adsToday, err := h.Rewards.CompleteAd(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoAdInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "no ad in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete ad"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coins_earned": h.Policy.CoinsPerAd,
		"balance":      balance,
		"ads_today":    adsToday,
		"daily_ad_cap": h.Policy.DailyAdCap,
	})
}
