package handlers

import (
	"errors"
	"net/http"

	"discovery_backend/internal/domain"
	"discovery_backend/internal/logger"
	"discovery_backend/internal/service"
	"discovery_backend/internal/state"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	DeviceID  string   `json:"device_id" binding:"required"`
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	TierCity  string   `json:"tier_city"`
	Languages []string `json:"languages"`
}

// Auth signs a device in, provisioning a new account (starter coins, first
// day's free minutes, fresh streak) when the device is unknown.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	created := false

	user, err := h.Profiles.GetByDeviceID(ctx, req.DeviceID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "auth failed"})
			return
		}
		user = &domain.User{
			DeviceID:      req.DeviceID,
			Role:          domain.RoleUser,
			Name:          req.Name,
			Age:           req.Age,
			Gender:        req.Gender,
			TierCity:      req.TierCity,
			Languages:     req.Languages,
			KYCStatus:     domain.KYCPending,
			PerMinuteRate: h.Policy.DefaultPerMinuteRate,
		}
		if err := h.Profiles.Create(ctx, user); err != nil {
			logger.Error("failed to create user", "device_id", req.DeviceID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}
		created = true
	}

	var container *state.Container
	if created {
		container = h.Registry.Provision(ctx, user.ID)
		h.Tracker.TrackSignup("device", user.ID)
		h.Tracker.TrackFreeMinutesGranted(h.Policy.FreeMinutesPerDay, h.Policy.FreeMinutesValidityDays, user.ID)
	} else {
		container = h.Registry.Get(ctx, user.ID)
		h.Tracker.TrackLogin("device", user.ID)
	}

	if err := h.Profiles.SetOnline(ctx, user.ID, true); err != nil {
		logger.Error("failed to set online", "user_id", user.ID, "error", err)
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"user":   user,
		"wallet": container.Wallet(),
		"is_new": created,
	})
}

// Logout clears the user's cached state and drops their persisted records.
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()

	// End any call in flight before discarding session state.
	if _, err := h.Calls.EndCall(ctx, userID); err == nil {
		logger.Info("ended active call on logout", "user_id", userID)
	}

	if err := h.Profiles.SetOnline(ctx, userID, false); err != nil {
		logger.Error("failed to set offline", "user_id", userID, "error", err)
	}
	if err := h.Registry.Drop(ctx, userID); err != nil {
		logger.Error("failed to drop state", "user_id", userID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
