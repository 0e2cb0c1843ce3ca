package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"discovery_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type StartCallRequest struct {
	CalleeID int64  `json:"callee_id" binding:"required"`
	Type     string `json:"type"` // "voice" (default) or "video"
}

// StartCall connects a new billing session against the callee's rate.
func (h *Handler) StartCall(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req StartCallRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	callType := domain.CallVoice
	if req.Type == string(domain.CallVideo) {
		callType = domain.CallVideo
	}

	session, err := h.Calls.StartCall(c.Request.Context(), userID, req.CalleeID, callType)
	if err != nil {
		if errors.Is(err, domain.ErrCallInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "call already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start call"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ActiveCall returns the caller's in-flight session, if any.
func (h *Handler) ActiveCall(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	session, ok := h.Calls.ActiveSession(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active call"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SwitchToPaid resolves the free-minutes-exhausted prompt.
func (h *Handler) SwitchToPaid(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	if err := h.Calls.SwitchToPaid(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoPendingSwitch):
			c.JSON(http.StatusConflict, gin.H{"error": "no pending switch decision"})
		case errors.Is(err, domain.ErrCallEnded):
			c.JSON(http.StatusNotFound, gin.H{"error": "no active call"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to switch"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "switched"})
}

// EndCall terminates the session and returns the final billing totals.
func (h *Handler) EndCall(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	summary, err := h.Calls.EndCall(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active call"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// CallHistory lists the user's finished calls.
func (h *Handler) CallHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := h.History.GetByUserID(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": records})
}

type RateCallRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// RateCall stores a post-call rating from either side.
func (h *Handler) RateCall(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req RateCallRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be 1-5"})
		return
	}

	callID := c.Param("id")
	if err := h.History.SetRating(c.Request.Context(), callID, userID, req.Rating); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save rating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
