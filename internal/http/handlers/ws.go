package handlers

import (
	"net/http"

	"discovery_backend/internal/logger"
	"discovery_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Mobile clients connect from app webviews; origin is not meaningful here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// CallStream upgrades to a websocket and streams the caller's live billing
// events; decisions (switch_to_paid, end_call) flow back on the same socket.
func (h *Handler) CallStream(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := ws.NewClient(userID, conn, h.Calls)
	go client.Run()
}
