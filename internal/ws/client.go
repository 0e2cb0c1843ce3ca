package ws

import (
	"context"
	"encoding/json"
	"time"

	"discovery_backend/internal/logger"
	"discovery_backend/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client streams one user's live call events over a websocket and accepts
// call decisions (switch to paid, end call) in the other direction.
type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte

	calls *service.CallManager

	// stop tells the write pump to drain and close the socket; Send itself is
	// never closed, so a late decision from the read pump cannot panic a send.
	stop chan struct{}
	done chan struct{}
}

func NewClient(userID int64, conn *websocket.Conn, calls *service.CallManager) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		calls:  calls,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Run pumps events until the call ends or the connection drops.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()

	events, ok := c.calls.Events(c.UserID)
	if !ok {
		c.sendJSON(ErrorMessage{Type: "error", Error: "no active call"})
		close(c.stop)
		<-c.done
		return
	}

	for {
		select {
		case ev, open := <-events:
			if !open {
				// Call ended; terminal event already queued.
				close(c.stop)
				<-c.done
				return
			}
			c.sendJSON(ev)
		case <-c.done:
			return
		}
	}
}

func (c *Client) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
		logger.Warn("ws send buffer full, dropping message", "user_id", c.UserID)
	}
}

func (c *Client) readPump() {
	defer func() {
		_ = c.Conn.Close()
		close(c.done)
	}()

	c.Conn.SetReadLimit(1024)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleDecision(msg)
	}
}

func (c *Client) handleDecision(msg []byte) {
	var decision DecisionMessage
	if err := json.Unmarshal(msg, &decision); err != nil {
		c.sendJSON(ErrorMessage{Type: "error", Error: "bad message"})
		return
	}

	ctx := context.Background()
	switch decision.Type {
	case DecisionSwitchToPaid:
		if err := c.calls.SwitchToPaid(ctx, c.UserID); err != nil {
			c.sendJSON(ErrorMessage{Type: "error", Error: err.Error()})
		}
	case DecisionEndCall:
		if _, err := c.calls.EndCall(ctx, c.UserID); err != nil {
			c.sendJSON(ErrorMessage{Type: "error", Error: err.Error()})
		}
	default:
		c.sendJSON(ErrorMessage{Type: "error", Error: "unknown decision"})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.stop:
			// Flush whatever is queued, then close the socket cleanly.
			for {
				select {
				case msg := <-c.Send:
					_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				default:
					_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
					_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
