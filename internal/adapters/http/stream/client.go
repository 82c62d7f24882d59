package stream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/lightshow/pkg/logger"
)

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	groups map[string]struct{} // nil watches every group

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func (c *client) watches(group string) bool {
	if c.groups == nil {
		return true
	}
	_, ok := c.groups[group]
	return ok
}

// trySend queues data without blocking. It reports false when the client
// is gone or too slow to keep up.
func (c *client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump only keeps the connection alive: it answers {"type":"ping"}
// and tracks pongs. It unregisters the client when the peer goes away.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	deadline := c.hub.pingInterval + c.hub.pongWait
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(deadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn(context.Background(), "websocket read error", logger.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(deadline))

		var in struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(data, &in) == nil && in.Type == "ping" {
			pong, _ := json.Marshal(Message{Type: MessagePong, Timestamp: time.Now().UTC().Format(time.RFC3339Nano)})
			c.trySend(pong)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.pongWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
