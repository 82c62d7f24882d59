// Package stream pushes light changes to WebSocket clients.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/lightshow/internal/adapters/repository"
	"github.com/okian/lightshow/pkg/logger"
	"github.com/okian/lightshow/pkg/metrics"
)

const (
	sinkName = "ws"

	// MessageLights carries the lights touched by one render primitive.
	MessageLights = "lights"
	// MessagePong answers a client ping.
	MessagePong = "pong"

	defaultSendBuffer   = 256
	defaultPingInterval = 30 * time.Second
	defaultPongWait     = 10 * time.Second
	maxMessageSize      = 512
)

// Message is the envelope of every frame sent to a client.
type Message struct {
	Type      string       `json:"type"`
	Timestamp string       `json:"timestamp"`
	Lights    []LightFrame `json:"lights,omitempty"`
}

// LightFrame is the wire form of one light.
type LightFrame struct {
	Group    string  `json:"group"`
	Index    int     `json:"index"`
	Inverted bool    `json:"inverted"`
	Color    string  `json:"color"`
	Output   string  `json:"output"`
	Alpha    float64 `json:"alpha"`
	Effect   string  `json:"effect,omitempty"`
	Value    int     `json:"value"`
}

func newLightFrame(s repository.LightState) LightFrame { //nolint:gocritic // hugeParam: states are copied out of the store
	return LightFrame{
		Group:    s.Group,
		Index:    s.Index,
		Inverted: s.Inverted,
		Color:    s.Color.Hex(),
		Output:   s.Output().Hex(),
		Alpha:    s.Alpha,
		Effect:   s.Effect,
		Value:    s.Value,
	}
}

// Hub fans light changes out to connected clients. It is a
// repository.Listener; OnChange never blocks on a slow client.
type Hub struct {
	log          logger.Logger
	sendBuffer   int
	pingInterval time.Duration
	pongWait     time.Duration
	upgrader     websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

var _ repository.Listener = (*Hub)(nil)

// NewHub creates a hub with no clients.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		log:          logger.Nop(),
		sendBuffer:   defaultSendBuffer,
		pingInterval: defaultPingInterval,
		pongWait:     defaultPongWait,
		clients:      make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
	return h
}

// Run blocks until ctx ends, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnChange broadcasts states to every client watching their group.
func (h *Hub) OnChange(states []repository.LightState) {
	if len(states) == 0 {
		return
	}
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		if c.watches(states[0].Group) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	msg := Message{
		Type:      MessageLights,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Lights:    make([]LightFrame, 0, len(states)),
	}
	for i := range states {
		msg.Lights = append(msg.Lights, newLightFrame(states[i]))
	}
	data, err := json.Marshal(msg)
	if err != nil {
		metrics.RecordSinkError(sinkName)
		return
	}
	for _, c := range targets {
		if !c.trySend(data) {
			metrics.RecordSinkError(sinkName)
		}
	}
	metrics.RecordSinkWrite(sinkName)
}

// ServeHTTP upgrades the request. Repeated ?group= parameters restrict the
// stream to those groups; without any the client sees every group.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}
	if groups := r.URL.Query()["group"]; len(groups) > 0 {
		c.groups = make(map[string]struct{}, len(groups))
		for _, g := range groups {
			c.groups[g] = struct{}{}
		}
	}
	h.register(c)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug(context.Background(), "websocket client connected", logger.Int("clients", n))
}

// unregister removes c. Only the caller that removes it closes its send
// channel.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if existed {
		c.closeSend()
	}
	h.log.Debug(context.Background(), "websocket client disconnected", logger.Int("clients", n))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.closeSend()
		_ = c.conn.Close()
	}
}
