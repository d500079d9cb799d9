package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stockdesk/backend/internal/contracts"
	"github.com/stockdesk/backend/internal/screener"
	"github.com/stockdesk/backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Desktop deployment: the dashboard shell connects from a local origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StateHub pushes screen-state snapshots to connected dashboard clients.
// It subscribes to the orchestrator and fans every published transition out
// over websocket, so the UI never polls while a run is in flight.
type StateHub struct {
	orchestrator *screener.Orchestrator
	logger       *logger.Logger

	mu      sync.RWMutex
	clients map[*stateClient]bool
	done    chan struct{}
}

type stateClient struct {
	hub  *StateHub
	conn *websocket.Conn
	send chan []byte
}

func NewStateHub(orchestrator *screener.Orchestrator, log *logger.Logger) *StateHub {
	return &StateHub{
		orchestrator: orchestrator,
		logger:       log.Component("ws"),
		clients:      make(map[*stateClient]bool),
		done:         make(chan struct{}),
	}
}

// Run consumes orchestrator snapshots until Stop. Call on its own goroutine.
func (h *StateHub) Run() {
	updates, cancel := h.orchestrator.Subscribe()
	defer cancel()

	for {
		select {
		case <-h.done:
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			h.broadcast(snap)
		}
	}
}

// Stop signals the hub loop to exit and disconnects all clients.
func (h *StateHub) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}

	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

func (h *StateHub) broadcast(snap contracts.ScreenState) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to marshal screen state")
		return
	}

	h.mu.RLock()
	var slow []*stateClient
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	// A reader that cannot keep up with state transitions gets dropped; it
	// can reconnect and fetch the current state.
	if len(slow) > 0 {
		h.mu.Lock()
		for _, c := range slow {
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
		}
		h.mu.Unlock()
	}
}

// ServeWS upgrades the connection and registers the client. The current
// state is sent immediately so a fresh client renders without waiting for
// the next transition.
func (h *StateHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := &stateClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 16),
	}

	if data, err := json.Marshal(h.orchestrator.State()); err == nil {
		client.send <- data
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.WithField("clients", count).Debug("WebSocket client connected")

	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of connected clients.
func (h *StateHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *StateHub) unregister(c *stateClient) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.WithField("clients", count).Debug("WebSocket client disconnected")
}

func (c *stateClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection, mainly to detect close.
func (c *stateClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
