// Package realtime fans meal state publications out to WebSocket clients.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/whatshouldieat/backend/internal/models"
)

const writeWait = 10 * time.Second

// Client is one connected WebSocket. Writes are serialized per connection.
type Client struct {
	Conn *websocket.Conn
	mu   sync.Mutex
}

// NewClient wraps an upgraded connection
func NewClient(conn *websocket.Conn) *Client {
	return &Client{Conn: conn}
}

func (c *Client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, data)
}

// Ping sends a keepalive ping
func (c *Client) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

// Hub tracks connected clients and broadcasts events to all of them
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes c and closes its connection
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// ClientCount reports how many clients are connected
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts event to every connected client. Clients that fail to
// receive it are dropped.
func (h *Hub) Publish(event models.MealEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Realtime] Failed to encode %s event: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			log.Printf("[Realtime] Dropping client: %v", err)
			h.Unregister(c)
		}
	}
}
