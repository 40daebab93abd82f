package notify

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// client wraps one WebSocket connection with a write lock. gorilla/websocket
// forbids concurrent writers on a single connection, and pushes for the same
// user can arrive from several goroutines at once.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks live WebSocket connections per user. A user may hold several
// connections (multiple tabs or devices).
type Hub struct {
	mu    sync.RWMutex
	conns map[string][]*client
	log   zerolog.Logger
}

// NewHub creates an empty connection registry.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		conns: make(map[string][]*client),
		log:   log.With().Str("component", "notify-hub").Logger(),
	}
}

// Register adds a connection for userID.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], &client{conn: conn})
}

// Unregister removes a connection for userID and closes it.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.conns[userID]
	for i, c := range clients {
		if c.conn == conn {
			h.conns[userID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
	conn.Close()
}

// Push writes v as JSON to every open connection of userID. Writes to one
// connection are serialized by its client lock. Connections that fail the
// write are dropped; a user with no connections is not an error.
func (h *Hub) Push(userID string, v interface{}) {
	h.mu.RLock()
	clients := append([]*client(nil), h.conns[userID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(v); err != nil {
			h.log.Debug().Err(err).Str("user", userID).Msg("dropping dead websocket connection")
			h.Unregister(userID, c.conn)
		}
	}
}
