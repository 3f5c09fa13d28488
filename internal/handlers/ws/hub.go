package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/service"
	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a WebSocket subscriber with health metadata.
type ClientConnection struct {
	Conn       *websocket.Conn
	UserID     uint
	LastPong   time.Time
	PingTicker *time.Ticker
	CloseChan  chan struct{}

	writeMux sync.Mutex
}

// Envelope is the frame pushed to subscribers for every committed write.
// Clients re-run whichever live queries the event could affect.
type Envelope struct {
	Type   string `json:"type"`
	Event  string `json:"event"`
	ID     uint   `json:"id,omitempty"`
	SentAt int64  `json:"sent_at"`
}

// Hub manages active change-feed subscriptions, one connection per user.
// It implements service.ChangeNotifier.
type Hub struct {
	clients      map[uint]*ClientConnection
	clientsMux   sync.RWMutex
	pingInterval time.Duration
	pongTimeout  time.Duration
}

var _ service.ChangeNotifier = (*Hub)(nil)

// NewHub creates a new Hub instance
func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[uint]*ClientConnection),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a client connection with health monitoring. A previous
// connection for the same user is replaced.
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	clientConn := &ClientConnection{
		Conn:       conn,
		UserID:     userID,
		LastPong:   time.Now(),
		PingTicker: time.NewTicker(h.pingInterval),
		CloseChan:  make(chan struct{}),
	}

	conn.SetPongHandler(func(appData string) error {
		h.clientsMux.Lock()
		if client, exists := h.clients[userID]; exists {
			client.LastPong = time.Now()
		}
		h.clientsMux.Unlock()
		_ = conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		return nil
	})
	_ = conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.clientsMux.Lock()
	if old, exists := h.clients[userID]; exists {
		old.PingTicker.Stop()
		close(old.CloseChan)
	}
	h.clients[userID] = clientConn
	total := len(h.clients)
	h.clientsMux.Unlock()

	go h.pingRoutine(clientConn)

	log.Printf("User %d subscribed to change feed (total: %d)", userID, total)
}

// Unregister removes a client connection
func (h *Hub) Unregister(userID uint) {
	h.clientsMux.Lock()
	if client, exists := h.clients[userID]; exists {
		client.PingTicker.Stop()
		close(client.CloseChan)
		delete(h.clients, userID)
	}
	count := len(h.clients)
	h.clientsMux.Unlock()
	log.Printf("User %d unsubscribed from change feed (total: %d)", userID, count)
}

// NotifyChange pushes a change event to one user's connection, if any.
func (h *Hub) NotifyChange(userID uint, change service.Change) {
	h.clientsMux.RLock()
	client, exists := h.clients[userID]
	h.clientsMux.RUnlock()
	if !exists {
		return
	}
	h.send(client, change)
}

// BroadcastChange pushes a change event to every connection. Used for
// roster updates, which every user can see.
func (h *Hub) BroadcastChange(change service.Change) {
	h.clientsMux.RLock()
	clients := make([]*ClientConnection, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.clientsMux.RUnlock()

	for _, client := range clients {
		h.send(client, change)
	}
}

// Delivery is fire-and-forget: a failed write just drops the frame and the
// health checker reaps the connection. Clients reconcile by re-querying.
func (h *Hub) send(client *ClientConnection, change service.Change) {
	payload, err := json.Marshal(Envelope{
		Type:   "change",
		Event:  change.Event,
		ID:     change.ID,
		SentAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}

	client.writeMux.Lock()
	defer client.writeMux.Unlock()
	if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("Change feed write to user %d failed: %v", client.UserID, err)
	}
}

func (h *Hub) pingRoutine(client *ClientConnection) {
	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			client.writeMux.Lock()
			err := client.Conn.WriteMessage(websocket.PingMessage, nil)
			client.writeMux.Unlock()
			if err != nil {
				h.Unregister(client.UserID)
				return
			}
		}
	}
}

// connectionHealthChecker reaps connections whose pong went silent.
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-h.pongTimeout)

		h.clientsMux.RLock()
		var stale []uint
		for userID, client := range h.clients {
			if client.LastPong.Before(cutoff) {
				stale = append(stale, userID)
			}
		}
		h.clientsMux.RUnlock()

		for _, userID := range stale {
			log.Printf("Reaping stale change feed connection for user %d", userID)
			h.Unregister(userID)
		}
	}
}

// ConnectionCount returns the number of live subscriptions.
func (h *Hub) ConnectionCount() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}
