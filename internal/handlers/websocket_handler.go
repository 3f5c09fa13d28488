package handlers

import (
	"log"

	"github.com/flowdeskhq/flowdesk-backend/internal/handlers/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketHandler struct {
	hub *ws.Hub
}

func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// GetHub returns the hub instance (services publish change events through it)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

// HandleWebSocket keeps a change-feed subscription open. The feed is
// one-way: inbound frames are only read to service pings and detect close.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)

	h.hub.Register(userID, c)
	defer h.hub.Unregister(userID)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			log.Printf("Change feed connection for user %d closed: %v", userID, err)
			return
		}
	}
}
