package websocket

import (
	"p2p-chat-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

// SessionHandler reacts to the lifecycle of one connection. HandleFrame is
// called sequentially per connection, in the order frames arrived.
type SessionHandler interface {
	OnConnect(c *Client)
	HandleFrame(c *Client, frame dto.InboundFrame)
	OnDisconnect(c *Client)
}

// ServeWs runs an authenticated connection until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, userID int64, handler SessionHandler) {
	client := NewClient(hub, conn, userID)
	hub.Attach(client)
	handler.OnConnect(client)

	go client.writePump()
	client.readPump(handler)
}
