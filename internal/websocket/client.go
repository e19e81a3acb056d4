package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"p2p-chat-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var (
	errClientClosed = errors.New("client closed")
	errBufferFull   = errors.New("client send buffer full")
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	ID     string
	UserID int64

	Hub *Hub

	// Nil in tests, which drain Send directly.
	Conn *websocket.Conn

	// Buffered channel of outbound frames. Never closed; closed signals shutdown.
	Send chan []byte

	mu       sync.RWMutex
	isClosed bool
	closed   chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, hub.opts.SendBufferSize),
		closed: make(chan struct{}),
	}
}

// enqueue never blocks: a full buffer is reported to the caller, which
// decides whether to drop the client.
func (c *Client) enqueue(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isClosed {
		return errClientClosed
	}
	select {
	case c.Send <- data:
		return nil
	default:
		return errBufferFull
	}
}

// Close stops the write pump. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed {
		return
	}
	c.isClosed = true
	close(c.closed)
}

func (c *Client) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isClosed
}

// Emit delivers an event to this client only.
func (c *Client) Emit(event string, data interface{}) error {
	return c.Hub.Deliver(c.ID, dto.OutboundEvent{Event: event, Data: data})
}

// readPump reads frames in order and hands each to the session handler.
// It runs in the upgrade handler goroutine and returns when the socket dies.
func (c *Client) readPump(handler SessionHandler) {
	defer func() {
		c.Hub.Detach(c)
		handler.OnDisconnect(c)
		c.Close()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Hub.opts.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"connection_id": c.ID, "user_id": c.UserID, "error": err.Error(),
				})
			}
			return
		}

		var frame dto.InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil || frame.Event == "" {
			c.Hub.logger.Warn("Client", "Dropping malformed frame", map[string]interface{}{
				"connection_id": c.ID, "user_id": c.UserID,
			})
			continue
		}
		handler.HandleFrame(c, frame)
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Close()
				return
			}
		case <-c.closed:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
