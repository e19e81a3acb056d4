package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/pkg/logger"
)

type Options struct {
	SendBufferSize int
	MaxMessageSize int64
}

// Hub owns the transport side of every live connection, keyed by connection id.
// Who is online is the session registry's business, not the hub's.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex

	opts   Options
	logger logger.ILogger
}

func NewHub(opts Options, log logger.ILogger) *Hub {
	if opts.SendBufferSize <= 0 {
		opts.SendBufferSize = 256
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = 64 * 1024
	}
	return &Hub{
		clients: make(map[string]*Client),
		opts:    opts,
		logger:  log,
	}
}

func (h *Hub) Attach(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.logger.Info("Hub", "Client attached", map[string]interface{}{"connection_id": c.ID, "user_id": c.UserID})
}

// Detach removes c if it is still the client registered under its id.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	if cur, ok := h.clients[c.ID]; ok && cur == c {
		delete(h.clients, c.ID)
	}
	h.mu.Unlock()
	h.logger.Info("Hub", "Client detached", map[string]interface{}{"connection_id": c.ID, "user_id": c.UserID})
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Deliver sends one event to one connection. A missing, closed or saturated
// connection yields apperror.ErrDeliveryFailed; a saturated one is also closed.
func (h *Hub) Deliver(connectionID string, event dto.OutboundEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.Event, err)
	}

	h.mu.RLock()
	c, ok := h.clients[connectionID]
	h.mu.RUnlock()
	if !ok {
		return apperror.ErrDeliveryFailed.Wrap(errClientClosed)
	}
	return h.push(c, data)
}

// Broadcast sends one event to every attached connection.
func (h *Hub) Broadcast(event dto.OutboundEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal broadcast", map[string]interface{}{"event": event.Event, "error": err.Error()})
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := h.push(c, data); err != nil {
			h.logger.Warn("Hub", "Broadcast delivery failed", map[string]interface{}{
				"event": event.Event, "connection_id": c.ID, "error": err.Error(),
			})
		}
	}
}

func (h *Hub) push(c *Client, data []byte) error {
	err := c.enqueue(data)
	if err == nil {
		return nil
	}
	if err == errBufferFull {
		h.logger.Warn("Hub", "Send buffer full, dropping client", map[string]interface{}{
			"connection_id": c.ID, "user_id": c.UserID,
		})
		c.Close()
	}
	return apperror.ErrDeliveryFailed.Wrap(err)
}
