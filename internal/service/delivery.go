package service

import "p2p-chat-be/internal/dto"

// SessionDelivery pushes events to live connections.
// Implemented by the websocket Hub.
type SessionDelivery interface {
	// Deliver fails with apperror.ErrDeliveryFailed when the connection is
	// gone or cannot keep up.
	Deliver(connectionID string, event dto.OutboundEvent) error
	// Broadcast reaches every attached connection.
	Broadcast(event dto.OutboundEvent)
}
