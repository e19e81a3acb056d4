package service

import (
	"context"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/pkg/logger"
	"p2p-chat-be/pkg/events"
)

// EventBus is the subset of the NATS publisher the chat services need.
type EventBus interface {
	Publish(ctx context.Context, event events.Event) error
}

// IChatEventPublisher emits chat domain events. Failures are logged, never
// returned: the bus is an observer, not part of the delivery path.
type IChatEventPublisher interface {
	PublishUserBlocked(ctx context.Context, blockerID, blockedID int64)
	PublishUserUnblocked(ctx context.Context, blockerID, blockedID int64)
	PublishMessageQueued(ctx context.Context, fromUserID, toUserID, offlineMessageID int64)
	PublishSystemAnnouncement(ctx context.Context, title, message string) error
}

type chatEventPublisher struct {
	bus    EventBus
	logger logger.ILogger
}

// NewChatEventPublisher accepts a nil bus, in which case every publish is a no-op.
func NewChatEventPublisher(bus EventBus, log logger.ILogger) IChatEventPublisher {
	return &chatEventPublisher{bus: bus, logger: log}
}

func (p *chatEventPublisher) PublishUserBlocked(ctx context.Context, blockerID, blockedID int64) {
	p.emit(ctx, constant.DomainEventUserBlocked, map[string]interface{}{
		"user_id":         blockerID,
		"blocked_user_id": blockedID,
	})
}

func (p *chatEventPublisher) PublishUserUnblocked(ctx context.Context, blockerID, blockedID int64) {
	p.emit(ctx, constant.DomainEventUserUnblocked, map[string]interface{}{
		"user_id":           blockerID,
		"unblocked_user_id": blockedID,
	})
}

func (p *chatEventPublisher) PublishMessageQueued(ctx context.Context, fromUserID, toUserID, offlineMessageID int64) {
	p.emit(ctx, constant.DomainEventMessageQueued, map[string]interface{}{
		"from_user_id":       fromUserID,
		"to_user_id":         toUserID,
		"offline_message_id": offlineMessageID,
	})
}

// PublishSystemAnnouncement is the one publish whose error matters: the
// announcement endpoint has nothing else to do.
func (p *chatEventPublisher) PublishSystemAnnouncement(ctx context.Context, title, message string) error {
	if p.bus == nil {
		return errEventBusDisabled
	}
	return p.bus.Publish(ctx, events.New(constant.DomainEventSystemAnnouncement, map[string]interface{}{
		"title":   title,
		"message": message,
	}))
}

func (p *chatEventPublisher) emit(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, events.New(eventType, data)); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType, map[string]interface{}{"error": err.Error()})
	}
}
