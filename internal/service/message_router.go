package service

import (
	"context"
	"fmt"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/pkg/logger"
	"p2p-chat-be/internal/repository/unitofwork"
	"p2p-chat-be/internal/session"
)

// IMessageRouter decides, per message, between live delivery and the offline
// queue, once for the recipient side and once for the sender's echo.
type IMessageRouter interface {
	Route(ctx context.Context, env entity.Envelope) error
}

type messageRouter struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *session.Registry
	delivery   SessionDelivery
	blocks     IBlockService
	events     IChatEventPublisher
	logger     logger.ILogger
}

func NewMessageRouter(
	uowFactory unitofwork.RepositoryFactory,
	registry *session.Registry,
	delivery SessionDelivery,
	blocks IBlockService,
	events IChatEventPublisher,
	log logger.ILogger,
) IMessageRouter {
	return &messageRouter{
		uowFactory: uowFactory,
		registry:   registry,
		delivery:   delivery,
		blocks:     blocks,
		events:     events,
		logger:     log,
	}
}

// Route never rolls back a completed delivery. Storage failures from either
// side are joined and returned under ErrStorage.
func (r *messageRouter) Route(ctx context.Context, env entity.Envelope) error {
	toConns, fromConns := r.registry.RouteTargets(env.From, env.To)
	event := dto.OutboundEvent{Event: constant.EventMessageReceived, Data: dto.NewMessagePayload(env)}

	var errs []error

	blocked, err := r.blocks.IsBlocked(ctx, env.From, env.To)
	if err != nil {
		// Unknown block state must not leak a message past a block.
		errs = append(errs, err)
		blocked = true
	}

	if blocked || len(toConns) == 0 {
		if err := r.enqueue(ctx, env.From, env.To, env.From, env.Message); err != nil {
			errs = append(errs, err)
		}
	} else {
		r.fanOut(toConns, event)
	}

	// A note to self is one conversation side, not two: the recipient side
	// already reached (or queued for) every session of this user.
	if env.From == env.To {
		return storageError(errs)
	}

	if len(fromConns) > 0 {
		r.fanOut(fromConns, event)
	} else if err := r.enqueue(ctx, env.From, env.From, env.To, env.Message); err != nil {
		errs = append(errs, err)
	}

	return storageError(errs)
}

func (r *messageRouter) fanOut(connIDs []string, event dto.OutboundEvent) {
	for _, connID := range connIDs {
		if err := r.delivery.Deliver(connID, event); err != nil {
			r.logger.Warn("MessageRouter", "Live delivery failed", map[string]interface{}{
				"connection_id": connID, "error": err.Error(),
			})
		}
	}
}

// enqueue stores a copy owned by to. peer is the other side of the conversation.
func (r *messageRouter) enqueue(ctx context.Context, from, to, peer int64, text string) error {
	msg := &entity.OfflineMessage{FromUserId: from, ToUserId: to, PeerUserId: peer, Message: text}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.OfflineMessageRepository().Create(ctx, msg); err != nil {
		r.logger.Error("MessageRouter", "Failed to queue offline message", map[string]interface{}{
			"from_user_id": from, "to_user_id": to, "error": err.Error(),
		})
		return fmt.Errorf("queue message %d->%d: %w", from, to, err)
	}

	r.events.PublishMessageQueued(ctx, from, to, msg.Id)
	return nil
}
