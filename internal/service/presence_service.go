package service

import (
	"context"
	"encoding/json"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/pkg/logger"
	"p2p-chat-be/internal/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IPresenceService turns registry transitions into broadcasts. Every
// broadcast is issued after the registry mutation it reports.
type IPresenceService interface {
	// Attach records the session. Nothing is broadcast until AnnounceJoined.
	Attach(ctx context.Context, connectionID string, userID int64)
	AnnounceJoined(ctx context.Context, user *entity.User)
	// Disconnect unregisters and, if a session existed, broadcasts userDropped.
	Disconnect(ctx context.Context, connectionID string) (userID int64, ok bool)
	MarkOnline(ctx context.Context, connectionID string, userID int64)
	MarkOffline(ctx context.Context, connectionID string, userID int64)
	OnlineUsers() []int64
}

type presenceService struct {
	registry  *session.Registry
	delivery  SessionDelivery
	publisher message.Publisher
	logger    logger.ILogger
}

// NewPresenceService takes an optional transition publisher; nil disables it.
func NewPresenceService(registry *session.Registry, delivery SessionDelivery, publisher message.Publisher, log logger.ILogger) IPresenceService {
	return &presenceService{
		registry:  registry,
		delivery:  delivery,
		publisher: publisher,
		logger:    log,
	}
}

func (s *presenceService) Attach(ctx context.Context, connectionID string, userID int64) {
	s.registry.Register(connectionID, userID)
	s.publishTransition(constant.PresenceJoined, userID)
}

func (s *presenceService) AnnounceJoined(ctx context.Context, user *entity.User) {
	s.delivery.Broadcast(dto.OutboundEvent{
		Event: constant.EventUserJoined,
		Data:  dto.NewUserResponse(user, s.registry.IsOnline(user.Id)),
	})
}

func (s *presenceService) Disconnect(ctx context.Context, connectionID string) (int64, bool) {
	userID, ok := s.registry.Unregister(connectionID)
	if !ok {
		return 0, false
	}
	s.delivery.Broadcast(dto.OutboundEvent{
		Event: constant.EventUserDropped,
		Data:  dto.UserIDPayload{UserID: userID},
	})
	s.publishTransition(constant.PresenceDropped, userID)
	return userID, true
}

func (s *presenceService) MarkOnline(ctx context.Context, connectionID string, userID int64) {
	s.registry.Register(connectionID, userID)
	s.delivery.Broadcast(dto.OutboundEvent{
		Event: constant.EventUserOnline,
		Data:  dto.UserIDPayload{UserID: userID},
	})
	s.publishTransition(constant.PresenceOnline, userID)
}

func (s *presenceService) MarkOffline(ctx context.Context, connectionID string, userID int64) {
	s.registry.Unregister(connectionID)
	s.delivery.Broadcast(dto.OutboundEvent{
		Event: constant.EventUserOffline,
		Data:  dto.UserIDPayload{UserID: userID},
	})
	s.publishTransition(constant.PresenceOffline, userID)
}

func (s *presenceService) OnlineUsers() []int64 {
	return s.registry.OnlineUserIDs()
}

func (s *presenceService) publishTransition(kind string, userID int64) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.PresenceTransition{
		Kind:        kind,
		UserID:      userID,
		StillOnline: s.registry.IsOnline(userID),
	})
	if err != nil {
		s.logger.Error("PresenceService", "Failed to marshal transition", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisher.Publish(constant.PresenceTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Warn("PresenceService", "Failed to publish transition", map[string]interface{}{
			"kind": kind, "user_id": userID, "error": err.Error(),
		})
	}
}
