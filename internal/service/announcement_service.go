package service

import (
	"context"
	"fmt"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/pkg/logger"
	"p2p-chat-be/pkg/events"
	pktNats "p2p-chat-be/pkg/nats"
)

type IAnnouncementService interface {
	Announce(ctx context.Context, req *dto.AnnouncementRequest) error
	// Start consumes announcements from the bus and broadcasts them.
	Start(ctx context.Context) error
}

type announcementService struct {
	events     IChatEventPublisher
	subscriber *pktNats.Subscriber
	delivery   SessionDelivery
	logger     logger.ILogger
}

func NewAnnouncementService(events IChatEventPublisher, subscriber *pktNats.Subscriber, delivery SessionDelivery, log logger.ILogger) IAnnouncementService {
	return &announcementService{
		events:     events,
		subscriber: subscriber,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *announcementService) Announce(ctx context.Context, req *dto.AnnouncementRequest) error {
	if err := s.events.PublishSystemAnnouncement(ctx, req.Title, req.Message); err != nil {
		return apperror.ErrDeliveryFailed.Wrap(err)
	}
	return nil
}

func (s *announcementService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	err := s.subscriber.Subscribe(ctx, constant.DomainEventSystemAnnouncement, "chat-announcements", s.handleEvent)
	if err != nil {
		return fmt.Errorf("subscribe announcements: %w", err)
	}
	s.logger.Info("AnnouncementService", "Listening for system announcements", nil)
	return nil
}

func (s *announcementService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	title, _ := payload["title"].(string)
	message, _ := payload["message"].(string)
	if message == "" {
		s.logger.Warn("AnnouncementService", "Dropping empty announcement", map[string]interface{}{"event_id": event.EventID()})
		return nil
	}

	s.delivery.Broadcast(dto.OutboundEvent{
		Event: constant.EventSystemAnnouncement,
		Data:  dto.AnnouncementPayload{Title: title, Message: message},
	})
	return nil
}
