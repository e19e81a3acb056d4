package service

import (
	"context"
	"fmt"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/pkg/logger"
	"p2p-chat-be/internal/repository/memory"
	"p2p-chat-be/internal/repository/specification"
	"p2p-chat-be/internal/repository/unitofwork"
	"p2p-chat-be/internal/session"
)

type IBlockService interface {
	Block(ctx context.Context, blockerID, blockedID int64) error
	Unblock(ctx context.Context, blockerID, blockedID int64) error
	// IsBlocked reports whether byID has blocked subjectID.
	IsBlocked(ctx context.Context, subjectID, byID int64) (bool, error)
	BlockedUsers(ctx context.Context, userID int64) ([]int64, error)
}

type blockService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *session.Registry
	delivery   SessionDelivery
	cache      *memory.BlockCache
	events     IChatEventPublisher
	logger     logger.ILogger
}

func NewBlockService(
	uowFactory unitofwork.RepositoryFactory,
	registry *session.Registry,
	delivery SessionDelivery,
	cache *memory.BlockCache,
	events IChatEventPublisher,
	log logger.ILogger,
) IBlockService {
	return &blockService{
		uowFactory: uowFactory,
		registry:   registry,
		delivery:   delivery,
		cache:      cache,
		events:     events,
		logger:     log,
	}
}

func (s *blockService) Block(ctx context.Context, blockerID, blockedID int64) error {
	if err := validatePair(blockerID, blockedID); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.BlockRepository().Create(ctx, &entity.BlockRelation{BlockerId: blockerID, BlockedId: blockedID})
	if err != nil {
		return apperror.ErrStorage.Wrap(fmt.Errorf("block %d->%d: %w", blockerID, blockedID, err))
	}
	s.cache.Set(blockerID, blockedID, true)

	s.notify(blockedID, dto.OutboundEvent{
		Event: constant.EventUserBlocked,
		Data:  dto.UserBlockedPayload{UserID: blockerID, UserIDToBlock: blockedID},
	})
	s.events.PublishUserBlocked(ctx, blockerID, blockedID)
	return nil
}

func (s *blockService) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	if err := validatePair(blockerID, blockedID); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.BlockRepository().Delete(ctx, blockerID, blockedID); err != nil {
		// The row may or may not be gone; let the next lookup decide.
		s.cache.Forget(blockerID, blockedID)
		return apperror.ErrStorage.Wrap(fmt.Errorf("unblock %d->%d: %w", blockerID, blockedID, err))
	}
	s.cache.Set(blockerID, blockedID, false)

	s.notify(blockedID, dto.OutboundEvent{
		Event: constant.EventUserUnblocked,
		Data:  dto.UserUnblockedPayload{UserID: blockerID, UserIDToUnblock: blockedID},
	})
	s.events.PublishUserUnblocked(ctx, blockerID, blockedID)
	return nil
}

func (s *blockService) IsBlocked(ctx context.Context, subjectID, byID int64) (bool, error) {
	if blocked, found := s.cache.Get(byID, subjectID); found {
		return blocked, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.BlockRepository().Count(ctx, specification.BlockPair{BlockerID: byID, BlockedID: subjectID})
	if err != nil {
		return false, apperror.ErrStorage.Wrap(fmt.Errorf("block lookup %d->%d: %w", byID, subjectID, err))
	}

	blocked := count > 0
	if !s.cache.Fill(byID, subjectID, blocked) {
		// Block or Unblock landed after our read; theirs is the newer answer.
		if cached, found := s.cache.Get(byID, subjectID); found {
			return cached, nil
		}
	}
	return blocked, nil
}

func (s *blockService) BlockedUsers(ctx context.Context, userID int64) ([]int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rels, err := uow.BlockRepository().FindAll(ctx, specification.BlockedBy{BlockerID: userID})
	if err != nil {
		return nil, apperror.ErrStorage.Wrap(fmt.Errorf("blocked users of %d: %w", userID, err))
	}

	ids := make([]int64, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.BlockedId)
	}
	return ids, nil
}

// notify snapshots the target's sessions, then delivers outside the registry lock.
func (s *blockService) notify(userID int64, event dto.OutboundEvent) {
	for _, connID := range s.registry.SessionsFor(userID) {
		if err := s.delivery.Deliver(connID, event); err != nil {
			s.logger.Warn("BlockService", "Notification not delivered", map[string]interface{}{
				"event": event.Event, "connection_id": connID, "error": err.Error(),
			})
		}
	}
}

func validatePair(blockerID, blockedID int64) error {
	if blockerID <= 0 || blockedID <= 0 {
		return apperror.ErrInvalidParams.Wrap(fmt.Errorf("user ids must be positive"))
	}
	if blockerID == blockedID {
		return apperror.ErrInvalidParams.Wrap(fmt.Errorf("cannot block yourself"))
	}
	return nil
}
