package service

import (
	"context"
	"fmt"

	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/repository/specification"
	"p2p-chat-be/internal/repository/unitofwork"
)

type IInboxService interface {
	// Drain returns the user's queued messages and removes exactly those rows.
	Drain(ctx context.Context, userID int64) ([]*entity.OfflineMessage, error)
}

type inboxService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewInboxService(uowFactory unitofwork.RepositoryFactory) IInboxService {
	return &inboxService{uowFactory: uowFactory}
}

func (s *inboxService) Drain(ctx context.Context, userID int64) ([]*entity.OfflineMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.ErrStorage.Wrap(err)
	}
	defer uow.Rollback()

	msgs, err := uow.OfflineMessageRepository().FindAll(ctx, specification.ByRecipient{UserID: userID})
	if err != nil {
		return nil, apperror.ErrStorage.Wrap(fmt.Errorf("read inbox of %d: %w", userID, err))
	}
	if len(msgs) == 0 {
		return msgs, nil
	}

	ids := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.Id)
	}

	// Messages queued after the read stay for the next connect.
	if _, err := uow.OfflineMessageRepository().DeleteAll(ctx,
		specification.ByRecipient{UserID: userID},
		specification.ByIDs{IDs: ids},
	); err != nil {
		return nil, apperror.ErrStorage.Wrap(fmt.Errorf("clear inbox of %d: %w", userID, err))
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.ErrStorage.Wrap(err)
	}
	return msgs, nil
}
