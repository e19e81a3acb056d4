package unitofwork

import (
	"context"

	"p2p-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	OfflineMessageRepository() contract.OfflineMessageRepository
	BlockRepository() contract.BlockRepository
}
