package contract

import (
	"context"

	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/repository/specification"
)

type OfflineMessageRepository interface {
	Create(ctx context.Context, msg *entity.OfflineMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.OfflineMessage, error)
	// DeleteAll refuses to run without at least one specification.
	DeleteAll(ctx context.Context, specs ...specification.Specification) (int64, error)
}
