package contract

import (
	"context"

	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/repository/specification"
)

type BlockRepository interface {
	// Create is idempotent: an existing pair is left untouched.
	Create(ctx context.Context, rel *entity.BlockRelation) error
	Delete(ctx context.Context, blockerID, blockedID int64) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BlockRelation, error)
}
