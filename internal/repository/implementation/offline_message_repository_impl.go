package implementation

import (
	"context"
	"errors"

	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/mapper"
	"p2p-chat-be/internal/model"
	"p2p-chat-be/internal/repository/contract"
	"p2p-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

var errUnboundedDelete = errors.New("refusing to delete offline messages without a filter")

type OfflineMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewOfflineMessageRepository(db *gorm.DB) contract.OfflineMessageRepository {
	return &OfflineMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *OfflineMessageRepositoryImpl) Create(ctx context.Context, msg *entity.OfflineMessage) error {
	m := r.mapper.OfflineMessageToModel(msg)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*msg = *r.mapper.OfflineMessageToEntity(m)
	return nil
}

func (r *OfflineMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.OfflineMessage, error) {
	var rows []*model.OfflineMessage
	query := applySpecifications(r.db.WithContext(ctx).Order("id ASC"), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.OfflineMessagesToEntities(rows), nil
}

func (r *OfflineMessageRepositoryImpl) DeleteAll(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if len(specs) == 0 {
		return 0, errUnboundedDelete
	}
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	res := query.Delete(&model.OfflineMessage{})
	return res.RowsAffected, res.Error
}
