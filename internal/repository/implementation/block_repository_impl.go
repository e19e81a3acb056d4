package implementation

import (
	"context"

	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/mapper"
	"p2p-chat-be/internal/model"
	"p2p-chat-be/internal/repository/contract"
	"p2p-chat-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlockRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewBlockRepository(db *gorm.DB) contract.BlockRepository {
	return &BlockRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *BlockRepositoryImpl) Create(ctx context.Context, rel *entity.BlockRelation) error {
	row := r.mapper.BlockToModel(rel)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "blocked_user_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *BlockRepositoryImpl) Delete(ctx context.Context, blockerID, blockedID int64) error {
	query := specification.BlockPair{BlockerID: blockerID, BlockedID: blockedID}.Apply(r.db.WithContext(ctx))
	return query.Delete(&model.BlockedUser{}).Error
}

func (r *BlockRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.BlockedUser{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BlockRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BlockRelation, error) {
	var rows []*model.BlockedUser
	query := applySpecifications(r.db.WithContext(ctx).Order("id ASC"), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.BlockRelation, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.mapper.BlockToEntity(row))
	}
	return out, nil
}
