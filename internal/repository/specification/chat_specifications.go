package specification

import (
	"gorm.io/gorm"
)

// ByRecipient filters offline messages addressed to UserID
type ByRecipient struct {
	UserID int64
}

func (s ByRecipient) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("to_user_id = ?", s.UserID)
}

// BlockedBy filters block rows created by BlockerID
type BlockedBy struct {
	BlockerID int64
}

func (s BlockedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.BlockerID)
}

// BlockPair matches the single directional relation BlockerID -> BlockedID
type BlockPair struct {
	BlockerID int64
	BlockedID int64
}

func (s BlockPair) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ? AND blocked_user_id = ?", s.BlockerID, s.BlockedID)
}
