package model

import "time"

// BlockedUser means UserId does not want to receive from BlockedUserId.
type BlockedUser struct {
	Id            int64     `gorm:"primaryKey;autoIncrement"`
	UserId        int64     `gorm:"not null;uniqueIndex:idx_blocked_users_pair"`
	BlockedUserId int64     `gorm:"not null;uniqueIndex:idx_blocked_users_pair;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (BlockedUser) TableName() string {
	return "blocked_users"
}
