package model

import "time"

type OfflineMessage struct {
	Id         int64     `gorm:"primaryKey;autoIncrement"`
	FromUserId int64     `gorm:"not null;index"`
	ToUserId   int64     `gorm:"not null;index"`
	// PeerUserId is the other party of the conversation. For the sender's own
	// copy ToUserId is the sender, so this keeps the original recipient.
	PeerUserId int64     `gorm:"not null;default:0"`
	Message    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (OfflineMessage) TableName() string {
	return "offline_messages"
}
