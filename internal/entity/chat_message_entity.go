package entity

import "time"

// Envelope only lives for the duration of a routing decision.
type Envelope struct {
	From    int64
	To      int64
	Message string
}

type OfflineMessage struct {
	Id         int64
	FromUserId int64
	ToUserId   int64
	PeerUserId int64
	Message    string
	CreatedAt  time.Time
}

// BlockRelation is directional: BlockerId does not want to receive from BlockedId.
type BlockRelation struct {
	BlockerId int64
	BlockedId int64
	CreatedAt time.Time
}
