package dto

import (
	"encoding/json"
	"time"

	"p2p-chat-be/internal/entity"
)

// InboundFrame is what clients write on the socket.
type InboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// OutboundEvent is what the server writes on the socket.
type OutboundEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// MessagePayload is the wire form of an envelope, used by sendMessage and messageReceived.
type MessagePayload struct {
	From    int64  `json:"from"`
	To      int64  `json:"to"`
	Message string `json:"message"`
}

func (p MessagePayload) Envelope() entity.Envelope {
	return entity.Envelope{From: p.From, To: p.To, Message: p.Message}
}

func NewMessagePayload(env entity.Envelope) MessagePayload {
	return MessagePayload{From: env.From, To: env.To, Message: env.Message}
}

type UserIDPayload struct {
	UserID int64 `json:"userId"`
}

type BlockUserRequest struct {
	UserIDToBlock int64 `json:"userIdToBlock"`
}

type UnblockUserRequest struct {
	UserIDToUnblock int64 `json:"userIdToUnblock"`
}

type UserBlockedPayload struct {
	UserID        int64 `json:"userId"`
	UserIDToBlock int64 `json:"userIdToBlock"`
}

type UserUnblockedPayload struct {
	UserID          int64 `json:"userId"`
	UserIDToUnblock int64 `json:"userIdToUnblock"`
}

// OfflineMessageResponse carries both the stored column names and the
// envelope-style from/to so clients can treat it like a live message. For
// the sender's own copy toUserId is the sender while to and peerUserId name
// the original recipient.
type OfflineMessageResponse struct {
	Id         int64     `json:"id"`
	FromUserId int64     `json:"fromUserId"`
	ToUserId   int64     `json:"toUserId"`
	PeerUserId int64     `json:"peerUserId"`
	From       int64     `json:"from"`
	To         int64     `json:"to"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewOfflineMessageResponses(msgs []*entity.OfflineMessage) []OfflineMessageResponse {
	out := make([]OfflineMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		to := m.ToUserId
		if m.ToUserId == m.FromUserId && m.PeerUserId != 0 {
			to = m.PeerUserId
		}
		out = append(out, OfflineMessageResponse{
			Id:         m.Id,
			FromUserId: m.FromUserId,
			ToUserId:   m.ToUserId,
			PeerUserId: m.PeerUserId,
			From:       m.FromUserId,
			To:         to,
			Message:    m.Message,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out
}

type ErrorPayload struct {
	Event   string `json:"event"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type AnnouncementPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// PresenceTransition is published on the in-process bus after every registry change.
type PresenceTransition struct {
	Kind        string `json:"kind"`
	UserID      int64  `json:"user_id"`
	StillOnline bool   `json:"still_online"`
}
