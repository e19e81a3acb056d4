package mapper

import (
	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) OfflineMessageToEntity(msg *model.OfflineMessage) *entity.OfflineMessage {
	if msg == nil {
		return nil
	}
	return &entity.OfflineMessage{
		Id:         msg.Id,
		FromUserId: msg.FromUserId,
		ToUserId:   msg.ToUserId,
		PeerUserId: msg.PeerUserId,
		Message:    msg.Message,
		CreatedAt:  msg.CreatedAt,
	}
}

func (m *ChatMapper) OfflineMessageToModel(msg *entity.OfflineMessage) *model.OfflineMessage {
	if msg == nil {
		return nil
	}
	return &model.OfflineMessage{
		Id:         msg.Id,
		FromUserId: msg.FromUserId,
		ToUserId:   msg.ToUserId,
		PeerUserId: msg.PeerUserId,
		Message:    msg.Message,
		CreatedAt:  msg.CreatedAt,
	}
}

func (m *ChatMapper) OfflineMessagesToEntities(msgs []*model.OfflineMessage) []*entity.OfflineMessage {
	out := make([]*entity.OfflineMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, m.OfflineMessageToEntity(msg))
	}
	return out
}

func (m *ChatMapper) BlockToModel(rel *entity.BlockRelation) *model.BlockedUser {
	return &model.BlockedUser{
		UserId:        rel.BlockerId,
		BlockedUserId: rel.BlockedId,
		CreatedAt:     rel.CreatedAt,
	}
}

func (m *ChatMapper) BlockToEntity(b *model.BlockedUser) *entity.BlockRelation {
	return &entity.BlockRelation{
		BlockerId: b.UserId,
		BlockedId: b.BlockedUserId,
		CreatedAt: b.CreatedAt,
	}
}
