package mapper

import (
	"testing"
	"time"

	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestUserMapperHandlesNil(t *testing.T) {
	m := NewUserMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
	assert.Empty(t, m.ToEntities(nil))
}

func TestBlockMapperKeepsDirection(t *testing.T) {
	m := NewChatMapper()
	now := time.Now()

	row := m.BlockToModel(&entity.BlockRelation{BlockerId: 7, BlockedId: 9, CreatedAt: now})
	assert.Equal(t, int64(7), row.UserId)
	assert.Equal(t, int64(9), row.BlockedUserId)

	rel := m.BlockToEntity(&model.BlockedUser{UserId: 7, BlockedUserId: 9})
	assert.Equal(t, int64(7), rel.BlockerId)
	assert.Equal(t, int64(9), rel.BlockedId)
}
