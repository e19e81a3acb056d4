package dto

import (
	"testing"

	"p2p-chat-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOfflineMessageResponses(t *testing.T) {
	out := NewOfflineMessageResponses([]*entity.OfflineMessage{
		{Id: 1, FromUserId: 2, ToUserId: 5, PeerUserId: 2, Message: "received"},
		{Id: 2, FromUserId: 5, ToUserId: 5, PeerUserId: 3, Message: "own copy"},
		{Id: 3, FromUserId: 5, ToUserId: 5, PeerUserId: 5, Message: "note"},
		{Id: 4, FromUserId: 4, ToUserId: 5, Message: "stored before peers were kept"},
	})
	require.Len(t, out, 4)

	assert.Equal(t, int64(5), out[0].To)
	assert.Equal(t, int64(3), out[1].To, "own copy points at the recipient")
	assert.Equal(t, int64(5), out[1].ToUserId)
	assert.Equal(t, int64(5), out[2].To)
	assert.Equal(t, int64(5), out[3].To)
	assert.Equal(t, int64(0), out[3].PeerUserId)
}
