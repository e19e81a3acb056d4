package service

import (
	"context"
	"testing"

	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox_DrainReturnsAndRemovesOnlyOwnRows(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	repo := h.uow.NewUnitOfWork(ctx).OfflineMessageRepository()

	for _, m := range []*entity.OfflineMessage{
		{FromUserId: 1, ToUserId: 9, Message: "one"},
		{FromUserId: 2, ToUserId: 8, Message: "not yours"},
		{FromUserId: 3, ToUserId: 9, Message: "two"},
	} {
		require.NoError(t, repo.Create(ctx, m))
	}

	inbox := NewInboxService(h.uow)
	got, err := inbox.Drain(ctx, 9)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Message)
	assert.Equal(t, "two", got[1].Message)

	again, err := inbox.Drain(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, again)

	left := h.offline(t)
	require.Len(t, left, 1)
	assert.Equal(t, int64(8), left[0].ToUserId)
}

func TestInbox_QueuedWhileOfflineArrivesOnNextConnect(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registry.Register("c1", 7)

	require.NoError(t, h.router.Route(ctx, entity.Envelope{From: 7, To: 9, Message: "hi"}))

	got, err := NewInboxService(h.uow).Drain(ctx, 9)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].FromUserId)
	assert.Equal(t, "hi", got[0].Message)
}

func TestInbox_SenderCopyNamesTheRecipient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.router.Route(ctx, entity.Envelope{From: 7, To: 9, Message: "sent from another client"}))

	got, err := NewInboxService(h.uow).Drain(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)

	payload := dto.NewOfflineMessageResponses(got)
	assert.Equal(t, int64(7), payload[0].ToUserId)
	assert.Equal(t, int64(7), payload[0].From)
	assert.Equal(t, int64(9), payload[0].To)
	assert.Equal(t, int64(9), payload[0].PeerUserId)
}
