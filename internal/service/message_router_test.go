package service

import (
	"context"
	"errors"
	"testing"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageEvent(from, to int64, text string) dto.OutboundEvent {
	return dto.OutboundEvent{
		Event: constant.EventMessageReceived,
		Data:  dto.MessagePayload{From: from, To: to, Message: text},
	}
}

func TestRoute_RecipientOfflineQueuesAndEchoes(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("c1", 7)

	err := h.router.Route(context.Background(), entity.Envelope{From: 7, To: 9, Message: "hi"})
	require.NoError(t, err)

	rows := h.offline(t)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].FromUserId)
	assert.Equal(t, int64(9), rows[0].ToUserId)
	assert.Equal(t, "hi", rows[0].Message)

	assert.Equal(t, []dto.OutboundEvent{messageEvent(7, 9, "hi")}, h.delivery.to("c1"))
	assert.Equal(t, []string{constant.DomainEventMessageQueued}, h.bus.types())
}

func TestRoute_RecipientBlockingSenderQueues(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registry.Register("c1", 7)
	h.registry.Register("c2", 9)

	require.NoError(t, h.blocks.Block(ctx, 7, 9))
	h.delivery.sent = nil

	require.NoError(t, h.router.Route(ctx, entity.Envelope{From: 9, To: 7, Message: "let me in"}))

	assert.Empty(t, h.delivery.to("c1"))
	assert.Equal(t, []dto.OutboundEvent{messageEvent(9, 7, "let me in")}, h.delivery.to("c2"))

	rows := h.offline(t)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(9), rows[0].FromUserId)
	assert.Equal(t, int64(7), rows[0].ToUserId)
}

func TestRoute_SenderBlockingRecipientIsNotEnforced(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registry.Register("c1", 7)
	h.registry.Register("c2", 9)

	require.NoError(t, h.blocks.Block(ctx, 7, 9))
	h.delivery.sent = nil

	require.NoError(t, h.router.Route(ctx, entity.Envelope{From: 7, To: 9, Message: "still talking"}))

	assert.Len(t, h.delivery.to("c2"), 1)
	assert.Len(t, h.delivery.to("c1"), 1)
	assert.Empty(t, h.offline(t))
}

func TestRoute_FanOutToEveryRecipientSession(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("a1", 1)
	h.registry.Register("b1", 2)
	h.registry.Register("b2", 2)
	h.registry.Register("b3", 2)

	require.NoError(t, h.router.Route(context.Background(), entity.Envelope{From: 1, To: 2, Message: "yo"}))

	for _, c := range []string{"b1", "b2", "b3", "a1"} {
		assert.Len(t, h.delivery.to(c), 1, c)
	}
	assert.Empty(t, h.offline(t))
}

func TestRoute_DeadSessionDoesNotAbortFanOut(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("a1", 1)
	h.registry.Register("b1", 2)
	h.registry.Register("b2", 2)
	h.delivery.dead["b1"] = true

	err := h.router.Route(context.Background(), entity.Envelope{From: 1, To: 2, Message: "yo"})
	require.NoError(t, err, "delivery failures are not the sender's problem")

	assert.Empty(t, h.delivery.to("b1"))
	assert.Len(t, h.delivery.to("b2"), 1)
	assert.Empty(t, h.offline(t))
}

func TestRoute_EchoReachesEverySenderDevice(t *testing.T) {
	for _, recipientOnline := range []bool{true, false} {
		h := newHarness(t)
		h.registry.Register("a1", 1)
		h.registry.Register("a2", 1)
		if recipientOnline {
			h.registry.Register("b1", 2)
		}

		require.NoError(t, h.router.Route(context.Background(), entity.Envelope{From: 1, To: 2, Message: "x"}))

		assert.Len(t, h.delivery.to("a1"), 1)
		assert.Len(t, h.delivery.to("a2"), 1)
	}
}

func TestRoute_SenderOfflineQueuesCopyForSender(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("b1", 2)

	require.NoError(t, h.router.Route(context.Background(), entity.Envelope{From: 1, To: 2, Message: "from the api"}))

	assert.Len(t, h.delivery.to("b1"), 1)
	rows := h.offline(t)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].FromUserId)
	assert.Equal(t, int64(1), rows[0].ToUserId)
	assert.Equal(t, int64(2), rows[0].PeerUserId, "sender's copy keeps the recipient")
}

func TestRoute_BothOfflineQueuesTwo(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.router.Route(context.Background(), entity.Envelope{From: 1, To: 2, Message: "?"}))

	rows := h.offline(t)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].ToUserId)
	assert.Equal(t, int64(1), rows[0].PeerUserId)
	assert.Equal(t, int64(1), rows[1].ToUserId)
	assert.Equal(t, int64(2), rows[1].PeerUserId)
}

func TestRoute_NoteToSelfDeliveredOnce(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("a1", 1)

	require.NoError(t, h.router.Route(context.Background(), entity.Envelope{From: 1, To: 1, Message: "memo"}))

	assert.Len(t, h.delivery.to("a1"), 1)
	assert.Empty(t, h.offline(t))
}

// The sender side is skipped for a note to self, so an offline note is
// stored once rather than once per side.
func TestRoute_OfflineNoteToSelfQueuedOnce(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.router.Route(context.Background(), entity.Envelope{From: 1, To: 1, Message: "memo"}))

	rows := h.offline(t)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ToUserId)
	assert.Equal(t, int64(1), rows[0].PeerUserId)
}

func TestRoute_StorageFailureIsReportedAfterEcho(t *testing.T) {
	h := newHarness(t)
	h.registry.Register("c1", 7)
	testdb.FailWrites(t, h.db, "offline_messages", errors.New("disk full"))

	err := h.router.Route(context.Background(), entity.Envelope{From: 7, To: 9, Message: "hi"})

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrStorage))
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, h.delivery.to("c1"), 1, "echo is not rolled back")
	assert.Empty(t, h.bus.types())
}

type brokenBlocks struct{ IBlockService }

func (brokenBlocks) IsBlocked(ctx context.Context, subjectID, byID int64) (bool, error) {
	return false, apperror.ErrStorage.Wrap(errors.New("db gone"))
}

func TestRoute_UnknownBlockStateQueues(t *testing.T) {
	h := newHarness(t)
	router := NewMessageRouter(h.uow, h.registry, h.delivery, brokenBlocks{}, h.events, h.log)
	h.registry.Register("a1", 1)
	h.registry.Register("b1", 2)

	err := router.Route(context.Background(), entity.Envelope{From: 1, To: 2, Message: "x"})

	assert.True(t, apperror.Is(err, apperror.ErrStorage))
	assert.Empty(t, h.delivery.to("b1"))
	assert.Len(t, h.delivery.to("a1"), 1)
	assert.Len(t, h.offline(t), 1)
}
