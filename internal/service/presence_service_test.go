package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresence_DisconnectRemovesBeforeBroadcast(t *testing.T) {
	h := newHarness(t)
	presence := NewPresenceService(h.registry, h.delivery, nil, h.log)

	var onlineAtBroadcast []int64
	h.delivery.onBroadcast = func(ev dto.OutboundEvent) {
		if ev.Event == constant.EventUserDropped {
			onlineAtBroadcast = h.registry.OnlineUserIDs()
		}
	}

	presence.Attach(context.Background(), "c1", 7)
	presence.Attach(context.Background(), "c2", 8)

	userID, ok := presence.Disconnect(context.Background(), "c1")
	require.True(t, ok)
	assert.Equal(t, int64(7), userID)

	assert.Equal(t, []int64{8}, onlineAtBroadcast)
	assert.Equal(t, []dto.OutboundEvent{{Event: constant.EventUserDropped, Data: dto.UserIDPayload{UserID: 7}}}, h.delivery.broadcasted())
}

func TestPresence_DisconnectUnknownIsSilent(t *testing.T) {
	h := newHarness(t)
	presence := NewPresenceService(h.registry, h.delivery, nil, h.log)

	_, ok := presence.Disconnect(context.Background(), "ghost")
	assert.False(t, ok)
	assert.Empty(t, h.delivery.broadcasted())
}

func TestPresence_AnnounceJoinedCarriesUserRecord(t *testing.T) {
	h := newHarness(t)
	presence := NewPresenceService(h.registry, h.delivery, nil, h.log)
	user := &entity.User{Id: 7, Email: "a@b.c", PhoneNumber: "55512345", Name: "Ann"}

	presence.Attach(context.Background(), "c1", 7)
	presence.AnnounceJoined(context.Background(), user)

	got := h.delivery.broadcasted()
	require.Len(t, got, 1)
	assert.Equal(t, constant.EventUserJoined, got[0].Event)
	assert.Equal(t, dto.NewUserResponse(user, true), got[0].Data)
}

func TestPresence_MarkOnlineOffline(t *testing.T) {
	h := newHarness(t)
	presence := NewPresenceService(h.registry, h.delivery, nil, h.log)

	var seenOnline []bool
	h.delivery.onBroadcast = func(ev dto.OutboundEvent) {
		seenOnline = append(seenOnline, h.registry.IsOnline(7))
	}

	presence.MarkOnline(context.Background(), "c1", 7)
	presence.MarkOffline(context.Background(), "c1", 7)

	assert.Equal(t, []bool{true, false}, seenOnline, "registry is updated before each broadcast")
	got := h.delivery.broadcasted()
	require.Len(t, got, 2)
	assert.Equal(t, constant.EventUserOnline, got[0].Event)
	assert.Equal(t, constant.EventUserOffline, got[1].Event)
	assert.Empty(t, presence.OnlineUsers())
}

func TestPresence_PublishesTransitions(t *testing.T) {
	h := newHarness(t)
	bus := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := bus.Subscribe(ctx, constant.PresenceTopic)
	require.NoError(t, err)

	received := make(chan dto.PresenceTransition, 8)
	go func() {
		for msg := range messages {
			var tr dto.PresenceTransition
			if err := json.Unmarshal(msg.Payload, &tr); err == nil {
				received <- tr
			}
			msg.Ack()
		}
	}()

	presence := NewPresenceService(h.registry, h.delivery, bus, h.log)
	presence.Attach(ctx, "c1", 7)
	presence.Attach(ctx, "c2", 7)
	presence.Disconnect(ctx, "c1")
	presence.Disconnect(ctx, "c2")

	want := []dto.PresenceTransition{
		{Kind: constant.PresenceJoined, UserID: 7, StillOnline: true},
		{Kind: constant.PresenceJoined, UserID: 7, StillOnline: true},
		{Kind: constant.PresenceDropped, UserID: 7, StillOnline: true},
		{Kind: constant.PresenceDropped, UserID: 7, StillOnline: false},
	}
	for i, w := range want {
		select {
		case got := <-received:
			assert.Equal(t, w, got, "transition %d", i)
		case <-time.After(time.Second):
			t.Fatalf("transition %d not published", i)
		}
	}
}

var _ message.Publisher = (*gochannel.GoChannel)(nil)
