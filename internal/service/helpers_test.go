package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/pkg/logger"
	"p2p-chat-be/internal/pkg/testdb"
	"p2p-chat-be/internal/repository/memory"
	"p2p-chat-be/internal/repository/unitofwork"
	"p2p-chat-be/internal/session"
	"p2p-chat-be/pkg/events"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type delivered struct {
	conn  string
	event dto.OutboundEvent
}

// fakeDelivery records sends. Connections listed in dead fail like a closed socket.
type fakeDelivery struct {
	mu         sync.Mutex
	sent       []delivered
	broadcasts []dto.OutboundEvent
	dead       map[string]bool

	// onBroadcast runs before a broadcast is recorded.
	onBroadcast func(dto.OutboundEvent)
}

func newFakeDelivery() *fakeDelivery {
	return &fakeDelivery{dead: map[string]bool{}}
}

func (f *fakeDelivery) Deliver(connectionID string, event dto.OutboundEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dead[connectionID] {
		return apperror.ErrDeliveryFailed
	}
	f.sent = append(f.sent, delivered{conn: connectionID, event: event})
	return nil
}

func (f *fakeDelivery) Broadcast(event dto.OutboundEvent) {
	if f.onBroadcast != nil {
		f.onBroadcast(event)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, event)
}

func (f *fakeDelivery) to(conn string) []dto.OutboundEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dto.OutboundEvent
	for _, d := range f.sent {
		if d.conn == conn {
			out = append(out, d.event)
		}
	}
	return out
}

func (f *fakeDelivery) broadcasted() []dto.OutboundEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.OutboundEvent(nil), f.broadcasts...)
}

type fakeBus struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (b *fakeBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, event)
	return nil
}

func (b *fakeBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventType())
	}
	return out
}

type harness struct {
	db       *gorm.DB
	uow      unitofwork.RepositoryFactory
	registry *session.Registry
	delivery *fakeDelivery
	bus      *fakeBus
	events   IChatEventPublisher
	blocks   IBlockService
	router   IMessageRouter
	log      logger.ILogger
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testdb.New(t)
	h := &harness{
		db:       db,
		uow:      unitofwork.NewRepositoryFactory(db),
		registry: session.NewRegistry(),
		delivery: newFakeDelivery(),
		bus:      &fakeBus{},
		log:      logger.NewNopLogger(),
	}
	h.events = NewChatEventPublisher(h.bus, h.log)
	h.blocks = NewBlockService(h.uow, h.registry, h.delivery, memory.NewBlockCache(time.Minute), h.events, h.log)
	h.router = NewMessageRouter(h.uow, h.registry, h.delivery, h.blocks, h.events, h.log)
	return h
}

func (h *harness) seedUser(t *testing.T, email, phone, name string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, PhoneNumber: phone, Name: name}
	require.NoError(t, h.uow.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

func (h *harness) offline(t *testing.T) []*entity.OfflineMessage {
	t.Helper()
	msgs, err := h.uow.NewUnitOfWork(context.Background()).OfflineMessageRepository().FindAll(context.Background())
	require.NoError(t, err)
	return msgs
}
