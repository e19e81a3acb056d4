package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// PresenceSet is an external view of who is online. It is written to, never
// read by routing: the registry stays authoritative.
type PresenceSet interface {
	Reset(ctx context.Context) error
	Add(ctx context.Context, userID int64) error
	Remove(ctx context.Context, userID int64) error
}

type redisPresenceSet struct {
	client redis.Cmdable
	key    string
}

func NewRedisPresenceSet(client redis.Cmdable, key string) PresenceSet {
	return &redisPresenceSet{client: client, key: key}
}

func (r *redisPresenceSet) Reset(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *redisPresenceSet) Add(ctx context.Context, userID int64) error {
	return r.client.SAdd(ctx, r.key, strconv.FormatInt(userID, 10)).Err()
}

func (r *redisPresenceSet) Remove(ctx context.Context, userID int64) error {
	return r.client.SRem(ctx, r.key, strconv.FormatInt(userID, 10)).Err()
}

const (
	mirrorQueueSize    = 1024
	mirrorStoreTimeout = 2 * time.Second
)

type IPresenceMirror interface {
	Consume(ctx context.Context) error
}

type presenceMirror struct {
	subscriber message.Subscriber
	set        PresenceSet
	logger     logger.ILogger

	// pending is drained by a single worker, so transitions reach the set in
	// publish order. The subscriber acks once a transition is queued, which
	// keeps the store's latency off the connect and disconnect path.
	pending chan dto.PresenceTransition
}

func NewPresenceMirror(subscriber message.Subscriber, set PresenceSet, log logger.ILogger) IPresenceMirror {
	return &presenceMirror{
		subscriber: subscriber,
		set:        set,
		logger:     log,
		pending:    make(chan dto.PresenceTransition, mirrorQueueSize),
	}
}

// Consume clears whatever a previous process left behind, then applies
// transitions until ctx is cancelled.
func (m *presenceMirror) Consume(ctx context.Context) error {
	resetCtx, cancel := context.WithTimeout(ctx, mirrorStoreTimeout)
	err := m.set.Reset(resetCtx)
	cancel()
	if err != nil {
		m.logger.Warn("PresenceMirror", "Failed to reset presence set", map[string]interface{}{"error": err.Error()})
	}

	messages, err := m.subscriber.Subscribe(ctx, constant.PresenceTopic)
	if err != nil {
		return err
	}

	go m.run(ctx)
	go func() {
		for msg := range messages {
			m.processMessage(msg)
		}
	}()
	return nil
}

// processMessage queues the transition and acks immediately.
func (m *presenceMirror) processMessage(msg *message.Message) {
	defer msg.Ack()

	var tr dto.PresenceTransition
	if err := json.Unmarshal(msg.Payload, &tr); err != nil {
		m.logger.Error("PresenceMirror", "Failed to unmarshal transition", map[string]interface{}{"error": err.Error()})
		return
	}

	select {
	case m.pending <- tr:
	default:
		// The next transition for this user corrects the set.
		m.logger.Warn("PresenceMirror", "Mirror queue full, dropping transition", map[string]interface{}{
			"kind": tr.Kind, "user_id": tr.UserID,
		})
	}
}

func (m *presenceMirror) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case tr := <-m.pending:
			m.store(ctx, tr)
		}
	}
}

func (m *presenceMirror) store(ctx context.Context, tr dto.PresenceTransition) {
	storeCtx, cancel := context.WithTimeout(ctx, mirrorStoreTimeout)
	defer cancel()

	if err := m.apply(storeCtx, tr); err != nil {
		m.logger.Warn("PresenceMirror", "Failed to apply transition", map[string]interface{}{
			"kind": tr.Kind, "user_id": tr.UserID, "error": err.Error(),
		})
	}
}

func (m *presenceMirror) apply(ctx context.Context, tr dto.PresenceTransition) error {
	switch tr.Kind {
	case constant.PresenceJoined, constant.PresenceOnline:
		return m.set.Add(ctx, tr.UserID)
	case constant.PresenceDropped, constant.PresenceOffline:
		if tr.StillOnline {
			return nil
		}
		return m.set.Remove(ctx, tr.UserID)
	default:
		m.logger.Warn("PresenceMirror", "Unknown transition kind", map[string]interface{}{"kind": tr.Kind})
		return nil
	}
}
