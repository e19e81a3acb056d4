package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"p2p-chat-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler processes one event. A non-nil error naks the message for redelivery.
type EventHandler func(ctx context.Context, event events.Event) error

// ErrorFunc is told about messages that could not be decoded or handled.
type ErrorFunc func(subject string, err error)

type Subscriber struct {
	nc       *nats.Conn
	js       jetstream.JetStream
	contexts []jetstream.ConsumeContext
	onError  ErrorFunc
}

func NewSubscriber(url string, onError ErrorFunc) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	if onError == nil {
		onError = func(string, error) {}
	}
	return &Subscriber{nc: nc, js: js, onError: onError}, nil
}

// Subscribe attaches a durable consumer for the given event type.
func (s *Subscriber) Subscribe(ctx context.Context, eventType, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: Subject(eventType),
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", durableName, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := Decode(msg.Subject(), msg.Data())
		if err != nil {
			s.onError(msg.Subject(), err)
			// Redelivery will not fix a bad payload.
			msg.Term()
			return
		}

		if err := handler(context.Background(), event); err != nil {
			s.onError(msg.Subject(), err)
			msg.Nak()
			return
		}
		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.contexts = append(s.contexts, cc)
	return nil
}

// Decode turns a stream message back into an event. The subject is the
// fallback for the type when the body does not carry one.
func Decode(subject string, data []byte) (events.BaseEvent, error) {
	var event events.BaseEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return events.BaseEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.Type == "" {
		event.Type = EventTypeFromSubject(subject)
	}
	if event.Data == nil {
		event.Data = map[string]interface{}{}
	}
	return event, nil
}

func (s *Subscriber) Close() {
	for _, cc := range s.contexts {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
