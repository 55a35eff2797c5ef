package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler processes one event. A returned error naks the message for redelivery.
type EventHandler func(ctx context.Context, event events.Event) error

type Subscriber struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger logger.ILogger
	cc     []jetstream.ConsumeContext
}

func NewSubscriber(url string, log logger.ILogger) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js, logger: log}, nil
}

// Subscribe starts a durable consumer on the EVENTS stream filtered by subject.
func (s *Subscriber) Subscribe(ctx context.Context, subject, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    5,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := decode(msg)
		if err != nil {
			s.logger.Warn("NatsSubscriber", "Dropping undecodable event", map[string]interface{}{
				"subject": msg.Subject(),
				"error":   err.Error(),
			})
			_ = msg.Term()
			return
		}

		if err := handler(ctx, event); err != nil {
			s.logger.Error("NatsSubscriber", "Handler failed", map[string]interface{}{
				"subject": msg.Subject(),
				"error":   err.Error(),
			})
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.cc = append(s.cc, cc)

	s.logger.Info("NatsSubscriber", "Subscribed", map[string]interface{}{"subject": subject, "durable": durableName})
	return nil
}

func decode(msg jetstream.Msg) (events.BaseEvent, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Data(), &payload); err != nil {
		return events.BaseEvent{}, err
	}
	return events.BaseEvent{
		Type:       strings.TrimPrefix(msg.Subject(), events.SubjectPrefix),
		Data:       payload,
		OccurredAt: occurredAt(msg),
	}, nil
}

func occurredAt(msg jetstream.Msg) time.Time {
	if h := msg.Headers(); h != nil {
		if ts, err := time.Parse(time.RFC3339Nano, h.Get(headerOccurredAt)); err == nil {
			return ts
		}
	}
	if md, err := msg.Metadata(); err == nil {
		return md.Timestamp
	}
	return time.Now()
}

func (s *Subscriber) Close() {
	for _, cc := range s.cc {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
