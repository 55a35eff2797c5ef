package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	consumerModule   = "ConsumerService"
	maxEmailAttempts = 5
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	emailService mailer.IEmailService
	logger       logger.ILogger

	mu       sync.Mutex
	attempts map[string]int
}

func NewConsumerService(subscriber message.Subscriber, topicName string, emailService mailer.IEmailService, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		emailService: emailService,
		logger:       log,
		attempts:     make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var job mailer.Job
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error(consumerModule, "Dropping malformed email job", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	err := mailer.Deliver(cs.emailService, job)
	switch {
	case err == nil:
		cs.forget(msg.UUID)
		cs.logger.Info(consumerModule, "Email sent", map[string]interface{}{"kind": job.Kind, "to": job.To})
		msg.Ack()
	case errors.Is(err, mailer.ErrUnknownJob):
		cs.logger.Warn(consumerModule, "Dropping unroutable email job", map[string]interface{}{"error": err.Error()})
		msg.Ack()
	case cs.retry(msg.UUID):
		cs.logger.Warn(consumerModule, "Email send failed, retrying", map[string]interface{}{
			"kind":  job.Kind,
			"error": err.Error(),
		})
		msg.Nack()
	default:
		cs.logger.Error(consumerModule, "Email send failed, giving up", map[string]interface{}{
			"kind":  job.Kind,
			"to":    job.To,
			"error": err.Error(),
		})
		msg.Ack()
	}
}

// retry counts a failed attempt and reports whether another one is allowed.
func (cs *consumerService) retry(id string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.attempts[id]++
	if cs.attempts[id] >= maxEmailAttempts {
		delete(cs.attempts, id)
		return false
	}
	return true
}

func (cs *consumerService) forget(id string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.attempts, id)
}
