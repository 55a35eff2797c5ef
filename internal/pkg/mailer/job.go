package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	JobWelcome            = "welcome"
	JobTrainerCredentials = "trainer_credentials"
	JobPaymentFailed      = "payment_failed"
)

var ErrUnknownJob = errors.New("mailer: unknown job kind")

// Job is the message body on the email topic.
type Job struct {
	Kind string            `json:"kind"`
	To   string            `json:"to"`
	Name string            `json:"name"`
	Data map[string]string `json:"data,omitempty"`
}

// Deliver routes a job to the matching send method.
func Deliver(svc IEmailService, job Job) error {
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrUnknownJob)
	}
	switch job.Kind {
	case JobWelcome:
		return svc.SendWelcome(job.To, job.Name)
	case JobTrainerCredentials:
		return svc.SendTrainerCredentials(job.To, job.Name, job.Data["password"])
	case JobPaymentFailed:
		return svc.SendPaymentFailed(job.To, job.Name, job.Data["class_name"])
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, job.Kind)
	}
}

type IQueue interface {
	Enqueue(ctx context.Context, job Job) error
}

type queue struct {
	publisher message.Publisher
	topic     string
}

func NewQueue(publisher message.Publisher, topic string) IQueue {
	return &queue{publisher: publisher, topic: topic}
}

func (q *queue) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("kind", job.Kind)
	return q.publisher.Publish(q.topic, msg)
}
