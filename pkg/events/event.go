package events

import (
	"context"
	"sync"
	"time"
)

// Domain event types. Each is published under the subject "events.<TYPE>".
const (
	SubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	SubscriptionCancelled = "SUBSCRIPTION_CANCELLED"
	SubscriptionPastDue   = "SUBSCRIPTION_PAST_DUE"
	PaymentSucceeded      = "PAYMENT_SUCCEEDED"
	PaymentFailed         = "PAYMENT_FAILED"
	ClassCancelled        = "CLASS_CANCELLED"
	UserRegistered        = "USER_REGISTERED"
)

// SubjectPrefix is prepended to the event type to form the bus subject.
const SubjectPrefix = "events."

// Event defines the contract for all system events.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops everything. Used when the bus is not reachable at startup.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType())
	}
	return out
}

func (r *Recorder) Last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}
