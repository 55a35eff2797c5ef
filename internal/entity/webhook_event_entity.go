package entity

import "time"

type WebhookEventStatus string

const (
	WebhookEventProcessed WebhookEventStatus = "processed"
	WebhookEventIgnored   WebhookEventStatus = "ignored"
	WebhookEventFailed    WebhookEventStatus = "failed"
)

// WebhookEvent is the audit trail of provider deliveries, one row per provider event id.
type WebhookEvent struct {
	EventId     string
	Type        string
	Payload     []byte
	Status      WebhookEventStatus
	Error       string
	Attempts    int
	ProcessedAt time.Time
}
