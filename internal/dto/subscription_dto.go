package dto

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	ClassTypeId uuid.UUID `json:"classTypeId" validate:"required"`
}

type URLResponse struct {
	Url string `json:"url"`
}

type SubscriptionDTO struct {
	Id                 uuid.UUID     `json:"id"`
	ClassType          *ClassTypeRef `json:"classType,omitempty"`
	Status             string        `json:"status"`
	CurrentPeriodStart *time.Time    `json:"currentPeriodStart"`
	CurrentPeriodEnd   *time.Time    `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool          `json:"cancelAtPeriodEnd"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// PaymentDTO amounts are minor units, as billed.
type PaymentDTO struct {
	Id             uuid.UUID     `json:"id"`
	SubscriptionId uuid.UUID     `json:"subscriptionId"`
	ClassType      *ClassTypeRef `json:"classType,omitempty"`
	Amount         int64         `json:"amount"`
	Currency       string        `json:"currency"`
	Status         string        `json:"status"`
	PaidAt         *time.Time    `json:"paidAt"`
	CreatedAt      time.Time     `json:"createdAt"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}
