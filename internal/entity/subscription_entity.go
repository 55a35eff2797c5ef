package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type PaymentStatus string

const (
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled  SubscriptionStatus = "cancelled"
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"

	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Subscription struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	ClassTypeId          uuid.UUID
	StripeSubscriptionId *string
	StripeCustomerId     *string
	Status               SubscriptionStatus
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool
	CreatedAt            time.Time
	UpdatedAt            time.Time

	ClassType *ClassType
	User      *User
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

func (s *Subscription) SetPeriod(start, end time.Time) {
	s.CurrentPeriodStart = &start
	s.CurrentPeriodEnd = &end
}

// Payment amounts are in the currency's minor unit, exactly as the provider reports them.
type Payment struct {
	Id              uuid.UUID
	SubscriptionId  uuid.UUID
	StripeInvoiceId *string
	Amount          int64
	Currency        string
	Status          PaymentStatus
	PaidAt          *time.Time
	CreatedAt       time.Time

	Subscription *Subscription
}
