// Package billing is the boundary to the subscription billing provider.
// Everything outside this package speaks in these types, never in provider SDK types.
package billing

import (
	"context"
	"encoding/json"
)

// Provider event types the reconciler understands. Anything else is acknowledged and ignored.
const (
	EventCheckoutCompleted       = "checkout.session.completed"
	EventInvoicePaymentSucceeded = "invoice.payment_succeeded"
	EventInvoicePaymentFailed    = "invoice.payment_failed"
	EventSubscriptionDeleted     = "customer.subscription.deleted"
	EventSubscriptionUpdated     = "customer.subscription.updated"
)

const InvoiceStatusPaid = "paid"

type Customer struct {
	Id    string
	Email string
}

type CheckoutRequest struct {
	CustomerId string
	PriceId    string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Subscription is the provider's authoritative view of a subscription.
type Subscription struct {
	Id                string
	CustomerId        string
	Status            string
	CancelAtPeriodEnd bool
	Period            Period
}

type Invoice struct {
	Id             string
	SubscriptionId string
	Status         string
	AmountPaid     int64
	AmountDue      int64
	Currency       string
}

// Event is a verified webhook delivery. Object holds the raw data.object JSON.
type Event struct {
	Id     string
	Type   string
	Object json.RawMessage
}

type Provider interface {
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*Customer, error)
	// CreateCheckoutSession returns the hosted checkout URL.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) (*Subscription, error)
	// LatestInvoice returns nil when the subscription has no invoices yet.
	LatestInvoice(ctx context.Context, subscriptionId string) (*Invoice, error)
	CreatePortalSession(ctx context.Context, customerId, returnURL string) (string, error)
	CreateMonthlyPrice(ctx context.Context, productName string, amountMinor int64, currency string) (string, error)
	// ConstructEvent verifies the signature header and decodes the envelope.
	ConstructEvent(payload []byte, signature string) (*Event, error)
}
