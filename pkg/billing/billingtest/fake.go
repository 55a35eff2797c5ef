// Package billingtest provides an in-memory billing.Provider for service tests.
package billingtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing"
)

var ErrBadSignature = errors.New("billingtest: bad signature")

// ValidSignature is the only signature header Fake.ConstructEvent accepts.
const ValidSignature = "t=1,v1=valid"

type Fake struct {
	mu sync.Mutex

	Customers     map[string]*billing.Customer // by email
	Subscriptions map[string]*billing.Subscription
	Invoices      map[string]*billing.Invoice // latest invoice by subscription id
	Checkouts     []billing.CheckoutRequest
	CancelCalls   []string
	Prices        []string

	// Err, when set, is returned from every outbound call.
	Err error

	seq int
}

func NewFake() *Fake {
	return &Fake{
		Customers:     make(map[string]*billing.Customer),
		Subscriptions: make(map[string]*billing.Subscription),
		Invoices:      make(map[string]*billing.Invoice),
	}
}

func (f *Fake) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s_%d", prefix, f.seq)
}

func (f *Fake) FindCustomerByEmail(_ context.Context, email string) (*billing.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Customers[email], nil
}

func (f *Fake) CreateCustomer(_ context.Context, email, _ string, _ map[string]string) (*billing.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c := &billing.Customer{Id: f.next("cus"), Email: email}
	f.Customers[email] = c
	return c, nil
}

func (f *Fake) CreateCheckoutSession(_ context.Context, req billing.CheckoutRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.Checkouts = append(f.Checkouts, req)
	return "https://checkout.test/" + f.next("cs"), nil
}

func (f *Fake) GetSubscription(_ context.Context, id string) (*billing.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	sub, ok := f.Subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("billingtest: no such subscription %s", id)
	}
	copied := *sub
	return &copied, nil
}

func (f *Fake) SetCancelAtPeriodEnd(_ context.Context, id string, cancel bool) (*billing.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	sub, ok := f.Subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("billingtest: no such subscription %s", id)
	}
	sub.CancelAtPeriodEnd = cancel
	f.CancelCalls = append(f.CancelCalls, fmt.Sprintf("%s:%t", id, cancel))
	copied := *sub
	return &copied, nil
}

func (f *Fake) LatestInvoice(_ context.Context, subscriptionId string) (*billing.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	inv, ok := f.Invoices[subscriptionId]
	if !ok {
		return nil, nil
	}
	copied := *inv
	return &copied, nil
}

func (f *Fake) CreatePortalSession(_ context.Context, customerId, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return "https://portal.test/" + customerId, nil
}

func (f *Fake) CreateMonthlyPrice(_ context.Context, productName string, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.Prices = append(f.Prices, productName)
	return f.next("price"), nil
}

func (f *Fake) ConstructEvent(payload []byte, signature string) (*billing.Event, error) {
	if signature != ValidSignature {
		return nil, ErrBadSignature
	}
	var envelope struct {
		Id   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, err
	}
	return &billing.Event{Id: envelope.Id, Type: envelope.Type, Object: envelope.Data.Object}, nil
}

// Envelope builds a webhook body in the provider's wire shape.
func Envelope(id, eventType string, object interface{}) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"id":     id,
		"object": "event",
		"type":   eventType,
		"data":   map[string]interface{}{"object": object},
	})
	return body
}
