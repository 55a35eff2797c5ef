// Package stripe adapts stripe-go to billing.Provider.
package stripe

import (
	"context"
	"encoding/json"
	"time"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing"
)

type Provider struct {
	api           *client.API
	secretKey     string
	webhookSecret string
	now           func() time.Time
}

// NewProvider builds a provider using the default Stripe backends.
func NewProvider(secretKey, webhookSecret string) *Provider {
	return NewProviderWithBackends(secretKey, webhookSecret, nil)
}

// NewProviderWithBackends lets tests point the SDK at a local server.
func NewProviderWithBackends(secretKey, webhookSecret string, backends *stripego.Backends) *Provider {
	return &Provider{
		api:           client.New(secretKey, backends),
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

func (p *Provider) configured() error {
	if p.secretKey == "" {
		return apperror.Configuration("Payment provider is not configured")
	}
	return nil
}

func (p *Provider) FindCustomerByEmail(ctx context.Context, email string) (*billing.Customer, error) {
	if err := p.configured(); err != nil {
		return nil, err
	}
	params := &stripego.CustomerListParams{Email: stripego.String(email)}
	params.Context = ctx
	params.Limit = stripego.Int64(1)

	iter := p.api.Customers.List(params)
	for iter.Next() {
		c := iter.Customer()
		return &billing.Customer{Id: c.ID, Email: c.Email}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (p *Provider) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*billing.Customer, error) {
	if err := p.configured(); err != nil {
		return nil, err
	}
	params := &stripego.CustomerParams{
		Email: stripego.String(email),
		Name:  stripego.String(name),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	c, err := p.api.Customers.New(params)
	if err != nil {
		return nil, err
	}
	return &billing.Customer{Id: c.ID, Email: c.Email}, nil
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (string, error) {
	if err := p.configured(); err != nil {
		return "", err
	}
	params := &stripego.CheckoutSessionParams{
		Customer:           stripego.String(req.CustomerId),
		Mode:               stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Price:    stripego.String(req.PriceId),
				Quantity: stripego.Int64(1),
			},
		},
		SuccessURL: stripego.String(req.SuccessURL),
		CancelURL:  stripego.String(req.CancelURL),
		SubscriptionData: &stripego.CheckoutSessionSubscriptionDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (p *Provider) GetSubscription(ctx context.Context, id string) (*billing.Subscription, error) {
	if err := p.configured(); err != nil {
		return nil, err
	}
	params := &stripego.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, err
	}
	return p.toSubscription(sub)
}

func (p *Provider) SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) (*billing.Subscription, error) {
	if err := p.configured(); err != nil {
		return nil, err
	}
	params := &stripego.SubscriptionParams{CancelAtPeriodEnd: stripego.Bool(cancel)}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Update(id, params)
	if err != nil {
		return nil, err
	}
	return p.toSubscription(sub)
}

// toSubscription reads the raw response so period fields are found no matter which
// API version placed them at the subscription or the item level.
func (p *Provider) toSubscription(sub *stripego.Subscription) (*billing.Subscription, error) {
	var raw []byte
	if sub.LastResponse != nil {
		raw = sub.LastResponse.RawJSON
	}
	if len(raw) == 0 {
		var err error
		if raw, err = json.Marshal(sub); err != nil {
			return nil, err
		}
	}
	payload, err := billing.Decode[billing.SubscriptionPayload](raw)
	if err != nil {
		return nil, err
	}
	return payload.ToSubscription(p.now()), nil
}

func (p *Provider) LatestInvoice(ctx context.Context, subscriptionId string) (*billing.Invoice, error) {
	if err := p.configured(); err != nil {
		return nil, err
	}
	params := &stripego.InvoiceListParams{Subscription: stripego.String(subscriptionId)}
	params.Context = ctx
	params.Limit = stripego.Int64(1)

	iter := p.api.Invoices.List(params)
	for iter.Next() {
		inv := iter.Invoice()
		return &billing.Invoice{
			Id:             inv.ID,
			SubscriptionId: subscriptionId,
			Status:         string(inv.Status),
			AmountPaid:     inv.AmountPaid,
			AmountDue:      inv.AmountDue,
			Currency:       string(inv.Currency),
		}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (p *Provider) CreatePortalSession(ctx context.Context, customerId, returnURL string) (string, error) {
	if err := p.configured(); err != nil {
		return "", err
	}
	params := &stripego.BillingPortalSessionParams{
		Customer:  stripego.String(customerId),
		ReturnURL: stripego.String(returnURL),
	}
	params.Context = ctx

	s, err := p.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (p *Provider) CreateMonthlyPrice(ctx context.Context, productName string, amountMinor int64, currency string) (string, error) {
	if err := p.configured(); err != nil {
		return "", err
	}
	params := &stripego.PriceParams{
		Currency:   stripego.String(currency),
		UnitAmount: stripego.Int64(amountMinor),
		Recurring: &stripego.PriceRecurringParams{
			Interval: stripego.String(string(stripego.PriceRecurringIntervalMonth)),
		},
		ProductData: &stripego.PriceProductDataParams{
			Name: stripego.String(productName),
		},
	}
	params.Context = ctx

	price, err := p.api.Prices.New(params)
	if err != nil {
		return "", err
	}
	return price.ID, nil
}

func (p *Provider) ConstructEvent(payload []byte, signature string) (*billing.Event, error) {
	if p.webhookSecret == "" {
		return nil, apperror.Configuration("Webhook secret is not configured")
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, apperror.WrapSignature("Invalid webhook signature", err)
	}

	var object json.RawMessage
	if event.Data != nil {
		object = event.Data.Raw
	}
	return &billing.Event{Id: event.ID, Type: string(event.Type), Object: object}, nil
}
