package billing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// FallbackPeriod is the length assumed when the provider gives no period end.
const FallbackPeriod = 30 * 24 * time.Hour

// Ref is an expandable reference: either a bare id string or an embedded object with an "id".
type Ref struct {
	Id string
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		r.Id = ""
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.Id)
	}
	if data[0] == '{' {
		var obj struct {
			Id string `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		r.Id = obj.Id
		return nil
	}
	return fmt.Errorf("billing: unsupported reference %s", string(data))
}

func (r *Ref) ID() string {
	if r == nil {
		return ""
	}
	return r.Id
}

type PeriodSource string

const (
	PeriodFromSubscription PeriodSource = "subscription"
	PeriodFromItem         PeriodSource = "item"
	PeriodFromStartDate    PeriodSource = "start_date"
	PeriodFromNow          PeriodSource = "now"
)

// Period is a [Start, End) billing window. Source records which fallback produced it;
// anything other than subscription or item is an approximation.
type Period struct {
	Start  time.Time
	End    time.Time
	Source PeriodSource
}

func (p Period) Approximate() bool {
	return p.Source == PeriodFromStartDate || p.Source == PeriodFromNow
}

type periodFields struct {
	CurrentPeriodStart *int64 `json:"current_period_start"`
	CurrentPeriodEnd   *int64 `json:"current_period_end"`
}

func (f periodFields) complete() bool {
	return f.CurrentPeriodStart != nil && f.CurrentPeriodEnd != nil &&
		*f.CurrentPeriodStart > 0 && *f.CurrentPeriodEnd > 0
}

func (f periodFields) period(source PeriodSource) Period {
	return Period{
		Start:  time.Unix(*f.CurrentPeriodStart, 0).UTC(),
		End:    time.Unix(*f.CurrentPeriodEnd, 0).UTC(),
		Source: source,
	}
}

type SubscriptionPayload struct {
	Id                string            `json:"id"`
	Customer          Ref               `json:"customer"`
	Status            string            `json:"status"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
	StartDate         *int64            `json:"start_date"`
	Metadata          map[string]string `json:"metadata"`
	Items             struct {
		Data []periodFields `json:"data"`
	} `json:"items"`
	periodFields
}

// ResolvePeriod applies the fallback chain: subscription-level fields, then the first item,
// then start_date plus 30 days, then now plus 30 days.
func (p *SubscriptionPayload) ResolvePeriod(now time.Time) Period {
	if p.periodFields.complete() {
		return p.periodFields.period(PeriodFromSubscription)
	}
	if len(p.Items.Data) > 0 && p.Items.Data[0].complete() {
		return p.Items.Data[0].period(PeriodFromItem)
	}
	if p.StartDate != nil && *p.StartDate > 0 {
		start := time.Unix(*p.StartDate, 0).UTC()
		return Period{Start: start, End: start.Add(FallbackPeriod), Source: PeriodFromStartDate}
	}
	now = now.UTC()
	return Period{Start: now, End: now.Add(FallbackPeriod), Source: PeriodFromNow}
}

func (p *SubscriptionPayload) ToSubscription(now time.Time) *Subscription {
	return &Subscription{
		Id:                p.Id,
		CustomerId:        p.Customer.Id,
		Status:            p.Status,
		CancelAtPeriodEnd: p.CancelAtPeriodEnd,
		Period:            p.ResolvePeriod(now),
	}
}

type CheckoutSessionPayload struct {
	Id           string            `json:"id"`
	Mode         string            `json:"mode"`
	Customer     Ref               `json:"customer"`
	Subscription Ref               `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

type InvoicePayload struct {
	Id           string `json:"id"`
	Status       string `json:"status"`
	AmountPaid   int64  `json:"amount_paid"`
	AmountDue    int64  `json:"amount_due"`
	Currency     string `json:"currency"`
	Customer     Ref    `json:"customer"`
	Subscription *Ref   `json:"subscription"`
	Parent       *struct {
		SubscriptionDetails *struct {
			Subscription *Ref `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

// SubscriptionID finds the subscription reference wherever this API version put it.
func (p *InvoicePayload) SubscriptionID() string {
	if id := p.Subscription.ID(); id != "" {
		return id
	}
	if p.Parent != nil && p.Parent.SubscriptionDetails != nil {
		return p.Parent.SubscriptionDetails.Subscription.ID()
	}
	return ""
}

func (p *InvoicePayload) ToInvoice() *Invoice {
	return &Invoice{
		Id:             p.Id,
		SubscriptionId: p.SubscriptionID(),
		Status:         p.Status,
		AmountPaid:     p.AmountPaid,
		AmountDue:      p.AmountDue,
		Currency:       p.Currency,
	}
}

// Decode unmarshals an event's data.object into one of the payload types.
func Decode[T any](raw json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("billing: decode payload: %w", err)
	}
	return &out, nil
}
