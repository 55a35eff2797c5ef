package service

import (
	"errors"
	"testing"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/memory"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing/billingtest"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReconciler(f *fixture) *webhookService {
	svc := NewWebhookService(f.store, f.provider, f.recorder, f.log).(*webhookService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func (f *fixture) checkoutEvent(eventId, stripeSubId string) []byte {
	return billingtest.Envelope(eventId, billing.EventCheckoutCompleted, map[string]interface{}{
		"id":           "cs_1",
		"mode":         "subscription",
		"customer":     "cus_1",
		"subscription": stripeSubId,
		"metadata": map[string]string{
			"userId":      f.user.Id.String(),
			"classTypeId": f.classType.Id.String(),
		},
	})
}

func invoiceEvent(eventId, eventType, invoiceId string, subscription interface{}, status string) []byte {
	return billingtest.Envelope(eventId, eventType, map[string]interface{}{
		"id":           invoiceId,
		"status":       status,
		"amount_paid":  15000,
		"amount_due":   15000,
		"currency":     "pln",
		"subscription": subscription,
	})
}

func subscriptionEvent(eventId, eventType, stripeSubId, status string, cancelAtPeriodEnd bool) []byte {
	return billingtest.Envelope(eventId, eventType, map[string]interface{}{
		"id":                   stripeSubId,
		"status":               status,
		"cancel_at_period_end": cancelAtPeriodEnd,
		"current_period_start": periodStart.Unix(),
		"current_period_end":   periodEnd.AddDate(0, 1, 0).Unix(),
	})
}

func TestHandleWebhook_CheckoutCompletedCreatesActiveSubscription(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	svc := newReconciler(f)

	require.NoError(t, svc.HandleWebhook(f.ctx, f.checkoutEvent("evt_1", "sub_1"), billingtest.ValidSignature))

	assert.Equal(t, 1, f.store.SubscriptionCount())
	sub := f.reload(t, "sub_1")
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.False(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, f.user.Id, sub.UserId)
	assert.Equal(t, f.classType.Id, sub.ClassTypeId)
	require.NotNil(t, sub.CurrentPeriodStart)
	assert.True(t, periodStart.Equal(*sub.CurrentPeriodStart))
	assert.True(t, periodEnd.Equal(*sub.CurrentPeriodEnd))
	require.NotNil(t, sub.StripeCustomerId)
	assert.Equal(t, "cus_1", *sub.StripeCustomerId)

	assert.Equal(t, []string{events.SubscriptionActivated}, f.recorder.Types())

	audit, ok := f.store.WebhookEvent("evt_1")
	require.True(t, ok)
	assert.Equal(t, entity.WebhookEventProcessed, audit.Status)
}

func TestHandleWebhook_CheckoutRedeliveryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	svc := newReconciler(f)
	body := f.checkoutEvent("evt_1", "sub_1")

	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))
	first := f.reload(t, "sub_1")

	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))
	second := f.reload(t, "sub_1")

	assert.Equal(t, 1, f.store.SubscriptionCount())
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	assert.Equal(t, []string{events.SubscriptionActivated}, f.recorder.Types())

	audit, _ := f.store.WebhookEvent("evt_1")
	assert.Equal(t, 2, audit.Attempts)
}

func TestHandleWebhook_CheckoutRecordsPaidFirstInvoice(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	f.provider.Invoices["sub_1"] = &billing.Invoice{Id: "in_1", SubscriptionId: "sub_1", Status: "paid", AmountPaid: 15000, Currency: "pln"}
	svc := newReconciler(f)

	require.NoError(t, svc.HandleWebhook(f.ctx, f.checkoutEvent("evt_1", "sub_1"), billingtest.ValidSignature))
	require.NoError(t, svc.HandleWebhook(f.ctx, f.checkoutEvent("evt_1", "sub_1"), billingtest.ValidSignature))

	assert.Equal(t, 1, f.store.PaymentCount())
	payment, err := f.store.NewUnitOfWork(f.ctx).PaymentRepository().FindByStripeInvoiceId(f.ctx, "in_1")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, int64(15000), payment.Amount)
	assert.Equal(t, entity.PaymentStatusPaid, payment.Status)
	assert.Equal(t, []string{events.SubscriptionActivated, events.PaymentSucceeded}, f.recorder.Types())
}

func TestHandleWebhook_CheckoutIgnoresUnpaidFirstInvoice(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	f.provider.Invoices["sub_1"] = &billing.Invoice{Id: "in_1", Status: "open", AmountDue: 15000}
	svc := newReconciler(f)

	require.NoError(t, svc.HandleWebhook(f.ctx, f.checkoutEvent("evt_1", "sub_1"), billingtest.ValidSignature))

	assert.Equal(t, 1, f.store.SubscriptionCount())
	assert.Equal(t, 0, f.store.PaymentCount())
}

func TestHandleWebhook_FirstPaymentFailureKeepsSubscription(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	f.provider.Invoices["sub_1"] = &billing.Invoice{Id: "in_1", Status: "paid", AmountPaid: 15000, Currency: "pln"}
	f.store.Fail(memory.FailPaymentCreate, errors.New("disk full"))
	svc := newReconciler(f)

	require.NoError(t, svc.HandleWebhook(f.ctx, f.checkoutEvent("evt_1", "sub_1"), billingtest.ValidSignature))

	assert.Equal(t, 1, f.store.SubscriptionCount())
	assert.Equal(t, 0, f.store.PaymentCount())
	assert.Equal(t, entity.SubscriptionStatusActive, f.reload(t, "sub_1").Status)
}

func TestHandleWebhook_CheckoutDropsIncompleteMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		subId    interface{}
	}{
		{name: "missing user", metadata: map[string]string{"classTypeId": "8a6e0804-2bd0-4672-b79d-d97027f9071a"}, subId: "sub_1"},
		{name: "garbage ids", metadata: map[string]string{"userId": "x", "classTypeId": "y"}, subId: "sub_1"},
		{name: "no subscription", metadata: nil, subId: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.remoteSubscription("sub_1")
			svc := newReconciler(f)
			body := billingtest.Envelope("evt_bad", billing.EventCheckoutCompleted, map[string]interface{}{
				"id":           "cs_1",
				"subscription": tt.subId,
				"metadata":     tt.metadata,
			})

			require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

			assert.Equal(t, 0, f.store.SubscriptionCount())
			audit, ok := f.store.WebhookEvent("evt_bad")
			require.True(t, ok)
			assert.Equal(t, entity.WebhookEventIgnored, audit.Status)
		})
	}
}

func TestHandleWebhook_CheckoutProviderFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	f.provider.Err = errors.New("connection reset")
	svc := newReconciler(f)

	err := svc.HandleWebhook(f.ctx, f.checkoutEvent("evt_1", "sub_1"), billingtest.ValidSignature)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindExternalService))
	assert.Equal(t, 0, f.store.SubscriptionCount())
	audit, _ := f.store.WebhookEvent("evt_1")
	assert.Equal(t, entity.WebhookEventFailed, audit.Status)
}

func TestHandleWebhook_InvoicePaidRenewsAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	f.localSubscription(t, "sub_1", entity.SubscriptionStatusPastDue)
	renewedEnd := periodEnd.AddDate(0, 1, 0)
	f.provider.Subscriptions["sub_1"].Period = billing.Period{Start: periodEnd, End: renewedEnd, Source: billing.PeriodFromItem}
	svc := newReconciler(f)

	// Newer API versions nest the subscription reference as an object.
	body := invoiceEvent("evt_2", billing.EventInvoicePaymentSucceeded, "in_2", map[string]string{"id": "sub_1"}, "paid")
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

	sub := f.reload(t, "sub_1")
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.True(t, renewedEnd.Equal(*sub.CurrentPeriodEnd))

	assert.Equal(t, 1, f.store.PaymentCount())
	payment, err := f.store.NewUnitOfWork(f.ctx).PaymentRepository().FindByStripeInvoiceId(f.ctx, "in_2")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, entity.PaymentStatusPaid, payment.Status)
	require.NotNil(t, payment.PaidAt)
	assert.True(t, fixedNow.Equal(*payment.PaidAt))

	assert.Equal(t, []string{events.PaymentSucceeded, events.SubscriptionActivated}, f.recorder.Types())
}

func TestHandleWebhook_InvoicePaidResolvesParentReference(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	f.localSubscription(t, "sub_1", entity.SubscriptionStatusActive)
	svc := newReconciler(f)

	body := billingtest.Envelope("evt_3", billing.EventInvoicePaymentSucceeded, map[string]interface{}{
		"id":          "in_3",
		"status":      "paid",
		"amount_paid": 15000,
		"currency":    "pln",
		"parent": map[string]interface{}{
			"subscription_details": map[string]interface{}{"subscription": "sub_1"},
		},
	})
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

	assert.Equal(t, 1, f.store.PaymentCount())
	assert.Equal(t, []string{events.PaymentSucceeded}, f.recorder.Types())
}

func TestHandleWebhook_InvoicePaidPartialFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	f.localSubscription(t, "sub_1", entity.SubscriptionStatusPastDue)
	f.store.Fail(memory.FailPaymentCreate, errors.New("disk full"))
	svc := newReconciler(f)

	body := invoiceEvent("evt_2", billing.EventInvoicePaymentSucceeded, "in_2", "sub_1", "paid")
	require.Error(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

	assert.Equal(t, entity.SubscriptionStatusPastDue, f.reload(t, "sub_1").Status)
	assert.Empty(t, f.recorder.Types())

	// Redelivery after recovery applies the whole event.
	f.store.Fail(memory.FailPaymentCreate, nil)
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))
	assert.Equal(t, entity.SubscriptionStatusActive, f.reload(t, "sub_1").Status)
	assert.Equal(t, 1, f.store.PaymentCount())
}

func TestHandleWebhook_InvoiceDropsUnrelatedOrUnknown(t *testing.T) {
	tests := []struct {
		name         string
		subscription interface{}
	}{
		{name: "no subscription reference", subscription: nil},
		{name: "unknown subscription", subscription: "sub_missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := newReconciler(f)

			body := invoiceEvent("evt_x", billing.EventInvoicePaymentSucceeded, "in_x", tt.subscription, "paid")
			require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

			assert.Equal(t, 0, f.store.PaymentCount())
			audit, _ := f.store.WebhookEvent("evt_x")
			assert.Equal(t, entity.WebhookEventIgnored, audit.Status)
		})
	}
}

func TestHandleWebhook_InvoiceFailedMarksPastDue(t *testing.T) {
	f := newFixture(t)
	sub := f.localSubscription(t, "sub_1", entity.SubscriptionStatusActive)
	sub.CancelAtPeriodEnd = true
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).SubscriptionRepository().Update(f.ctx, sub))
	svc := newReconciler(f)

	body := invoiceEvent("evt_4", billing.EventInvoicePaymentFailed, "in_4", "sub_1", "open")
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

	reloaded := f.reload(t, "sub_1")
	assert.Equal(t, entity.SubscriptionStatusPastDue, reloaded.Status)
	assert.False(t, reloaded.CancelAtPeriodEnd)

	payments, err := f.store.NewUnitOfWork(f.ctx).PaymentRepository().FindBySubscription(f.ctx, reloaded.Id)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, entity.PaymentStatusFailed, payments[0].Status)
	assert.Equal(t, int64(15000), payments[0].Amount)
	assert.Nil(t, payments[0].PaidAt)

	assert.Equal(t, []string{events.PaymentFailed, events.SubscriptionPastDue}, f.recorder.Types())
}

func TestHandleWebhook_SubscriptionDeletedThenStaleUpdate(t *testing.T) {
	f := newFixture(t)
	f.localSubscription(t, "sub_1", entity.SubscriptionStatusActive)
	svc := newReconciler(f)

	deleted := subscriptionEvent("evt_5", billing.EventSubscriptionDeleted, "sub_1", "canceled", false)
	require.NoError(t, svc.HandleWebhook(f.ctx, deleted, billingtest.ValidSignature))
	assert.Equal(t, entity.SubscriptionStatusCancelled, f.reload(t, "sub_1").Status)

	// A late update is applied per the status mapping.
	stale := subscriptionEvent("evt_6", billing.EventSubscriptionUpdated, "sub_1", "active", false)
	require.NoError(t, svc.HandleWebhook(f.ctx, stale, billingtest.ValidSignature))
	assert.Equal(t, entity.SubscriptionStatusActive, f.reload(t, "sub_1").Status)

	assert.Equal(t, []string{events.SubscriptionCancelled, events.SubscriptionActivated}, f.recorder.Types())
}

func TestHandleWebhook_SubscriptionUpdatedAppliesFlagAndPeriod(t *testing.T) {
	f := newFixture(t)
	f.localSubscription(t, "sub_1", entity.SubscriptionStatusActive)
	svc := newReconciler(f)

	body := subscriptionEvent("evt_7", billing.EventSubscriptionUpdated, "sub_1", "active", true)
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

	sub := f.reload(t, "sub_1")
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.True(t, periodEnd.AddDate(0, 1, 0).Equal(*sub.CurrentPeriodEnd))
	assert.Empty(t, f.recorder.Types())
}

func TestHandleWebhook_SubscriptionUpdatedUnknownStatusKeepsLocal(t *testing.T) {
	f := newFixture(t)
	f.localSubscription(t, "sub_1", entity.SubscriptionStatusPastDue)
	svc := newReconciler(f)

	body := subscriptionEvent("evt_8", billing.EventSubscriptionUpdated, "sub_1", "trialing", false)
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

	assert.Equal(t, entity.SubscriptionStatusPastDue, f.reload(t, "sub_1").Status)
}

func TestHandleWebhook_SubscriptionUpdatedFallsBackToNow(t *testing.T) {
	f := newFixture(t)
	f.localSubscription(t, "sub_1", entity.SubscriptionStatusActive)
	svc := newReconciler(f)

	body := billingtest.Envelope("evt_9", billing.EventSubscriptionUpdated, map[string]interface{}{
		"id":     "sub_1",
		"status": "active",
	})
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

	sub := f.reload(t, "sub_1")
	assert.True(t, fixedNow.Equal(*sub.CurrentPeriodStart))
	assert.True(t, fixedNow.Add(billing.FallbackPeriod).Equal(*sub.CurrentPeriodEnd))
}

func TestHandleWebhook_UnknownTypeIsAcknowledged(t *testing.T) {
	f := newFixture(t)
	svc := newReconciler(f)

	body := billingtest.Envelope("evt_10", "customer.created", map[string]string{"id": "cus_9"})
	require.NoError(t, svc.HandleWebhook(f.ctx, body, billingtest.ValidSignature))

	audit, ok := f.store.WebhookEvent("evt_10")
	require.True(t, ok)
	assert.Equal(t, entity.WebhookEventIgnored, audit.Status)
}

func TestHandleWebhook_BadSignatureTouchesNothing(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	svc := newReconciler(f)

	err := svc.HandleWebhook(f.ctx, f.checkoutEvent("evt_1", "sub_1"), "t=1,v1=forged")

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindSignature))
	assert.Equal(t, 0, f.store.SubscriptionCount())
	_, recorded := f.store.WebhookEvent("evt_1")
	assert.False(t, recorded)
}

func TestHandleWebhook_PublishFailureDoesNotFailDelivery(t *testing.T) {
	f := newFixture(t)
	f.remoteSubscription("sub_1")
	f.recorder.Err = errors.New("nats down")
	svc := newReconciler(f)

	require.NoError(t, svc.HandleWebhook(f.ctx, f.checkoutEvent("evt_1", "sub_1"), billingtest.ValidSignature))
	assert.Equal(t, 1, f.store.SubscriptionCount())
}

func TestMapProviderStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   entity.SubscriptionStatus
		mapped bool
	}{
		{in: "active", want: entity.SubscriptionStatusActive, mapped: true},
		{in: "past_due", want: entity.SubscriptionStatusPastDue, mapped: true},
		{in: "unpaid", want: entity.SubscriptionStatusPastDue, mapped: true},
		{in: "canceled", want: entity.SubscriptionStatusCancelled, mapped: true},
		{in: "incomplete", mapped: false},
		{in: "trialing", mapped: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := MapProviderStatus(tt.in)
			assert.Equal(t, tt.mapped, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
