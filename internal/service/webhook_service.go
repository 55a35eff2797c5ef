package service

import (
	"context"
	"errors"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"

	"github.com/google/uuid"
)

const webhookModule = "WebhookReconciler"

// errDropped marks an event that can never be processed. It is acknowledged, not retried.
var errDropped = errors.New("event dropped")

// IWebhookService is the only writer of subscription and payment state driven by the provider.
type IWebhookService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type webhookService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   billing.Provider
	publisher  events.Publisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewWebhookService(uowFactory unitofwork.RepositoryFactory, provider billing.Provider, publisher events.Publisher, log logger.ILogger) IWebhookService {
	return &webhookService{
		uowFactory: uowFactory,
		provider:   provider,
		publisher:  publisher,
		logger:     log,
		now:        time.Now,
	}
}

func (s *webhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ConstructEvent(payload, signature)
	if err != nil {
		if apperror.KindOf(err) != "" {
			return err
		}
		return apperror.WrapSignature("Invalid webhook signature", err)
	}

	status, err := s.dispatch(ctx, event)
	if errors.Is(err, errDropped) {
		status, err = entity.WebhookEventIgnored, nil
	}
	s.audit(ctx, event, payload, status, err)

	if err != nil {
		s.logger.Error(webhookModule, "Webhook processing failed", map[string]interface{}{
			"event_id": event.Id,
			"type":     event.Type,
			"error":    err.Error(),
		})
		return err
	}
	return nil
}

func (s *webhookService) dispatch(ctx context.Context, event *billing.Event) (entity.WebhookEventStatus, error) {
	var err error
	switch event.Type {
	case billing.EventCheckoutCompleted:
		err = s.handleCheckoutCompleted(ctx, event)
	case billing.EventInvoicePaymentSucceeded:
		err = s.handleInvoicePaid(ctx, event)
	case billing.EventInvoicePaymentFailed:
		err = s.handleInvoiceFailed(ctx, event)
	case billing.EventSubscriptionDeleted:
		err = s.handleSubscriptionDeleted(ctx, event)
	case billing.EventSubscriptionUpdated:
		err = s.handleSubscriptionUpdated(ctx, event)
	default:
		s.logger.Debug(webhookModule, "Ignoring unhandled event type", map[string]interface{}{"event_id": event.Id, "type": event.Type})
		return entity.WebhookEventIgnored, nil
	}
	if err != nil {
		return entity.WebhookEventFailed, err
	}
	return entity.WebhookEventProcessed, nil
}

func (s *webhookService) drop(event *billing.Event, reason string, details map[string]interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["event_id"] = event.Id
	details["type"] = event.Type
	s.logger.Warn(webhookModule, reason, details)
	return errDropped
}

func (s *webhookService) audit(ctx context.Context, event *billing.Event, payload []byte, status entity.WebhookEventStatus, procErr error) {
	record := &entity.WebhookEvent{
		EventId:     event.Id,
		Type:        event.Type,
		Payload:     payload,
		Status:      status,
		ProcessedAt: s.now(),
	}
	if procErr != nil {
		record.Error = procErr.Error()
	}
	if err := s.uowFactory.NewUnitOfWork(ctx).WebhookEventRepository().Record(ctx, record); err != nil {
		s.logger.Warn(webhookModule, "Failed to record webhook event", map[string]interface{}{"event_id": event.Id, "error": err.Error()})
	}
}

func (s *webhookService) handleCheckoutCompleted(ctx context.Context, event *billing.Event) error {
	session, err := billing.Decode[billing.CheckoutSessionPayload](event.Object)
	if err != nil {
		return s.drop(event, "Malformed checkout session payload", map[string]interface{}{"error": err.Error()})
	}

	userId, userErr := uuid.Parse(session.Metadata["userId"])
	classTypeId, classErr := uuid.Parse(session.Metadata["classTypeId"])
	stripeSubId := session.Subscription.Id
	if userErr != nil || classErr != nil || stripeSubId == "" {
		return s.drop(event, "Checkout session is missing userId, classTypeId or subscription", map[string]interface{}{
			"session_id": session.Id,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return err
	}
	classType, err := uow.ClassTypeRepository().FindById(ctx, classTypeId)
	if err != nil {
		return err
	}
	if user == nil || classType == nil {
		return s.drop(event, "Checkout session references an unknown user or class type", map[string]interface{}{
			"user_id":       userId.String(),
			"class_type_id": classTypeId.String(),
		})
	}

	remote, err := s.provider.GetSubscription(ctx, stripeSubId)
	if err != nil {
		return providerError(err)
	}

	customerId := session.Customer.Id
	if customerId == "" {
		customerId = remote.CustomerId
	}
	sub := &entity.Subscription{
		UserId:               userId,
		ClassTypeId:          classTypeId,
		StripeSubscriptionId: &stripeSubId,
		Status:               entity.SubscriptionStatusActive,
		CancelAtPeriodEnd:    false,
	}
	if customerId != "" {
		sub.StripeCustomerId = &customerId
	}
	sub.SetPeriod(remote.Period.Start, remote.Period.End)
	if remote.Period.Approximate() {
		s.logger.Warn(webhookModule, "Billing period approximated", map[string]interface{}{
			"stripe_subscription_id": stripeSubId,
			"source":                 string(remote.Period.Source),
		})
	}

	created, err := uow.SubscriptionRepository().CreateIfAbsent(ctx, sub)
	if err != nil {
		return err
	}
	if created {
		sub.ClassType = classType
		s.logger.Info(webhookModule, "Subscription activated", map[string]interface{}{
			"subscription_id":        sub.Id.String(),
			"stripe_subscription_id": stripeSubId,
		})
		publishEvent(ctx, s.publisher, s.logger, events.SubscriptionActivated, subscriptionEventData(sub, classType.Name))
	} else {
		s.logger.Info(webhookModule, "Duplicate checkout completion", map[string]interface{}{"stripe_subscription_id": stripeSubId})
	}

	// Best effort. The subscription is already durable.
	s.recordFirstPayment(ctx, sub, classType.Name)
	return nil
}

func (s *webhookService) recordFirstPayment(ctx context.Context, sub *entity.Subscription, className string) {
	details := map[string]interface{}{"subscription_id": sub.Id.String()}

	invoice, err := s.provider.LatestInvoice(ctx, *sub.StripeSubscriptionId)
	if err != nil {
		details["error"] = err.Error()
		s.logger.Warn(webhookModule, "Could not fetch first invoice", details)
		return
	}
	if invoice == nil || invoice.Status != billing.InvoiceStatusPaid {
		return
	}

	paidAt := s.now()
	payment := &entity.Payment{
		SubscriptionId:  sub.Id,
		StripeInvoiceId: &invoice.Id,
		Amount:          invoice.AmountPaid,
		Currency:        invoice.Currency,
		Status:          entity.PaymentStatusPaid,
		PaidAt:          &paidAt,
	}
	created, err := s.uowFactory.NewUnitOfWork(ctx).PaymentRepository().CreateIfAbsent(ctx, payment)
	if err != nil {
		details["error"] = err.Error()
		s.logger.Error(webhookModule, "Failed to record first payment", details)
		return
	}
	if created {
		publishEvent(ctx, s.publisher, s.logger, events.PaymentSucceeded, paymentEventData(sub, payment, className))
	}
}

// resolveInvoice finds the local subscription an invoice event refers to.
func (s *webhookService) resolveInvoice(ctx context.Context, uow unitofwork.UnitOfWork, event *billing.Event) (*billing.InvoicePayload, *entity.Subscription, error) {
	invoice, err := billing.Decode[billing.InvoicePayload](event.Object)
	if err != nil {
		return nil, nil, s.drop(event, "Malformed invoice payload", map[string]interface{}{"error": err.Error()})
	}
	stripeSubId := invoice.SubscriptionID()
	if stripeSubId == "" {
		return nil, nil, s.drop(event, "Invoice is not subscription related", map[string]interface{}{"invoice_id": invoice.Id})
	}
	sub, err := uow.SubscriptionRepository().FindByStripeSubscriptionId(ctx, stripeSubId)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, s.drop(event, "Invoice for unknown subscription", map[string]interface{}{
			"invoice_id":             invoice.Id,
			"stripe_subscription_id": stripeSubId,
		})
	}
	return invoice, sub, nil
}

func (s *webhookService) handleInvoicePaid(ctx context.Context, event *billing.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoice, sub, err := s.resolveInvoice(ctx, uow, event)
	if err != nil {
		return err
	}

	// The invoice may carry no period data, so the provider's subscription is the source of truth.
	remote, err := s.provider.GetSubscription(ctx, *sub.StripeSubscriptionId)
	if err != nil {
		return providerError(err)
	}

	previous := sub.Status
	applyStatus(sub, entity.SubscriptionStatusActive)
	sub.SetPeriod(remote.Period.Start, remote.Period.End)

	paidAt := s.now()
	payment := &entity.Payment{
		SubscriptionId: sub.Id,
		Amount:         invoice.AmountPaid,
		Currency:       invoice.Currency,
		Status:         entity.PaymentStatusPaid,
		PaidAt:         &paidAt,
	}
	if invoice.Id != "" {
		payment.StripeInvoiceId = &invoice.Id
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}
	created, err := uow.PaymentRepository().CreateIfAbsent(ctx, payment)
	if err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	className := classNameOf(sub)
	if created {
		publishEvent(ctx, s.publisher, s.logger, events.PaymentSucceeded, paymentEventData(sub, payment, className))
	}
	if previous != entity.SubscriptionStatusActive {
		publishEvent(ctx, s.publisher, s.logger, events.SubscriptionActivated, subscriptionEventData(sub, className))
	}
	return nil
}

func (s *webhookService) handleInvoiceFailed(ctx context.Context, event *billing.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	invoice, sub, err := s.resolveInvoice(ctx, uow, event)
	if err != nil {
		return err
	}

	previous := sub.Status
	applyStatus(sub, entity.SubscriptionStatusPastDue)

	payment := &entity.Payment{
		SubscriptionId: sub.Id,
		Amount:         invoice.AmountDue,
		Currency:       invoice.Currency,
		Status:         entity.PaymentStatusFailed,
	}
	if invoice.Id != "" {
		payment.StripeInvoiceId = &invoice.Id
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}
	created, err := uow.PaymentRepository().CreateIfAbsent(ctx, payment)
	if err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	className := classNameOf(sub)
	if created {
		publishEvent(ctx, s.publisher, s.logger, events.PaymentFailed, paymentEventData(sub, payment, className))
	}
	if previous != entity.SubscriptionStatusPastDue {
		publishEvent(ctx, s.publisher, s.logger, events.SubscriptionPastDue, subscriptionEventData(sub, className))
	}
	return nil
}

func (s *webhookService) resolveSubscription(ctx context.Context, uow unitofwork.UnitOfWork, event *billing.Event) (*billing.SubscriptionPayload, *entity.Subscription, error) {
	payload, err := billing.Decode[billing.SubscriptionPayload](event.Object)
	if err != nil {
		return nil, nil, s.drop(event, "Malformed subscription payload", map[string]interface{}{"error": err.Error()})
	}
	if payload.Id == "" {
		return nil, nil, s.drop(event, "Subscription payload has no id", nil)
	}
	sub, err := uow.SubscriptionRepository().FindByStripeSubscriptionId(ctx, payload.Id)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, s.drop(event, "Event for unknown subscription", map[string]interface{}{"stripe_subscription_id": payload.Id})
	}
	return payload, sub, nil
}

func (s *webhookService) handleSubscriptionDeleted(ctx context.Context, event *billing.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	_, sub, err := s.resolveSubscription(ctx, uow, event)
	if err != nil {
		return err
	}

	previous := sub.Status
	applyStatus(sub, entity.SubscriptionStatusCancelled)
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	if previous != entity.SubscriptionStatusCancelled {
		publishEvent(ctx, s.publisher, s.logger, events.SubscriptionCancelled, subscriptionEventData(sub, classNameOf(sub)))
	}
	return nil
}

// handleSubscriptionUpdated applies the provider's view as is. A stale update can revive a cancelled row.
func (s *webhookService) handleSubscriptionUpdated(ctx context.Context, event *billing.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	payload, sub, err := s.resolveSubscription(ctx, uow, event)
	if err != nil {
		return err
	}

	previous := sub.Status
	sub.CancelAtPeriodEnd = payload.CancelAtPeriodEnd
	status := sub.Status
	if mapped, ok := MapProviderStatus(payload.Status); ok {
		status = mapped
	}
	applyStatus(sub, status)

	period := payload.ResolvePeriod(s.now())
	sub.SetPeriod(period.Start, period.End)

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	if sub.Status != previous {
		className := classNameOf(sub)
		switch sub.Status {
		case entity.SubscriptionStatusCancelled:
			publishEvent(ctx, s.publisher, s.logger, events.SubscriptionCancelled, subscriptionEventData(sub, className))
		case entity.SubscriptionStatusPastDue:
			publishEvent(ctx, s.publisher, s.logger, events.SubscriptionPastDue, subscriptionEventData(sub, className))
		case entity.SubscriptionStatusActive:
			publishEvent(ctx, s.publisher, s.logger, events.SubscriptionActivated, subscriptionEventData(sub, className))
		}
	}
	return nil
}

// MapProviderStatus returns false for statuses that should leave the local one unchanged.
func MapProviderStatus(status string) (entity.SubscriptionStatus, bool) {
	switch status {
	case "active":
		return entity.SubscriptionStatusActive, true
	case "past_due", "unpaid":
		return entity.SubscriptionStatusPastDue, true
	case "canceled":
		return entity.SubscriptionStatusCancelled, true
	}
	return "", false
}

// applyStatus keeps cancel-at-period-end meaningful only while active.
func applyStatus(sub *entity.Subscription, status entity.SubscriptionStatus) {
	sub.Status = status
	if status != entity.SubscriptionStatusActive {
		sub.CancelAtPeriodEnd = false
	}
}

func classNameOf(sub *entity.Subscription) string {
	if sub.ClassType != nil {
		return sub.ClassType.Name
	}
	return ""
}

func subscriptionEventData(sub *entity.Subscription, className string) map[string]interface{} {
	data := map[string]interface{}{
		"user_id":         sub.UserId.String(),
		"subscription_id": sub.Id.String(),
		"class_type_id":   sub.ClassTypeId.String(),
		"class_name":      className,
		"status":          string(sub.Status),
		"entity_type":     "subscription",
		"entity_id":       sub.Id.String(),
	}
	if sub.CurrentPeriodEnd != nil {
		data["period_end"] = sub.CurrentPeriodEnd.Format("2006-01-02")
	}
	return data
}

func paymentEventData(sub *entity.Subscription, payment *entity.Payment, className string) map[string]interface{} {
	return map[string]interface{}{
		"user_id":         sub.UserId.String(),
		"subscription_id": sub.Id.String(),
		"payment_id":      payment.Id.String(),
		"class_name":      className,
		"amount":          formatAmount(payment.Amount),
		"currency":        payment.Currency,
		"entity_type":     "payment",
		"entity_id":       payment.Id.String(),
	}
}
