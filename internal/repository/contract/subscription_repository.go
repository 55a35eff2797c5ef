package contract

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/google/uuid"
)

type ClassTypeMemberStat struct {
	ClassTypeId   uuid.UUID
	ClassTypeName string
	ActiveMembers int64
}

type SubscriptionRepository interface {
	// CreateIfAbsent inserts unless a row with the same provider subscription id exists.
	// On a hit it loads the existing row into subscription and reports created=false.
	CreateIfAbsent(ctx context.Context, subscription *entity.Subscription) (created bool, err error)
	Update(ctx context.Context, subscription *entity.Subscription) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)
	FindByStripeSubscriptionId(ctx context.Context, stripeSubscriptionId string) (*entity.Subscription, error)
	FindActiveByUserAndClassType(ctx context.Context, userId, classTypeId uuid.UUID) (*entity.Subscription, error)
	// FindByUser returns newest first with class types loaded.
	FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Subscription, error)
	FindLatestWithCustomer(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error)
	// FindActiveMembers loads users and class types, restricted to role USER, ordered by last then first name.
	FindActiveMembers(ctx context.Context, classTypeId *uuid.UUID) ([]*entity.Subscription, error)
	CountActiveMembersByClassType(ctx context.Context) ([]ClassTypeMemberStat, error)
}

type PaymentRepository interface {
	// CreateIfAbsent is keyed by provider invoice id. Payments without one are always inserted.
	CreateIfAbsent(ctx context.Context, payment *entity.Payment) (created bool, err error)
	FindByStripeInvoiceId(ctx context.Context, invoiceId string) (*entity.Payment, error)
	// FindByUser returns newest first with subscription and class type loaded.
	FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Payment, error)
	FindBySubscription(ctx context.Context, subscriptionId uuid.UUID) ([]*entity.Payment, error)
}

type WebhookEventRepository interface {
	// Record upserts by provider event id and bumps the attempt counter on redelivery.
	Record(ctx context.Context, event *entity.WebhookEvent) error
}
