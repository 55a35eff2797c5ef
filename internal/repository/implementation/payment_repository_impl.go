package implementation

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/mapper"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *PaymentRepositoryImpl) CreateIfAbsent(ctx context.Context, payment *entity.Payment) (bool, error) {
	m := r.mapper.PaymentToModel(payment)
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_invoice_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	if res.RowsAffected == 1 {
		*payment = *r.mapper.PaymentToEntity(m)
		return true, nil
	}
	return false, nil
}

func (r *PaymentRepositoryImpl) FindByStripeInvoiceId(ctx context.Context, invoiceId string) (*entity.Payment, error) {
	var m model.Payment
	found, err := first(r.db.WithContext(ctx).Scopes(specification.ByStripeInvoiceID{ID: invoiceId}.Apply), &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.PaymentToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Payment, error) {
	return r.find(ctx,
		specification.PaymentsOwnedBy{UserID: userId},
		specification.Preload{Association: "Subscription.ClassType"},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *PaymentRepositoryImpl) FindBySubscription(ctx context.Context, subscriptionId uuid.UUID) ([]*entity.Payment, error) {
	return r.find(ctx,
		specification.Filter("subscription_id", subscriptionId),
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *PaymentRepositoryImpl) find(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	var models []*model.Payment
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}

	payments := make([]*entity.Payment, 0, len(models))
	for _, m := range models {
		payments = append(payments, r.mapper.PaymentToEntity(m))
	}
	return payments, nil
}
