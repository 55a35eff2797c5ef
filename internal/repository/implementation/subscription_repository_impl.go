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

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) CreateIfAbsent(ctx context.Context, subscription *entity.Subscription) (bool, error) {
	m := r.mapper.ToModel(subscription)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_subscription_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, translateError(res.Error)
	}

	if res.RowsAffected == 1 {
		*subscription = *r.mapper.ToEntity(m)
		return true, nil
	}

	if subscription.StripeSubscriptionId == nil {
		return false, contract.ErrDuplicate
	}
	existing, err := r.FindByStripeSubscriptionId(ctx, *subscription.StripeSubscriptionId)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, contract.ErrDuplicate
	}
	*subscription = *existing
	return false, nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapper.ToModel(subscription)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error; err != nil {
		return translateError(err)
	}
	subscription.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *SubscriptionRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := applySpecifications(r.db.WithContext(ctx).Preload("ClassType"), specs...)
	found, err := first(query, &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) find(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}

	subs := make([]*entity.Subscription, 0, len(models))
	for _, m := range models {
		subs = append(subs, r.mapper.ToEntity(m))
	}
	return subs, nil
}

func (r *SubscriptionRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *SubscriptionRepositoryImpl) FindByStripeSubscriptionId(ctx context.Context, stripeSubscriptionId string) (*entity.Subscription, error) {
	return r.findOne(ctx, specification.ByStripeSubscriptionID{ID: stripeSubscriptionId})
}

func (r *SubscriptionRepositoryImpl) FindActiveByUserAndClassType(ctx context.Context, userId, classTypeId uuid.UUID) (*entity.Subscription, error) {
	return r.findOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByClassType{ClassTypeID: classTypeId},
		specification.BySubscriptionStatus{Status: string(entity.SubscriptionStatusActive)},
	)
}

func (r *SubscriptionRepositoryImpl) FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Subscription, error) {
	return r.find(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Preload{Association: "ClassType"},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *SubscriptionRepositoryImpl) FindLatestWithCustomer(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	return r.findOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.HasStripeCustomer{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *SubscriptionRepositoryImpl) FindActiveMembers(ctx context.Context, classTypeId *uuid.UUID) ([]*entity.Subscription, error) {
	query := r.db.WithContext(ctx).
		Joins("User").
		Preload("ClassType").
		Where("subscriptions.status = ?", string(entity.SubscriptionStatusActive)).
		Where(`"User".role = ?`, string(entity.UserRoleUser)).
		Order(`"User".last_name ASC`).
		Order(`"User".first_name ASC`)
	if classTypeId != nil {
		query = query.Where("subscriptions.class_type_id = ?", *classTypeId)
	}

	var models []*model.Subscription
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	subs := make([]*entity.Subscription, 0, len(models))
	for _, m := range models {
		subs = append(subs, r.mapper.ToEntity(m))
	}
	return subs, nil
}

func (r *SubscriptionRepositoryImpl) CountActiveMembersByClassType(ctx context.Context) ([]contract.ClassTypeMemberStat, error) {
	var rows []struct {
		ClassTypeId   uuid.UUID
		ClassTypeName string
		ActiveMembers int64
	}
	err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("class_types.id AS class_type_id, class_types.name AS class_type_name, COUNT(DISTINCT subscriptions.user_id) AS active_members").
		Joins("JOIN class_types ON class_types.id = subscriptions.class_type_id").
		Joins("JOIN users ON users.id = subscriptions.user_id").
		Where("subscriptions.status = ?", string(entity.SubscriptionStatusActive)).
		Where("users.role = ?", string(entity.UserRoleUser)).
		Group("class_types.id, class_types.name").
		Order("class_types.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]contract.ClassTypeMemberStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, contract.ClassTypeMemberStat{
			ClassTypeId:   row.ClassTypeId,
			ClassTypeName: row.ClassTypeName,
			ActiveMembers: row.ActiveMembers,
		})
	}
	return stats, nil
}
