package implementation

import (
	"context"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/mapper"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotificationMapper
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotificationMapper(),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *entity.Notification) error {
	m := r.mapper.ToModel(notification)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*notification = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotificationRepositoryImpl) FindByUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&model.Notification{}).Scopes(specification.UserOwnedBy{UserID: userId}.Apply)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.Notification
	err := applySpecifications(r.db.WithContext(ctx),
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]*entity.Notification, 0, len(models))
	for _, m := range models {
		items = append(items, r.mapper.ToEntity(m))
	}
	return items, total, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userId uuid.UUID) (int64, error) {
	var count int64
	err := applySpecifications(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("is_read", false),
	).Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, userId, id uuid.UUID) (bool, error) {
	res := applySpecifications(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	).Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	return applySpecifications(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("is_read", false),
	).Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()}).Error
}

func (r *NotificationRepositoryImpl) FindTypeByCode(ctx context.Context, code string) (*entity.NotificationType, error) {
	var m model.NotificationType
	found, err := first(r.db.WithContext(ctx).Scopes(specification.Filter("code", code).Apply), &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.TypeToEntity(&m), nil
}

func (r *NotificationRepositoryImpl) UpsertType(ctx context.Context, notificationType *entity.NotificationType) error {
	m := r.mapper.TypeToModel(notificationType)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "template", "target_type", "is_active", "updated_at"}),
		}).
		Create(m).Error
}
