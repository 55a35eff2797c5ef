package unitofwork

import (
	"context"
	"fmt"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is a no-op after Commit so it can always be deferred.
func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ClassTypeRepository() contract.ClassTypeRepository {
	return implementation.NewClassTypeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ScheduleRepository() contract.ScheduleRepository {
	return implementation.NewScheduleRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SubscriptionRepository() contract.SubscriptionRepository {
	return implementation.NewSubscriptionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PaymentRepository() contract.PaymentRepository {
	return implementation.NewPaymentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) WebhookEventRepository() contract.WebhookEventRepository {
	return implementation.NewWebhookEventRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NewsRepository() contract.NewsRepository {
	return implementation.NewNewsRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NotificationRepository() contract.NotificationRepository {
	return implementation.NewNotificationRepository(u.getDB())
}
