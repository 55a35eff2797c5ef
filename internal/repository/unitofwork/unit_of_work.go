package unitofwork

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
)

// RepositoryFactory hands out units of work. Services hold one and open a unit per operation.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

// UnitOfWork groups repositories over one connection. Between Begin and Commit or Rollback
// every repository it returns shares the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ClassTypeRepository() contract.ClassTypeRepository
	ScheduleRepository() contract.ScheduleRepository
	SubscriptionRepository() contract.SubscriptionRepository
	PaymentRepository() contract.PaymentRepository
	WebhookEventRepository() contract.WebhookEventRepository
	NewsRepository() contract.NewsRepository
	NotificationRepository() contract.NotificationRepository
}
