// Package memory is an in-process implementation of the repository contracts.
// Service tests run against it; it honors the same uniqueness keys as the Postgres schema.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type tables struct {
	users             map[uuid.UUID]entity.User
	refreshTokens     map[string]entity.RefreshToken
	classTypes        map[uuid.UUID]entity.ClassType
	schedules         map[uuid.UUID]entity.ClassSchedule
	cancellations     map[uuid.UUID]entity.ClassCancellation
	subscriptions     map[uuid.UUID]entity.Subscription
	payments          map[uuid.UUID]entity.Payment
	webhookEvents     map[string]entity.WebhookEvent
	news              map[uuid.UUID]entity.News
	notifications     map[uuid.UUID]entity.Notification
	notificationTypes map[string]entity.NotificationType
}

func newTables() tables {
	return tables{
		users:             map[uuid.UUID]entity.User{},
		refreshTokens:     map[string]entity.RefreshToken{},
		classTypes:        map[uuid.UUID]entity.ClassType{},
		schedules:         map[uuid.UUID]entity.ClassSchedule{},
		cancellations:     map[uuid.UUID]entity.ClassCancellation{},
		subscriptions:     map[uuid.UUID]entity.Subscription{},
		payments:          map[uuid.UUID]entity.Payment{},
		webhookEvents:     map[string]entity.WebhookEvent{},
		news:              map[uuid.UUID]entity.News{},
		notifications:     map[uuid.UUID]entity.Notification{},
		notificationTypes: map[string]entity.NotificationType{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (t tables) clone() tables {
	return tables{
		users:             cloneMap(t.users),
		refreshTokens:     cloneMap(t.refreshTokens),
		classTypes:        cloneMap(t.classTypes),
		schedules:         cloneMap(t.schedules),
		cancellations:     cloneMap(t.cancellations),
		subscriptions:     cloneMap(t.subscriptions),
		payments:          cloneMap(t.payments),
		webhookEvents:     cloneMap(t.webhookEvents),
		news:              cloneMap(t.news),
		notifications:     cloneMap(t.notifications),
		notificationTypes: cloneMap(t.notificationTypes),
	}
}

// Failure names an operation that Store.Fail can break, e.g. "payments.create".
type Failure string

const (
	FailPaymentCreate      Failure = "payments.create"
	FailSubscriptionCreate Failure = "subscriptions.create"
	FailSubscriptionUpdate Failure = "subscriptions.update"
	FailNotificationCreate Failure = "notifications.create"
)

type Store struct {
	mu       sync.Mutex
	data     tables
	failures map[Failure]error
	clock    func() time.Time
	last     time.Time
}

func NewStore() *Store {
	return &Store{
		data:     newTables(),
		failures: map[Failure]error{},
		clock:    time.Now,
	}
}

// Fail makes every subsequent call of op return err. A nil err clears it.
func (s *Store) Fail(op Failure, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(op Failure) error {
	return s.failures[op]
}

// now is strictly increasing so newest-first ordering is deterministic. Callers hold the lock.
func (s *Store) now() time.Time {
	t := s.clock()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *Store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{store: s}
}

var _ unitofwork.RepositoryFactory = (*Store)(nil)

// Counts used by tests to assert idempotency.

func (s *Store) SubscriptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.subscriptions)
}

func (s *Store) PaymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.payments)
}

func (s *Store) WebhookEvent(id string) (entity.WebhookEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.webhookEvents[id]
	return e, ok
}

type UnitOfWork struct {
	store    *Store
	snapshot *tables
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if u.snapshot != nil {
		return errTxStarted
	}
	snap := u.store.data.clone()
	u.snapshot = &snap
	return nil
}

func (u *UnitOfWork) Commit() error {
	if u.snapshot == nil {
		return errNoTx
	}
	u.snapshot = nil
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if u.snapshot == nil {
		return nil
	}
	u.store.mu.Lock()
	u.store.data = *u.snapshot
	u.store.mu.Unlock()
	u.snapshot = nil
	return nil
}

func (u *UnitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{s: u.store}
}

func (u *UnitOfWork) ClassTypeRepository() contract.ClassTypeRepository {
	return &classTypeRepository{s: u.store}
}

func (u *UnitOfWork) ScheduleRepository() contract.ScheduleRepository {
	return &scheduleRepository{s: u.store}
}

func (u *UnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &subscriptionRepository{s: u.store}
}

func (u *UnitOfWork) PaymentRepository() contract.PaymentRepository {
	return &paymentRepository{s: u.store}
}

func (u *UnitOfWork) WebhookEventRepository() contract.WebhookEventRepository {
	return &webhookEventRepository{s: u.store}
}

func (u *UnitOfWork) NewsRepository() contract.NewsRepository {
	return &newsRepository{s: u.store}
}

func (u *UnitOfWork) NotificationRepository() contract.NotificationRepository {
	return &notificationRepository{s: u.store}
}
