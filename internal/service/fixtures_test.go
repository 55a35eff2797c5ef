package service

import (
	"context"
	"testing"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/memory"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing/billingtest"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	periodStart = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	fixedNow    = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	provider  *billingtest.Fake
	recorder  *events.Recorder
	log       logger.ILogger
	user      *entity.User
	classType *entity.ClassType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		store:    memory.NewStore(),
		provider: billingtest.NewFake(),
		recorder: events.NewRecorder(),
		log:      logger.NewNopLogger(),
	}
	f.user = f.createUser(t, "jan@example.com", entity.UserRoleUser, "Password1!")
	f.classType = f.createClassType(t, "Boks", 150, "price_boks")
	return f
}

func (f *fixture) createUser(t *testing.T, email string, role entity.UserRole, password string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Jan",
		LastName:     "Kowalski",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).UserRepository().Create(f.ctx, u))
	return u
}

func (f *fixture) createClassType(t *testing.T, name string, price float64, priceId string) *entity.ClassType {
	t.Helper()
	ct := &entity.ClassType{Name: name, MonthlyPrice: price}
	if priceId != "" {
		ct.StripePriceId = &priceId
	}
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).ClassTypeRepository().Create(f.ctx, ct))
	return ct
}

// remoteSubscription registers a provider-side subscription with the January period.
func (f *fixture) remoteSubscription(id string) {
	f.provider.Subscriptions[id] = &billing.Subscription{
		Id:         id,
		CustomerId: "cus_1",
		Status:     "active",
		Period:     billing.Period{Start: periodStart, End: periodEnd, Source: billing.PeriodFromSubscription},
	}
}

// localSubscription stores a subscription as if a checkout had already been reconciled.
func (f *fixture) localSubscription(t *testing.T, stripeId string, status entity.SubscriptionStatus) *entity.Subscription {
	t.Helper()
	customer := "cus_1"
	sub := &entity.Subscription{
		UserId:               f.user.Id,
		ClassTypeId:          f.classType.Id,
		StripeSubscriptionId: &stripeId,
		StripeCustomerId:     &customer,
		Status:               status,
	}
	sub.SetPeriod(periodStart, periodEnd)
	created, err := f.store.NewUnitOfWork(f.ctx).SubscriptionRepository().CreateIfAbsent(f.ctx, sub)
	require.NoError(t, err)
	require.True(t, created)
	return sub
}

func (f *fixture) reload(t *testing.T, id string) *entity.Subscription {
	t.Helper()
	sub, err := f.store.NewUnitOfWork(f.ctx).SubscriptionRepository().FindByStripeSubscriptionId(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub
}

// jobQueue records enqueued email jobs.
type jobQueue struct {
	jobs []mailer.Job
	err  error
}

func (q *jobQueue) Enqueue(_ context.Context, job mailer.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}
