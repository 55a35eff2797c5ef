package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/memory"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"
	pktNats "github.com/wsbKuba/Klub-Sztuki-Walk/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushRecorder struct {
	mu   sync.Mutex
	sent map[uuid.UUID][]dto.NotificationDTO
}

func (p *pushRecorder) Send(userID uuid.UUID, n dto.NotificationDTO) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sent == nil {
		p.sent = map[uuid.UUID][]dto.NotificationDTO{}
	}
	p.sent[userID] = append(p.sent[userID], n)
}

type subscribeRecorder struct {
	subject, durable string
	handler          pktNats.EventHandler
}

func (s *subscribeRecorder) Subscribe(_ context.Context, subject, durable string, handler pktNats.EventHandler) error {
	s.subject, s.durable, s.handler = subject, durable, handler
	return nil
}

func seedNotificationTypes(t *testing.T, f *fixture) {
	t.Helper()
	repo := f.store.NewUnitOfWork(f.ctx).NotificationRepository()
	for _, nt := range DefaultNotificationTypes() {
		nt := nt
		require.NoError(t, repo.UpsertType(f.ctx, &nt))
	}
}

func TestNotificationStartSubscribesToAllEvents(t *testing.T) {
	f := newFixture(t)
	sub := &subscribeRecorder{}
	svc := NewNotificationService(f.store, sub, nil, nil, f.log)

	require.NoError(t, svc.Start(f.ctx))
	assert.Equal(t, "events.>", sub.subject)
	assert.Equal(t, notificationDurable, sub.durable)
	assert.NotNil(t, sub.handler)
}

func TestNotificationSelfTarget(t *testing.T) {
	f := newFixture(t)
	seedNotificationTypes(t, f)
	push := &pushRecorder{}
	svc := NewNotificationService(f.store, nil, push, nil, f.log)
	subId := uuid.New()

	err := svc.HandleEvent(f.ctx, events.New(events.SubscriptionActivated, map[string]interface{}{
		"user_id":     f.user.Id.String(),
		"class_name":  "Boks",
		"period_end":  "2025-02-01",
		"entity_type": "subscription",
		"entity_id":   subId.String(),
	}))
	require.NoError(t, err)

	list, err := svc.List(f.ctx, f.user.Id, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), list.Total)
	n := list.Items[0]
	assert.Equal(t, "Twój karnet na zajęcia Boks jest aktywny do 2025-02-01.", n.Message)
	assert.Equal(t, "Karnet aktywny", n.Title)
	assert.Equal(t, "subscription", n.EntityType)
	require.NotNil(t, n.EntityId)
	assert.Equal(t, subId, *n.EntityId)

	require.Len(t, push.sent[f.user.Id], 1)
}

func TestNotificationBroadcastMembers(t *testing.T) {
	f := newFixture(t)
	seedNotificationTypes(t, f)
	second := f.createUser(t, "anna@example.com", entity.UserRoleUser, "Password1!")
	inactive := f.createUser(t, "stary@example.com", entity.UserRoleUser, "Password1!")
	inactive.IsActive = false
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).UserRepository().Update(f.ctx, inactive))
	trainer := f.createUser(t, "trener@example.com", entity.UserRoleTrainer, "Password1!")
	push := &pushRecorder{}
	svc := NewNotificationService(f.store, nil, push, nil, f.log)

	err := svc.HandleEvent(f.ctx, events.New(events.SubjectPrefix+events.ClassCancelled, map[string]interface{}{
		"class_name": "Boks",
		"date":       "2025-03-03",
		"start_time": "18:00",
	}))
	require.NoError(t, err)

	for _, id := range []uuid.UUID{f.user.Id, second.Id} {
		count, err := svc.UnreadCount(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count.Count)
	}
	for _, id := range []uuid.UUID{inactive.Id, trainer.Id} {
		count, err := svc.UnreadCount(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count.Count)
	}
	assert.Len(t, push.sent, 2)
}

func TestNotificationUnknownOrInactiveTypeIsSkipped(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.NewUnitOfWork(f.ctx).NotificationRepository().UpsertType(f.ctx, &entity.NotificationType{
		Code: events.PaymentSucceeded, Template: "x", TargetType: entity.NotificationTargetSelf, IsActive: false,
	}))
	svc := NewNotificationService(f.store, nil, nil, nil, f.log)

	for _, typ := range []string{"SOMETHING_ELSE", events.PaymentSucceeded} {
		require.NoError(t, svc.HandleEvent(f.ctx, events.New(typ, map[string]interface{}{"user_id": f.user.Id.String()})))
	}
	count, err := svc.UnreadCount(f.ctx, f.user.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Count)
}

func TestNotificationPaymentFailedEnqueuesEmail(t *testing.T) {
	f := newFixture(t)
	seedNotificationTypes(t, f)
	queue := &jobQueue{}
	svc := NewNotificationService(f.store, nil, nil, queue, f.log)

	err := svc.HandleEvent(f.ctx, events.New(events.PaymentFailed, map[string]interface{}{
		"user_id":    f.user.Id.String(),
		"class_name": "Boks",
		"amount":     "150.00",
		"currency":   "pln",
	}))
	require.NoError(t, err)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, mailer.JobPaymentFailed, queue.jobs[0].Kind)
	assert.Equal(t, f.user.Email, queue.jobs[0].To)
	assert.Equal(t, "Boks", queue.jobs[0].Data["class_name"])
}

func TestNotificationSaveFailureIsNotRetried(t *testing.T) {
	f := newFixture(t)
	seedNotificationTypes(t, f)
	f.store.Fail(memory.FailNotificationCreate, errors.New("disk full"))
	push := &pushRecorder{}
	svc := NewNotificationService(f.store, nil, push, nil, f.log)

	err := svc.HandleEvent(f.ctx, events.New(events.UserRegistered, map[string]interface{}{"user_id": f.user.Id.String(), "first_name": "Jan"}))
	require.NoError(t, err)
	assert.Empty(t, push.sent)
}

func TestNotificationMarkAsRead(t *testing.T) {
	f := newFixture(t)
	seedNotificationTypes(t, f)
	svc := NewNotificationService(f.store, nil, nil, nil, f.log)
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.HandleEvent(f.ctx, events.New(events.UserRegistered, map[string]interface{}{"user_id": f.user.Id.String(), "first_name": "Jan"})))
	}
	list, err := svc.List(f.ctx, f.user.Id, 2, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, int64(3), list.Total)

	other := f.createUser(t, "anna@example.com", entity.UserRoleUser, "Password1!")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(svc.MarkAsRead(f.ctx, other.Id, list.Items[0].Id)))

	require.NoError(t, svc.MarkAsRead(f.ctx, f.user.Id, list.Items[0].Id))
	count, _ := svc.UnreadCount(f.ctx, f.user.Id)
	assert.Equal(t, int64(2), count.Count)

	require.NoError(t, svc.MarkAllAsRead(f.ctx, f.user.Id))
	count, _ = svc.UnreadCount(f.ctx, f.user.Id)
	assert.Equal(t, int64(0), count.Count)
}

func TestRenderTemplate(t *testing.T) {
	got := renderTemplate("{a} i {b}, {missing}", map[string]interface{}{"a": "x", "b": 2})
	assert.Equal(t, "x i 2, {missing}", got)
}
