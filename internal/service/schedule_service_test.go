package service

import (
	"testing"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestScheduleCreate(t *testing.T) {
	f := newFixture(t)
	trainer := f.createUser(t, "trener@example.com", entity.UserRoleTrainer, "Password1!")
	svc := NewScheduleService(f.store, f.recorder, f.log)

	created, err := svc.Create(f.ctx, trainer.Id, &dto.CreateScheduleRequest{
		ClassTypeId: f.classType.Id, DayOfWeek: 1, StartTime: "18:00", EndTime: "19:30",
	})
	require.NoError(t, err)
	require.NotNil(t, created.ClassType)
	assert.Equal(t, "Boks", created.ClassType.Name)
	require.NotNil(t, created.Trainer)
	assert.Equal(t, trainer.Id, created.Trainer.Id)
	assert.True(t, created.IsActive)

	tests := []struct {
		name string
		req  dto.CreateScheduleRequest
		kind apperror.Kind
	}{
		{name: "overlap", req: dto.CreateScheduleRequest{ClassTypeId: f.classType.Id, DayOfWeek: 1, StartTime: "19:00", EndTime: "20:00"}, kind: apperror.KindConflict},
		{name: "start after end", req: dto.CreateScheduleRequest{ClassTypeId: f.classType.Id, DayOfWeek: 2, StartTime: "20:00", EndTime: "19:00"}, kind: apperror.KindBadRequest},
		{name: "unknown class type", req: dto.CreateScheduleRequest{DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00"}, kind: apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(f.ctx, trainer.Id, &tt.req)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}

	// Back to back on the same day is fine.
	_, err = svc.Create(f.ctx, trainer.Id, &dto.CreateScheduleRequest{
		ClassTypeId: f.classType.Id, DayOfWeek: 1, StartTime: "19:30", EndTime: "21:00",
	})
	assert.NoError(t, err)
}

func TestScheduleUpdateAndDeleteOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "trener@example.com", entity.UserRoleTrainer, "Password1!")
	other := f.createUser(t, "inny@example.com", entity.UserRoleTrainer, "Password1!")
	svc := NewScheduleService(f.store, f.recorder, f.log)

	slot, err := svc.Create(f.ctx, owner.Id, &dto.CreateScheduleRequest{ClassTypeId: f.classType.Id, DayOfWeek: 3, StartTime: "17:00", EndTime: "18:00"})
	require.NoError(t, err)
	_, err = svc.Create(f.ctx, owner.Id, &dto.CreateScheduleRequest{ClassTypeId: f.classType.Id, DayOfWeek: 3, StartTime: "18:00", EndTime: "19:00"})
	require.NoError(t, err)

	_, err = svc.Update(f.ctx, other.Id, slot.Id, &dto.UpdateScheduleRequest{StartTime: ptr("16:00")})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	// Unchanged times skip the conflict check against itself.
	same, err := svc.Update(f.ctx, owner.Id, slot.Id, &dto.UpdateScheduleRequest{StartTime: ptr("17:00"), EndTime: ptr("18:00")})
	require.NoError(t, err)
	assert.Equal(t, "17:00", same.StartTime)

	_, err = svc.Update(f.ctx, owner.Id, slot.Id, &dto.UpdateScheduleRequest{EndTime: ptr("18:30")})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	moved, err := svc.Update(f.ctx, owner.Id, slot.Id, &dto.UpdateScheduleRequest{DayOfWeek: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, moved.DayOfWeek)

	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(svc.Delete(f.ctx, other.Id, slot.Id)))
	require.NoError(t, svc.Delete(f.ctx, owner.Id, slot.Id))

	list, err := svc.List(f.ctx, dto.ScheduleQuery{DayOfWeek: ptr(4)})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestScheduleCancelClass(t *testing.T) {
	f := newFixture(t)
	trainer := f.createUser(t, "trener@example.com", entity.UserRoleTrainer, "Password1!")
	svc := NewScheduleService(f.store, f.recorder, f.log)
	slot, err := svc.Create(f.ctx, trainer.Id, &dto.CreateScheduleRequest{ClassTypeId: f.classType.Id, DayOfWeek: 1, StartTime: "18:00", EndTime: "19:00"})
	require.NoError(t, err)

	req := &dto.CancelClassRequest{Date: "2025-03-03", Reason: ptr("Choroba trenera")}
	cancellation, err := svc.CancelClass(f.ctx, trainer.Id, slot.Id, req)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", cancellation.Date)

	_, err = svc.CancelClass(f.ctx, trainer.Id, slot.Id, req)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	news, err := f.store.NewUnitOfWork(f.ctx).NewsRepository().FindAll(f.ctx, ptr(entity.NewsTypeCancellation))
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.Equal(t, trainer.Id, news[0].AuthorId)
	assert.Contains(t, news[0].Content, "Choroba trenera")

	assert.Equal(t, []string{events.ClassCancelled}, f.recorder.Types())

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	list, err := svc.List(f.ctx, dto.ScheduleQuery{StartDate: &from, EndDate: &to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Cancellations, 1)
	assert.Equal(t, "2025-03-03", list[0].Cancellations[0].Date)

	april := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	later, err := svc.List(f.ctx, dto.ScheduleQuery{StartDate: &april})
	require.NoError(t, err)
	assert.Empty(t, later[0].Cancellations)
}

func TestScheduleCancelClassRejectsBadDate(t *testing.T) {
	f := newFixture(t)
	svc := NewScheduleService(f.store, f.recorder, f.log)

	_, err := svc.CancelClass(f.ctx, f.user.Id, f.classType.Id, &dto.CancelClassRequest{Date: "03/03/2025"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
