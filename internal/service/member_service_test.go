package service

import (
	"testing"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembersGroupedPerUser(t *testing.T) {
	f := newFixture(t)
	mma := f.createClassType(t, "MMA", 200, "price_mma")
	f.localSubscription(t, "sub_1", entity.SubscriptionStatusActive)
	f.localSubscription(t, "sub_old", entity.SubscriptionStatusCancelled)

	second := &entity.Subscription{UserId: f.user.Id, ClassTypeId: mma.Id, StripeSubscriptionId: ptr("sub_2"), Status: entity.SubscriptionStatusActive}
	_, err := f.store.NewUnitOfWork(f.ctx).SubscriptionRepository().CreateIfAbsent(f.ctx, second)
	require.NoError(t, err)

	// Trainers holding a subscription are not members.
	trainer := f.createUser(t, "trener@example.com", entity.UserRoleTrainer, "Password1!")
	_, err = f.store.NewUnitOfWork(f.ctx).SubscriptionRepository().CreateIfAbsent(f.ctx, &entity.Subscription{
		UserId: trainer.Id, ClassTypeId: mma.Id, StripeSubscriptionId: ptr("sub_3"), Status: entity.SubscriptionStatusActive,
	})
	require.NoError(t, err)

	svc := NewMemberService(f.store)

	members, err := svc.List(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, f.user.Id, members[0].Id)
	assert.Len(t, members[0].Subscriptions, 2)

	filtered, err := svc.List(f.ctx, &mma.Id)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Len(t, filtered[0].Subscriptions, 1)
	assert.Equal(t, "MMA", filtered[0].Subscriptions[0].ClassType.Name)

	stats, err := svc.Stats(f.ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	for _, st := range stats {
		assert.Equal(t, int64(1), st.ActiveMembers, st.ClassTypeName)
	}
}
