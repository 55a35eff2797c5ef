package service

import (
	"testing"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentListMine(t *testing.T) {
	f := newFixture(t)
	sub := f.localSubscription(t, "sub_1", entity.SubscriptionStatusActive)
	repo := f.store.NewUnitOfWork(f.ctx).PaymentRepository()
	for _, id := range []string{"in_1", "in_2"} {
		invoiceId := id
		_, err := repo.CreateIfAbsent(f.ctx, &entity.Payment{
			SubscriptionId:  sub.Id,
			StripeInvoiceId: &invoiceId,
			Amount:          15000,
			Currency:        "pln",
			Status:          entity.PaymentStatusPaid,
		})
		require.NoError(t, err)
	}
	other := f.createUser(t, "anna@example.com", entity.UserRoleUser, "Password1!")

	payments, err := NewPaymentService(f.store).ListMine(f.ctx, f.user.Id)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, payments[0].CreatedAt.After(payments[1].CreatedAt))
	require.NotNil(t, payments[0].ClassType)
	assert.Equal(t, "Boks", payments[0].ClassType.Name)

	none, err := NewPaymentService(f.store).ListMine(f.ctx, other.Id)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "150.00", formatAmount(15000))
	assert.Equal(t, "0.05", formatAmount(5))
	assert.Equal(t, "-1.50", formatAmount(-150))
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(15000), toMinorUnits(150))
	assert.Equal(t, int64(1999), toMinorUnits(19.99))
	assert.Equal(t, int64(-250), toMinorUnits(-2.5))
}
