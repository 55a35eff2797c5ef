package service

import (
	"errors"
	"testing"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ListIsCached(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store, f.provider, f.log)

	first, err := svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, first[0].Purchasable)

	f.createClassType(t, "Kickboxing", 180, "")
	cached, err := svc.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestCatalog_Get(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.store, f.provider, f.log)

	got, err := svc.Get(f.ctx, f.classType.Id)
	require.NoError(t, err)
	assert.Equal(t, "Boks", got.Name)
	assert.Equal(t, 150.0, got.MonthlyPrice)

	_, err = svc.Get(f.ctx, uuid.New())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCatalog_SyncPricesFillsMissingAndFlushesCache(t *testing.T) {
	f := newFixture(t)
	f.createClassType(t, "Kickboxing", 180, "")
	f.createClassType(t, "MMA", 200, "")
	svc := NewCatalogService(f.store, f.provider, f.log)

	before, err := svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, before, 3)

	results, err := svc.SyncPrices(f.ctx, "pln")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.NotEmpty(t, r.PriceId)
	}
	assert.Equal(t, []string{"Karnet miesięczny - Kickboxing", "Karnet miesięczny - MMA"}, f.provider.Prices)

	after, err := svc.List(f.ctx)
	require.NoError(t, err)
	for _, ct := range after {
		assert.True(t, ct.Purchasable, ct.Name)
	}

	again, err := svc.SyncPrices(f.ctx, "pln")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestCatalog_SyncPricesReportsProviderErrors(t *testing.T) {
	f := newFixture(t)
	f.createClassType(t, "Judo", 120, "")
	f.provider.Err = errors.New("invalid api key")
	svc := NewCatalogService(f.store, f.provider, f.log)

	results, err := svc.SyncPrices(f.ctx, "pln")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, apperror.KindExternalService, apperror.KindOf(results[0].Err))
}
