package service

import (
	"context"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	catalogTTL     = 5 * time.Minute
	catalogAllKey  = "class_types:all"
	catalogItemKey = "class_types:"
)

// PriceSyncResult reports one class type handled by SyncPrices.
type PriceSyncResult struct {
	ClassType string
	PriceId   string
	Err       error
}

type ICatalogService interface {
	List(ctx context.Context) ([]dto.ClassTypeDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ClassTypeDTO, error)
	// SyncPrices creates a monthly price for every class type that has none.
	SyncPrices(ctx context.Context, currency string) ([]PriceSyncResult, error)
}

type catalogService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   billing.Provider
	cache      *cache.Cache
	logger     logger.ILogger
}

func NewCatalogService(uowFactory unitofwork.RepositoryFactory, provider billing.Provider, log logger.ILogger) ICatalogService {
	return &catalogService{
		uowFactory: uowFactory,
		provider:   provider,
		cache:      cache.New(catalogTTL, 2*catalogTTL),
		logger:     log,
	}
}

func (s *catalogService) List(ctx context.Context) ([]dto.ClassTypeDTO, error) {
	if cached, ok := s.cache.Get(catalogAllKey); ok {
		return cached.([]dto.ClassTypeDTO), nil
	}

	classTypes, err := s.uowFactory.NewUnitOfWork(ctx).ClassTypeRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	res := dto.Map(classTypes, dto.FromClassType)
	s.cache.SetDefault(catalogAllKey, res)
	return res, nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*dto.ClassTypeDTO, error) {
	key := catalogItemKey + id.String()
	if cached, ok := s.cache.Get(key); ok {
		res := cached.(dto.ClassTypeDTO)
		return &res, nil
	}

	classType, err := s.uowFactory.NewUnitOfWork(ctx).ClassTypeRepository().FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if classType == nil {
		return nil, apperror.NotFound("Class type not found")
	}
	res := dto.FromClassType(classType)
	s.cache.SetDefault(key, res)
	return &res, nil
}

func (s *catalogService) SyncPrices(ctx context.Context, currency string) ([]PriceSyncResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	classTypes, err := uow.ClassTypeRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var results []PriceSyncResult
	for _, ct := range classTypes {
		if ct.HasPrice() {
			continue
		}
		results = append(results, s.syncPrice(ctx, uow, ct, currency))
	}
	s.cache.Flush()
	return results, nil
}

func (s *catalogService) syncPrice(ctx context.Context, uow unitofwork.UnitOfWork, ct *entity.ClassType, currency string) PriceSyncResult {
	res := PriceSyncResult{ClassType: ct.Name}

	priceId, err := s.provider.CreateMonthlyPrice(ctx, "Karnet miesięczny - "+ct.Name, toMinorUnits(ct.MonthlyPrice), currency)
	if err != nil {
		res.Err = providerError(err)
		return res
	}
	if err := uow.ClassTypeRepository().UpdatePriceId(ctx, ct.Id, priceId); err != nil {
		res.Err = err
		return res
	}

	s.logger.Info("CatalogService", "Price created", map[string]interface{}{"class_type": ct.Name, "price_id": priceId})
	res.PriceId = priceId
	return res
}
