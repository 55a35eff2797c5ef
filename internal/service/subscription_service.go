package service

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing"

	"github.com/google/uuid"
)

type ISubscriptionService interface {
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.URLResponse, error)
	ListMine(ctx context.Context, userId uuid.UUID) ([]dto.SubscriptionDTO, error)
	GetMine(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionDTO, error)
	Cancel(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionDTO, error)
	Reactivate(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionDTO, error)
	CustomerPortal(ctx context.Context, userId uuid.UUID) (*dto.URLResponse, error)
}

type subscriptionService struct {
	uowFactory  unitofwork.RepositoryFactory
	provider    billing.Provider
	frontendURL string
	logger      logger.ILogger
}

func NewSubscriptionService(uowFactory unitofwork.RepositoryFactory, provider billing.Provider, frontendURL string, log logger.ILogger) ISubscriptionService {
	return &subscriptionService{
		uowFactory:  uowFactory,
		provider:    provider,
		frontendURL: frontendURL,
		logger:      log,
	}
}

func (s *subscriptionService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.URLResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	classType, err := uow.ClassTypeRepository().FindById(ctx, req.ClassTypeId)
	if err != nil {
		return nil, err
	}
	if classType == nil {
		return nil, apperror.NotFound("Class type not found")
	}
	if !classType.HasPrice() {
		return nil, apperror.Configuration("Class type has no price configured")
	}

	active, err := uow.SubscriptionRepository().FindActiveByUserAndClassType(ctx, userId, classType.Id)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperror.Conflict("You already have an active subscription for this class")
	}

	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	customer, err := s.provider.FindCustomerByEmail(ctx, user.Email)
	if err != nil {
		return nil, providerError(err)
	}
	if customer == nil {
		customer, err = s.provider.CreateCustomer(ctx, user.Email, user.FullName(), map[string]string{"userId": user.Id.String()})
		if err != nil {
			return nil, providerError(err)
		}
	}

	url, err := s.provider.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		CustomerId: customer.Id,
		PriceId:    *classType.StripePriceId,
		SuccessURL: s.frontendURL + "/subscriptions?success=true&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL + "/subscriptions?cancelled=true",
		Metadata: map[string]string{
			"userId":      user.Id.String(),
			"classTypeId": classType.Id.String(),
		},
	})
	if err != nil {
		return nil, providerError(err)
	}

	s.logger.Info("SubscriptionService", "Checkout session created", map[string]interface{}{
		"user_id":       user.Id.String(),
		"class_type_id": classType.Id.String(),
	})
	return &dto.URLResponse{Url: url}, nil
}

func (s *subscriptionService) ListMine(ctx context.Context, userId uuid.UUID) ([]dto.SubscriptionDTO, error) {
	subs, err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	return dto.Map(subs, dto.FromSubscription), nil
}

// findOwned reports a foreign subscription as not found so its existence is not confirmed.
func (s *subscriptionService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Subscription, error) {
	sub, err := uow.SubscriptionRepository().FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.UserId != userId {
		return nil, apperror.NotFound("Subscription not found")
	}
	return sub, nil
}

func (s *subscriptionService) GetMine(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionDTO, error) {
	sub, err := s.findOwned(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, id)
	if err != nil {
		return nil, err
	}
	res := dto.FromSubscription(sub)
	return &res, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionDTO, error) {
	return s.setCancelAtPeriodEnd(ctx, userId, id, true)
}

func (s *subscriptionService) Reactivate(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionDTO, error) {
	return s.setCancelAtPeriodEnd(ctx, userId, id, false)
}

// setCancelAtPeriodEnd asks the provider first. A provider failure leaves the local row untouched.
func (s *subscriptionService) setCancelAtPeriodEnd(ctx context.Context, userId, id uuid.UUID, cancel bool) (*dto.SubscriptionDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	if cancel && !sub.IsActive() {
		return nil, apperror.BadRequest("Only active subscriptions can be cancelled")
	}
	if !cancel && !sub.CancelAtPeriodEnd {
		return nil, apperror.BadRequest("Subscription is not scheduled for cancellation")
	}
	if sub.StripeSubscriptionId == nil {
		return nil, apperror.BadRequest("Subscription is not linked to the payment provider")
	}

	if _, err := s.provider.SetCancelAtPeriodEnd(ctx, *sub.StripeSubscriptionId, cancel); err != nil {
		return nil, providerError(err)
	}

	sub.CancelAtPeriodEnd = cancel
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("SubscriptionService", "Cancel at period end changed", map[string]interface{}{
		"subscription_id":      sub.Id.String(),
		"cancel_at_period_end": cancel,
	})
	res := dto.FromSubscription(sub)
	return &res, nil
}

func (s *subscriptionService) CustomerPortal(ctx context.Context, userId uuid.UUID) (*dto.URLResponse, error) {
	sub, err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindLatestWithCustomer(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.StripeCustomerId == nil {
		return nil, apperror.NotFound("No subscription found")
	}

	url, err := s.provider.CreatePortalSession(ctx, *sub.StripeCustomerId, s.frontendURL+"/subscriptions")
	if err != nil {
		return nil, providerError(err)
	}
	return &dto.URLResponse{Url: url}, nil
}
