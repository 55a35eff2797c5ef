package mapper

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"
)

type SubscriptionMapper struct {
	classMapper *ClassMapper
	userMapper  *UserMapper
}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{
		classMapper: NewClassMapper(),
		userMapper:  NewUserMapper(),
	}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                   s.Id,
		UserId:               s.UserId,
		ClassTypeId:          s.ClassTypeId,
		StripeSubscriptionId: s.StripeSubscriptionId,
		StripeCustomerId:     s.StripeCustomerId,
		Status:               entity.SubscriptionStatus(s.Status),
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
		ClassType:            m.classMapper.TypeToEntity(s.ClassType),
		User:                 m.userMapper.ToEntity(s.User),
	}
}

// ToModel leaves relations out so Save never cascades into class types or users.
func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                   s.Id,
		UserId:               s.UserId,
		ClassTypeId:          s.ClassTypeId,
		StripeSubscriptionId: s.StripeSubscriptionId,
		StripeCustomerId:     s.StripeCustomerId,
		Status:               string(s.Status),
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PaymentToEntity(p *model.Payment) *entity.Payment {
	if p == nil {
		return nil
	}
	return &entity.Payment{
		Id:              p.Id,
		SubscriptionId:  p.SubscriptionId,
		StripeInvoiceId: p.StripeInvoiceId,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          entity.PaymentStatus(p.Status),
		PaidAt:          p.PaidAt,
		CreatedAt:       p.CreatedAt,
		Subscription:    m.ToEntity(p.Subscription),
	}
}

func (m *SubscriptionMapper) PaymentToModel(p *entity.Payment) *model.Payment {
	if p == nil {
		return nil
	}
	return &model.Payment{
		Id:              p.Id,
		SubscriptionId:  p.SubscriptionId,
		StripeInvoiceId: p.StripeInvoiceId,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          string(p.Status),
		PaidAt:          p.PaidAt,
		CreatedAt:       p.CreatedAt,
	}
}
