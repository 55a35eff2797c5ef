package service

import (
	"context"
	"fmt"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IPaymentService interface {
	ListMine(ctx context.Context, userId uuid.UUID) ([]dto.PaymentDTO, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory) IPaymentService {
	return &paymentService{uowFactory: uowFactory}
}

func (s *paymentService) ListMine(ctx context.Context, userId uuid.UUID) ([]dto.PaymentDTO, error) {
	payments, err := s.uowFactory.NewUnitOfWork(ctx).PaymentRepository().FindByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	return dto.Map(payments, dto.FromPayment), nil
}

// formatAmount renders minor units as a decimal string, e.g. 15000 -> "150.00".
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// toMinorUnits converts a decimal price to minor units, rounding half away from zero.
func toMinorUnits(amount float64) int64 {
	if amount < 0 {
		return -int64(-amount*100 + 0.5)
	}
	return int64(amount*100 + 0.5)
}
