package service

import (
	"context"
	"strings"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserDTO, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error) {
	user, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	res := dto.FromUser(user)
	return &res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	res := dto.FromUser(user)
	return &res, nil
}
