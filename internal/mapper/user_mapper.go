package mapper

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		Role:         entity.UserRole(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) RefreshTokenToEntity(t *model.UserRefreshToken) *entity.RefreshToken {
	if t == nil {
		return nil
	}
	return &entity.RefreshToken{
		Id:        t.Id,
		UserId:    t.UserId,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
		IpAddress: t.IpAddress,
		UserAgent: t.UserAgent,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) RefreshTokenToModel(t *entity.RefreshToken) *model.UserRefreshToken {
	if t == nil {
		return nil
	}
	return &model.UserRefreshToken{
		Id:        t.Id,
		UserId:    t.UserId,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
		IpAddress: t.IpAddress,
		UserAgent: t.UserAgent,
		CreatedAt: t.CreatedAt,
	}
}
