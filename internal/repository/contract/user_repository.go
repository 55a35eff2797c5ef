package contract

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/google/uuid"
)

type UserFilter struct {
	Role       *entity.UserRole
	ActiveOnly bool
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindAll orders by role, then last and first name.
	FindAll(ctx context.Context, filter UserFilter) ([]*entity.User, error)

	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error
	FindRefreshToken(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, userId uuid.UUID, tokenHash string) error
	DeleteAllRefreshTokens(ctx context.Context, userId uuid.UUID) error
}
