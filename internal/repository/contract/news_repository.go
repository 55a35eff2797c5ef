package contract

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/google/uuid"
)

type NewsRepository interface {
	Create(ctx context.Context, news *entity.News) error
	Update(ctx context.Context, news *entity.News) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.News, error)
	// FindAll orders by publish date, newest first.
	FindAll(ctx context.Context, newsType *entity.NewsType) ([]*entity.News, error)
}
