package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

type gormRepositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &gormRepositoryFactory{db: db}
}

// NewUnitOfWork is cheap. One per request or per webhook delivery.
func (f *gormRepositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(f.db.WithContext(ctx))
}
