package implementation

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/mapper"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassTypeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ClassMapper
}

func NewClassTypeRepository(db *gorm.DB) contract.ClassTypeRepository {
	return &ClassTypeRepositoryImpl{
		db:     db,
		mapper: mapper.NewClassMapper(),
	}
}

func (r *ClassTypeRepositoryImpl) Create(ctx context.Context, classType *entity.ClassType) error {
	m := r.mapper.TypeToModel(classType)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*classType = *r.mapper.TypeToEntity(m)
	return nil
}

func (r *ClassTypeRepositoryImpl) FindAll(ctx context.Context) ([]*entity.ClassType, error) {
	var models []*model.ClassType
	if err := r.db.WithContext(ctx).Scopes(specification.OrderBy{Field: "name"}.Apply).Find(&models).Error; err != nil {
		return nil, err
	}

	types := make([]*entity.ClassType, 0, len(models))
	for _, m := range models {
		types = append(types, r.mapper.TypeToEntity(m))
	}
	return types, nil
}

func (r *ClassTypeRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.ClassType, error) {
	var m model.ClassType
	found, err := first(r.db.WithContext(ctx).Scopes(specification.ByID{ID: id}.Apply), &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.TypeToEntity(&m), nil
}

func (r *ClassTypeRepositoryImpl) FindByName(ctx context.Context, name string) (*entity.ClassType, error) {
	var m model.ClassType
	found, err := first(r.db.WithContext(ctx).Scopes(specification.Filter("name", name).Apply), &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.TypeToEntity(&m), nil
}

func (r *ClassTypeRepositoryImpl) UpdatePriceId(ctx context.Context, id uuid.UUID, priceId string) error {
	return r.db.WithContext(ctx).
		Model(&model.ClassType{}).
		Scopes(specification.ByID{ID: id}.Apply).
		Update("stripe_price_id", priceId).Error
}
