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

type NewsRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NewsMapper
}

func NewNewsRepository(db *gorm.DB) contract.NewsRepository {
	return &NewsRepositoryImpl{
		db:     db,
		mapper: mapper.NewNewsMapper(),
	}
}

func (r *NewsRepositoryImpl) Create(ctx context.Context, news *entity.News) error {
	m := r.mapper.ToModel(news)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*news = *r.mapper.ToEntity(m)
	return nil
}

func (r *NewsRepositoryImpl) Update(ctx context.Context, news *entity.News) error {
	m := r.mapper.ToModel(news)
	if err := r.db.WithContext(ctx).Omit("Author").Save(m).Error; err != nil {
		return translateError(err)
	}
	news.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *NewsRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(specification.ByID{ID: id}.Apply).Delete(&model.News{}).Error
}

func (r *NewsRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	var m model.News
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByID{ID: id},
		specification.Preload{Association: "Author"},
	)
	found, err := first(query, &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NewsRepositoryImpl) FindAll(ctx context.Context, newsType *entity.NewsType) ([]*entity.News, error) {
	specs := []specification.Specification{specification.Preload{Association: "Author"}}
	if newsType != nil {
		specs = append(specs, specification.ByNewsType{Type: string(*newsType)})
	}
	specs = append(specs, specification.OrderBy{Field: "published_at", Desc: true})

	var models []*model.News
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}

	items := make([]*entity.News, 0, len(models))
	for _, m := range models {
		items = append(items, r.mapper.ToEntity(m))
	}
	return items, nil
}
