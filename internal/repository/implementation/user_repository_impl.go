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

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	found, err := first(applySpecifications(r.db.WithContext(ctx), specs...), &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, specification.ByEmail{Email: email})
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, filter contract.UserFilter) ([]*entity.User, error) {
	specs := []specification.Specification{}
	if filter.Role != nil {
		specs = append(specs, specification.ByRole{Role: string(*filter.Role)})
	}
	if filter.ActiveOnly {
		specs = append(specs, specification.ActiveUsers{})
	}
	specs = append(specs,
		specification.OrderBy{Field: "role"},
		specification.OrderBy{Field: "last_name"},
		specification.OrderBy{Field: "first_name"},
	)

	var models []*model.User
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*entity.User, 0, len(models))
	for _, m := range models {
		users = append(users, r.mapper.ToEntity(m))
	}
	return users, nil
}

func (r *UserRepositoryImpl) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	m := r.mapper.RefreshTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*token = *r.mapper.RefreshTokenToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindRefreshToken(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	var m model.UserRefreshToken
	found, err := first(r.db.WithContext(ctx).Scopes(specification.ByTokenHash{Hash: tokenHash}.Apply), &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.RefreshTokenToEntity(&m), nil
}

func (r *UserRepositoryImpl) DeleteRefreshToken(ctx context.Context, userId uuid.UUID, tokenHash string) error {
	return applySpecifications(r.db.WithContext(ctx),
		specification.UserOwnedBy{UserID: userId},
		specification.ByTokenHash{Hash: tokenHash},
	).Delete(&model.UserRefreshToken{}).Error
}

func (r *UserRepositoryImpl) DeleteAllRefreshTokens(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(specification.UserOwnedBy{UserID: userId}.Apply).
		Delete(&model.UserRefreshToken{}).Error
}
