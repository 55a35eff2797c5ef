package mapper

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"
)

type NewsMapper struct {
	userMapper *UserMapper
}

func NewNewsMapper() *NewsMapper {
	return &NewsMapper{userMapper: NewUserMapper()}
}

func (m *NewsMapper) ToEntity(n *model.News) *entity.News {
	if n == nil {
		return nil
	}
	return &entity.News{
		Id:            n.Id,
		AuthorId:      n.AuthorId,
		Title:         n.Title,
		Content:       n.Content,
		Type:          entity.NewsType(n.Type),
		CoverImageUrl: n.CoverImageUrl,
		PublishedAt:   n.PublishedAt,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
		Author:        m.userMapper.ToEntity(n.Author),
	}
}

func (m *NewsMapper) ToModel(n *entity.News) *model.News {
	if n == nil {
		return nil
	}
	return &model.News{
		Id:            n.Id,
		AuthorId:      n.AuthorId,
		Title:         n.Title,
		Content:       n.Content,
		Type:          string(n.Type),
		CoverImageUrl: n.CoverImageUrl,
		PublishedAt:   n.PublishedAt,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}
