package service

import (
	"context"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/authz"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type INewsService interface {
	List(ctx context.Context, newsType *string) ([]dto.NewsDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.NewsDTO, error)
	Create(ctx context.Context, author authz.Principal, req *dto.CreateNewsRequest) (*dto.NewsDTO, error)
	Update(ctx context.Context, caller authz.Principal, id uuid.UUID, req *dto.UpdateNewsRequest) (*dto.NewsDTO, error)
	Delete(ctx context.Context, caller authz.Principal, id uuid.UUID) error
}

type newsService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNewsService(uowFactory unitofwork.RepositoryFactory) INewsService {
	return &newsService{uowFactory: uowFactory}
}

func parseNewsType(raw string) (entity.NewsType, error) {
	t := entity.NewsType(raw)
	if !t.Valid() {
		return "", apperror.Validation("Unknown news type")
	}
	return t, nil
}

func (s *newsService) List(ctx context.Context, newsType *string) ([]dto.NewsDTO, error) {
	var filter *entity.NewsType
	if newsType != nil && *newsType != "" {
		t, err := parseNewsType(*newsType)
		if err != nil {
			return nil, err
		}
		filter = &t
	}

	news, err := s.uowFactory.NewUnitOfWork(ctx).NewsRepository().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.Map(news, dto.FromNews), nil
}

func (s *newsService) Get(ctx context.Context, id uuid.UUID) (*dto.NewsDTO, error) {
	news, err := s.uowFactory.NewUnitOfWork(ctx).NewsRepository().FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if news == nil {
		return nil, apperror.NotFound("News not found")
	}
	res := dto.FromNews(news)
	return &res, nil
}

func (s *newsService) Create(ctx context.Context, author authz.Principal, req *dto.CreateNewsRequest) (*dto.NewsDTO, error) {
	newsType, err := parseNewsType(req.Type)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	news := &entity.News{
		AuthorId:      author.UserId,
		Title:         req.Title,
		Content:       req.Content,
		Type:          newsType,
		CoverImageUrl: req.CoverImageUrl,
		PublishedAt:   time.Now(),
	}
	if err := uow.NewsRepository().Create(ctx, news); err != nil {
		return nil, err
	}

	saved, err := uow.NewsRepository().FindById(ctx, news.Id)
	if err != nil {
		return nil, err
	}
	res := dto.FromNews(saved)
	return &res, nil
}

// findEditable allows the author, or anyone who can moderate news.
func (s *newsService) findEditable(ctx context.Context, uow unitofwork.UnitOfWork, caller authz.Principal, id uuid.UUID) (*entity.News, error) {
	news, err := uow.NewsRepository().FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if news == nil {
		return nil, apperror.NotFound("News not found")
	}
	if news.AuthorId != caller.UserId && !caller.Can(authz.NewsModerate) {
		return nil, apperror.Forbidden("You can only edit your own news")
	}
	return news, nil
}

func (s *newsService) Update(ctx context.Context, caller authz.Principal, id uuid.UUID, req *dto.UpdateNewsRequest) (*dto.NewsDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	news, err := s.findEditable(ctx, uow, caller, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		news.Title = *req.Title
	}
	if req.Content != nil {
		news.Content = *req.Content
	}
	if req.Type != nil {
		t, err := parseNewsType(*req.Type)
		if err != nil {
			return nil, err
		}
		news.Type = t
	}
	if req.CoverImageUrl != nil {
		news.CoverImageUrl = req.CoverImageUrl
	}

	if err := uow.NewsRepository().Update(ctx, news); err != nil {
		return nil, err
	}
	res := dto.FromNews(news)
	return &res, nil
}

func (s *newsService) Delete(ctx context.Context, caller authz.Principal, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	news, err := s.findEditable(ctx, uow, caller, id)
	if err != nil {
		return err
	}
	return uow.NewsRepository().Delete(ctx, news.Id)
}
