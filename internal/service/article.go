package service

import (
	"context"
	"errors"

	"github.com/bistronome/resto-ui-api/internal/core"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
)

// ArticleServiceOptions groups dependencies for ArticleService.
type ArticleServiceOptions struct {
	Articles core.ArticleRepository
}

// ArticleService orchestrates menu article CRUD.
type ArticleService struct {
	articles core.ArticleRepository
}

// NewArticleService constructs a new ArticleService.
func NewArticleService(opts ArticleServiceOptions) *ArticleService {
	return &ArticleService{articles: opts.Articles}
}

// Create validates and persists a new article.
func (s *ArticleService) Create(ctx context.Context, req *model.CreateArticleRequest) (*model.Article, error) {
	if req == nil {
		return nil, errors.New("create article request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.articles.Create(ctx, req)
}

// GetByID retrieves an article by ID.
func (s *ArticleService) GetByID(ctx context.Context, id string) (*model.Article, error) {
	return s.articles.GetByID(ctx, id)
}

// List returns a page of articles plus the total row count for pagination.
func (s *ArticleService) List(ctx context.Context, opts model.ArticlesListOptions) ([]*model.Article, int, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.articles.List(ctx, opts)
}

// Update applies the request to an article.
func (s *ArticleService) Update(ctx context.Context, id string, req model.UpdateArticleRequest) (*model.Article, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.articles.Update(ctx, id, req)
}

// Delete removes an article. Returns false when the article does not exist.
func (s *ArticleService) Delete(ctx context.Context, id string) (bool, error) {
	return s.articles.Delete(ctx, id)
}
