package mock

import (
	"context"

	"github.com/awitkowski/articlemd"
)

var _ articlemd.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of articlemd.ArticleService.
type ArticleService struct {
	CreateArticleFn   func(ctx context.Context, article *articlemd.Article) error
	FindArticleByIDFn func(ctx context.Context, id string) (*articlemd.Article, error)
	FindArticlesFn    func(ctx context.Context, filter articlemd.ArticleFilter) ([]*articlemd.Article, error)
	UpdateArticleFn   func(ctx context.Context, id string, upd articlemd.ArticleUpdate) (*articlemd.Article, error)
	DeleteArticleFn   func(ctx context.Context, id string) error
}

func (s *ArticleService) CreateArticle(ctx context.Context, article *articlemd.Article) error {
	return s.CreateArticleFn(ctx, article)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*articlemd.Article, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter articlemd.ArticleFilter) ([]*articlemd.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, id string, upd articlemd.ArticleUpdate) (*articlemd.Article, error) {
	return s.UpdateArticleFn(ctx, id, upd)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	return s.DeleteArticleFn(ctx, id)
}
