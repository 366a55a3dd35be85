package articlemd

import (
	"context"
	"time"
)

// Article is a stored parse result.
type Article struct {
	ID           string
	SourceURL    string
	Title        string
	DocumentType string
	Markdown     string
	ContentHash  string
	Metadata     Metadata
	Entities     Entities
	Mechanisms   Entities
	ProcessedAt  time.Time
}

// Validate returns EINVALID if the article is missing required fields.
func (a *Article) Validate() error {
	if a.Markdown == "" {
		return Errorf(EINVALID, "article markdown required")
	}
	return nil
}

// ArticleFilter selects articles in FindArticles.
type ArticleFilter struct {
	ID           *string
	SourceURL    *string
	DocumentType *string

	Limit  int
	Offset int
}

// ArticleUpdate carries fields to change in UpdateArticle.
type ArticleUpdate struct {
	Title    *string
	Markdown *string
}

// ArticleService manages stored articles.
type ArticleService interface {
	// CreateArticle persists a new article, assigning ID, ContentHash and
	// ProcessedAt when unset.
	CreateArticle(ctx context.Context, article *Article) error

	// FindArticleByID returns the article with the given ID,
	// or ENOTFOUND if it does not exist.
	FindArticleByID(ctx context.Context, id string) (*Article, error)

	// FindArticles returns articles matching the filter, newest first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// UpdateArticle applies the update to an existing article and returns
	// the updated record, or ENOTFOUND if it does not exist.
	UpdateArticle(ctx context.Context, id string, upd ArticleUpdate) (*Article, error)

	// DeleteArticle permanently removes an article,
	// or returns ENOTFOUND if it does not exist.
	DeleteArticle(ctx context.Context, id string) error
}
