package sqlite

import (
	"context"

	"github.com/awitkowski/articlemd"
)

// Ensure Sink implements articlemd.Sink at compile time.
var _ articlemd.Sink = (*Sink)(nil)

// Sink delivers parse results into the article store.
type Sink struct {
	articles articlemd.ArticleService
}

// NewSink creates a Sink backed by the given article service.
func NewSink(articles articlemd.ArticleService) *Sink {
	return &Sink{articles: articles}
}

// Deliver stores the result as an article row.
func (s *Sink) Deliver(ctx context.Context, result *articlemd.ParseResult) error {
	article := &articlemd.Article{
		ID:           result.ID,
		SourceURL:    result.SourceURL,
		Title:        result.Metadata.Title,
		DocumentType: result.Metadata.DocumentType,
		Markdown:     result.Markdown,
		Metadata:     result.Metadata,
		Entities:     result.Entities,
		Mechanisms:   result.Mechanisms,
		ProcessedAt:  result.Timestamp,
	}

	return s.articles.CreateArticle(ctx, article)
}
