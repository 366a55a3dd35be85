package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/awitkowski/articlemd"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ articlemd.ArticleService = (*ArticleService)(nil)

// ArticleService implements articlemd.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// CreateArticle creates a new article.
func (s *ArticleService) CreateArticle(ctx context.Context, article *articlemd.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.ProcessedAt.IsZero() {
		article.ProcessedAt = time.Now().UTC()
	}
	article.ContentHash = hashContent(article.Markdown)

	metadata, entities, mechanisms, err := marshalJSONColumns(article)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (id, source_url, title, document_type, markdown, content_hash, metadata, entities, mechanisms, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, article.ID, article.SourceURL, article.Title, article.DocumentType, article.Markdown,
		article.ContentHash, metadata, entities, mechanisms, article.ProcessedAt.Format(time.RFC3339))

	return err
}

// FindArticleByID retrieves an article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*articlemd.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, title, document_type, markdown, content_hash, metadata, entities, mechanisms, processed_at
		FROM articles
		WHERE id = ?
	`, id)

	article, err := scanArticle(row.Scan)
	if err == sql.ErrNoRows {
		return nil, articlemd.Errorf(articlemd.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}

	return article, nil
}

// FindArticles retrieves articles matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter articlemd.ArticleFilter) ([]*articlemd.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_url, title, document_type, markdown, content_hash, metadata, entities, mechanisms, processed_at FROM articles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.DocumentType != nil {
		query.WriteString(" AND document_type = ?")
		args = append(args, *filter.DocumentType)
	}

	query.WriteString(" ORDER BY processed_at DESC")

	// OFFSET is only valid after a LIMIT clause; LIMIT -1 means unbounded.
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*articlemd.Article
	for rows.Next() {
		article, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

// UpdateArticle updates an existing article.
func (s *ArticleService) UpdateArticle(ctx context.Context, id string, upd articlemd.ArticleUpdate) (*articlemd.Article, error) {
	article, err := s.FindArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		article.Title = *upd.Title
	}
	if upd.Markdown != nil {
		article.Markdown = *upd.Markdown
		article.ContentHash = hashContent(article.Markdown)
	}

	if err := article.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, markdown = ?, content_hash = ?
		WHERE id = ?
	`, article.Title, article.Markdown, article.ContentHash, id)

	if err != nil {
		return nil, err
	}

	return article, nil
}

// DeleteArticle permanently removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return articlemd.Errorf(articlemd.ENOTFOUND, "article not found")
	}

	return nil
}

func marshalJSONColumns(article *articlemd.Article) (metadata, entities, mechanisms string, err error) {
	m, err := json.Marshal(article.Metadata)
	if err != nil {
		return "", "", "", fmt.Errorf("marshaling metadata: %w", err)
	}
	e, err := json.Marshal(orEmpty(article.Entities))
	if err != nil {
		return "", "", "", fmt.Errorf("marshaling entities: %w", err)
	}
	mech, err := json.Marshal(orEmpty(article.Mechanisms))
	if err != nil {
		return "", "", "", fmt.Errorf("marshaling mechanisms: %w", err)
	}
	return string(m), string(e), string(mech), nil
}

func orEmpty(e articlemd.Entities) articlemd.Entities {
	if e == nil {
		return articlemd.Entities{}
	}
	return e
}

func scanArticle(scan func(...any) error) (*articlemd.Article, error) {
	var article articlemd.Article
	var metadata, entities, mechanisms, processedAt string

	if err := scan(&article.ID, &article.SourceURL, &article.Title, &article.DocumentType,
		&article.Markdown, &article.ContentHash, &metadata, &entities, &mechanisms, &processedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(metadata), &article.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(entities), &article.Entities); err != nil {
		return nil, fmt.Errorf("unmarshaling entities: %w", err)
	}
	if err := json.Unmarshal([]byte(mechanisms), &article.Mechanisms); err != nil {
		return nil, fmt.Errorf("unmarshaling mechanisms: %w", err)
	}

	var err error
	article.ProcessedAt, err = time.Parse(time.RFC3339, processedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse processed_at: %w", err)
	}

	return &article, nil
}
