package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.ArticleRepository = (*DB)(nil)

// selectArticle joins the author so every read can fill AuthorUsername.
const selectArticle = `
	SELECT a.id, a.title, a.content, a.author_id, u.username, a.category_id, a.created_at, a.updated_at
	FROM articles a
	JOIN users u ON u.id = a.author_id`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(s rowScanner) (*model.Article, error) {
	var a model.Article
	if err := s.Scan(
		&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.AuthorUsername,
		&a.CategoryID, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateArticle inserts an article and sets its ID and timestamps in place.
// AuthorUsername is left as the caller set it.
func (db *DB) CreateArticle(ctx context.Context, article *model.Article) error {
	article.ID = xid.New().String()
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	_, err := db.exec(ctx,
		`INSERT INTO articles (id, title, content, author_id, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		article.ID,
		article.Title,
		article.Content,
		article.AuthorID,
		article.CategoryID,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ValidationFailed("category_id", "category does not exist")
		}
		return fmt.Errorf("sqlstore: creating article: %w", err)
	}

	return nil
}

func (db *DB) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	a, err := scanArticle(db.queryRow(ctx, selectArticle+` WHERE a.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("article", id)
		}
		return nil, fmt.Errorf("sqlstore: getting article %s: %w", id, err)
	}
	return a, nil
}

// ListArticles returns every article in insertion order.
func (db *DB) ListArticles(ctx context.Context) ([]model.Article, error) {
	rows, err := db.query(ctx, selectArticle+` ORDER BY a.created_at, a.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing articles: %w", err)
	}
	defer rows.Close()

	articles := make([]model.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scanning article row: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating articles: %w", err)
	}

	return articles, nil
}

// UpdateArticle writes title, content and category back and bumps updated_at.
// id, author and created_at are immutable.
func (db *DB) UpdateArticle(ctx context.Context, article *model.Article) error {
	article.UpdatedAt = time.Now().UTC()

	result, err := db.exec(ctx,
		`UPDATE articles
		 SET title = ?, content = ?, category_id = ?, updated_at = ?
		 WHERE id = ?`,
		article.Title,
		article.Content,
		article.CategoryID,
		article.UpdatedAt,
		article.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ValidationFailed("category_id", "category does not exist")
		}
		return fmt.Errorf("sqlstore: updating article %s: %w", article.ID, err)
	}

	return affected(result, apperror.NotFound("article", article.ID))
}

func (db *DB) DeleteArticle(ctx context.Context, id string) error {
	result, err := db.exec(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting article %s: %w", id, err)
	}
	return affected(result, apperror.NotFound("article", id))
}

func (db *DB) ArticleExists(ctx context.Context, id string) (bool, error) {
	ok, err := db.exists(ctx, `SELECT 1 FROM articles WHERE id = ? LIMIT 1`, id)
	if err != nil {
		return false, fmt.Errorf("sqlstore: checking article %s: %w", id, err)
	}
	return ok, nil
}
