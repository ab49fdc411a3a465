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

var _ repository.CommentRepository = (*DB)(nil)

const selectComment = `
	SELECT c.id, c.text, c.author_id, u.username, c.article_id, c.created_at, c.updated_at
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func scanComment(s rowScanner) (*model.Comment, error) {
	var c model.Comment
	if err := s.Scan(
		&c.ID, &c.Text, &c.AuthorID, &c.AuthorUsername, &c.ArticleID,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a comment. If the parent article vanished after the
// service checked it, the foreign key fails and the article is reported missing.
func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := db.exec(ctx,
		`INSERT INTO comments (id, text, author_id, article_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID,
		comment.Text,
		comment.AuthorID,
		comment.ArticleID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("article", comment.ArticleID)
		}
		return fmt.Errorf("sqlstore: creating comment: %w", err)
	}

	return nil
}

// GetComment requires both ids to match.
func (db *DB) GetComment(ctx context.Context, articleID, commentID string) (*model.Comment, error) {
	c, err := scanComment(db.queryRow(ctx,
		selectComment+` WHERE c.id = ? AND c.article_id = ?`, commentID, articleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment", commentID)
		}
		return nil, fmt.Errorf("sqlstore: getting comment %s: %w", commentID, err)
	}
	return c, nil
}

// ListComments returns the comments of one article in insertion order. It does
// not check that the article exists; an unknown id just yields no rows.
func (db *DB) ListComments(ctx context.Context, articleID string) ([]model.Comment, error) {
	rows, err := db.query(ctx,
		selectComment+` WHERE c.article_id = ? ORDER BY c.created_at, c.id`, articleID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing comments for article %s: %w", articleID, err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scanning comment row: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating comments: %w", err)
	}

	return comments, nil
}

func (db *DB) UpdateComment(ctx context.Context, comment *model.Comment) error {
	comment.UpdatedAt = time.Now().UTC()

	result, err := db.exec(ctx,
		`UPDATE comments SET text = ?, updated_at = ? WHERE id = ? AND article_id = ?`,
		comment.Text,
		comment.UpdatedAt,
		comment.ID,
		comment.ArticleID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: updating comment %s: %w", comment.ID, err)
	}

	return affected(result, apperror.NotFound("comment", comment.ID))
}

func (db *DB) DeleteComment(ctx context.Context, articleID, commentID string) error {
	result, err := db.exec(ctx,
		`DELETE FROM comments WHERE id = ? AND article_id = ?`, commentID, articleID)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting comment %s: %w", commentID, err)
	}
	return affected(result, apperror.NotFound("comment", commentID))
}
