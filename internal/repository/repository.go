// Package repository declares the storage contracts the service layer depends on.
//
// Implementations live in sub-packages (sqlstore). Services only see these
// interfaces, which is what lets the service tests run against in-memory fakes.
//
// Error contract shared by every implementation:
//   - a missing row is reported as apperror.ErrNotFound
//   - a unique-constraint violation is reported as apperror.ErrConflict
//   - anything else is a wrapped driver error (HTTP 500)
package repository

import (
	"context"

	"github.com/sakif/blog-api/internal/model"
)

// UserRepository is the credential store.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	DeleteUser(ctx context.Context, id string) error
}

// TokenRepository maps opaque token keys to users.
type TokenRepository interface {
	CreateToken(ctx context.Context, token *model.AuthToken) error
	// GetUserByToken resolves a key with an exact match.
	GetUserByToken(ctx context.Context, key string) (*model.User, error)
	// DeleteToken is idempotent: deleting an unknown key is not an error.
	DeleteToken(ctx context.Context, key string) error
	DeleteTokensForUser(ctx context.Context, userID string) (int64, error)
}

type ArticleRepository interface {
	CreateArticle(ctx context.Context, article *model.Article) error
	GetArticle(ctx context.Context, id string) (*model.Article, error)
	ListArticles(ctx context.Context) ([]model.Article, error)
	UpdateArticle(ctx context.Context, article *model.Article) error
	// DeleteArticle also removes the article's comments (ON DELETE CASCADE).
	DeleteArticle(ctx context.Context, id string) error
	ArticleExists(ctx context.Context, id string) (bool, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	// GetComment matches on both ids; a comment under another article is not found.
	GetComment(ctx context.Context, articleID, commentID string) (*model.Comment, error)
	ListComments(ctx context.Context, articleID string) ([]model.Comment, error)
	UpdateComment(ctx context.Context, comment *model.Comment) error
	DeleteComment(ctx context.Context, articleID, commentID string) error
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	// DeleteCategory detaches articles (category_id SET NULL) rather than deleting them.
	DeleteCategory(ctx context.Context, id string) error
}
