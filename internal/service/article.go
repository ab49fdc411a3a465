// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces ownership, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take the acting principal as an explicit argument and never read
// it from a request. Every mutation follows the same order: load the target
// (ErrNotFound), ask the auth.Policy (ErrForbidden), then write.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// MaxTitleLength is counted in characters.
const MaxTitleLength = 300

// ArticleService handles business logic for articles.
type ArticleService struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	policy     auth.Policy
	logger     *slog.Logger
}

func NewArticleService(
	articles repository.ArticleRepository,
	categories repository.CategoryRepository,
	policy auth.Policy,
	logger *slog.Logger,
) *ArticleService {
	return &ArticleService{
		articles:   articles,
		categories: categories,
		policy:     policy,
		logger:     logger,
	}
}

// List returns every article, oldest first.
func (s *ArticleService) List(ctx context.Context) ([]model.Article, error) {
	articles, err := s.articles.ListArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return articles, nil
}

// Get returns apperror.ErrNotFound if the article doesn't exist.
func (s *ArticleService) Get(ctx context.Context, id string) (*model.Article, error) {
	return s.articles.GetArticle(ctx, id)
}

// Create stores a new article authored by principal. Any author supplied by a
// client never reaches this method.
func (s *ArticleService) Create(ctx context.Context, principal *model.User, title, content string, categoryID *string) (*model.Article, error) {
	if principal == nil {
		return nil, apperror.Unauthenticated("Unauthorized")
	}

	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	article := &model.Article{
		Title:          title,
		Content:        content,
		AuthorID:       principal.ID,
		AuthorUsername: principal.Username,
		CategoryID:     categoryID,
	}
	if err := s.articles.CreateArticle(ctx, article); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			return nil, err
		}
		s.logger.Error("failed to create article",
			slog.String("authorID", principal.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating article: %w", err)
	}

	s.logger.Info("article created",
		slog.String("id", article.ID),
		slog.String("authorID", principal.ID),
	)

	return article, nil
}

// Update applies the fields present in patch. Absent fields keep their value;
// CategoryID distinguishes absent from an explicit null.
func (s *ArticleService) Update(ctx context.Context, principal *model.User, id string, patch model.ArticlePatch) (*model.Article, error) {
	if principal == nil {
		return nil, apperror.Unauthenticated("Unauthorized")
	}
	article, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanMutate(principal, article.AuthorID) {
		s.logForbidden("update", "article", id, principal)
		return nil, apperror.Forbidden("You can only edit your own articles")
	}

	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		article.Title = title
	}
	if patch.Content != nil {
		article.Content = *patch.Content
	}
	if patch.CategoryID.Set {
		if err := s.checkCategory(ctx, patch.CategoryID.Value); err != nil {
			return nil, err
		}
		article.CategoryID = patch.CategoryID.Value
	}

	if err := s.articles.UpdateArticle(ctx, article); err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("updating article %s: %w", id, err)
	}

	s.logger.Info("article updated", slog.String("id", id))

	return article, nil
}

// Delete removes the article and, through the store, all of its comments.
func (s *ArticleService) Delete(ctx context.Context, principal *model.User, id string) error {
	if principal == nil {
		return apperror.Unauthenticated("Unauthorized")
	}
	article, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		return err
	}

	if !s.policy.CanMutate(principal, article.AuthorID) {
		s.logForbidden("delete", "article", id, principal)
		return apperror.Forbidden("You can only delete your own articles")
	}

	if err := s.articles.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("deleting article %s: %w", id, err)
	}

	s.logger.Info("article deleted", slog.String("id", id))
	return nil
}

// checkCategory rejects references to categories that don't exist. A nil id
// means "no category" and is always fine.
func (s *ArticleService) checkCategory(ctx context.Context, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categories.GetCategory(ctx, *categoryID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ValidationFailed("category_id", "category does not exist")
		}
		return fmt.Errorf("checking category %s: %w", *categoryID, err)
	}
	return nil
}

func (s *ArticleService) logForbidden(action, resource, id string, principal *model.User) {
	logForbidden(s.logger, action, resource, id, principal)
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperror.ValidationFailed("title", "title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	return title, nil
}

func logForbidden(logger *slog.Logger, action, resource, id string, principal *model.User) {
	userID := ""
	if principal != nil {
		userID = principal.ID
	}
	logger.Warn("forbidden "+action+" attempt",
		slog.String("resource", resource),
		slog.String("id", id),
		slog.String("userID", userID),
	)
}
