package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// CommentService handles comments. Comments are always addressed through
// their article; a comment id under the wrong article is not found.
type CommentService struct {
	articles repository.ArticleRepository
	comments repository.CommentRepository
	policy   auth.Policy
	logger   *slog.Logger
}

func NewCommentService(
	articles repository.ArticleRepository,
	comments repository.CommentRepository,
	policy auth.Policy,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		articles: articles,
		comments: comments,
		policy:   policy,
		logger:   logger,
	}
}

// List returns the article's comments, oldest first. A missing article is
// ErrNotFound, never an empty list.
func (s *CommentService) List(ctx context.Context, articleID string) ([]model.Comment, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListComments(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("listing comments for article %s: %w", articleID, err)
	}
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, articleID, commentID string) (*model.Comment, error) {
	return s.comments.GetComment(ctx, articleID, commentID)
}

// Create adds a comment by principal to the article. The author and article
// come from the arguments, never from the client body.
func (s *CommentService) Create(ctx context.Context, principal *model.User, articleID, text string) (*model.Comment, error) {
	if principal == nil {
		return nil, apperror.Unauthenticated("Unauthorized")
	}
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}

	text, err := validateText(text)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Text:           text,
		AuthorID:       principal.ID,
		AuthorUsername: principal.Username,
		ArticleID:      articleID,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("creating comment on article %s: %w", articleID, err)
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("articleID", articleID),
		slog.String("authorID", principal.ID),
	)

	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, principal *model.User, articleID, commentID string, patch model.CommentPatch) (*model.Comment, error) {
	if principal == nil {
		return nil, apperror.Unauthenticated("Unauthorized")
	}
	comment, err := s.comments.GetComment(ctx, articleID, commentID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanMutate(principal, comment.AuthorID) {
		logForbidden(s.logger, "update", "comment", commentID, principal)
		return nil, apperror.Forbidden("You can only edit your own comments")
	}

	if patch.Text != nil {
		text, err := validateText(*patch.Text)
		if err != nil {
			return nil, err
		}
		comment.Text = text
	}

	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating comment %s: %w", commentID, err)
	}

	s.logger.Info("comment updated", slog.String("id", commentID))
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, principal *model.User, articleID, commentID string) error {
	if principal == nil {
		return apperror.Unauthenticated("Unauthorized")
	}
	comment, err := s.comments.GetComment(ctx, articleID, commentID)
	if err != nil {
		return err
	}

	if !s.policy.CanMutate(principal, comment.AuthorID) {
		logForbidden(s.logger, "delete", "comment", commentID, principal)
		return apperror.Forbidden("You can only delete your own comments")
	}

	if err := s.comments.DeleteComment(ctx, articleID, commentID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("deleting comment %s: %w", commentID, err)
	}

	s.logger.Info("comment deleted", slog.String("id", commentID))
	return nil
}

func (s *CommentService) requireArticle(ctx context.Context, articleID string) error {
	ok, err := s.articles.ArticleExists(ctx, articleID)
	if err != nil {
		return fmt.Errorf("checking article %s: %w", articleID, err)
	}
	if !ok {
		return apperror.NotFound("article", articleID)
	}
	return nil
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperror.ValidationFailed("text", "text is required")
	}
	return text, nil
}
