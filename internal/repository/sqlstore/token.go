package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.TokenRepository = (*DB)(nil)

// errTokenCollision is returned when a generated key already exists. The key
// itself is a credential, so it never appears in the message.
var errTokenCollision = &apperror.AppError{
	Err:     apperror.ErrConflict,
	Message: "auth token key already exists",
}

// CreateToken persists a token row. The key is the primary key.
func (db *DB) CreateToken(ctx context.Context, token *model.AuthToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	_, err := db.exec(ctx,
		`INSERT INTO auth_tokens (token, user_id, created_at) VALUES (?, ?, ?)`,
		token.Key,
		token.UserID,
		token.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errTokenCollision
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", token.UserID)
		}
		return fmt.Errorf("sqlstore: inserting auth token for user %s: %w", token.UserID, err)
	}

	return nil
}

// GetUserByToken resolves a key to its owner by exact match.
func (db *DB) GetUserByToken(ctx context.Context, key string) (*model.User, error) {
	var u model.User
	err := db.queryRow(ctx,
		`SELECT u.id, u.username, u.password_hash, u.created_at
		 FROM auth_tokens t
		 JOIN users u ON u.id = t.user_id
		 WHERE t.token = ?`,
		key,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "auth token not found"}
		}
		return nil, fmt.Errorf("sqlstore: resolving auth token: %w", err)
	}
	return &u, nil
}

// DeleteToken removes the row with this exact key. Unknown keys are a no-op.
func (db *DB) DeleteToken(ctx context.Context, key string) error {
	if _, err := db.exec(ctx, `DELETE FROM auth_tokens WHERE token = ?`, key); err != nil {
		return fmt.Errorf("sqlstore: deleting auth token: %w", err)
	}
	return nil
}

// DeleteTokensForUser revokes every session of a user and reports how many
// tokens were removed.
func (db *DB) DeleteTokensForUser(ctx context.Context, userID string) (int64, error) {
	result, err := db.exec(ctx, `DELETE FROM auth_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: deleting auth tokens for user %s: %w", userID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	return n, nil
}
