package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// KeyBytes is the amount of randomness in a token key. Hex encoding doubles
// it, so every key is 256 lowercase hex characters.
const KeyBytes = 128

// issueAttempts bounds the retries on a key collision. With 1024 random bits a
// collision is effectively impossible, but the store still reports one as
// ErrConflict and we must not loop forever.
const issueAttempts = 3

// Authenticator issues, resolves and revokes opaque bearer tokens.
//
// Tokens carry no claims. The only thing a key proves is that a row with that
// key exists in the token store; deleting the row ends the session.
type Authenticator struct {
	tokens repository.TokenRepository
	newKey func() (string, error)
}

// NewAuthenticator creates an Authenticator backed by the given token store.
func NewAuthenticator(tokens repository.TokenRepository) *Authenticator {
	return &Authenticator{tokens: tokens, newKey: GenerateKey}
}

// GenerateKey returns KeyBytes of crypto/rand output, hex encoded.
func GenerateKey() (string, error) {
	b := make([]byte, KeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: reading random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Issue creates and stores a new token for user. Earlier tokens of the same
// user stay valid.
func (a *Authenticator) Issue(ctx context.Context, user *model.User) (*model.AuthToken, error) {
	var lastErr error
	for range issueAttempts {
		key, err := a.newKey()
		if err != nil {
			return nil, err
		}

		token := &model.AuthToken{
			Key:       key,
			UserID:    user.ID,
			CreatedAt: time.Now().UTC(),
		}
		err = a.tokens.CreateToken(ctx, token)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, apperror.ErrConflict) {
			return nil, fmt.Errorf("auth: storing token: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("auth: issuing token after %d attempts: %w", issueAttempts, lastErr)
}

// Resolve returns the owner of key. An unknown key is always ErrUnauthenticated,
// never ErrNotFound, so callers cannot turn it into a 404.
func (a *Authenticator) Resolve(ctx context.Context, key string) (*model.User, error) {
	if key == "" {
		return nil, apperror.Unauthenticated("Unauthorized")
	}
	user, err := a.tokens.GetUserByToken(ctx, key)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated("Unauthorized")
		}
		return nil, fmt.Errorf("auth: resolving token: %w", err)
	}
	return user, nil
}

// Revoke deletes exactly one token. Revoking an unknown key is not an error.
func (a *Authenticator) Revoke(ctx context.Context, key string) error {
	if err := a.tokens.DeleteToken(ctx, key); err != nil {
		return fmt.Errorf("auth: revoking token: %w", err)
	}
	return nil
}

// RevokeAll deletes every token held by userID and returns how many there were.
func (a *Authenticator) RevokeAll(ctx context.Context, userID string) (int64, error) {
	n, err := a.tokens.DeleteTokensForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("auth: revoking tokens for user %s: %w", userID, err)
	}
	return n, nil
}
