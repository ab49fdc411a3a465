// AuthService sits between the HTTP handlers and the credential/token stores:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ auth.Authenticator (opaque tokens) → TokenRepository (DB)
//
// Every successful register or login issues a brand-new token. Tokens from
// earlier logins stay valid until they are revoked.

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

// MaxUsernameLength is counted in characters, not bytes.
const MaxUsernameLength = 150

// Messages shown to clients. Login never says which half was wrong.
const (
	msgUsernameTaken      = "Username already exists"
	msgInvalidCredentials = "Invalid credentials"
)

// AuthService handles registration, login and logout.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.Authenticator
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.Authenticator,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued token so the handler can
// respond in one step.
type AuthResult struct {
	User  *model.User
	Token *model.AuthToken
}

// Register creates a user and immediately signs them in.
//
// The existence pre-check gives the friendly message in the common case; the
// UNIQUE constraint catches the race where two requests register the same
// name at once, and both paths end in the same 400.
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking username: %w", err)
	}
	if taken {
		return nil, apperror.AlreadyExists(msgUsernameTaken)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.AlreadyExists(msgUsernameTaken)
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login checks the password and issues a new token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/auth: looking up user: %w", err)
		}
		// Unknown user: burn the same bcrypt time as a real check.
		s.passwords.VerifyDummy(password)
		s.logger.Warn("login failed", slog.String("username", username), slog.String("reason", "unknown user"))
		return nil, apperror.Unauthenticated(msgInvalidCredentials)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrInvalidPassword) {
			return nil, fmt.Errorf("service/auth: verifying password for user %s: %w", user.ID, err)
		}
		s.logger.Warn("login failed", slog.String("username", username), slog.String("reason", "bad password"))
		return nil, apperror.Unauthenticated(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the token the request was made with. Other sessions of the
// same user are untouched.
func (s *AuthService) Logout(ctx context.Context, principal *model.User, key string) error {
	if principal == nil || key == "" {
		return apperror.Unauthenticated("Unauthorized")
	}
	if err := s.tokens.Revoke(ctx, key); err != nil {
		return fmt.Errorf("service/auth: logging out user %s: %w", principal.ID, err)
	}
	s.logger.Info("user logged out", slog.String("userID", principal.ID))
	return nil
}

// LogoutAll revokes every token of the principal, including the current one.
func (s *AuthService) LogoutAll(ctx context.Context, principal *model.User) (int64, error) {
	if principal == nil {
		return 0, apperror.Unauthenticated("Unauthorized")
	}
	n, err := s.tokens.RevokeAll(ctx, principal.ID)
	if err != nil {
		return 0, fmt.Errorf("service/auth: logging out all sessions of user %s: %w", principal.ID, err)
	}
	s.logger.Info("user logged out everywhere",
		slog.String("userID", principal.ID),
		slog.Int64("revoked", n),
	)
	return n, nil
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return apperror.ValidationFailed("username", "username is required")
	}
	if password == "" {
		return apperror.ValidationFailed("password", "password is required")
	}
	return nil
}
