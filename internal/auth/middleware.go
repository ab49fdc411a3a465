package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
)

// contextKey is an unexported type for context keys so no other package can
// read or shadow the values stored here.
type contextKey string

const (
	principalKey contextKey = "principal"
	tokenKey     contextKey = "token"
)

// TokenResolver is the part of Authenticator the middleware needs.
type TokenResolver interface {
	Resolve(ctx context.Context, key string) (*model.User, error)
}

var _ TokenResolver = (*Authenticator)(nil)

// RequireToken is a middleware that enforces bearer authentication.
//
// It reads "Authorization: Bearer <key>", resolves the key and stores both the
// principal and the presented key in the request context. A missing header,
// another scheme, an empty key or an unknown key all end the request with
// 401 {"detail":"Unauthorized"} before the handler runs.
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireToken(resolver TokenResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeUnauthorized(w)
				return
			}

			user, err := resolver.Resolve(r.Context(), key)
			if err != nil {
				if errors.Is(err, apperror.ErrUnauthenticated) {
					writeUnauthorized(w)
					return
				}
				logger.Error("resolving bearer token", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail":"Internal server error"}`))
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, user)
			ctx = context.WithValue(ctx, tokenKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the authenticated user placed by RequireToken.
func PrincipalFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(principalKey).(*model.User)
	return u, ok && u != nil
}

// TokenFromContext returns the exact key the request was authenticated with.
// Logout revokes this key and no other.
func TokenFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(tokenKey).(string)
	return key, ok && key != ""
}

// bearerToken extracts the key from an Authorization header value. The scheme
// is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", false
	}
	return key, true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"Unauthorized"}`))
}
