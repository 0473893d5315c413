// Package middleware provides HTTP middlewares for authentication,
// request logging, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/saathi/saathi-go/internal/token"
)

type ctxKey string

const userKey ctxKey = "user"

// JWTAuth is a middleware that enforces bearer-token authentication.
//
// It validates the Authorization header against the signing secret and, on
// success, stores the token's user id in the request context so it can be
// used downstream as the authenticated user ID.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tok, found := strings.CutPrefix(header, "Bearer ")
			if !found || tok == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := token.Validate(tok, secret)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user ID from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
