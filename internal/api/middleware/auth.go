package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	ActorKey  contextKey = "actor"
	PageKey   contextKey = "page"
)

// TokenValidator resolves a bearer token to the user it was issued for.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

// Auth rejects requests without a valid bearer token with a plain 401.
func Auth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w)
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				log.Debug().Str("op", "middleware.Auth").Msg("invalid authorization header format")
				unauthorized(w)
				return
			}

			userID, err := tokens.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				log.Debug().Err(err).Str("op", "middleware.Auth").Msg("token validation failed")
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetActor returns the caller resolved by RequireRoles.
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(domain.Actor)
	return actor, ok
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

func forbidden(w http.ResponseWriter) {
	http.Error(w, "Forbidden", http.StatusForbidden)
}
