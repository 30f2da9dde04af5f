package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UserLookup loads the stored account of an authenticated caller.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// RoleRule lists who may pass RequireRoles.
type RoleRule struct {
	Roles []domain.UserRole
	// OwnerParam names a path parameter; a caller whose id equals it passes.
	OwnerParam string
}

// AllowRoles admits callers holding one of roles.
func AllowRoles(roles ...domain.UserRole) RoleRule {
	return RoleRule{Roles: roles}
}

// OrOwner also admits the caller whose id matches the path parameter.
func (r RoleRule) OrOwner(param string) RoleRule {
	r.OwnerParam = param
	return r
}

// RequireRoles must run after Auth. It reads the caller's stored role, applies
// the rule and stores the resulting domain.Actor in the request context.
func RequireRoles(users UserLookup, rule RoleRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					unauthorized(w)
					return
				}
				log.Error().Err(err).Str("op", "middleware.RequireRoles").Msg("failed to load caller")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			actor := domain.Actor{ID: user.ID, Role: user.Role}
			allowed := actor.Role.In(rule.Roles)
			if !allowed && rule.OwnerParam != "" {
				allowed = chi.URLParam(r, rule.OwnerParam) == actor.ID.String()
			}
			if !allowed {
				forbidden(w)
				return
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
