// Package rbac gates routes on the caller's stored role.
package rbac

import (
	"context"
	"net/http"

	"github.com/etuition/etuition-api/pkg/auth"
	"github.com/etuition/etuition-api/pkg/logger"
	"github.com/etuition/etuition-api/pkg/response"
)

// RoleResolver looks up the role currently stored for email. It returns
// ("", nil) when no such user exists.
type RoleResolver interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// RoleResolverFunc adapts a function to RoleResolver.
type RoleResolverFunc func(ctx context.Context, email string) (string, error)

func (f RoleResolverFunc) RoleOf(ctx context.Context, email string) (string, error) {
	return f(ctx, email)
}

// HasRole allows the request through only when the verified caller's stored
// role is one of roles. It must run after middleware.Authenticate.
// A missing identity answers 401, a failed lookup 500, any other mismatch 403.
func HasRole(resolver RoleResolver, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := auth.EmailFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			role, err := resolver.RoleOf(r.Context(), email)
			if err != nil {
				logger.WithCtx(r.Context()).Error("role lookup failed", "email", email, "error", err)
				response.Error(w, http.StatusInternalServerError, "Server error during role check")
				return
			}

			if !allowed[role] {
				response.Forbidden(w, "Forbidden: insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
