package middleware

import (
	"net/http"
	"strings"

	"github.com/etuition/etuition-api/pkg/auth"
	"github.com/etuition/etuition-api/pkg/logger"
	"github.com/etuition/etuition-api/pkg/response"
)

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate requires "Authorization: Bearer <token>" and stores the
// verified email in the request context (see auth.EmailFromCtx). Any
// failure ends the request with 401.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.Unauthorized(w, "No auth header found")
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				response.Unauthorized(w, "No token found in auth header")
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				response.Unauthorized(w, "Token is not valid")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithEmail(r.Context(), claims.Email)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
