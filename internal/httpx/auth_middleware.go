package httpx

import (
	"net/http"
	"strings"

	"obsdb/internal/platform/crypto"
)

// AuthMiddleware accepts a bearer token signed with secret. When roles is
// non-empty the token role must be one of them.
func AuthMiddleware(secret string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}

			if len(roles) > 0 && !hasRole(roles, claims.Role) {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role", nil)
				return
			}

			ctx := ContextWithSubject(r.Context(), claims.Sub, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasRole(allowed []string, role string) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
