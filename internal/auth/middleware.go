package auth

import (
	"net/http"
	"strings"
	"time"

	"carservice/internal/api"
	"carservice/internal/user"
)

// SessionAuth resolves the bearer token into an identity and attaches it to
// the request context. Requests without a live session are rejected.
func SessionAuth(mgr *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token")
				return
			}

			ident, err := mgr.Authenticate(token, time.Now())
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
				return
			}

			next.ServeHTTP(w, r.WithContext(api.WithIdentity(r.Context(), ident)))
		})
	}
}

// RequireRole guards a route subtree to a single role. It assumes SessionAuth
// already ran.
func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := api.IdentityFromContext(r.Context())
			if ident == nil {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
				return
			}
			if ident.Role != role {
				api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}
