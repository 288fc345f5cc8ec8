package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"notes-api/models"
	"notes-api/token"
)

type contextKey int

const principalKey contextKey = iota

// PrincipalFrom returns the authenticated principal established by
// RequireAuth for this request.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

// WithPrincipal injects a principal into the context. Used by tests that
// exercise handlers without the full middleware chain.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// RequireAuth validates the bearer token and establishes the request-scoped
// principal before any handler logic runs.
func RequireAuth(tokens *token.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "Authorization header missing")
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			if tokenStr == header {
				unauthorized(w, "Invalid token format")
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			p := models.Principal{UserID: claims.UserID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin guards admin-only routes. Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			unauthorized(w, "Not authenticated")
			return
		}
		if !p.IsAdmin() {
			writeStatus(w, http.StatusForbidden, "Administrator role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	writeStatus(w, http.StatusUnauthorized, message)
}

func writeStatus(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"message": message, "status": status})
}
