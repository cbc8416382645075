package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/httpapi"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) < len("bearer ") || !strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[len("bearer "):])
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, code, message string) {
	meta := map[string]string{}
	if id := composables.UseRequestID(r.Context()); id != "" {
		meta["request_id"] = id
	}
	_ = httpapi.WriteError(w, http.StatusUnauthorized, code, message, meta)
}

// WithSession resolves the bearer token, when present, into a session stored in the
// request context. Unknown or expired tokens are rejected with 401; anonymous requests
// pass through untouched.
func WithSession(store session.TokenStore) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			s, err := store.Get(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrExpired):
				writeUnauthorized(w, r, "AUTH_INVALID_TOKEN", "invalid or expired token")
				return
			default:
				composables.UseLogger(r.Context()).WithError(err).Error("failed to resolve session")
				_ = httpapi.WriteError(w, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "session store unavailable", nil)
				return
			}
			ctx := composables.WithSession(r.Context(), s)
			ctx = composables.WithLogger(ctx, composables.UseLogger(ctx).WithField("user-id", s.UserID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests that carry no resolved session.
func RequireSession() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseSession(r.Context()); err != nil {
				writeUnauthorized(w, r, "AUTH_REQUIRED", "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
