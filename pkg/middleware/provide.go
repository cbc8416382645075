package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/repo"
)

// ProvidePool puts the database pool into every request context. A nil pool is a no-op
// so the memory backend can share the same middleware stack.
func ProvidePool(pool repo.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if pool == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// ClientScope reads the optional client scoping header into the request context.
func ClientScope(header string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v := r.Header.Get(header); header != "" && v != "" {
				r = r.WithContext(composables.WithClientScope(r.Context(), v))
			}
			next.ServeHTTP(w, r)
		})
	}
}
