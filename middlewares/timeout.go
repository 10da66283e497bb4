package middlewares

import (
	"context"
	"net/http"
	"time"
)

// DefaultTimeout is the request timeout used when none is given.
const DefaultTimeout = 30 * time.Second

// Timeout bounds the request context. Handlers observe the deadline
// through ctx.Done(); the response itself is not cut off, so a handler
// that ignores its context keeps running.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
