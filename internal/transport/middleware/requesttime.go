package middleware

import (
	"net/http"
	"time"

	errors "github.com/frahmantamala/partner-transaction/internal"
)

// RequestTime stamps the arrival time on the request context. Freshness
// checks read this value instead of the wall clock.
func RequestTime(now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := errors.ContextWithRequestTime(r.Context(), now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
