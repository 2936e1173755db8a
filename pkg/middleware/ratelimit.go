package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/adhami/splitscan/pkg/response"
)

// RateLimit returns a middleware that rejects requests once the limiter's
// budget is spent. Used on the extraction route, where each request costs a
// model call.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				response.TooManyRequests(w, "Too many extraction requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
