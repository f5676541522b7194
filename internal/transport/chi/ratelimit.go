package chi

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/kailas-cloud/bizdex/internal/metrics"
)

// RateLimitMiddleware enforces a process-wide token bucket. rps <= 0 disables it.
// Exempt paths are never throttled so probes keep working under load.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		if burst <= 0 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(rps), burst)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExempt(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow() {
				metrics.RecordRateLimited()
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, ErrorResponseCodeRateLimited, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
