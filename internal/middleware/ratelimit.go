package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"userledger/internal/httputil"
	"userledger/internal/ratelimit"
)

// RateLimit applies a fixed-window limit per client IP. Limiter errors
// fail open: an unreachable Redis must not take the API down with it.
func RateLimit(limiter ratelimit.Limiter, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := limiter.Allow(r.Context(), "ip:"+clientIP(r), limit, window)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable, allowing request",
					"error", err,
					"request_id", httputil.RequestID(r.Context()),
				)
				next.ServeHTTP(w, r)
				return
			}

			resetSeconds := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
			if resetSeconds < 0 {
				resetSeconds = 0
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(resetSeconds))

			if !decision.Allowed {
				h.Set("Retry-After", strconv.Itoa(resetSeconds))
				httputil.RespondErrorWithExtras(w, http.StatusTooManyRequests, "rate limit exceeded", map[string]interface{}{
					"retry_after": resetSeconds,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
