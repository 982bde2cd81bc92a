package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/gmgoals/goals/internal/metrics"
)

// RateLimiter counts requests per IP in fixed windows. The window starts at
// an IP's first request and the counter expires with it.
type RateLimiter struct {
	counts     *cache.Cache
	limit      int
	trustProxy bool
}

// NewRateLimiter creates a new rate limiter. A limit of 0 or less allows everything.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		counts: cache.New(window, 2*window),
		limit:  limit,
	}
}

// WithTrustedProxy makes the limiter key on X-Forwarded-For / X-Real-IP.
// Only enable it behind a proxy that overwrites those headers.
func (rl *RateLimiter) WithTrustedProxy(trust bool) *RateLimiter {
	rl.trustProxy = trust
	return rl
}

// Allow checks if request from IP should be allowed
func (rl *RateLimiter) Allow(ip string) bool {
	if rl.limit <= 0 {
		return true
	}

	err := rl.counts.Add(ip, 1, cache.DefaultExpiration)
	if err == nil {
		return true
	}

	n, err := rl.counts.IncrementInt(ip, 1)
	if err != nil {
		// expired between Add and Increment: start a new window
		rl.counts.Set(ip, 1, cache.DefaultExpiration)
		return true
	}

	return n <= rl.limit
}

// RateLimitLogin creates middleware for the login endpoint
func RateLimitLogin(limiter *RateLimiter, m *metrics.Metrics) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r, limiter.trustProxy)

			if !limiter.Allow(ip) {
				slog.Warn("rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
				)
				m.LoginAttempt("rate_limited")
				writeDetail(w, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
				return
			}

			next(w, r)
		}
	}
}

// getClientIP extracts the client IP. Forwarding headers are client
// controlled unless a proxy rewrites them, so they are read only when
// trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		xff := r.Header.Get("X-Forwarded-For")
		if xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}

		xri := r.Header.Get("X-Real-IP")
		if xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
