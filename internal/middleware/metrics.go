package middleware

import (
	"net/http"
	"time"

	"github.com/gmgoals/goals/internal/metrics"
)

// Metrics records request count and latency by route pattern. It must be the
// innermost middleware: the mux fills r.Pattern on the request it is handed.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			next.ServeHTTP(rw, r)

			m.ObserveRequest(r.Method, r.Pattern, rw.statusCode, time.Since(start))
		})
	}
}
