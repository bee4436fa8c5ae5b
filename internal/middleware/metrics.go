// AngelaMos | 2026
// metrics.go

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

// Metrics labels by chi route pattern so ids do not explode cardinality.
func Metrics(m *core.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}

			m.RequestsTotal.
				WithLabelValues(r.Method, route, strconv.Itoa(status)).
				Inc()
			m.RequestDuration.
				WithLabelValues(r.Method, route).
				Observe(time.Since(start).Seconds())
		})
	}
}
