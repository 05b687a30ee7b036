// Package http wires the routes, middleware stack and server of the API.
package http

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/todolabs/todolist/internal/http/middlewares"
	"github.com/todolabs/todolist/internal/observability/metrics"
)

// idSegment matches UUID-ish path segments so per-resource URLs collapse
// into one label value.
var idSegment = regexp.MustCompile(`/[0-9a-fA-F-]{16,}`)

func normalizePath(path string) string {
	return idSegment.ReplaceAllString(path, "/:id")
}

type metricsRecorder struct {
	http.ResponseWriter
	status int
}

func (m *metricsRecorder) WriteHeader(code int) {
	if m.status == 0 {
		m.status = code
	}
	m.ResponseWriter.WriteHeader(code)
}

func (m *metricsRecorder) Write(b []byte) (int, error) {
	if m.status == 0 {
		m.status = http.StatusOK
	}
	return m.ResponseWriter.Write(b)
}

// WithMetrics records request count, latency and the in-flight gauge.
func WithMetrics() middlewares.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if metrics.HTTPRequestsTotal == nil {
				next.ServeHTTP(w, r)
				return
			}

			path := normalizePath(r.URL.Path)
			start := time.Now()
			metrics.HTTPInflight.WithLabelValues(r.Method, path).Inc()
			defer metrics.HTTPInflight.WithLabelValues(r.Method, path).Dec()

			rec := &metricsRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
