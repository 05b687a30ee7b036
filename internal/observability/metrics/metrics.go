// Package metrics owns the prometheus vectors and the /metrics handler.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// HTTPRequestsTotal counts processed requests.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration observes request latency.
	HTTPRequestDuration *prometheus.HistogramVec
	// HTTPInflight gauges in-flight requests.
	HTTPInflight *prometheus.GaugeVec

	loginsTotal   *prometheus.CounterVec
	renewalsTotal *prometheus.CounterVec
	sweepsTotal   *prometheus.CounterVec
)

// Register initializes the vectors and returns the /metrics handler.
// Idempotent; a nil registry means the default one.
func Register(registry *prometheus.Registry) http.Handler {
	var reg prometheus.Registerer = prometheus.DefaultRegisterer
	gatherer := prometheus.DefaultGatherer
	if registry != nil {
		reg = registry
		gatherer = registry
	}

	once.Do(func() {
		HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of processed requests",
		}, []string{"method", "path", "status"})

		HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		HTTPInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "In-flight requests by method and path",
		}, []string{"method", "path"})

		loginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by provider and result",
		}, []string{"provider", "result"})

		renewalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_renewals_total",
			Help: "Refresh renewals by result",
		}, []string{"result"})

		sweepsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_refresh_sweeps_total",
			Help: "Expired refresh tokens purged",
		}, []string{"result"})

		reg.MustRegister(
			HTTPRequestsTotal, HTTPRequestDuration, HTTPInflight,
			loginsTotal, renewalsTotal, sweepsTotal,
		)
	})

	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveLogin records a login attempt outcome ("ok" or an error kind).
func ObserveLogin(provider, result string) {
	if loginsTotal != nil {
		loginsTotal.WithLabelValues(provider, result).Inc()
	}
}

// ObserveRenewal records a refresh renewal outcome.
func ObserveRenewal(result string) {
	if renewalsTotal != nil {
		renewalsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveSweep records a sweep run outcome.
func ObserveSweep(result string) {
	if sweepsTotal != nil {
		sweepsTotal.WithLabelValues(result).Inc()
	}
}
