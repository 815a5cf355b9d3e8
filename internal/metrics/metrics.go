// Package metrics holds the Prometheus collectors shared by the TMDB client
// and the HTTP server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream (TMDB) metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_upstream_request_duration_seconds",
			Help:    "Duration of TMDB API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_upstream_requests_total",
			Help: "Total number of TMDB API requests by outcome",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marquee_upstream_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the client-side rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marquee_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Favorites
	FavoritesCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_favorites",
			Help: "Current number of favorite movies",
		},
	)

	// HTTP server metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by marquee-server",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// RecordUpstream records one upstream call. status is the HTTP status code,
// or 0 when the request never produced a response.
func RecordUpstream(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	UpstreamRequests.WithLabelValues(endpoint, label).Inc()
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
