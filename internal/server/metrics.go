// internal/server/metrics.go
package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealengine_requests_total",
			Help: "HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dealengine_request_duration_seconds",
			Help:    "HTTP request latency by endpoint",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	verdictScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dealengine_verdict_score",
			Help:    "Distribution of composite deal scores",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealengine_cache_requests_total",
			Help: "Verdict cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(requestCounter, requestDuration, verdictScore, cacheHits)
}

func recordRequest(endpoint, status string, start time.Time) {
	requestCounter.WithLabelValues(endpoint, status).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
