// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HttpRequestsTotal counts handled HTTP requests.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of http requests handled by the service.",
		},
		[]string{"path", "method", "code"},
	)

	// JobQueriesTotal counts listing queries by outcome (ok, invalid, error).
	JobQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_queries_total",
			Help: "Total number of job listing queries.",
		},
		[]string{"outcome"},
	)

	// JobQueryDuration observes how long a listing query took end to end.
	JobQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "job_query_duration_seconds",
			Help:    "Latency of job listing queries including count and page fetch.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// JobPostings is the number of stored postings per job type, refreshed periodically.
	JobPostings = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "job_postings",
			Help: "Number of stored job postings by job type.",
		},
		[]string{"job_type"},
	)

	// JobEventsPublished counts lifecycle events handed to the event bus.
	JobEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_events_published_total",
			Help: "Total number of job lifecycle events published.",
		},
		[]string{"type", "status"},
	)

	// CacheLookups counts posting cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_cache_lookups_total",
			Help: "Total number of job posting cache lookups.",
		},
		[]string{"result"},
	)
)
