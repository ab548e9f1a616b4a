// Package metrics provides Prometheus metrics for fetch, indexing and search.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sercha_learn"

var (
	// ProviderRequestsTotal counts provider invocations.
	// Labels: provider, result (ok, empty, error)
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "provider_requests_total",
			Help:      "Total number of provider requests by outcome",
		},
		[]string{"provider", "result"},
	)

	// ProviderRequestDuration tracks provider latency.
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of provider requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// FallbackExhaustedTotal counts pipelines where every strategy came back empty.
	// Labels: pipeline (video, paper)
	FallbackExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "fallback_exhausted_total",
			Help:      "Total number of pipelines that exhausted all fallback strategies",
		},
		[]string{"pipeline"},
	)

	// RecordsIndexedTotal counts appended embedding records.
	RecordsIndexedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "records_indexed_total",
			Help:      "Total number of embedding records appended to the store",
		},
	)

	// EmbeddingFailuresTotal counts documents or queries whose embedding failed.
	// Labels: stage (add, search)
	EmbeddingFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "embedding_failures_total",
			Help:      "Total number of embedding failures",
		},
		[]string{"stage"},
	)

	// StoreCorruptionTotal counts store corruption detections.
	StoreCorruptionTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "store_corruption_total",
			Help:      "Total number of store corruption errors detected",
		},
	)

	// SearchDuration tracks semantic search latency.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Duration of semantic searches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Provider request outcomes.
const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

// HTTPRequestsTotal counts API requests.
// Labels: route, status
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP API requests by route and status",
	},
	[]string{"route", "status"},
)
