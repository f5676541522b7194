package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search index Prometheus metrics.
var (
	IndexRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizdex",
			Name:      "index_requests_total",
			Help:      "Total number of search index operations",
		},
		[]string{"backend", "op", "status"},
	)

	IndexRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizdex",
			Name:      "index_request_duration_seconds",
			Help:      "Search index operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend", "op"},
	)

	SearchHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizdex",
			Name:      "search_total_hits",
			Help:      "Total matching listings per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"backend", "sort"},
	)
)

var registerIndexOnce sync.Once

// RegisterIndexMetrics registers the index metrics with the default registry. Safe to call repeatedly.
func RegisterIndexMetrics() {
	registerIndexOnce.Do(func() {
		prometheus.MustRegister(IndexRequestsTotal)
		prometheus.MustRegister(IndexRequestDuration)
		prometheus.MustRegister(SearchHits)
	})
}
