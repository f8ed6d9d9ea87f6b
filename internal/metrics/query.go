package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/assetq/internal/engine"
)

// Query Prometheus metrics.
var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Engine run duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"surface"},
	)

	QueryResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_results",
			Help:      "Records left after filtering and deduplication",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"surface"},
	)

	SnapshotLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Snapshot loads by collection and outcome",
		},
		[]string{"collection", "status"}, // "ok" / "missing" / "error"
	)
)

var registerQueryOnce sync.Once

// RegisterQueryMetrics registers the query metrics with the default registry.
// Safe to call more than once.
func RegisterQueryMetrics() {
	registerQueryOnce.Do(func() {
		prometheus.MustRegister(QueryDuration, QueryResults, SnapshotLoadsTotal)
	})
}

// QueryObserver feeds engine run stats into the query metrics of one surface.
type QueryObserver struct {
	Surface string
}

// ObserveRun implements engine.Observer.
func (o QueryObserver) ObserveRun(s engine.Stats) {
	QueryDuration.WithLabelValues(o.Surface).Observe(s.Took.Seconds())
	QueryResults.WithLabelValues(o.Surface).Observe(float64(s.Total))
}

var _ engine.Observer = QueryObserver{}
