// Package metrics instruments network construction: how many fragments each
// builder produced, how many rows they processed, which validation failures
// occurred and how often fragments are merged.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the library
type Registry struct {
	registry prometheus.Registerer

	// Builder metrics
	NetworksBuiltTotal *prometheus.CounterVec // by data source kind
	RowsProcessedTotal *prometheus.CounterVec // by data source kind

	// Validation metrics
	ValidationFailuresTotal *prometheus.CounterVec // by error kind

	// Merge metrics
	MergesTotal    prometheus.Counter
	MergeFragments prometheus.Histogram
}

// NewRegistry creates a registry with all metrics registered against the
// given registerer
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{registry: reg}

	r.NetworksBuiltTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmanet_networks_built_total",
			Help: "Total number of network fragments built, by data source kind",
		},
		[]string{"kind"}, // individual, arm, contrast
	)

	r.RowsProcessedTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmanet_rows_processed_total",
			Help: "Total number of data rows ingested by the builders, by data source kind",
		},
		[]string{"kind"},
	)

	r.ValidationFailuresTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmanet_validation_failures_total",
			Help: "Total number of construction failures, by error kind",
		},
		[]string{"kind"},
	)

	r.MergesTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "nmanet_merges_total",
			Help: "Total number of network merge operations",
		},
	)

	r.MergeFragments = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nmanet_merge_fragments",
			Help:    "Number of fragments per merge operation",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	return r
}

// RecordBuild records a successful fragment build. Nil-safe so the library
// can run uninstrumented.
func (r *Registry) RecordBuild(kind string, rows int) {
	if r == nil {
		return
	}
	r.NetworksBuiltTotal.WithLabelValues(kind).Inc()
	r.RowsProcessedTotal.WithLabelValues(kind).Add(float64(rows))
}

// RecordFailure records a construction failure by error kind. Nil-safe.
func (r *Registry) RecordFailure(kind string) {
	if r == nil {
		return
	}
	r.ValidationFailuresTotal.WithLabelValues(kind).Inc()
}

// RecordMerge records one merge over the given number of fragments. Nil-safe.
func (r *Registry) RecordMerge(fragments int) {
	if r == nil {
		return
	}
	r.MergesTotal.Inc()
	r.MergeFragments.Observe(float64(fragments))
}
