// Package metrics exposes pipeline run counters as prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's prometheus collectors. All methods are safe
// on a nil receiver so the pipeline can run unmetered.
type Metrics struct {
	filesProcessed prometheus.Counter
	filesFailed    prometheus.Counter
	tiersProcessed prometheus.Counter
	tiersFailed    prometheus.Counter
	fileDuration   prometheus.Histogram
}

// New registers the pipeline collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		filesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "scenetier_files_processed_total",
			Help: "Input files fully processed (all tiers attempted).",
		}),
		filesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "scenetier_files_failed_total",
			Help: "Input files that failed to load or clean.",
		}),
		tiersProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "scenetier_tiers_processed_total",
			Help: "Tier outputs persisted.",
		}),
		tiersFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "scenetier_tiers_failed_total",
			Help: "Tier attempts that failed to transform or persist.",
		}),
		fileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scenetier_file_duration_seconds",
			Help:    "Wall time spent per input file, all tiers included.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
	}
}

func (m *Metrics) FileProcessed(seconds float64) {
	if m == nil {
		return
	}
	m.filesProcessed.Inc()
	m.fileDuration.Observe(seconds)
}

func (m *Metrics) FileFailed() {
	if m == nil {
		return
	}
	m.filesFailed.Inc()
}

func (m *Metrics) TierProcessed() {
	if m == nil {
		return
	}
	m.tiersProcessed.Inc()
}

func (m *Metrics) TierFailed() {
	if m == nil {
		return
	}
	m.tiersFailed.Inc()
}
