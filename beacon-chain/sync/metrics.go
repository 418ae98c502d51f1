package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aggregateValidationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregate_validation_total",
			Help: "Count of aggregate and proof messages validated, by result.",
		},
		[]string{"result"},
	)
	aggregateRejectedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregate_rejected_total",
			Help: "Count of aggregate and proof messages rejected, by reason.",
		},
		[]string{"reason"},
	)
	seenAggregateCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "seen_aggregate_cache_size",
		Help: "Number of (slot, aggregator) pairs remembered for deduplication.",
	})
)
