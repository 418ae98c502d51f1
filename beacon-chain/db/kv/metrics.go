package kv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	saveUpdateLatency = promauto.NewSummary(prometheus.SummaryOpts{
		Name: "beacondb_save_fork_choice_update_latency_milliseconds",
		Help: "Captures the time taken to persist a fork choice update in milliseconds",
	})
	savedBlocksCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacondb_saved_blocks_total",
		Help: "The number of blocks persisted by fork choice updates",
	})
)
