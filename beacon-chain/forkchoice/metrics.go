package forkchoice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blockCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forkchoice_store_block_count",
			Help: "The number of blocks held by the fork choice store.",
		},
	)
	finalizedEpochGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forkchoice_store_finalized_epoch",
			Help: "The finalized epoch of the fork choice store.",
		},
	)
	justifiedEpochGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forkchoice_store_justified_epoch",
			Help: "The justified epoch of the fork choice store.",
		},
	)
	commitCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forkchoice_store_commit_count",
			Help: "The number of committed fork choice store transactions.",
		},
	)
	failedCommitCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forkchoice_store_failed_commit_count",
			Help: "The number of fork choice store transactions rejected on commit.",
		},
	)
	calledHeadCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forkchoice_store_head_requested_count",
			Help: "The number of times someone called head.",
		},
	)
	prunedBlockCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forkchoice_store_pruned_block_count",
			Help: "The number of blocks pruned from the fork choice store.",
		},
	)
)
