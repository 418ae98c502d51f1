package blockchain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	beaconSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_slot",
		Help: "Latest slot of the beacon chain state",
	})
	beaconHeadSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_head_slot",
		Help: "Slot of the head block of the beacon chain",
	})
	reorgCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_reorg_total",
		Help: "Count the number of times beacon chain has a reorg",
	})
	processedBlockCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_processed_block_total",
		Help: "Count the number of blocks accepted into the fork choice store",
	})
	processedAttestationCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_processed_attestation_total",
		Help: "Count the number of attestations recorded as fork choice votes",
	})
)
