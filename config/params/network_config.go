package params

import (
	"sync"
	"time"

	"github.com/mohae/deepcopy"
)

// NetworkConfig defines the spec based network parameters.
type NetworkConfig struct {
	GossipMaxSize                   uint64        `yaml:"GOSSIP_MAX_SIZE"`                    // GossipMaxSize is the maximum allowed size of uncompressed gossip messages.
	AttestationPropagationSlotRange uint64        `yaml:"ATTESTATION_PROPAGATION_SLOT_RANGE"` // AttestationPropagationSlotRange is the maximum number of slots during which an attestation can be propagated.
	MaximumGossipClockDisparity     time.Duration `yaml:"MAXIMUM_GOSSIP_CLOCK_DISPARITY"`     // MaximumGossipClockDisparity is the maximum milliseconds of clock disparity assumed between honest nodes.
	SeenAggregateCleanupInterval    time.Duration // SeenAggregateCleanupInterval is how often expired aggregate dedup records are swept.
}

var networkConfig = mainnetNetworkConfig
var networkConfigLock sync.RWMutex

var mainnetNetworkConfig = &NetworkConfig{
	GossipMaxSize:                   1 << 20, // 1 MiB
	AttestationPropagationSlotRange: 32,
	MaximumGossipClockDisparity:     500 * time.Millisecond,
	SeenAggregateCleanupInterval:    time.Minute,
}

// BeaconNetworkConfig returns the current network config for
// the beacon chain.
func BeaconNetworkConfig() *NetworkConfig {
	networkConfigLock.RLock()
	defer networkConfigLock.RUnlock()
	return networkConfig
}

// OverrideBeaconNetworkConfig will override the network
// config with the added argument.
func OverrideBeaconNetworkConfig(cfg *NetworkConfig) {
	networkConfigLock.Lock()
	defer networkConfigLock.Unlock()
	networkConfig = cfg
}

// Copy returns Copy of the config object.
func (c *NetworkConfig) Copy() *NetworkConfig {
	config, ok := deepcopy.Copy(*c).(NetworkConfig)
	if !ok {
		panic("could not deep copy network config")
	}
	return &config
}
