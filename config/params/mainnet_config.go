package params

import "math"

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *BeaconChainConfig {
	return mainnetBeaconConfig
}

var mainnetBeaconConfig = &BeaconChainConfig{
	// Constants (Non-configurable)
	FarFutureEpoch: math.MaxUint64,
	ZeroHash:       [32]byte{},

	// Misc constant.
	TargetCommitteeSize:           128,
	MaxCommitteesPerSlot:          64,
	ShuffleRoundCount:             90,
	TargetAggregatorsPerCommittee: 16,
	ValidatorRegistryLimit:        1099511627776,

	// Gwei value constants.
	MaxEffectiveBalance:       32 * 1e9,
	EffectiveBalanceIncrement: 1 * 1e9,

	// Initial value constants.
	GenesisSlot:  0,
	GenesisEpoch: 0,
	GenesisDelay: 604800, // 1 week.

	// Time parameter constants.
	SecondsPerSlot:             12,
	SlotsPerEpoch:              32,
	MinSeedLookahead:           1,
	SafeSlotsToUpdateJustified: 8,

	// State list length constants.
	EpochsPerHistoricalVector: 65536,
	SlotsPerHistoricalRoot:    8192,

	// BLS domain values.
	DomainBeaconProposer:    bytesToDomain(0x00),
	DomainBeaconAttester:    bytesToDomain(0x01),
	DomainRandao:            bytesToDomain(0x02),
	DomainSelectionProof:    bytesToDomain(0x05),
	DomainAggregateAndProof: bytesToDomain(0x06),

	// Prysm constants.
	BLSSecretKeyLength: 32,
	BLSPubkeyLength:    48,
	BLSSignatureLength: 96,
	ConfigName:         ConfigNames[Mainnet],
	PresetBase:         "mainnet",

	// Fork related values.
	GenesisForkVersion: []byte{0, 0, 0, 0},

	// Storage values.
	StateCacheSize:       128,
	CommitteeCacheSize:   32,
	PruneSlotsAfterFinal: 32,
}

func bytesToDomain(b byte) [4]byte {
	return [4]byte{b, 0, 0, 0}
}

// MainnetTestConfig provides a version of the mainnet config that has a different name
// and a different fork choice schedule. This can be used in cases where we want to use config values
// that are consistent with mainnet, but won't conflict or cause the hard-coded genesis to be loaded.
func MainnetTestConfig() *BeaconChainConfig {
	mn := MainnetConfig().Copy()
	mn.ConfigName = "test-mainnet"
	return mn
}

// UseMainnetConfig for beacon chain services.
func UseMainnetConfig() {
	OverrideBeaconConfig(MainnetConfig().Copy())
}
