package params

// MinimalSpecConfig retrieves the minimal config used in spec tests.
func MinimalSpecConfig() *BeaconChainConfig {
	minimalConfig := mainnetBeaconConfig.Copy()

	// Misc
	minimalConfig.MaxCommitteesPerSlot = 4
	minimalConfig.TargetCommitteeSize = 4
	minimalConfig.ShuffleRoundCount = 10

	// Time parameters
	minimalConfig.SecondsPerSlot = 6
	minimalConfig.SlotsPerEpoch = 8
	minimalConfig.SafeSlotsToUpdateJustified = 2
	minimalConfig.GenesisDelay = 300

	// State vector lengths
	minimalConfig.EpochsPerHistoricalVector = 64
	minimalConfig.SlotsPerHistoricalRoot = 64

	// Fork
	minimalConfig.GenesisForkVersion = []byte{0, 0, 0, 1}

	minimalConfig.StateCacheSize = 16
	minimalConfig.CommitteeCacheSize = 8
	minimalConfig.PruneSlotsAfterFinal = 8

	minimalConfig.ConfigName = ConfigNames[Minimal]
	minimalConfig.PresetBase = "minimal"

	return minimalConfig
}
