// Package params defines important constants that are essential to the
// beacon chain core.
package params

import (
	"time"

	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

// BeaconChainConfig contains constant configs for node to participate in beacon chain.
type BeaconChainConfig struct {
	// Constants (non-configurable)
	FarFutureEpoch primitives.Epoch `yaml:"FAR_FUTURE_EPOCH"` // FarFutureEpoch represents a epoch extremely far away in the future used as the default penalization epoch for validators.
	ZeroHash       [32]byte         // ZeroHash is used to represent a zeroed out 32 byte array.

	// Misc constants.
	TargetCommitteeSize           uint64 `yaml:"TARGET_COMMITTEE_SIZE" spec:"true"`            // TargetCommitteeSize is the number of validators in a committee when the chain is healthy.
	MaxCommitteesPerSlot          uint64 `yaml:"MAX_COMMITTEES_PER_SLOT" spec:"true"`          // MaxCommitteesPerSlot defines the max amount of committee in a single slot.
	ShuffleRoundCount             uint64 `yaml:"SHUFFLE_ROUND_COUNT" spec:"true"`              // ShuffleRoundCount is used for retaining the global randomness.
	TargetAggregatorsPerCommittee uint64 `yaml:"TARGET_AGGREGATORS_PER_COMMITTEE" spec:"true"` // TargetAggregatorsPerCommittee defines the number of aggregators inside one committee.
	ValidatorRegistryLimit        uint64 `yaml:"VALIDATOR_REGISTRY_LIMIT" spec:"true"`         // ValidatorRegistryLimit defines the upper bound of validators can participate in eth2.

	// Gwei value constants.
	MaxEffectiveBalance       uint64 `yaml:"MAX_EFFECTIVE_BALANCE" spec:"true"`       // MaxEffectiveBalance is the maximal amount of Gwei that is effective for staking.
	EffectiveBalanceIncrement uint64 `yaml:"EFFECTIVE_BALANCE_INCREMENT" spec:"true"` // EffectiveBalanceIncrement is used for converting the high balance into the low balance for validators.

	// Initial value constants.
	GenesisSlot  primitives.Slot  `yaml:"GENESIS_SLOT"`  // GenesisSlot represents the first canonical slot number of the beacon chain.
	GenesisEpoch primitives.Epoch `yaml:"GENESIS_EPOCH"` // GenesisEpoch represents the first canonical epoch number of the beacon chain.
	GenesisDelay uint64           `yaml:"GENESIS_DELAY" spec:"true"`

	// Time parameters constants.
	SecondsPerSlot             uint64           `yaml:"SECONDS_PER_SLOT" spec:"true"`               // SecondsPerSlot is how many seconds are in a single slot.
	SlotsPerEpoch              primitives.Slot  `yaml:"SLOTS_PER_EPOCH" spec:"true"`                // SlotsPerEpoch is the number of slots in an epoch.
	MinSeedLookahead           primitives.Epoch `yaml:"MIN_SEED_LOOKAHEAD" spec:"true"`             // MinSeedLookahead is the duration of randao look ahead seed.
	SafeSlotsToUpdateJustified primitives.Slot  `yaml:"SAFE_SLOTS_TO_UPDATE_JUSTIFIED" spec:"true"` // SafeSlotsToUpdateJustified is the minimal slots needed to update justified check point.

	// State list lengths
	EpochsPerHistoricalVector primitives.Epoch `yaml:"EPOCHS_PER_HISTORICAL_VECTOR" spec:"true"` // EpochsPerHistoricalVector defines max length in epoch to store old historical stats in beacon state.
	SlotsPerHistoricalRoot    primitives.Slot  `yaml:"SLOTS_PER_HISTORICAL_ROOT" spec:"true"`    // SlotsPerHistoricalRoot defines max historical roots that can be saved in state before roll over.

	// BLS domain values.
	DomainBeaconProposer    [4]byte `yaml:"DOMAIN_BEACON_PROPOSER" spec:"true"`     // DomainBeaconProposer defines the BLS signature domain for beacon proposal verification.
	DomainRandao            [4]byte `yaml:"DOMAIN_RANDAO" spec:"true"`              // DomainRandao defines the BLS signature domain for randao verification.
	DomainBeaconAttester    [4]byte `yaml:"DOMAIN_BEACON_ATTESTER" spec:"true"`     // DomainBeaconAttester defines the BLS signature domain for attestation verification.
	DomainSelectionProof    [4]byte `yaml:"DOMAIN_SELECTION_PROOF" spec:"true"`     // DomainSelectionProof defines the BLS signature domain for selection proof.
	DomainAggregateAndProof [4]byte `yaml:"DOMAIN_AGGREGATE_AND_PROOF" spec:"true"` // DomainAggregateAndProof defines the BLS signature domain for aggregate and proof.

	// Prysm constants.
	BLSSecretKeyLength int    `yaml:"BLS_SECRET_KEY_LENGTH"` // BLSSecretKeyLength defines the expected length of BLS secret keys in bytes.
	BLSPubkeyLength    int    `yaml:"BLS_PUBKEY_LENGTH"`     // BLSPubkeyLength defines the expected length of BLS public keys in bytes.
	BLSSignatureLength int    `yaml:"BLS_SIGNATURE_LENGTH"`  // BLSSignatureLength defines the expected length of BLS signatures in bytes.
	ConfigName         string `yaml:"CONFIG_NAME" spec:"true"`
	PresetBase         string `yaml:"PRESET_BASE" spec:"true"`

	// Fork-related values.
	GenesisForkVersion []byte `yaml:"GENESIS_FORK_VERSION" spec:"true"` // GenesisForkVersion is used to track fork version between state transitions.

	// Storage values.
	StateCacheSize       int `yaml:"STATE_CACHE_SIZE"`       // StateCacheSize is the number of decoded post states the database keeps in memory.
	CommitteeCacheSize   int `yaml:"COMMITTEE_CACHE_SIZE"`   // CommitteeCacheSize is the number of shuffled index lists kept in memory.
	PruneSlotsAfterFinal int `yaml:"PRUNE_SLOTS_AFTER_FINAL"` // PruneSlotsAfterFinal is kept as a pruning margin, in slots, behind the finalized slot.
}

// SlotDuration is the wall clock length of a slot.
func (b *BeaconChainConfig) SlotDuration() time.Duration {
	return time.Duration(b.SecondsPerSlot) * time.Second
}
