package helpers

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	"github.com/prysmaticlabs/chaindata/config/params"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/crypto/hash"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
)

// Seed returns the randao seed used for shuffling of a given epoch.
//
// Spec pseudocode definition:
//
//	def get_seed(state: BeaconState, epoch: Epoch, domain_type: DomainType) -> Bytes32:
//	  """
//	  Return the seed at ``epoch``.
//	  """
//	  mix = get_randao_mix(state, Epoch(epoch + EPOCHS_PER_HISTORICAL_VECTOR - MIN_SEED_LOOKAHEAD - 1))  # Avoid underflow
//	  return hash(domain_type + uint_to_bytes(epoch) + mix)
func Seed(st state.ReadOnlyBeaconState, epoch primitives.Epoch, domain [4]byte) ([32]byte, error) {
	// See https://github.com/ethereum/consensus-specs/pull/1296 for
	// rationale on why offset has to look down by 1.
	cfg := params.BeaconConfig()
	lookAheadEpoch := epoch + cfg.EpochsPerHistoricalVector - cfg.MinSeedLookahead - 1

	randaoMix, err := RandaoMix(st, lookAheadEpoch)
	if err != nil {
		return [32]byte{}, err
	}
	seed := append(domain[:], bytesutil.Bytes8(uint64(epoch))...)
	seed = append(seed, randaoMix[:]...)

	return hash.Hash(seed), nil
}

// RandaoMix returns the randao mix (xor'ed seed)
// of a given slot. It is used to shuffle validators.
//
// Spec pseudocode definition:
//
//	def get_randao_mix(state: BeaconState, epoch: Epoch) -> Bytes32:
//	  """
//	  Return the randao mix at a recent ``epoch``.
//	  """
//	  return state.randao_mixes[epoch % EPOCHS_PER_HISTORICAL_VECTOR]
func RandaoMix(st state.ReadOnlyBeaconState, epoch primitives.Epoch) ([32]byte, error) {
	mix, err := st.RandaoMixAtIndex(uint64(epoch % params.BeaconConfig().EpochsPerHistoricalVector))
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not get randao mix")
	}
	return mix, nil
}
