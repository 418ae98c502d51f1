// Package helpers contains helper functions outlined in the Ethereum Beacon Chain spec, such as
// computing committees, randao, rewards/penalties, and more.
package helpers

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/cache"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	"github.com/prysmaticlabs/chaindata/config/params"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/time/slots"
	"go.opencensus.io/trace"
)

var committeeCache = cache.NewCommitteesCache()

// ErrCommitteeIndexOutOfRange is returned when a committee index is not below
// the committee count of its slot.
var ErrCommitteeIndexOutOfRange = errors.New("committee index out of range")

// SlotCommitteeCount returns the number of beacon committees of a slot. The
// active validator count is provided as an argument rather than an imported implementation
// from the spec definition. Having the active validator count as an argument allows for
// cheaper computation, instead of retrieving head state, one can retrieve the validator
// count.
//
// Spec pseudocode definition:
//
//	def get_committee_count_per_slot(state: BeaconState, epoch: Epoch) -> uint64:
//	  """
//	  Return the number of committees in each slot for the given ``epoch``.
//	  """
//	  return max(uint64(1), min(
//	      MAX_COMMITTEES_PER_SLOT,
//	      uint64(len(get_active_validator_indices(state, epoch))) // SLOTS_PER_EPOCH // TARGET_COMMITTEE_SIZE,
//	  ))
func SlotCommitteeCount(activeValidatorCount uint64) uint64 {
	cfg := params.BeaconConfig()
	var committeesPerSlot = activeValidatorCount / uint64(cfg.SlotsPerEpoch) / cfg.TargetCommitteeSize

	if committeesPerSlot > cfg.MaxCommitteesPerSlot {
		return cfg.MaxCommitteesPerSlot
	}
	if committeesPerSlot == 0 {
		return 1
	}

	return committeesPerSlot
}

// BeaconCommitteeFromState returns the crosslink committee of a given slot and committee index. This
// is a spec implementation where state is used as an argument. In case of state retrieval
// becomes expensive, consider using BeaconCommittee below.
//
// Spec pseudocode definition:
//
//	def get_beacon_committee(state: BeaconState, slot: Slot, index: CommitteeIndex) -> Sequence[ValidatorIndex]:
//	  """
//	  Return the beacon committee at ``slot`` for ``index``.
//	  """
//	  epoch = compute_epoch_at_slot(slot)
//	  committees_per_slot = get_committee_count_per_slot(state, epoch)
//	  return compute_committee(
//	      indices=get_active_validator_indices(state, epoch),
//	      seed=get_seed(state, epoch, DOMAIN_BEACON_ATTESTER),
//	      index=(slot % SLOTS_PER_EPOCH) * committees_per_slot + index,
//	      count=committees_per_slot * SLOTS_PER_EPOCH,
//	  )
func BeaconCommitteeFromState(ctx context.Context, st state.ReadOnlyBeaconState, slot primitives.Slot, committeeIndex primitives.CommitteeIndex) ([]primitives.ValidatorIndex, error) {
	ctx, span := trace.StartSpan(ctx, "helpers.BeaconCommitteeFromState")
	defer span.End()

	epoch := slots.ToEpoch(slot)
	seed, err := Seed(st, epoch, params.BeaconConfig().DomainBeaconAttester)
	if err != nil {
		return nil, errors.Wrap(err, "could not get seed")
	}

	shuffled, committeesPerSlot, err := shuffledIndices(ctx, st, epoch, seed)
	if err != nil {
		return nil, err
	}
	if uint64(committeeIndex) >= committeesPerSlot {
		return nil, errors.Wrapf(ErrCommitteeIndexOutOfRange, "index %d, committees per slot %d", committeeIndex, committeesPerSlot)
	}

	indexOffset := uint64(slot.Mod(uint64(params.BeaconConfig().SlotsPerEpoch)))*committeesPerSlot + uint64(committeeIndex)
	count := committeesPerSlot * uint64(params.BeaconConfig().SlotsPerEpoch)
	return committeeSlice(shuffled, indexOffset, count)
}

// ComputeCommittee returns the requested shuffled committee out of the total committees using
// validator indices and seed.
//
// Spec pseudocode definition:
//
//	def compute_committee(indices: Sequence[ValidatorIndex],
//	                    seed: Bytes32,
//	                    index: uint64,
//	                    count: uint64) -> Sequence[ValidatorIndex]:
//	  """
//	  Return the committee corresponding to ``indices``, ``seed``, ``index``, and committee ``count``.
//	  """
//	  start = (len(indices) * index) // count
//	  end = (len(indices) * uint64(index + 1)) // count
//	  return [indices[compute_shuffled_index(uint64(i), uint64(len(indices)), seed)] for i in range(start, end)]
func ComputeCommittee(
	indices []primitives.ValidatorIndex,
	seed [32]byte,
	index, count uint64,
) ([]primitives.ValidatorIndex, error) {
	validatorCount := uint64(len(indices))
	if count == 0 {
		return nil, errors.New("zero committee count")
	}
	start := validatorCount * index / count
	end := validatorCount * (index + 1) / count
	if start > end || end > validatorCount {
		return nil, errors.New("index out of range")
	}

	shuffledList := make([]primitives.ValidatorIndex, end-start)
	for i := start; i < end; i++ {
		permutedIndex, err := ShuffledIndex(primitives.ValidatorIndex(i), validatorCount, seed)
		if err != nil {
			return nil, errors.Wrapf(err, "could not get shuffled index at index %d", i)
		}
		shuffledList[i-start] = indices[permutedIndex]
	}
	return shuffledList, nil
}

// shuffledIndices returns the full shuffling of the active validator set for
// epoch, going through the committee cache.
func shuffledIndices(ctx context.Context, st state.ReadOnlyBeaconState, epoch primitives.Epoch, seed [32]byte) ([]primitives.ValidatorIndex, uint64, error) {
	_, span := trace.StartSpan(ctx, "helpers.shuffledIndices")
	defer span.End()

	indices, committeesPerSlot, err := committeeCache.ShuffledIndices(seed)
	if err != nil {
		return nil, 0, err
	}
	if indices != nil {
		return indices, committeesPerSlot, nil
	}

	active, err := ActiveValidatorIndices(st, epoch)
	if err != nil {
		return nil, 0, errors.Wrap(err, "could not get active indices")
	}
	shuffled, err := ShuffleList(active, seed)
	if err != nil {
		return nil, 0, err
	}
	committeesPerSlot = SlotCommitteeCount(uint64(len(active)))
	if err := committeeCache.AddCommitteeShuffledList(&cache.Committees{
		CommitteeCount:  committeesPerSlot,
		Seed:            seed,
		ShuffledIndices: shuffled,
	}); err != nil {
		return nil, 0, err
	}
	return shuffled, committeesPerSlot, nil
}

func committeeSlice(shuffled []primitives.ValidatorIndex, index, count uint64) ([]primitives.ValidatorIndex, error) {
	validatorCount := uint64(len(shuffled))
	start := validatorCount * index / count
	end := validatorCount * (index + 1) / count
	if start > end || end > validatorCount {
		return nil, errors.New("index out of range")
	}
	committee := make([]primitives.ValidatorIndex, end-start)
	copy(committee, shuffled[start:end])
	return committee, nil
}
