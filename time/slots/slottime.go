// Package slots contains slot and epoch arithmetic derived from the beacon
// chain configuration and the genesis time.
package slots

import (
	"fmt"
	"time"

	"github.com/prysmaticlabs/chaindata/config/params"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

// ToEpoch returns the epoch number of the input slot.
//
// Spec pseudocode definition:
//
//	def compute_epoch_at_slot(slot: Slot) -> Epoch:
//	  """
//	  Return the epoch number at ``slot``.
//	  """
//	  return Epoch(slot // SLOTS_PER_EPOCH)
func ToEpoch(slot primitives.Slot) primitives.Epoch {
	return primitives.Epoch(slot.Div(uint64(params.BeaconConfig().SlotsPerEpoch)))
}

// EpochStart returns the first slot number of the
// current epoch.
//
// Spec pseudocode definition:
//
//	def compute_start_slot_at_epoch(epoch: Epoch) -> Slot:
//	  """
//	  Return the start slot of ``epoch``.
//	  """
//	  return Slot(epoch * SLOTS_PER_EPOCH)
func EpochStart(epoch primitives.Epoch) (primitives.Slot, error) {
	spe := uint64(params.BeaconConfig().SlotsPerEpoch)
	if spe != 0 && uint64(epoch) > ^uint64(0)/spe {
		return 0, fmt.Errorf("start slot calculation overflows: epoch %d", epoch)
	}
	return primitives.Slot(uint64(epoch) * spe), nil
}

// IsEpochStart returns true if the given slot number is an epoch starting slot
// number.
func IsEpochStart(slot primitives.Slot) bool {
	return slot%params.BeaconConfig().SlotsPerEpoch == 0
}

// StartTime returns the start time in terms of its unix epoch
// value.
func StartTime(genesis uint64, slot primitives.Slot) time.Time {
	duration := time.Second * time.Duration(slot.Mul(params.BeaconConfig().SecondsPerSlot))
	return time.Unix(int64(genesis), 0).Add(duration) // lint:ignore uintcast -- Genesis timestamp will not exceed int64 in your lifetime.
}

// SinceGenesis returns the number of slots since
// the provided genesis time, evaluated at now.
func SinceGenesis(genesis time.Time, now time.Time) primitives.Slot {
	if genesis.After(now) { // Genesis has not occurred yet.
		return 0
	}
	return primitives.Slot(uint64(now.Unix()-genesis.Unix()) / params.BeaconConfig().SecondsPerSlot)
}

// CurrentSlot returns the current slot as determined by the local clock and
// provided genesis time.
func CurrentSlot(genesisTimeSec uint64, now time.Time) primitives.Slot {
	return SinceGenesis(time.Unix(int64(genesisTimeSec), 0), now) // lint:ignore uintcast -- Genesis timestamp will not exceed int64 in your lifetime.
}

// Since computes the number of time slots that have occurred since the given timestamp.
func Since(timestamp time.Time, now time.Time) primitives.Slot {
	return SinceGenesis(timestamp, now)
}
