package helpers

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/config/params"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/crypto/hash"
	"github.com/prysmaticlabs/chaindata/time/slots"
)

var (
	// ErrTooEarly is returned when an attestation slot starts after the local
	// clock plus the allowed clock disparity.
	ErrTooEarly = errors.New("attestation slot is in the future")
	// ErrTooLate is returned when an attestation is older than the
	// propagation slot range.
	ErrTooLate = errors.New("attestation slot is outside the propagation window")
)

// IsAggregator returns true if the signature is from the input validator. The committee
// count is provided as an argument rather than imported implementation from spec. Having
// committee count as an argument allows cheaper computation at run time.
//
// Spec pseudocode definition:
//
//	def is_aggregator(state: BeaconState, slot: Slot, index: CommitteeIndex, slot_signature: BLSSignature) -> bool:
//	  committee = get_beacon_committee(state, slot, index)
//	  modulo = max(1, len(committee) // TARGET_AGGREGATORS_PER_COMMITTEE)
//	  return bytes_to_uint64(hash(slot_signature)[0:8]) % modulo == 0
func IsAggregator(committeeCount uint64, slotSig []byte) (bool, error) {
	modulo := uint64(1)
	if committeeCount/params.BeaconConfig().TargetAggregatorsPerCommittee > 1 {
		modulo = committeeCount / params.BeaconConfig().TargetAggregatorsPerCommittee
	}

	b := hash.Hash(slotSig)
	return binary.LittleEndian.Uint64(b[:8])%modulo == 0, nil
}

// ValidateAttestationTime validates that the attestation slot lies within the
// propagation window relative to now, with clockDisparity tolerance on both sides.
//
//	attestation.data.slot + ATTESTATION_PROPAGATION_SLOT_RANGE >= current_slot >= attestation.data.slot
//
// It returns ErrTooEarly for future attestations and ErrTooLate for expired ones.
func ValidateAttestationTime(attSlot primitives.Slot, genesisTime uint64, now time.Time, clockDisparity time.Duration) error {
	attTime := slots.StartTime(genesisTime, attSlot)

	// When receiving an attestation, it can be from the future.
	// so the upper bounds is set to now + clockDisparity.
	upperBounds := now.Add(clockDisparity)
	if attTime.After(upperBounds) {
		attReceivedTooEarlyCount.Inc()
		return errors.Wrapf(ErrTooEarly, "attestation slot %d starts at %v, upper bound %v", attSlot, attTime, upperBounds)
	}

	// An attestation cannot be older than the current slot - attestation propagation slot range
	// with a minor tolerance for peer clock disparity.
	lowerSlot := slots.CurrentSlot(genesisTime, now.Add(-clockDisparity))
	if uint64(attSlot)+params.BeaconNetworkConfig().AttestationPropagationSlotRange < uint64(lowerSlot) {
		attReceivedTooLateCount.Inc()
		return errors.Wrapf(ErrTooLate, "attestation slot %d, current slot %d", attSlot, lowerSlot)
	}
	return nil
}
