package sync

import (
	"context"

	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
)

// ValidationResult is the verdict on a single gossip message.
type ValidationResult int

const (
	// ValidationValid means the message is accepted and may be propagated.
	ValidationValid ValidationResult = iota
	// ValidationInvalid means the message is rejected.
	ValidationInvalid
	// ValidationSavedForFuture means the message references chain data that is
	// not known yet. The gossip layer may present it again later.
	ValidationSavedForFuture
)

func (r ValidationResult) String() string {
	switch r {
	case ValidationValid:
		return "valid"
	case ValidationInvalid:
		return "invalid"
	case ValidationSavedForFuture:
		return "saved_for_future"
	default:
		return "unknown"
	}
}

// AttestationValidator checks a single or aggregated attestation on its own:
// its signature, its target and the blocks it references.
type AttestationValidator interface {
	SingleOrAggregateAttestationChecks(ctx context.Context, att *ethpb.Attestation) ValidationResult
}
