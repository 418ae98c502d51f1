package blockchain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"go.opencensus.io/trace"
)

// ReceiveAttestation records the attestation of validatorIndices for the
// block root as their latest fork choice vote. The head is recomputed on the
// next UpdateHead or block import.
func (s *Service) ReceiveAttestation(ctx context.Context, validatorIndices []uint64, blockRoot [32]byte, targetEpoch primitives.Epoch) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.ReceiveAttestation")
	defer span.End()

	if s.IsPreGenesis() {
		return forkchoice.ErrNotReady
	}
	if !s.cfg.ForkChoiceStore.HasBlock(blockRoot) {
		return errors.Wrapf(forkchoice.ErrUnknownVoteRoot, "root %#x", blockRoot)
	}
	tx := s.cfg.ForkChoiceStore.StartTransaction()
	tx.ProcessAttestation(validatorIndices, blockRoot, targetEpoch)
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "could not record attestation")
	}
	processedAttestationCount.Add(float64(len(validatorIndices)))
	return nil
}
