package forkchoice

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// Prune removes blocks and their states that do not descend from the
// finalized root and sit more than PruneSlotsAfterFinal below the finalized slot.
// Checkpoint roots are always kept. Votes for removed blocks are reset.
// It returns the number of removed blocks.
func (s *Store) Prune(ctx context.Context) (int, error) {
	ctx, span := trace.StartSpan(ctx, "forkchoice.Prune")
	defer span.End()

	if !s.IsInitialized() {
		return 0, ErrNotReady
	}

	s.commitLock.Lock()
	defer s.commitLock.Unlock()

	snap := s.snap.Load()
	finalized, ok := snap.blocks[snap.finalized.Root]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownCheckpointRoot, "finalized root %#x", snap.finalized.Root)
	}
	threshold := pruneThreshold(finalized.Slot)
	keep := map[[32]byte]bool{
		snap.justified.Root:     true,
		snap.bestJustified.Root: true,
		snap.finalized.Root:     true,
	}

	tx := s.newTransaction(snap)
	for root, blk := range snap.blocks {
		if keep[root] || blk.Slot >= threshold || snap.descendsFrom(root, snap.finalized.Root) {
			continue
		}
		tx.deleteBlock(root)
	}
	if len(tx.deleted) == 0 {
		return 0, nil
	}
	for idx, v := range snap.votes {
		if !tx.deleted[v.CurrentRoot] && !tx.deleted[v.NextRoot] {
			continue
		}
		reset := *v
		if tx.deleted[reset.CurrentRoot] {
			reset.CurrentRoot = [32]byte{}
		}
		if tx.deleted[reset.NextRoot] {
			reset.NextRoot = [32]byte{}
		}
		tx.setVote(idx, &reset)
	}

	// Nothing to notify: pruning neither adds blocks nor moves finality.
	if _, err := tx.commitLocked(ctx, false); err != nil {
		return 0, errors.Wrap(err, "could not commit pruned blocks")
	}
	pruned := len(tx.deleted)
	prunedBlockCount.Add(float64(pruned))
	log.WithFields(logrus.Fields{
		"pruned":         pruned,
		"finalizedEpoch": snap.finalized.Epoch,
		"threshold":      threshold,
	}).Debug("Pruned fork choice store")
	return pruned, nil
}
