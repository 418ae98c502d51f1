package forkchoice

import (
	"context"

	"github.com/pkg/errors"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// Restore loads the store from the database. It counts as the one-shot
// initialization of the store, so it fails with ErrStoreAlreadyInitialized
// on an initialized store and with ErrNoStoredChain when nothing was persisted.
func (s *Store) Restore(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "forkchoice.Restore")
	defer span.End()

	finalized, err := s.db.FinalizedCheckpoint(ctx)
	if err != nil {
		return errors.Wrap(err, "could not read finalized checkpoint")
	}
	if finalized == nil {
		return ErrNoStoredChain
	}
	if !s.claimed.CompareAndSwap(false, true) {
		return ErrStoreAlreadyInitialized
	}
	snap, err := s.loadSnapshot(ctx, finalized)
	if err != nil {
		s.claimed.Store(false)
		return err
	}

	s.commitLock.Lock()
	s.publish(snap)
	s.ready.Store(true)
	s.commitLock.Unlock()

	log.WithFields(logrus.Fields{
		"blocks":         len(snap.blocks),
		"finalizedEpoch": snap.finalized.Epoch,
		"justifiedEpoch": snap.justified.Epoch,
	}).Info("Restored fork choice store from database")
	return nil
}

func (s *Store) loadSnapshot(ctx context.Context, finalized *ethpb.Checkpoint) (*snapshot, error) {
	snap := emptySnapshot()
	snap.finalized = finalized

	var err error
	if snap.justified, err = s.db.JustifiedCheckpoint(ctx); err != nil {
		return nil, errors.Wrap(err, "could not read justified checkpoint")
	}
	if snap.bestJustified, err = s.db.BestJustifiedCheckpoint(ctx); err != nil {
		return nil, errors.Wrap(err, "could not read best justified checkpoint")
	}
	if snap.justified == nil || snap.bestJustified == nil {
		return nil, errors.Wrap(ErrNoStoredChain, "missing justified checkpoint")
	}

	blks, roots, err := s.db.Blocks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not read blocks")
	}
	for i, root := range roots {
		st, err := s.db.State(ctx, root)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read state of block %#x", root)
		}
		if st == nil {
			return nil, errors.Errorf("missing state of block %#x", root)
		}
		snap.blocks[root] = blks[i]
		snap.states[root] = st
	}
	for name, cp := range map[string]*ethpb.Checkpoint{
		"justified":      snap.justified,
		"best justified": snap.bestJustified,
		"finalized":      snap.finalized,
	} {
		if _, ok := snap.blocks[cp.Root]; !ok {
			return nil, errors.Wrapf(ErrUnknownCheckpointRoot, "stored %s checkpoint root %#x", name, cp.Root)
		}
	}

	if snap.votes, err = s.db.Votes(ctx); err != nil {
		return nil, errors.Wrap(err, "could not read votes")
	}
	if snap.genesisTime, err = s.db.GenesisTime(ctx); err != nil {
		return nil, errors.Wrap(err, "could not read genesis time")
	}
	if snap.time, err = s.db.StoreTime(ctx); err != nil {
		return nil, errors.Wrap(err, "could not read store time")
	}
	return snap, nil
}
