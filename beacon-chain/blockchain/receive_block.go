package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/core/feed"
	statefeed "github.com/prysmaticlabs/chaindata/beacon-chain/core/feed/state"
	"github.com/prysmaticlabs/chaindata/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/time/slots"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// InitializeFromGenesis initializes the fork choice store from the genesis
// state, announces the genesis and makes the genesis block the best block.
// It fails with forkchoice.ErrStoreAlreadyInitialized when a chain exists.
func (s *Service) InitializeFromGenesis(ctx context.Context, genesisState state.ReadOnlyBeaconState) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.InitializeFromGenesis")
	defer span.End()

	if genesisState == nil {
		return errNilState
	}
	if err := s.cfg.ForkChoiceStore.Initialize(ctx, genesisState); err != nil {
		return err
	}
	s.markStoreInitialized()

	genesisRoot := s.cfg.ForkChoiceStore.FinalizedCheckpoint().Root
	genesisBlock, ok := s.cfg.ForkChoiceStore.Block(genesisRoot)
	if !ok {
		return errors.Errorf("genesis block %#x missing from store", genesisRoot)
	}
	startTime := time.Unix(int64(genesisState.GenesisTime()), 0) // lint:ignore uintcast -- Genesis timestamp will not exceed int64 in your lifetime.
	s.cfg.StateNotifier.StateFeed().Send(&feed.Event{
		Type: statefeed.GenesisEstablished,
		Data: &statefeed.GenesisEstablishedData{
			StartTime:             startTime,
			GenesisValidatorsRoot: genesisState.GenesisValidatorsRoot(),
			GenesisRoot:           genesisRoot,
		},
	})
	s.UpdateBestBlock(genesisRoot, genesisBlock.Slot)
	log.WithFields(logrus.Fields{
		"genesisTime": startTime,
		"genesisRoot": fmt.Sprintf("%#x", genesisRoot),
	}).Info("Chain started from genesis")
	return nil
}

// ReceiveBlock stores a block with its post state, applies the checkpoints
// of the post state, and recomputes the head.
func (s *Service) ReceiveBlock(ctx context.Context, blk *ethpb.BeaconBlock, postState state.ReadOnlyBeaconState) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.ReceiveBlock")
	defer span.End()

	if blk == nil {
		return errNilBlock
	}
	if postState == nil {
		return errNilState
	}
	if postState.Slot() != blk.Slot {
		return errors.Wrapf(errStateSlotMismatch, "block slot %d, state slot %d", blk.Slot, postState.Slot())
	}
	if s.IsPreGenesis() {
		return forkchoice.ErrNotReady
	}
	root, err := blk.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute block root")
	}

	tx := s.cfg.ForkChoiceStore.StartTransaction()
	tx.PutBlock(blk, postState)
	currentSlot, _ := s.CurrentSlot()
	updateCheckpoints(tx, postState, currentSlot)
	tx.SetTime(uint64(s.cfg.Now().Unix()))
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrapf(err, "could not store block %#x", root)
	}
	processedBlockCount.Inc()

	if err := s.updateHead(ctx); err != nil {
		return err
	}
	logBlockProcessed(root, blk.Slot, s.bestRoot(), s.BestSlot())
	return nil
}

func (s *Service) bestRoot() [32]byte {
	root, _ := s.BestBlockRoot()
	return root
}

// updateCheckpoints applies the justification and finalization recorded in
// a block's post state. A newer justified checkpoint always becomes the best
// justified checkpoint; it replaces the justified checkpoint right away only
// early in an epoch or together with new finality. At an epoch start a best
// justified checkpoint ahead of the justified one is promoted.
func updateCheckpoints(tx *forkchoice.Transaction, postState state.ReadOnlyBeaconState, currentSlot primitives.Slot) {
	justified := postState.CurrentJustifiedCheckpoint()
	finalized := postState.FinalizedCheckpoint()

	if isKnown(tx, justified) && justified.Epoch > tx.BestJustifiedCheckpoint().Epoch {
		tx.SetBestJustifiedCheckpoint(justified)
	}
	if isKnown(tx, finalized) && finalized.Epoch > tx.FinalizedCheckpoint().Epoch {
		tx.SetFinalizedCheckpoint(finalized)
		if isKnown(tx, justified) && justified.Epoch > tx.JustifiedCheckpoint().Epoch {
			tx.SetJustifiedCheckpoint(justified)
		}
		return
	}
	if isKnown(tx, justified) && justified.Epoch > tx.JustifiedCheckpoint().Epoch && shouldUpdateJustified(currentSlot) {
		tx.SetJustifiedCheckpoint(justified)
	}
	if slots.IsEpochStart(currentSlot) {
		if best := tx.BestJustifiedCheckpoint(); best.Epoch > tx.JustifiedCheckpoint().Epoch {
			tx.SetJustifiedCheckpoint(best)
		}
	}
}

// shouldUpdateJustified reports whether the current slot is early enough in
// its epoch to switch the justified checkpoint without delay.
func shouldUpdateJustified(currentSlot primitives.Slot) bool {
	return currentSlot.Mod(uint64(params.BeaconConfig().SlotsPerEpoch)) < params.BeaconConfig().SafeSlotsToUpdateJustified
}

func isKnown(tx *forkchoice.Transaction, cp *ethpb.Checkpoint) bool {
	if cp == nil || cp.Root == params.BeaconConfig().ZeroHash {
		return false
	}
	_, ok := tx.Block(cp.Root)
	return ok
}
