package blockchain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/core/feed"
	statefeed "github.com/prysmaticlabs/chaindata/beacon-chain/core/feed/state"
	"github.com/prysmaticlabs/chaindata/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/time/slots"
	"go.opencensus.io/trace"
)

// This defines the current chain service's view of head. Root and slot are
// published together so no reader ever sees one without the other.
type head struct {
	root [32]byte
	slot primitives.Slot
}

// UpdateBestBlock publishes the new best block. If the block that was best
// before is no longer the canonical root at its slot under the new head, or
// its slot can no longer be resolved, a reorg event is sent.
func (s *Service) UpdateBestBlock(root [32]byte, slot primitives.Slot) {
	s.headLock.Lock()
	defer s.headLock.Unlock()
	s.updateBestBlock(root, slot)
}

func (s *Service) updateBestBlock(root [32]byte, slot primitives.Slot) {
	newHead := &head{root: root, slot: slot}
	oldHead := s.head.Swap(newHead)
	beaconHeadSlot.Set(float64(slot))
	s.markBestBlockInitialized()

	if oldHead == nil || oldHead.root == root {
		return
	}
	canonical, ok := s.blockRootBySlot(newHead, oldHead.slot)
	if ok && canonical == oldHead.root {
		return
	}
	reorgCount.Inc()
	logReorg(oldHead.root, oldHead.slot, root, slot)
	s.cfg.StateNotifier.StateFeed().Send(&feed.Event{
		Type: statefeed.Reorg,
		Data: &statefeed.ReorgData{
			NewRoot: root,
			NewSlot: slot,
			OldRoot: oldHead.root,
			OldSlot: oldHead.slot,
		},
	})
}

// UpdateHead runs fork choice with the effective balances of the justified
// state and publishes the result as the best block.
func (s *Service) UpdateHead(ctx context.Context) error {
	return s.updateHead(ctx)
}

func (s *Service) updateHead(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.updateHead")
	defer span.End()

	// Head is read and published under one lock, so a result computed from an
	// older snapshot never replaces a newer head.
	s.headLock.Lock()
	defer s.headLock.Unlock()

	store := s.cfg.ForkChoiceStore
	justified := store.JustifiedCheckpoint()
	if justified == nil {
		return errors.New("no justified checkpoint")
	}
	justifiedState, ok := store.BlockState(justified.Root)
	if !ok {
		return errors.Errorf("no state for justified root %#x", justified.Root)
	}
	balances, err := helpers.EffectiveBalances(justifiedState, slots.ToEpoch(justifiedState.Slot()))
	if err != nil {
		return errors.Wrap(err, "could not get justified balances")
	}
	headRoot, err := store.Head(ctx, balances)
	if err != nil {
		return errors.Wrap(err, "could not compute head")
	}
	headBlock, ok := store.Block(headRoot)
	if !ok {
		return errors.Errorf("head block %#x not in store", headRoot)
	}
	s.updateBestBlock(headRoot, headBlock.Slot)
	if current, ok := s.CurrentSlot(); ok {
		beaconSlot.Set(float64(current))
	}
	return nil
}
