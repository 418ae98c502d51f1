package blockchain

import (
	"time"

	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/time/slots"
)

// ChainInfoFetcher defines a common interface for methods in blockchain service which
// directly retrieve chain info related data.
type ChainInfoFetcher interface {
	HeadFetcher
	TimeFetcher
	CanonicalFetcher
	FinalizationFetcher
	ForkFetcher
	StateByRootFetcher
}

// TimeFetcher retrieves the chain data that's related to time.
type TimeFetcher interface {
	GenesisTime() time.Time
	CurrentSlot() (primitives.Slot, bool)
	IsPreGenesis() bool
}

// HeadFetcher defines a common interface for methods in blockchain service which
// directly retrieve head related data.
type HeadFetcher interface {
	BestBlockRoot() ([32]byte, bool)
	BestSlot() primitives.Slot
	BestBlockAndState() (*ethpb.BeaconBlock, state.ReadOnlyBeaconState, bool)
}

// CanonicalFetcher answers questions about the canonical chain.
type CanonicalFetcher interface {
	BlockRootBySlot(slot primitives.Slot) ([32]byte, bool)
	IsCanonical(root [32]byte) bool
}

// FinalizationFetcher defines a common interface for methods in blockchain service which
// directly retrieve finalization and justification related data.
type FinalizationFetcher interface {
	FinalizedEpoch() primitives.Epoch
	FinalizedRoot() [32]byte
	BestJustifiedEpoch() primitives.Epoch
}

// ForkFetcher retrieves the current fork information.
type ForkFetcher interface {
	CurrentFork() *ethpb.Fork
}

// StateByRootFetcher retrieves the post state of a known block.
type StateByRootFetcher interface {
	StateByBlockRoot(root [32]byte) (state.ReadOnlyBeaconState, bool)
}

var _ ChainInfoFetcher = (*Service)(nil)

// IsPreGenesis reports whether the store still waits for its genesis.
func (s *Service) IsPreGenesis() bool {
	return !s.cfg.ForkChoiceStore.IsInitialized()
}

// GenesisTime returns the genesis time, the zero time before genesis.
func (s *Service) GenesisTime() time.Time {
	if s.IsPreGenesis() {
		return time.Time{}
	}
	return time.Unix(int64(s.cfg.ForkChoiceStore.GenesisTime()), 0) // lint:ignore uintcast -- Genesis timestamp will not exceed int64 in your lifetime.
}

// CurrentSlot returns the slot of the wall clock. It is absent before genesis.
func (s *Service) CurrentSlot() (primitives.Slot, bool) {
	if s.IsPreGenesis() {
		return 0, false
	}
	return slots.CurrentSlot(s.cfg.ForkChoiceStore.GenesisTime(), s.cfg.Now()), true
}

// BestBlockRoot returns the root of the best block, absent until one is set.
func (s *Service) BestBlockRoot() ([32]byte, bool) {
	h := s.head.Load()
	if h == nil {
		return [32]byte{}, false
	}
	return h.root, true
}

// BestSlot returns the slot of the best block, zero until one is set.
func (s *Service) BestSlot() primitives.Slot {
	h := s.head.Load()
	if h == nil {
		return 0
	}
	return h.slot
}

// BestBlockAndState returns the best block together with its post state.
func (s *Service) BestBlockAndState() (*ethpb.BeaconBlock, state.ReadOnlyBeaconState, bool) {
	h := s.head.Load()
	if h == nil {
		return nil, nil, false
	}
	blk, ok := s.cfg.ForkChoiceStore.Block(h.root)
	if !ok {
		return nil, nil, false
	}
	st, ok := s.cfg.ForkChoiceStore.BlockState(h.root)
	if !ok {
		return nil, nil, false
	}
	return blk, st, true
}

// StateByBlockRoot returns the post state of the stored block with root.
func (s *Service) StateByBlockRoot(root [32]byte) (state.ReadOnlyBeaconState, bool) {
	return s.cfg.ForkChoiceStore.BlockState(root)
}

// FinalizedEpoch returns the finalized epoch, zero before genesis.
func (s *Service) FinalizedEpoch() primitives.Epoch {
	if cp := s.cfg.ForkChoiceStore.FinalizedCheckpoint(); cp != nil {
		return cp.Epoch
	}
	return 0
}

// FinalizedRoot returns the finalized root, zero before genesis.
func (s *Service) FinalizedRoot() [32]byte {
	if cp := s.cfg.ForkChoiceStore.FinalizedCheckpoint(); cp != nil {
		return cp.Root
	}
	return [32]byte{}
}

// BestJustifiedEpoch returns the best justified epoch, zero before genesis.
func (s *Service) BestJustifiedEpoch() primitives.Epoch {
	if cp := s.cfg.ForkChoiceStore.BestJustifiedCheckpoint(); cp != nil {
		return cp.Epoch
	}
	return 0
}

// CurrentFork returns the fork of the best state, nil until a best block is set.
func (s *Service) CurrentFork() *ethpb.Fork {
	_, st, ok := s.BestBlockAndState()
	if !ok {
		return nil
	}
	return st.Fork()
}

// BlockRootBySlot returns the canonical block root at slot. At or after the
// best slot that is the best root. Earlier slots are read from the block
// roots of the best state and are absent once they fell out of its window.
// A skipped slot resolves to the last block before it.
func (s *Service) BlockRootBySlot(slot primitives.Slot) ([32]byte, bool) {
	return s.blockRootBySlot(s.head.Load(), slot)
}

func (s *Service) blockRootBySlot(h *head, slot primitives.Slot) ([32]byte, bool) {
	if h == nil || s.IsPreGenesis() {
		return [32]byte{}, false
	}
	if slot >= h.slot {
		return h.root, true
	}
	st, ok := s.cfg.ForkChoiceStore.BlockState(h.root)
	if !ok {
		return [32]byte{}, false
	}
	window := uint64(st.BlockRootsLength())
	stSlot := st.Slot()
	if window == 0 || slot >= stSlot || uint64(stSlot) > uint64(slot)+window {
		return [32]byte{}, false
	}
	root, err := st.BlockRootAtIndex(uint64(slot) % window)
	if err != nil {
		return [32]byte{}, false
	}
	return root, true
}

// BlockBySlot returns the canonical block proposed at slot, absent for
// skipped slots.
func (s *Service) BlockBySlot(slot primitives.Slot) (*ethpb.BeaconBlock, bool) {
	root, ok := s.BlockRootBySlot(slot)
	if !ok {
		return nil, false
	}
	blk, ok := s.cfg.ForkChoiceStore.Block(root)
	if !ok || blk.Slot != slot {
		return nil, false
	}
	return blk, true
}

// StateInEffectAtSlot returns the post state of the canonical block at slot,
// or of the last canonical block before it when slot was skipped.
func (s *Service) StateInEffectAtSlot(slot primitives.Slot) (state.ReadOnlyBeaconState, bool) {
	root, ok := s.BlockRootBySlot(slot)
	if !ok {
		return nil, false
	}
	return s.cfg.ForkChoiceStore.BlockState(root)
}

// IsCanonical reports whether the stored block with root is on the best chain.
func (s *Service) IsCanonical(root [32]byte) bool {
	blk, ok := s.cfg.ForkChoiceStore.Block(root)
	if !ok {
		return false
	}
	canonical, ok := s.BlockRootBySlot(blk.Slot)
	return ok && canonical == root
}
