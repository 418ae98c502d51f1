// Package testing includes useful mocks for testing consumers of the
// blockchain service.
package testing

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/time/slots"
)

// MockStateNotifier mocks the state notifier.
type MockStateNotifier struct {
	feed     *event.Feed
	feedLock sync.Mutex
}

// StateFeed returns a state feed.
func (msn *MockStateNotifier) StateFeed() *event.Feed {
	msn.feedLock.Lock()
	defer msn.feedLock.Unlock()
	if msn.feed == nil {
		msn.feed = new(event.Feed)
	}
	return msn.feed
}

// ChainService defines the mock interface for testing consumers of the
// blockchain service.
type ChainService struct {
	PreGenesis          bool
	Genesis             time.Time
	Slot                *primitives.Slot
	Root                [32]byte
	Block               *ethpb.BeaconBlock
	State               state.ReadOnlyBeaconState
	States              map[[32]byte]state.ReadOnlyBeaconState
	Fork                *ethpb.Fork
	FinalizedCheckPoint *ethpb.Checkpoint
	JustifiedEpoch      primitives.Epoch
	CanonicalRoots      map[[32]byte]bool
	RootsBySlot         map[primitives.Slot][32]byte
}

// IsPreGenesis mocks the same method in the chain service.
func (s *ChainService) IsPreGenesis() bool {
	return s.PreGenesis
}

// GenesisTime mocks the same method in the chain service.
func (s *ChainService) GenesisTime() time.Time {
	return s.Genesis
}

// CurrentSlot mocks the same method in the chain service.
func (s *ChainService) CurrentSlot() (primitives.Slot, bool) {
	if s.PreGenesis {
		return 0, false
	}
	if s.Slot != nil {
		return *s.Slot, true
	}
	return slots.CurrentSlot(uint64(s.Genesis.Unix()), time.Now()), true
}

// BestBlockRoot mocks the same method in the chain service.
func (s *ChainService) BestBlockRoot() ([32]byte, bool) {
	if s.Block == nil {
		return [32]byte{}, false
	}
	return s.Root, true
}

// BestSlot mocks the same method in the chain service.
func (s *ChainService) BestSlot() primitives.Slot {
	if s.Block == nil {
		return 0
	}
	return s.Block.Slot
}

// BestBlockAndState mocks the same method in the chain service.
func (s *ChainService) BestBlockAndState() (*ethpb.BeaconBlock, state.ReadOnlyBeaconState, bool) {
	if s.Block == nil || s.State == nil {
		return nil, nil, false
	}
	return s.Block, s.State, true
}

// BlockRootBySlot mocks the same method in the chain service.
func (s *ChainService) BlockRootBySlot(slot primitives.Slot) ([32]byte, bool) {
	root, ok := s.RootsBySlot[slot]
	return root, ok
}

// IsCanonical mocks the same method in the chain service.
func (s *ChainService) IsCanonical(root [32]byte) bool {
	return s.CanonicalRoots[root]
}

// FinalizedEpoch mocks the same method in the chain service.
func (s *ChainService) FinalizedEpoch() primitives.Epoch {
	if s.FinalizedCheckPoint == nil {
		return 0
	}
	return s.FinalizedCheckPoint.Epoch
}

// FinalizedRoot mocks the same method in the chain service.
func (s *ChainService) FinalizedRoot() [32]byte {
	if s.FinalizedCheckPoint == nil {
		return [32]byte{}
	}
	return s.FinalizedCheckPoint.Root
}

// BestJustifiedEpoch mocks the same method in the chain service.
func (s *ChainService) BestJustifiedEpoch() primitives.Epoch {
	return s.JustifiedEpoch
}

// CurrentFork mocks the same method in the chain service.
func (s *ChainService) CurrentFork() *ethpb.Fork {
	return s.Fork
}

// StateByBlockRoot mocks the same method in the chain service.
func (s *ChainService) StateByBlockRoot(root [32]byte) (state.ReadOnlyBeaconState, bool) {
	st, ok := s.States[root]
	return st, ok
}
