// Package forkchoice implements the fork choice store: the authoritative
// record of known blocks, their post states, validator votes and the
// justified, best justified and finalized checkpoints.
//
// Readers never block. They load the last committed snapshot through an
// atomic pointer. Writers buffer their changes in a Transaction which is
// persisted to the database and then published as a new snapshot.
package forkchoice

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/core/blocks"
	"github.com/prysmaticlabs/chaindata/beacon-chain/db/iface"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/time/slots"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// StoreUpdateHandler is notified after every successful commit. New blocks
// are delivered first, ordered by slot. The finalized checkpoint follows only
// when the commit advanced the finalized epoch. Handlers run on the
// committing goroutine and must hand expensive work off.
type StoreUpdateHandler interface {
	OnNewBlocks(ctx context.Context, blocks []*BlockWithRoot)
	OnNewFinalizedCheckpoint(ctx context.Context, checkpoint *ethpb.Checkpoint)
}

// BlockWithRoot pairs a stored block with its root.
type BlockWithRoot struct {
	Root  [32]byte
	Block *ethpb.BeaconBlock
}

// Store is the fork choice store.
type Store struct {
	db          iface.ForkChoiceDatabase
	snap       atomic.Pointer[snapshot]
	claimed    atomic.Bool // set by the one caller allowed to initialize
	ready      atomic.Bool // set once the initial snapshot is published
	commitLock sync.Mutex

	handlersLock sync.RWMutex
	handlers     []StoreUpdateHandler
}

// Option configures a Store.
type Option func(*Store)

// WithUpdateHandler registers h at construction time.
func WithUpdateHandler(h StoreUpdateHandler) Option {
	return func(s *Store) {
		s.handlers = append(s.handlers, h)
	}
}

// New returns an uninitialized store persisting to db. The store becomes
// usable after Initialize or Restore.
func New(db iface.ForkChoiceDatabase, opts ...Option) *Store {
	s := &Store{db: db}
	s.snap.Store(emptySnapshot())
	for _, o := range opts {
		o(s)
	}
	return s
}

// RegisterUpdateHandler adds h to the handlers notified after each commit.
func (s *Store) RegisterUpdateHandler(h StoreUpdateHandler) {
	s.handlersLock.Lock()
	defer s.handlersLock.Unlock()
	s.handlers = append(s.handlers, h)
}

// Initialize sets up the store from the genesis state. It succeeds only once
// per store; later calls return ErrStoreAlreadyInitialized and change nothing.
// The genesis block is derived from the state and becomes the justified, best
// justified and finalized checkpoint root.
func (s *Store) Initialize(ctx context.Context, genesisState state.ReadOnlyBeaconState) error {
	ctx, span := trace.StartSpan(ctx, "forkchoice.Initialize")
	defer span.End()

	if genesisState == nil {
		return errNilBlock
	}
	if !s.claimed.CompareAndSwap(false, true) {
		return ErrStoreAlreadyInitialized
	}

	stateRoot, err := genesisState.HashTreeRoot(ctx)
	if err != nil {
		s.claimed.Store(false)
		return errors.Wrap(err, "could not compute genesis state root")
	}
	genesisBlock := blocks.NewGenesisBlock(stateRoot)
	genesisRoot, err := genesisBlock.HashTreeRoot()
	if err != nil {
		s.claimed.Store(false)
		return errors.Wrap(err, "could not compute genesis block root")
	}
	cp := &ethpb.Checkpoint{Epoch: slots.ToEpoch(genesisBlock.Slot), Root: genesisRoot}

	tx := s.newTransaction(emptySnapshot())
	tx.putBlock(genesisRoot, genesisBlock, genesisState)
	tx.SetJustifiedCheckpoint(cp)
	tx.SetBestJustifiedCheckpoint(cp)
	tx.SetFinalizedCheckpoint(cp)
	tx.genesisTime = genesisState.GenesisTime()
	tx.SetTime(genesisState.GenesisTime())

	s.commitLock.Lock()
	n, err := tx.commitLocked(ctx, true)
	if err == nil {
		s.ready.Store(true)
	}
	s.commitLock.Unlock()
	if err != nil {
		s.claimed.Store(false)
		return errors.Wrap(err, "could not commit genesis")
	}
	log.WithFields(logrus.Fields{
		"genesisRoot": genesisRoot,
		"genesisTime": genesisState.GenesisTime(),
	}).Info("Initialized fork choice store from genesis")
	s.notify(ctx, n)
	return nil
}

// IsInitialized reports whether the store holds a published chain. It stays
// false while Initialize or Restore is still persisting.
func (s *Store) IsInitialized() bool {
	return s.ready.Load()
}

// Block returns the stored block with the given root.
func (s *Store) Block(root [32]byte) (*ethpb.BeaconBlock, bool) {
	blk, ok := s.snap.Load().blocks[root]
	if !ok {
		return nil, false
	}
	return blk.Copy(), true
}

// BlockState returns the post state of the block with the given root.
func (s *Store) BlockState(root [32]byte) (state.ReadOnlyBeaconState, bool) {
	st, ok := s.snap.Load().states[root]
	return st, ok
}

// HasBlock reports whether a block with the given root is stored.
func (s *Store) HasBlock(root [32]byte) bool {
	_, ok := s.snap.Load().blocks[root]
	return ok
}

// BlockCount returns the number of stored blocks.
func (s *Store) BlockCount() int {
	return len(s.snap.Load().blocks)
}

// FinalizedCheckpoint returns the finalized checkpoint, nil before genesis.
func (s *Store) FinalizedCheckpoint() *ethpb.Checkpoint {
	return s.snap.Load().finalized.Copy()
}

// JustifiedCheckpoint returns the justified checkpoint, nil before genesis.
func (s *Store) JustifiedCheckpoint() *ethpb.Checkpoint {
	return s.snap.Load().justified.Copy()
}

// BestJustifiedCheckpoint returns the best justified checkpoint, nil before genesis.
func (s *Store) BestJustifiedCheckpoint() *ethpb.Checkpoint {
	return s.snap.Load().bestJustified.Copy()
}

// GenesisTime returns the genesis time in unix seconds, zero before genesis.
func (s *Store) GenesisTime() uint64 {
	return s.snap.Load().genesisTime
}

// Time returns the store time in unix seconds, zero before genesis.
func (s *Store) Time() uint64 {
	return s.snap.Load().time
}

// Vote returns the vote tracker of the validator.
func (s *Store) Vote(idx primitives.ValidatorIndex) (ethpb.VoteTracker, bool) {
	v, ok := s.snap.Load().votes[idx]
	if !ok {
		return ethpb.VoteTracker{}, false
	}
	return *v, true
}

// StartTransaction opens a transaction over the last committed snapshot.
func (s *Store) StartTransaction() *Transaction {
	return s.newTransaction(s.snap.Load())
}

// notification is what a commit has to tell the update handlers.
type notification struct {
	blocks    []*BlockWithRoot
	finalized *ethpb.Checkpoint
}

func (s *Store) notify(ctx context.Context, n *notification) {
	if n == nil {
		return
	}
	s.handlersLock.RLock()
	handlers := make([]StoreUpdateHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.handlersLock.RUnlock()

	if len(n.blocks) > 0 {
		for _, h := range handlers {
			h.OnNewBlocks(ctx, n.blocks)
		}
	}
	if n.finalized != nil {
		for _, h := range handlers {
			h.OnNewFinalizedCheckpoint(ctx, n.finalized.Copy())
		}
	}
}

func (s *Store) publish(snap *snapshot) {
	s.snap.Store(snap)
	blockCount.Set(float64(len(snap.blocks)))
	if snap.finalized != nil {
		finalizedEpochGauge.Set(float64(snap.finalized.Epoch))
	}
	if snap.justified != nil {
		justifiedEpochGauge.Set(float64(snap.justified.Epoch))
	}
}

// pruneThreshold is the oldest slot kept for blocks off the finalized chain.
func pruneThreshold(finalizedSlot primitives.Slot) primitives.Slot {
	margin := params.BeaconConfig().PruneSlotsAfterFinal
	if margin <= 0 {
		margin = int(params.BeaconConfig().SlotsPerEpoch)
	}
	return finalizedSlot.SubSaturating(uint64(margin))
}
