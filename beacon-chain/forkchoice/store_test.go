package forkchoice

import (
	"context"
	"sync"
	"testing"

	"github.com/prysmaticlabs/chaindata/beacon-chain/db/iface"
	dbtest "github.com/prysmaticlabs/chaindata/beacon-chain/db/testing"
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
	"github.com/prysmaticlabs/chaindata/testing/util"
	"golang.org/x/sync/errgroup"
)

const testGenesisTime = 1606824023

type recordedEvent struct {
	blocks    []*BlockWithRoot
	finalized *ethpb.Checkpoint
}

type recordingHandler struct {
	sync.Mutex
	events []recordedEvent
}

func (h *recordingHandler) OnNewBlocks(_ context.Context, blocks []*BlockWithRoot) {
	h.Lock()
	defer h.Unlock()
	h.events = append(h.events, recordedEvent{blocks: blocks})
}

func (h *recordingHandler) OnNewFinalizedCheckpoint(_ context.Context, cp *ethpb.Checkpoint) {
	h.Lock()
	defer h.Unlock()
	h.events = append(h.events, recordedEvent{finalized: cp})
}

func (h *recordingHandler) reset() {
	h.Lock()
	defer h.Unlock()
	h.events = nil
}

func setupStore(t *testing.T, opts ...Option) (*Store, *util.BlockAndState, iface.ForkChoiceDatabase) {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MinimalSpecConfig())
	db := dbtest.SetupDB(t)
	s := New(db, opts...)
	st, _ := util.DeterministicGenesisStateWithTime(t, 16, testGenesisTime)
	require.NoError(t, s.Initialize(context.Background(), st))
	return s, util.GenesisBlockAndState(t, st), db
}

func putChain(t *testing.T, s *Store, chain ...*util.BlockAndState) {
	tx := s.StartTransaction()
	for _, b := range chain {
		tx.PutBlock(b.Block, b.State)
	}
	require.NoError(t, tx.Commit(context.Background()))
}

func TestStore_Initialize(t *testing.T) {
	handler := &recordingHandler{}
	s, genesis, db := setupStore(t, WithUpdateHandler(handler))
	ctx := context.Background()

	assert.Equal(t, true, s.IsInitialized())
	assert.Equal(t, true, s.HasBlock(genesis.Root))
	assert.Equal(t, 1, s.BlockCount())
	want := &ethpb.Checkpoint{Epoch: 0, Root: genesis.Root}
	assert.DeepEqual(t, want, s.FinalizedCheckpoint())
	assert.DeepEqual(t, want, s.JustifiedCheckpoint())
	assert.DeepEqual(t, want, s.BestJustifiedCheckpoint())
	assert.Equal(t, uint64(testGenesisTime), s.GenesisTime())
	assert.Equal(t, uint64(testGenesisTime), s.Time())

	blk, ok := s.Block(genesis.Root)
	require.Equal(t, true, ok)
	assert.DeepEqual(t, genesis.Block, blk)

	persisted, err := db.FinalizedCheckpoint(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, want, persisted)
	assert.Equal(t, true, db.HasState(ctx, genesis.Root))

	require.Equal(t, 2, len(handler.events))
	require.Equal(t, 1, len(handler.events[0].blocks))
	assert.Equal(t, genesis.Root, handler.events[0].blocks[0].Root)
	assert.DeepEqual(t, want, handler.events[1].finalized)
}

func TestStore_Initialize_OneShot(t *testing.T) {
	s, genesis, _ := setupStore(t)
	other, _ := util.DeterministicGenesisStateWithTime(t, 32, testGenesisTime+12)

	err := s.Initialize(context.Background(), other)
	require.ErrorIs(t, err, ErrStoreAlreadyInitialized)
	assert.Equal(t, genesis.Root, s.FinalizedCheckpoint().Root)
	assert.Equal(t, uint64(testGenesisTime), s.GenesisTime())
	assert.Equal(t, 1, s.BlockCount())
}

func TestStore_Initialize_ConcurrentCallersOneWins(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MinimalSpecConfig())
	s := New(dbtest.SetupDB(t))
	st, _ := util.DeterministicGenesisStateWithTime(t, 16, testGenesisTime)

	var mu sync.Mutex
	wins, losses := 0, 0
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			err := s.Initialize(context.Background(), st)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if err == ErrStoreAlreadyInitialized {
				losses++
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, wins)
	assert.Equal(t, 7, losses)
}

func TestStore_BeforeGenesis(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MinimalSpecConfig())
	s := New(dbtest.SetupDB(t))
	ctx := context.Background()

	assert.Equal(t, false, s.IsInitialized())
	assert.Equal(t, true, s.FinalizedCheckpoint() == nil)
	assert.Equal(t, true, s.JustifiedCheckpoint() == nil)
	assert.Equal(t, true, s.BestJustifiedCheckpoint() == nil)
	assert.Equal(t, uint64(0), s.GenesisTime())
	assert.Equal(t, false, s.HasBlock([32]byte{'a'}))
	_, ok := s.Vote(1)
	assert.Equal(t, false, ok)

	require.ErrorIs(t, s.StartTransaction().Commit(ctx), ErrNotReady)
	_, err := s.Head(ctx, nil)
	require.ErrorIs(t, err, ErrNotReady)
	_, err = s.Prune(ctx)
	require.ErrorIs(t, err, ErrNotReady)
}

func TestTransaction_WritesInvisibleUntilCommit(t *testing.T) {
	s, genesis, db := setupStore(t)
	ctx := context.Background()
	child := util.NextBlock(t, genesis, 1, 0)

	tx := s.StartTransaction()
	tx.PutBlock(child.Block, child.State)
	_, ok := tx.Block(child.Root)
	assert.Equal(t, true, ok, "Transaction should read its own writes")
	st, ok := tx.BlockState(child.Root)
	require.Equal(t, true, ok)
	assert.Equal(t, primitives.Slot(1), st.Slot())
	assert.Equal(t, false, s.HasBlock(child.Root), "Uncommitted block is visible")
	assert.Equal(t, false, db.HasBlock(ctx, child.Root))

	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, true, s.HasBlock(child.Root))
	assert.Equal(t, true, db.HasBlock(ctx, child.Root))
	assert.Equal(t, true, db.HasState(ctx, child.Root))
}

func TestTransaction_Rollback(t *testing.T) {
	s, genesis, _ := setupStore(t)
	child := util.NextBlock(t, genesis, 1, 0)

	tx := s.StartTransaction()
	tx.PutBlock(child.Block, child.State)
	tx.Rollback()
	require.ErrorIs(t, tx.Commit(context.Background()), ErrTransactionClosed)
	assert.Equal(t, false, s.HasBlock(child.Root))
}

func TestTransaction_CommitTwice(t *testing.T) {
	s, genesis, _ := setupStore(t)
	ctx := context.Background()
	child := util.NextBlock(t, genesis, 1, 0)

	tx := s.StartTransaction()
	tx.PutBlock(child.Block, child.State)
	require.NoError(t, tx.Commit(ctx))
	require.ErrorIs(t, tx.Commit(ctx), ErrTransactionClosed)
}

func TestTransaction_NilBlock(t *testing.T) {
	s, genesis, _ := setupStore(t)
	tx := s.StartTransaction()
	tx.PutBlock(nil, genesis.State)
	require.ErrorContains(t, "nil block or state", tx.Commit(context.Background()))
}

func TestTransaction_UnknownParent(t *testing.T) {
	s, genesis, _ := setupStore(t)
	chain := util.BuildChain(t, genesis, 0, 1, 2)

	tx := s.StartTransaction()
	tx.PutBlock(chain[1].Block, chain[1].State)
	require.ErrorIs(t, tx.Commit(context.Background()), ErrUnknownParent)
	assert.Equal(t, 1, s.BlockCount())

	// Parent and child in the same transaction.
	putChain(t, s, chain...)
	assert.Equal(t, 3, s.BlockCount())
}

func TestTransaction_FinalizedNeverDecreases(t *testing.T) {
	s, genesis, db := setupStore(t)
	ctx := context.Background()
	chain := util.BuildChain(t, genesis, 0, util.SlotRange(1, 17)...)
	putChain(t, s, chain...)

	epochOne := &ethpb.Checkpoint{Epoch: 1, Root: chain[7].Root}
	epochTwo := &ethpb.Checkpoint{Epoch: 2, Root: chain[15].Root}
	tx := s.StartTransaction()
	tx.SetJustifiedCheckpoint(epochTwo)
	tx.SetBestJustifiedCheckpoint(epochTwo)
	tx.SetFinalizedCheckpoint(epochOne)
	require.NoError(t, tx.Commit(ctx))
	assert.DeepEqual(t, epochOne, s.FinalizedCheckpoint())

	tx = s.StartTransaction()
	tx.SetFinalizedCheckpoint(&ethpb.Checkpoint{Epoch: 0, Root: genesis.Root})
	require.ErrorIs(t, tx.Commit(ctx), ErrFinalizedRegression)
	assert.DeepEqual(t, epochOne, s.FinalizedCheckpoint())
	persisted, err := db.FinalizedCheckpoint(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, epochOne, persisted)

	// Same epoch is allowed.
	tx = s.StartTransaction()
	tx.SetFinalizedCheckpoint(epochOne)
	require.NoError(t, tx.Commit(ctx))
}

func TestTransaction_UnknownCheckpointRoot(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	for name, set := range map[string]func(*Transaction, *ethpb.Checkpoint){
		"justified":      (*Transaction).SetJustifiedCheckpoint,
		"best justified": (*Transaction).SetBestJustifiedCheckpoint,
		"finalized":      (*Transaction).SetFinalizedCheckpoint,
	} {
		t.Run(name, func(t *testing.T) {
			tx := s.StartTransaction()
			set(tx, &ethpb.Checkpoint{Epoch: 3, Root: [32]byte{'x'}})
			require.ErrorIs(t, tx.Commit(ctx), ErrUnknownCheckpointRoot)
		})
	}
}

func TestTransaction_BestJustifiedBehindJustified(t *testing.T) {
	s, genesis, _ := setupStore(t)
	ctx := context.Background()
	chain := util.BuildChain(t, genesis, 0, util.SlotRange(1, 9)...)
	putChain(t, s, chain...)

	tx := s.StartTransaction()
	tx.SetJustifiedCheckpoint(&ethpb.Checkpoint{Epoch: 1, Root: chain[7].Root})
	require.ErrorIs(t, tx.Commit(ctx), ErrBestJustifiedBehindJustified)

	tx = s.StartTransaction()
	cp := &ethpb.Checkpoint{Epoch: 1, Root: chain[7].Root}
	tx.SetJustifiedCheckpoint(cp)
	tx.SetBestJustifiedCheckpoint(cp)
	require.NoError(t, tx.Commit(ctx))
	assert.DeepEqual(t, cp, s.BestJustifiedCheckpoint())
}

func TestTransaction_ProcessAttestation(t *testing.T) {
	s, genesis, _ := setupStore(t)
	ctx := context.Background()
	chain := util.BuildChain(t, genesis, 0, 1, 2)
	putChain(t, s, chain...)

	tx := s.StartTransaction()
	tx.ProcessAttestation([]uint64{0, 1}, chain[0].Root, 1)
	v, ok := tx.Vote(0)
	require.Equal(t, true, ok)
	assert.Equal(t, chain[0].Root, v.NextRoot)
	require.NoError(t, tx.Commit(ctx))

	// Older target epoch is ignored, newer one wins.
	tx = s.StartTransaction()
	tx.ProcessAttestation([]uint64{0}, chain[1].Root, 0)
	tx.ProcessAttestation([]uint64{1}, chain[1].Root, 2)
	require.NoError(t, tx.Commit(ctx))

	v, ok = s.Vote(0)
	require.Equal(t, true, ok)
	assert.Equal(t, chain[0].Root, v.NextRoot)
	assert.Equal(t, primitives.Epoch(1), v.NextEpoch)
	v, ok = s.Vote(1)
	require.Equal(t, true, ok)
	assert.Equal(t, chain[1].Root, v.NextRoot)
	assert.Equal(t, primitives.Epoch(2), v.NextEpoch)
	_, ok = s.Vote(2)
	assert.Equal(t, false, ok)
}

func TestTransaction_UnknownVoteRoot(t *testing.T) {
	s, _, _ := setupStore(t)
	tx := s.StartTransaction()
	tx.ProcessAttestation([]uint64{4}, [32]byte{'u'}, 1)
	require.ErrorIs(t, tx.Commit(context.Background()), ErrUnknownVoteRoot)
	_, ok := s.Vote(4)
	assert.Equal(t, false, ok)
}

func TestTransaction_ConcurrentAttestationsNotLost(t *testing.T) {
	s, genesis, _ := setupStore(t)
	ctx := context.Background()
	child := util.NextBlock(t, genesis, 1, 0)
	putChain(t, s, child)

	first := s.StartTransaction()
	second := s.StartTransaction()
	first.ProcessAttestation([]uint64{1}, child.Root, 1)
	second.ProcessAttestation([]uint64{2}, child.Root, 1)
	require.NoError(t, first.Commit(ctx))
	require.NoError(t, second.Commit(ctx))

	for _, idx := range []primitives.ValidatorIndex{1, 2} {
		v, ok := s.Vote(idx)
		require.Equal(t, true, ok)
		assert.Equal(t, child.Root, v.NextRoot)
	}
}

func TestTransaction_SetTimeNeverMovesBack(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	tx := s.StartTransaction()
	tx.SetTime(testGenesisTime + 60)
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, uint64(testGenesisTime+60), s.Time())

	tx = s.StartTransaction()
	tx.SetTime(testGenesisTime + 30)
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, uint64(testGenesisTime+60), s.Time())
}

func TestTransaction_NotifiesBlocksThenFinalized(t *testing.T) {
	handler := &recordingHandler{}
	s, genesis, _ := setupStore(t)
	s.RegisterUpdateHandler(handler)
	ctx := context.Background()
	chain := util.BuildChain(t, genesis, 0, util.SlotRange(1, 9)...)

	tx := s.StartTransaction()
	for i := len(chain) - 1; i >= 0; i-- {
		tx.PutBlock(chain[i].Block, chain[i].State)
	}
	cp := &ethpb.Checkpoint{Epoch: 1, Root: chain[7].Root}
	tx.SetJustifiedCheckpoint(cp)
	tx.SetBestJustifiedCheckpoint(cp)
	tx.SetFinalizedCheckpoint(cp)
	require.NoError(t, tx.Commit(ctx))

	require.Equal(t, 2, len(handler.events))
	blocks := handler.events[0].blocks
	require.Equal(t, len(chain), len(blocks))
	for i, b := range blocks {
		assert.Equal(t, chain[i].Root, b.Root)
	}
	assert.DeepEqual(t, cp, handler.events[1].finalized)

	// No new finality, no finalized notification.
	handler.reset()
	next := util.NextBlock(t, chain[7], 9, 0)
	putChain(t, s, next)
	require.Equal(t, 1, len(handler.events))
	assert.Equal(t, true, handler.events[0].finalized == nil)

	// Failed commits notify nothing.
	handler.reset()
	tx = s.StartTransaction()
	tx.SetFinalizedCheckpoint(&ethpb.Checkpoint{Epoch: 0, Root: genesis.Root})
	require.ErrorIs(t, tx.Commit(ctx), ErrFinalizedRegression)
	assert.Equal(t, 0, len(handler.events))
}

func TestStore_ConcurrentReadersSeeCommittedState(t *testing.T) {
	s, genesis, _ := setupStore(t)
	ctx := context.Background()
	chain := util.BuildChain(t, genesis, 0, util.SlotRange(1, 17)...)

	var g errgroup.Group
	g.Go(func() error {
		for i := 8; i <= len(chain); i += 8 {
			tx := s.StartTransaction()
			for _, b := range chain[i-8 : i] {
				tx.PutBlock(b.Block, b.State)
			}
			cp := &ethpb.Checkpoint{Epoch: primitives.Epoch(i / 8), Root: chain[i-1].Root}
			tx.SetJustifiedCheckpoint(cp)
			tx.SetBestJustifiedCheckpoint(cp)
			tx.SetFinalizedCheckpoint(cp)
			if err := tx.Commit(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	for r := 0; r < 4; r++ {
		g.Go(func() error {
			last := primitives.Epoch(0)
			for i := 0; i < 200; i++ {
				snap := s.snap.Load()
				cp := snap.finalized
				if cp.Epoch < last {
					t.Errorf("finalized epoch went from %d to %d", last, cp.Epoch)
				}
				last = cp.Epoch
				if _, ok := snap.blocks[cp.Root]; !ok {
					t.Errorf("finalized root %#x not stored", cp.Root)
				}
				if snap.bestJustified.Epoch < snap.justified.Epoch {
					t.Error("best justified behind justified")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
