package blockchain

import (
	"bytes"
	"context"
	"testing"

	statefeed "github.com/prysmaticlabs/chaindata/beacon-chain/core/feed/state"
	"github.com/prysmaticlabs/chaindata/beacon-chain/forkchoice"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
	"github.com/prysmaticlabs/chaindata/testing/util"
)

// withCheckpoints overrides the checkpoints of a post state. A nil checkpoint
// keeps the parent's.
func withCheckpoints(justified, finalized *ethpb.Checkpoint) func(*ethpb.BeaconState) {
	return func(st *ethpb.BeaconState) {
		if justified != nil {
			st.CurrentJustifiedCheckpoint = justified.Copy()
		}
		if finalized != nil {
			st.FinalizedCheckpoint = finalized.Copy()
		}
	}
}

func TestService_ReceiveBlock(t *testing.T) {
	c := setupService(t, clockAt(20))
	s := c.service
	genesis := c.genesis(t)
	drainEvents(c.events)

	blk := util.NextBlock(t, genesis, 1, 0)
	require.NoError(t, s.ReceiveBlock(context.Background(), blk.Block, blk.State))
	root, ok := s.BestBlockRoot()
	require.Equal(t, true, ok)
	assert.Equal(t, blk.Root, root)
	assert.Equal(t, true, c.store.HasBlock(blk.Root))

	processed := eventsOfType(drainEvents(c.events), statefeed.BlockProcessed)
	require.Equal(t, 1, len(processed))
	data, ok := processed[0].Data.(*statefeed.BlockProcessedData)
	require.Equal(t, true, ok)
	assert.Equal(t, blk.Root, data.BlockRoot)
	assert.Equal(t, primitives.Slot(1), data.Slot)
}

func TestService_ReceiveBlock_Errors(t *testing.T) {
	c := setupService(t, clockAt(20))
	s := c.service
	genesis := c.genesis(t)
	ctx := context.Background()
	blk := util.NextBlock(t, genesis, 2, 0)

	require.ErrorIs(t, s.ReceiveBlock(ctx, nil, blk.State), errNilBlock)
	require.ErrorIs(t, s.ReceiveBlock(ctx, blk.Block, nil), errNilState)
	require.ErrorIs(t, s.ReceiveBlock(ctx, blk.Block, genesis.State), errStateSlotMismatch)

	orphan := util.NextBlock(t, blk, 3, 0)
	require.ErrorIs(t, s.ReceiveBlock(ctx, orphan.Block, orphan.State), forkchoice.ErrUnknownParent)
	root, _ := s.BestBlockRoot()
	assert.Equal(t, genesis.Root, root)
}

func TestService_ReceiveBlock_AdvancesFinality(t *testing.T) {
	c := setupService(t, clockAt(17))
	s := c.service
	genesis := c.genesis(t)

	chain := util.BuildChain(t, genesis, 0, util.SlotRange(1, 17)...)
	c.receive(t, chain...)
	drainEvents(c.events)

	cp := &ethpb.Checkpoint{Epoch: 1, Root: chain[7].Root}
	blk := util.NextBlock(t, chain[15], 17, 0, withCheckpoints(cp, cp))
	c.receive(t, blk)

	assert.Equal(t, primitives.Epoch(1), s.FinalizedEpoch())
	assert.Equal(t, chain[7].Root, s.FinalizedRoot())
	assert.Equal(t, primitives.Epoch(1), s.BestJustifiedEpoch())
	assert.DeepEqual(t, cp, c.store.JustifiedCheckpoint())

	finalized := eventsOfType(drainEvents(c.events), statefeed.FinalizedCheckpoint)
	require.Equal(t, 1, len(finalized))
	data, ok := finalized[0].Data.(*statefeed.FinalizedCheckpointData)
	require.Equal(t, true, ok)
	assert.DeepEqual(t, cp, data.Checkpoint)

	// An older finalized checkpoint in a later state is ignored.
	stale := &ethpb.Checkpoint{Epoch: 0, Root: genesis.Root}
	next := util.NextBlock(t, blk, 18, 0, withCheckpoints(stale, stale))
	c.receive(t, next)
	assert.Equal(t, primitives.Epoch(1), s.FinalizedEpoch())
}

func TestService_ReceiveBlock_DefersJustifiedLateInEpoch(t *testing.T) {
	// Slot 13 is five slots into epoch 1, past the safe slots.
	c := setupService(t, clockAt(13))
	s := c.service
	genesis := c.genesis(t)

	chain := util.BuildChain(t, genesis, 0, util.SlotRange(1, 12)...)
	c.receive(t, chain...)
	cp := &ethpb.Checkpoint{Epoch: 1, Root: chain[7].Root}
	blk := util.NextBlock(t, chain[10], 12, 0, withCheckpoints(cp, nil))
	c.receive(t, blk)

	assert.Equal(t, primitives.Epoch(1), s.BestJustifiedEpoch())
	assert.Equal(t, primitives.Epoch(0), c.store.JustifiedCheckpoint().Epoch)

	// Early in an epoch the best justified checkpoint gets promoted.
	early := newTestChain(t, c.db, clockAt(16))
	early.service.Start()
	next := util.NextBlock(t, blk, 16, 0)
	early.receive(t, next)
	assert.DeepEqual(t, cp, early.store.JustifiedCheckpoint())
}

func TestService_ReceiveAttestation_MovesHead(t *testing.T) {
	c := setupService(t, clockAt(20))
	s := c.service
	genesis := c.genesis(t)
	ctx := context.Background()

	a := util.NextBlock(t, genesis, 1, 1)
	b := util.NextBlock(t, genesis, 1, 2)
	c.receive(t, a, b)

	lesser, greater := a, b
	if bytes.Compare(a.Root[:], b.Root[:]) > 0 {
		lesser, greater = b, a
	}
	root, _ := s.BestBlockRoot()
	assert.Equal(t, greater.Root, root)

	require.NoError(t, s.ReceiveAttestation(ctx, []uint64{0, 1}, lesser.Root, 0))
	require.NoError(t, s.UpdateHead(ctx))
	root, _ = s.BestBlockRoot()
	assert.Equal(t, lesser.Root, root)
	reorgs := eventsOfType(drainEvents(c.events), statefeed.Reorg)
	require.NotEqual(t, 0, len(reorgs))

	err := s.ReceiveAttestation(ctx, []uint64{2}, [32]byte{'u'}, 0)
	require.ErrorIs(t, err, forkchoice.ErrUnknownVoteRoot)
}
