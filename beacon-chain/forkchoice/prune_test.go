package forkchoice

import (
	"context"
	"testing"

	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
	"github.com/prysmaticlabs/chaindata/testing/util"
)

func TestStore_Prune(t *testing.T) {
	s, genesis, db := setupStore(t)
	ctx := context.Background()

	chain := util.BuildChain(t, genesis, 0, util.SlotRange(1, 21)...)
	fork := util.BuildChain(t, genesis, 7, 1, 2)
	lateFork := util.NextBlock(t, chain[10], 12, 7)
	putChain(t, s, chain...)
	putChain(t, s, fork...)
	putChain(t, s, lateFork)

	tx := s.StartTransaction()
	tx.ProcessAttestation([]uint64{1}, fork[1].Root, 1)
	tx.ProcessAttestation([]uint64{2}, chain[18].Root, 1)
	cp := &ethpb.Checkpoint{Epoch: 2, Root: chain[15].Root}
	tx.SetJustifiedCheckpoint(cp)
	tx.SetBestJustifiedCheckpoint(cp)
	tx.SetFinalizedCheckpoint(cp)
	require.NoError(t, tx.Commit(ctx))

	// Finalized slot 16, everything off the finalized chain below slot 8 goes.
	pruned, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, pruned)

	for _, b := range fork {
		assert.Equal(t, false, s.HasBlock(b.Root))
		assert.Equal(t, false, db.HasBlock(ctx, b.Root))
		assert.Equal(t, false, db.HasState(ctx, b.Root))
	}
	assert.Equal(t, false, s.HasBlock(genesis.Root))
	for _, b := range chain {
		assert.Equal(t, b.Block.Slot >= 8, s.HasBlock(b.Root), "slot %d", b.Block.Slot)
	}
	assert.Equal(t, true, s.HasBlock(lateFork.Root), "Blocks within the last epoch are kept")

	v, ok := s.Vote(1)
	require.Equal(t, true, ok)
	assert.Equal(t, [32]byte{}, v.NextRoot)
	v, ok = s.Vote(2)
	require.Equal(t, true, ok)
	assert.Equal(t, chain[18].Root, v.NextRoot)

	head, err := s.Head(ctx, equalBalances(16))
	require.NoError(t, err)
	assert.Equal(t, chain[19].Root, head)

	pruned, err = s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pruned)
}

func TestPruneThreshold(t *testing.T) {
	setupStore(t)
	assert.Equal(t, primitives.Slot(0), pruneThreshold(3))
	assert.Equal(t, primitives.Slot(8), pruneThreshold(16))
}
