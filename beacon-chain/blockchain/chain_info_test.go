package blockchain

import (
	"testing"

	"github.com/prysmaticlabs/chaindata/config/params"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/crypto/hash"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
	"github.com/prysmaticlabs/chaindata/testing/util"
	"golang.org/x/sync/errgroup"
)

func TestService_BlockRootBySlot(t *testing.T) {
	c := setupService(t, clockAt(20))
	s := c.service
	genesis := c.genesis(t)

	// Slot 6 is skipped.
	chain := util.BuildChain(t, genesis, 0, 1, 2, 3, 4, 5, 7, 8, 9)
	c.receive(t, chain...)
	best := chain[len(chain)-1]
	assert.Equal(t, primitives.Slot(9), s.BestSlot())

	for _, slot := range []primitives.Slot{9, 10, 500} {
		root, ok := s.BlockRootBySlot(slot)
		require.Equal(t, true, ok)
		assert.Equal(t, best.Root, root, "slot %d", slot)
	}
	root, ok := s.BlockRootBySlot(0)
	require.Equal(t, true, ok)
	assert.Equal(t, genesis.Root, root)
	for i, b := range chain[:5] {
		root, ok := s.BlockRootBySlot(b.Block.Slot)
		require.Equal(t, true, ok)
		assert.Equal(t, chain[i].Root, root, "slot %d", b.Block.Slot)
	}

	// A skipped slot resolves to the last block before it.
	root, ok = s.BlockRootBySlot(6)
	require.Equal(t, true, ok)
	assert.Equal(t, chain[4].Root, root)
	_, ok = s.BlockBySlot(6)
	assert.Equal(t, false, ok)
	st, ok := s.StateInEffectAtSlot(6)
	require.Equal(t, true, ok)
	assert.Equal(t, primitives.Slot(5), st.Slot())

	blk, ok := s.BlockBySlot(7)
	require.Equal(t, true, ok)
	assert.DeepEqual(t, chain[5].Block, blk)

	b, st, ok := s.BestBlockAndState()
	require.Equal(t, true, ok)
	assert.DeepEqual(t, best.Block, b)
	assert.Equal(t, primitives.Slot(9), st.Slot())
}

func TestService_BlockRootBySlot_OutsideWindow(t *testing.T) {
	c := setupService(t, clockAt(80))
	s := c.service
	genesis := c.genesis(t)

	window := uint64(params.BeaconConfig().SlotsPerHistoricalRoot)
	chain := util.BuildChain(t, genesis, 0, util.SlotRange(1, primitives.Slot(window)+6)...)
	c.putBlocks(t, chain...)
	best := chain[len(chain)-1]
	s.UpdateBestBlock(best.Root, best.Block.Slot)

	// Best state at slot window+5 still covers slots from 5 on.
	root, ok := s.BlockRootBySlot(5)
	require.Equal(t, true, ok)
	assert.Equal(t, chain[4].Root, root)
	_, ok = s.BlockRootBySlot(4)
	assert.Equal(t, false, ok)
	_, ok = s.BlockRootBySlot(0)
	assert.Equal(t, false, ok)
	assert.Equal(t, false, s.IsCanonical(genesis.Root), "Unresolvable slots are not canonical")
	assert.Equal(t, true, s.IsCanonical(chain[10].Root))
}

func TestService_IsCanonical(t *testing.T) {
	c := setupService(t, clockAt(20))
	s := c.service
	genesis := c.genesis(t)

	chainA := util.BuildChain(t, genesis, 1, 1, 2, 3)
	chainB := util.BuildChain(t, genesis, 2, 1, 2)
	c.putBlocks(t, append(chainA, chainB...)...)
	s.UpdateBestBlock(chainA[2].Root, chainA[2].Block.Slot)

	assert.Equal(t, true, s.IsCanonical(genesis.Root))
	for _, b := range chainA {
		assert.Equal(t, true, s.IsCanonical(b.Root))
	}
	for _, b := range chainB {
		assert.Equal(t, false, s.IsCanonical(b.Root))
	}
	assert.Equal(t, false, s.IsCanonical([32]byte{'u'}), "Unknown blocks are not canonical")
}

func TestService_HeadNeverTorn(t *testing.T) {
	c := setupService(t, clockAt(0))
	s := c.service
	c.genesis(t)

	// Every update is reported as a reorg since none of these roots is stored.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-c.events:
			case <-done:
				return
			}
		}
	}()

	rootOf := func(slot primitives.Slot) [32]byte {
		return hash.Hash(bytesutil.Bytes8(uint64(slot)))
	}
	var g errgroup.Group
	g.Go(func() error {
		for slot := primitives.Slot(1); slot <= 500; slot++ {
			s.UpdateBestBlock(rootOf(slot), slot)
		}
		return nil
	})
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			for j := 0; j < 1000; j++ {
				h := s.head.Load()
				if h.slot != 0 && h.root != rootOf(h.slot) {
					t.Errorf("torn head: slot %d with root %#x", h.slot, h.root)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, primitives.Slot(500), s.BestSlot())
}
