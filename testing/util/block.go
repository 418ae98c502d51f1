package util

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/chaindata/beacon-chain/core/blocks"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	v1 "github.com/prysmaticlabs/chaindata/beacon-chain/state/v1"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/crypto/hash"
)

// BlockAndState pairs a block with its root and post state.
type BlockAndState struct {
	Block *ethpb.BeaconBlock
	Root  [32]byte
	State state.ReadOnlyBeaconState
}

// GenesisBlockAndState returns the genesis block built over st, the same way
// the fork choice store derives it on initialization.
func GenesisBlockAndState(t testing.TB, st state.ReadOnlyBeaconState) *BlockAndState {
	stRoot, err := st.HashTreeRoot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	blk := blocks.NewGenesisBlock(stRoot)
	root, err := blk.HashTreeRoot()
	if err != nil {
		t.Fatal(err)
	}
	return &BlockAndState{Block: blk, Root: root, State: st}
}

// NextBlock builds a child of parent at slot. Skipped slots between the parent
// and slot record the parent root in the block roots ring. graffiti is mixed into
// the body root so that siblings at the same slot have distinct roots. Options
// are applied to the post state before its root is taken.
func NextBlock(t testing.TB, parent *BlockAndState, slot primitives.Slot, graffiti byte, options ...func(*ethpb.BeaconState)) *BlockAndState {
	pb := parent.State.ToProto()
	if slot <= pb.Slot {
		t.Fatalf("child slot %d must be after parent slot %d", slot, pb.Slot)
	}
	for s := pb.Slot; s < slot; s++ {
		pb.BlockRoots[uint64(s)%uint64(len(pb.BlockRoots))] = parent.Root
	}
	pb.Slot = slot
	pb.LatestBlockRoot = parent.Root
	for _, opt := range options {
		opt(pb)
	}

	st, err := v1.InitializeFromProtoUnsafe(pb)
	if err != nil {
		t.Fatal(err)
	}
	stRoot, err := st.HashTreeRoot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var proposer primitives.ValidatorIndex
	if n := st.NumValidators(); n > 0 {
		proposer = primitives.ValidatorIndex(uint64(slot) % uint64(n))
	}
	blk := &ethpb.BeaconBlock{
		Slot:          slot,
		ProposerIndex: proposer,
		ParentRoot:    parent.Root,
		StateRoot:     stRoot,
		BodyRoot:      hash.Hash([]byte{graffiti}),
	}
	root, err := blk.HashTreeRoot()
	if err != nil {
		t.Fatal(err)
	}
	return &BlockAndState{Block: blk, Root: root, State: st}
}

// BuildChain extends parent with one block at every slot in slots, in order.
func BuildChain(t testing.TB, parent *BlockAndState, graffiti byte, slots ...primitives.Slot) []*BlockAndState {
	chain := make([]*BlockAndState, 0, len(slots))
	for _, s := range slots {
		parent = NextBlock(t, parent, s, graffiti)
		chain = append(chain, parent)
	}
	return chain
}

// SlotRange returns the slots [start, end).
func SlotRange(start, end primitives.Slot) []primitives.Slot {
	out := make([]primitives.Slot, 0, end-start)
	for s := start; s < end; s++ {
		out = append(out, s)
	}
	return out
}
