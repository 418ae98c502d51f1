package forkchoice

import (
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

// snapshot is one committed version of the store. It is never mutated after
// it has been published; commits build a new snapshot and swap the pointer.
type snapshot struct {
	blocks        map[[32]byte]*ethpb.BeaconBlock
	states        map[[32]byte]state.ReadOnlyBeaconState
	votes         map[primitives.ValidatorIndex]*ethpb.VoteTracker
	justified     *ethpb.Checkpoint
	bestJustified *ethpb.Checkpoint
	finalized     *ethpb.Checkpoint
	genesisTime   uint64
	time          uint64
}

func emptySnapshot() *snapshot {
	return &snapshot{
		blocks: make(map[[32]byte]*ethpb.BeaconBlock),
		states: make(map[[32]byte]state.ReadOnlyBeaconState),
		votes:  make(map[primitives.ValidatorIndex]*ethpb.VoteTracker),
	}
}

// children returns the child roots of every stored block.
func (s *snapshot) children() map[[32]byte][][32]byte {
	children := make(map[[32]byte][][32]byte, len(s.blocks))
	for root, blk := range s.blocks {
		if _, ok := s.blocks[blk.ParentRoot]; ok {
			children[blk.ParentRoot] = append(children[blk.ParentRoot], root)
		}
	}
	return children
}

// descendsFrom reports whether root equals ancestor or descends from it,
// following parent links through the stored blocks.
func (s *snapshot) descendsFrom(root, ancestor [32]byte) bool {
	anc, ok := s.blocks[ancestor]
	if !ok {
		return false
	}
	for {
		if root == ancestor {
			return true
		}
		blk, ok := s.blocks[root]
		if !ok || blk.Slot <= anc.Slot {
			return false
		}
		root = blk.ParentRoot
	}
}
