// Package iface defines the database interface used by the fork choice store,
// also containing the update record it persists atomically.
package iface

import (
	"context"
	"io"

	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

// ReadOnlyDatabase defines a struct which only has read access to database methods.
// Absent records are reported as nil values with a nil error.
type ReadOnlyDatabase interface {
	// Block related methods.
	Block(ctx context.Context, blockRoot [32]byte) (*ethpb.BeaconBlock, error)
	Blocks(ctx context.Context) ([]*ethpb.BeaconBlock, [][32]byte, error)
	HasBlock(ctx context.Context, blockRoot [32]byte) bool
	// State related methods.
	State(ctx context.Context, blockRoot [32]byte) (state.ReadOnlyBeaconState, error)
	HasState(ctx context.Context, blockRoot [32]byte) bool
	// Checkpoint operations.
	JustifiedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error)
	BestJustifiedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error)
	FinalizedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error)
	// Fork choice votes.
	Votes(ctx context.Context) (map[primitives.ValidatorIndex]*ethpb.VoteTracker, error)
	// Chain metadata.
	GenesisTime(ctx context.Context) (uint64, error)
	StoreTime(ctx context.Context) (uint64, error)
}

// ForkChoiceDatabase is the persistent store backing the fork choice store.
// SaveForkChoiceUpdate must be atomic and durable before it returns.
type ForkChoiceDatabase interface {
	io.Closer
	ReadOnlyDatabase

	SaveForkChoiceUpdate(ctx context.Context, update *ForkChoiceUpdate) error
	DeleteBlocks(ctx context.Context, blockRoots [][32]byte) error

	DatabasePath() string
	ClearDB() error
}

// ForkChoiceUpdate is the set of writes produced by one fork choice store
// commit. Nil checkpoints and zero times leave the stored value unchanged.
type ForkChoiceUpdate struct {
	Blocks                  map[[32]byte]*ethpb.BeaconBlock
	States                  map[[32]byte]state.ReadOnlyBeaconState
	JustifiedCheckpoint     *ethpb.Checkpoint
	BestJustifiedCheckpoint *ethpb.Checkpoint
	FinalizedCheckpoint     *ethpb.Checkpoint
	Votes                   map[primitives.ValidatorIndex]*ethpb.VoteTracker
	GenesisTime             uint64
	StoreTime               uint64
	// DeletedBlocks lists blocks removed together with their states.
	DeletedBlocks [][32]byte
}

// IsEmpty reports whether the update carries no writes.
func (u *ForkChoiceUpdate) IsEmpty() bool {
	return u == nil || (len(u.Blocks) == 0 &&
		len(u.States) == 0 &&
		u.JustifiedCheckpoint == nil &&
		u.BestJustifiedCheckpoint == nil &&
		u.FinalizedCheckpoint == nil &&
		len(u.Votes) == 0 &&
		u.GenesisTime == 0 &&
		u.StoreTime == 0 &&
		len(u.DeletedBlocks) == 0)
}
