// Package state defines the read-only beacon state interface used by the
// fork choice store, the head tracker and gossip validation.
package state

import (
	"context"

	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

// ReadOnlyBeaconState defines a struct which only has read access to beacon state methods.
// Values handed out are copies; the underlying state is never mutated once wrapped.
type ReadOnlyBeaconState interface {
	GenesisTime() uint64
	GenesisValidatorsRoot() [32]byte
	Slot() primitives.Slot
	Fork() *ethpb.Fork
	LatestBlockRoot() [32]byte
	BlockRootAtIndex(idx uint64) ([32]byte, error)
	BlockRootsLength() int
	RandaoMixAtIndex(idx uint64) ([32]byte, error)
	RandaoMixesLength() int
	NumValidators() int
	ValidatorAtIndex(idx primitives.ValidatorIndex) (*ethpb.Validator, error)
	PubkeyAtIndex(idx primitives.ValidatorIndex) [48]byte
	ReadFromEveryValidator(f func(idx int, val *ethpb.Validator) error) error
	PreviousJustifiedCheckpoint() *ethpb.Checkpoint
	CurrentJustifiedCheckpoint() *ethpb.Checkpoint
	FinalizedCheckpoint() *ethpb.Checkpoint
	HashTreeRoot(ctx context.Context) ([32]byte, error)
	MarshalSSZ() ([]byte, error)
	ToProto() *ethpb.BeaconState
}
