// Package v1 implements the read-only beacon state wrapper handed out by the
// fork choice store.
package v1

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
)

// Ensure type BeaconState below implements ReadOnlyBeaconState interface.
var _ state.ReadOnlyBeaconState = (*BeaconState)(nil)

var (
	// ErrNilInnerState returns when the inner state is nil and no get
	// operations can be performed on state.
	ErrNilInnerState = errors.New("nil inner state")
	// ErrIndexOutOfRange is returned when a ring or registry index is beyond its length.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// BeaconState wraps an immutable copy of the state container.
type BeaconState struct {
	state    *ethpb.BeaconState
	rootOnce sync.Once
	root     [32]byte
	rootErr  error
}

// InitializeFromProto copies the given container into a read-only state.
func InitializeFromProto(st *ethpb.BeaconState) (*BeaconState, error) {
	if st == nil {
		return nil, ErrNilInnerState
	}
	return InitializeFromProtoUnsafe(st.Copy())
}

// InitializeFromProtoUnsafe wraps the container without copying it. The
// caller must not retain or mutate st afterwards.
func InitializeFromProtoUnsafe(st *ethpb.BeaconState) (*BeaconState, error) {
	if st == nil {
		return nil, ErrNilInnerState
	}
	if st.Fork == nil {
		st.Fork = &ethpb.Fork{}
	}
	for _, cp := range []**ethpb.Checkpoint{&st.PreviousJustifiedCheckpoint, &st.CurrentJustifiedCheckpoint, &st.FinalizedCheckpoint} {
		if *cp == nil {
			*cp = &ethpb.Checkpoint{}
		}
	}
	return &BeaconState{state: st}, nil
}
