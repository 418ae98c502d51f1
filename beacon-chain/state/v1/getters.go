package v1

import (
	"context"

	"github.com/pkg/errors"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"go.opencensus.io/trace"
)

// GenesisTime of the beacon state as a uint64.
func (b *BeaconState) GenesisTime() uint64 {
	return b.state.GenesisTime
}

// GenesisValidatorsRoot of the beacon state.
func (b *BeaconState) GenesisValidatorsRoot() [32]byte {
	return b.state.GenesisValidatorsRoot
}

// Slot of the current beacon chain state.
func (b *BeaconState) Slot() primitives.Slot {
	return b.state.Slot
}

// Fork version of the beacon chain.
func (b *BeaconState) Fork() *ethpb.Fork {
	return b.state.Fork.Copy()
}

// LatestBlockRoot is the root of the block this state was produced by.
func (b *BeaconState) LatestBlockRoot() [32]byte {
	return b.state.LatestBlockRoot
}

// BlockRootAtIndex retrieves a specific block root based on an
// input index value.
func (b *BeaconState) BlockRootAtIndex(idx uint64) ([32]byte, error) {
	if idx >= uint64(len(b.state.BlockRoots)) {
		return [32]byte{}, errors.Wrapf(ErrIndexOutOfRange, "block root index %d, length %d", idx, len(b.state.BlockRoots))
	}
	return b.state.BlockRoots[idx], nil
}

// BlockRootsLength returns the length of the block roots ring.
func (b *BeaconState) BlockRootsLength() int {
	return len(b.state.BlockRoots)
}

// RandaoMixAtIndex retrieves a specific randao mix based on an
// input index value.
func (b *BeaconState) RandaoMixAtIndex(idx uint64) ([32]byte, error) {
	if idx >= uint64(len(b.state.RandaoMixes)) {
		return [32]byte{}, errors.Wrapf(ErrIndexOutOfRange, "randao mix index %d, length %d", idx, len(b.state.RandaoMixes))
	}
	return b.state.RandaoMixes[idx], nil
}

// RandaoMixesLength returns the length of the randao mixes slice.
func (b *BeaconState) RandaoMixesLength() int {
	return len(b.state.RandaoMixes)
}

// NumValidators returns the size of the validator registry.
func (b *BeaconState) NumValidators() int {
	return len(b.state.Validators)
}

// ValidatorAtIndex is the validator at the provided index.
func (b *BeaconState) ValidatorAtIndex(idx primitives.ValidatorIndex) (*ethpb.Validator, error) {
	if uint64(idx) >= uint64(len(b.state.Validators)) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "validator index %d, registry size %d", idx, len(b.state.Validators))
	}
	return b.state.Validators[idx].Copy(), nil
}

// PubkeyAtIndex returns the pubkey at the given
// validator index.
func (b *BeaconState) PubkeyAtIndex(idx primitives.ValidatorIndex) [48]byte {
	if uint64(idx) >= uint64(len(b.state.Validators)) {
		return [48]byte{}
	}
	return b.state.Validators[idx].PublicKey
}

// ReadFromEveryValidator reads values from every validator and applies it to the provided function.
// The validator handed to f is a copy.
func (b *BeaconState) ReadFromEveryValidator(f func(idx int, val *ethpb.Validator) error) error {
	for i, v := range b.state.Validators {
		if err := f(i, v.Copy()); err != nil {
			return err
		}
	}
	return nil
}

// PreviousJustifiedCheckpoint denoting an epoch and block root.
func (b *BeaconState) PreviousJustifiedCheckpoint() *ethpb.Checkpoint {
	return b.state.PreviousJustifiedCheckpoint.Copy()
}

// CurrentJustifiedCheckpoint denoting an epoch and block root.
func (b *BeaconState) CurrentJustifiedCheckpoint() *ethpb.Checkpoint {
	return b.state.CurrentJustifiedCheckpoint.Copy()
}

// FinalizedCheckpoint denoting an epoch and block root.
func (b *BeaconState) FinalizedCheckpoint() *ethpb.Checkpoint {
	return b.state.FinalizedCheckpoint.Copy()
}

// HashTreeRoot of the state. The root is computed once and memoized.
func (b *BeaconState) HashTreeRoot(ctx context.Context) ([32]byte, error) {
	_, span := trace.StartSpan(ctx, "beaconState.HashTreeRoot")
	defer span.End()
	b.rootOnce.Do(func() {
		b.root, b.rootErr = b.state.HashTreeRoot()
	})
	return b.root, b.rootErr
}

// MarshalSSZ marshals the underlying beacon state to bytes.
func (b *BeaconState) MarshalSSZ() ([]byte, error) {
	return b.state.MarshalSSZ()
}

// ToProto returns a deep copy of the underlying container.
func (b *BeaconState) ToProto() *ethpb.BeaconState {
	return b.state.Copy()
}
