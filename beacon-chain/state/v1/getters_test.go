package v1_test

import (
	"context"
	"testing"

	v1 "github.com/prysmaticlabs/chaindata/beacon-chain/state/v1"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
)

func TestInitializeFromProto_CopiesInput(t *testing.T) {
	pb := &ethpb.BeaconState{
		Slot:        5,
		BlockRoots:  [][32]byte{{1}, {2}},
		Validators:  []*ethpb.Validator{{EffectiveBalance: 10}},
		RandaoMixes: [][32]byte{{3}},
	}
	st, err := v1.InitializeFromProto(pb)
	require.NoError(t, err)

	pb.BlockRoots[0] = [32]byte{9}
	pb.Validators[0].EffectiveBalance = 0

	r, err := st.BlockRootAtIndex(0)
	require.NoError(t, err)
	assert.Equal(t, [32]byte{1}, r)
	v, err := st.ValidatorAtIndex(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v.EffectiveBalance)

	// Handed out values are copies.
	v.EffectiveBalance = 1
	v, err = st.ValidatorAtIndex(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v.EffectiveBalance)
	st.FinalizedCheckpoint().Epoch = 4
	assert.Equal(t, uint64(0), uint64(st.FinalizedCheckpoint().Epoch))
}

func TestBeaconState_OutOfRange(t *testing.T) {
	st, err := v1.InitializeFromProto(&ethpb.BeaconState{})
	require.NoError(t, err)
	_, err = st.BlockRootAtIndex(0)
	assert.ErrorIs(t, err, v1.ErrIndexOutOfRange)
	_, err = st.RandaoMixAtIndex(3)
	assert.ErrorIs(t, err, v1.ErrIndexOutOfRange)
	_, err = st.ValidatorAtIndex(1)
	assert.ErrorIs(t, err, v1.ErrIndexOutOfRange)
	assert.Equal(t, [48]byte{}, st.PubkeyAtIndex(1))
	_, err = v1.InitializeFromProto(nil)
	assert.ErrorIs(t, err, v1.ErrNilInnerState)
}

func TestBeaconState_HashTreeRootMatchesContainer(t *testing.T) {
	pb := &ethpb.BeaconState{Slot: 3, Validators: []*ethpb.Validator{{EffectiveBalance: 32}}}
	st, err := v1.InitializeFromProto(pb)
	require.NoError(t, err)
	want, err := st.ToProto().HashTreeRoot()
	require.NoError(t, err)
	got, err := st.HashTreeRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
