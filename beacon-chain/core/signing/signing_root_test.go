package signing_test

import (
	"testing"

	"github.com/prysmaticlabs/chaindata/beacon-chain/core/signing"
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/crypto/bls"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
	"github.com/prysmaticlabs/chaindata/testing/util"
)

func TestSigningRoot_ComputeSigningRoot(t *testing.T) {
	_, err := signing.ComputeSigningRoot(&ethpb.BeaconBlock{Slot: 1}, [32]byte{'T', 'E', 'S', 'T'})
	assert.NoError(t, err, "Could not compute signing root of block")

	_, err = signing.ComputeSigningRoot(nil, [32]byte{})
	assert.ErrorContains(t, "cannot compute signing root of nil", err)
}

func TestSigningRoot_ComputeDomain(t *testing.T) {
	forkDataRoot := []byte{245, 165, 253, 66, 209, 106, 32, 48, 39, 152, 239, 110, 211, 9, 151, 155, 67, 0, 61, 35, 32, 217, 240, 232, 234, 152, 49, 169}
	tests := []struct {
		domainType [4]byte
	}{
		{domainType: [4]byte{4, 0, 0, 0}},
		{domainType: [4]byte{5, 0, 0, 0}},
		{domainType: [4]byte{6, 0, 0, 0}},
	}
	for _, tt := range tests {
		got, err := signing.ComputeDomain(tt.domainType, [4]byte{}, [32]byte{})
		require.NoError(t, err)
		var want [32]byte
		copy(want[:4], tt.domainType[:])
		copy(want[4:], forkDataRoot)
		assert.Equal(t, want, got)
	}
}

func TestDomain_UsesPreviousVersionBeforeForkEpoch(t *testing.T) {
	fork := &ethpb.Fork{
		PreviousVersion: [4]byte{0, 0, 0, 1},
		CurrentVersion:  [4]byte{0, 0, 0, 2},
		Epoch:           10,
	}
	gvr := [32]byte{'g'}
	domainType := params.BeaconConfig().DomainSelectionProof

	before, err := signing.Domain(fork, 9, domainType, gvr)
	require.NoError(t, err)
	wantBefore, err := signing.ComputeDomain(domainType, fork.PreviousVersion, gvr)
	require.NoError(t, err)
	assert.Equal(t, wantBefore, before)

	after, err := signing.Domain(fork, 10, domainType, gvr)
	require.NoError(t, err)
	wantAfter, err := signing.ComputeDomain(domainType, fork.CurrentVersion, gvr)
	require.NoError(t, err)
	assert.Equal(t, wantAfter, after)
	assert.NotEqual(t, before, after)

	_, err = signing.Domain(nil, 0, domainType, gvr)
	assert.ErrorContains(t, "nil fork", err)
}

func TestVerifySigningRoot(t *testing.T) {
	key, err := bls.RandKey()
	require.NoError(t, err)
	d, err := signing.ComputeDomain(params.BeaconConfig().DomainBeaconProposer, [4]byte{}, [32]byte{})
	require.NoError(t, err)
	blk := &ethpb.BeaconBlock{Slot: 3, ProposerIndex: 1}
	root, err := signing.ComputeSigningRoot(blk, d)
	require.NoError(t, err)
	sig := key.Sign(root[:]).Marshal()

	require.NoError(t, signing.VerifySigningRoot(blk, key.PublicKey().Marshal(), sig, d))

	other := &ethpb.BeaconBlock{Slot: 4, ProposerIndex: 1}
	assert.ErrorIs(t, signing.VerifySigningRoot(other, key.PublicKey().Marshal(), sig, d), signing.ErrSigFailedToVerify)
	assert.ErrorContains(t, "could not convert bytes to signature", signing.VerifySigningRoot(blk, key.PublicKey().Marshal(), []byte{1, 2}, d))
}

func TestComputeDomainAndSign_VerifySlotSignature(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MinimalSpecConfig())
	st, keys := util.DeterministicGenesisState(t, 16)

	slot := primitives.Slot(5)
	sig, err := signing.ComputeDomainAndSign(st, 0, slot, params.BeaconConfig().DomainSelectionProof, keys[3])
	require.NoError(t, err)

	require.NoError(t, signing.VerifySlotSignature(st, 3, slot, params.BeaconConfig().DomainSelectionProof, sig))
	assert.ErrorIs(t, signing.VerifySlotSignature(st, 4, slot, params.BeaconConfig().DomainSelectionProof, sig), signing.ErrSigFailedToVerify)
	assert.ErrorIs(t, signing.VerifySlotSignature(st, 3, slot+1, params.BeaconConfig().DomainSelectionProof, sig), signing.ErrSigFailedToVerify)
	assert.ErrorIs(t, signing.VerifySlotSignature(st, 3, slot, params.BeaconConfig().DomainAggregateAndProof, sig), signing.ErrSigFailedToVerify)
}
