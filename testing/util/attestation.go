package util

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/chaindata/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/chaindata/beacon-chain/core/signing"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/crypto/bls"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
	"github.com/prysmaticlabs/chaindata/time/slots"
	"github.com/prysmaticlabs/go-bitfield"
)

// GenerateAttestation returns a fully aggregated attestation of the committee
// at (slot, committeeIndex) voting for blockRoot, signed by every member.
func GenerateAttestation(
	t testing.TB,
	st state.ReadOnlyBeaconState,
	privKeys []bls.SecretKey,
	slot primitives.Slot,
	committeeIndex primitives.CommitteeIndex,
	blockRoot [32]byte,
) (*ethpb.Attestation, []primitives.ValidatorIndex) {
	committee, err := helpers.BeaconCommitteeFromState(context.Background(), st, slot, committeeIndex)
	if err != nil {
		t.Fatal(err)
	}
	epoch := slots.ToEpoch(slot)
	data := &ethpb.AttestationData{
		Slot:            slot,
		CommitteeIndex:  committeeIndex,
		BeaconBlockRoot: blockRoot,
		Source:          st.CurrentJustifiedCheckpoint(),
		Target:          &ethpb.Checkpoint{Epoch: epoch, Root: blockRoot},
	}

	bits := bitfield.NewBitlist(uint64(len(committee)))
	sigs := make([]bls.Signature, len(committee))
	for i, idx := range committee {
		bits.SetBitAt(uint64(i), true)
		sb, err := signing.ComputeDomainAndSign(st, epoch, data, params.BeaconConfig().DomainBeaconAttester, privKeys[idx])
		if err != nil {
			t.Fatal(err)
		}
		sig, err := bls.SignatureFromBytes(sb)
		if err != nil {
			t.Fatal(err)
		}
		sigs[i] = sig
	}
	return &ethpb.Attestation{
		AggregationBits: bits,
		Data:            data,
		Signature:       bytesutil.ToBytes96(bls.AggregateSignatures(sigs).Marshal()),
	}, committee
}

// SelectionProof signs slot with the selection proof domain using the key of idx.
func SelectionProof(t testing.TB, st state.ReadOnlyBeaconState, privKeys []bls.SecretKey, idx primitives.ValidatorIndex, slot primitives.Slot) [96]byte {
	sig, err := signing.ComputeDomainAndSign(st, slots.ToEpoch(slot), slot, params.BeaconConfig().DomainSelectionProof, privKeys[idx])
	if err != nil {
		t.Fatal(err)
	}
	return bytesutil.ToBytes96(sig)
}

// SignAggregateAndProof returns msg wrapped with the aggregator's signature
// over it.
func SignAggregateAndProof(t testing.TB, st state.ReadOnlyBeaconState, privKeys []bls.SecretKey, msg *ethpb.AggregateAttestationAndProof) *ethpb.SignedAggregateAttestationAndProof {
	epoch := slots.ToEpoch(msg.Aggregate.Data.Slot)
	sig, err := signing.ComputeDomainAndSign(st, epoch, msg, params.BeaconConfig().DomainAggregateAndProof, privKeys[msg.AggregatorIndex])
	if err != nil {
		t.Fatal(err)
	}
	return &ethpb.SignedAggregateAttestationAndProof{
		Message:   msg,
		Signature: bytesutil.ToBytes96(sig),
	}
}

// GenerateAggregateAndProof builds a valid signed aggregate for the committee at
// (slot, committeeIndex) voting for blockRoot. The aggregator is the first
// committee member whose selection proof selects it.
func GenerateAggregateAndProof(
	t testing.TB,
	st state.ReadOnlyBeaconState,
	privKeys []bls.SecretKey,
	slot primitives.Slot,
	committeeIndex primitives.CommitteeIndex,
	blockRoot [32]byte,
) *ethpb.SignedAggregateAttestationAndProof {
	att, committee := GenerateAttestation(t, st, privKeys, slot, committeeIndex, blockRoot)
	for _, idx := range committee {
		proof := SelectionProof(t, st, privKeys, idx, slot)
		ok, err := helpers.IsAggregator(uint64(len(committee)), proof[:])
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			continue
		}
		return SignAggregateAndProof(t, st, privKeys, &ethpb.AggregateAttestationAndProof{
			AggregatorIndex: idx,
			Aggregate:       att,
			SelectionProof:  proof,
		})
	}
	t.Fatalf("no aggregator selected in committee %d at slot %d", committeeIndex, slot)
	return nil
}
