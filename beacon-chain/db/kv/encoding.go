package kv

import (
	"context"
	"errors"
	"reflect"

	fastssz "github.com/ferranbt/fastssz"
	"github.com/golang/snappy"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	v1 "github.com/prysmaticlabs/chaindata/beacon-chain/state/v1"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"go.opencensus.io/trace"
)

var errNilRecord = errors.New("cannot encode nil record")

func decode(ctx context.Context, data []byte, dst fastssz.Unmarshaler) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.decode")
	defer span.End()

	data, err := snappy.Decode(nil, data)
	if err != nil {
		return err
	}
	return dst.UnmarshalSSZ(data)
}

func encode(ctx context.Context, msg fastssz.Marshaler) ([]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.encode")
	defer span.End()

	if msg == nil || reflect.ValueOf(msg).IsNil() {
		return nil, errNilRecord
	}
	enc, err := msg.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, enc), nil
}

// Each stored record kind has its own pair of functions below, so the value
// layout of a bucket is fixed at compile time.

func encodeBlock(ctx context.Context, b *ethpb.BeaconBlock) ([]byte, error) {
	return encode(ctx, b)
}

func decodeBlock(ctx context.Context, enc []byte) (*ethpb.BeaconBlock, error) {
	b := &ethpb.BeaconBlock{}
	if err := decode(ctx, enc, b); err != nil {
		return nil, err
	}
	return b, nil
}

func encodeState(ctx context.Context, st state.ReadOnlyBeaconState) ([]byte, error) {
	if st == nil || reflect.ValueOf(st).IsNil() {
		return nil, errNilRecord
	}
	_, span := trace.StartSpan(ctx, "BeaconDB.encodeState")
	defer span.End()
	enc, err := st.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, enc), nil
}

func decodeState(ctx context.Context, enc []byte) (state.ReadOnlyBeaconState, error) {
	pb := &ethpb.BeaconState{}
	if err := decode(ctx, enc, pb); err != nil {
		return nil, err
	}
	return v1.InitializeFromProtoUnsafe(pb)
}

func encodeCheckpoint(ctx context.Context, cp *ethpb.Checkpoint) ([]byte, error) {
	return encode(ctx, cp)
}

func decodeCheckpoint(ctx context.Context, enc []byte) (*ethpb.Checkpoint, error) {
	cp := &ethpb.Checkpoint{}
	if err := decode(ctx, enc, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func encodeVote(ctx context.Context, v *ethpb.VoteTracker) ([]byte, error) {
	return encode(ctx, v)
}

func decodeVote(ctx context.Context, enc []byte) (*ethpb.VoteTracker, error) {
	v := &ethpb.VoteTracker{}
	if err := decode(ctx, enc, v); err != nil {
		return nil, err
	}
	return v, nil
}
