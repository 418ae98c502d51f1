package kv

import (
	"context"

	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// State returns the saved post state of the block with the given root. A
// missing state yields nil with no error.
func (s *Store) State(ctx context.Context, blockRoot [32]byte) (state.ReadOnlyBeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.State")
	defer span.End()
	if v, ok := s.stateCache.Get(blockRoot); v != nil && ok {
		return v.(state.ReadOnlyBeaconState), nil
	}
	var enc []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(stateBucket).Get(blockRoot[:])
		if v != nil {
			// Values are only valid for the lifetime of the transaction.
			enc = make([]byte, len(v))
			copy(enc, v)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, nil
	}
	st, err := decodeState(ctx, enc)
	if err != nil {
		return nil, err
	}
	s.stateCache.Add(blockRoot, st)
	return st, nil
}

// HasState checks if a state by root exists in the db.
func (s *Store) HasState(ctx context.Context, blockRoot [32]byte) bool {
	_, span := trace.StartSpan(ctx, "BeaconDB.HasState")
	defer span.End()
	exists := false
	if err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(stateBucket).Get(blockRoot[:]) != nil
		return nil
	}); err != nil {
		panic(err)
	}
	return exists
}
