package kv

import (
	"context"

	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// JustifiedCheckpoint returns the latest justified checkpoint in beacon chain.
func (s *Store) JustifiedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.JustifiedCheckpoint")
	defer span.End()
	return s.checkpoint(ctx, justifiedCheckpointKey)
}

// BestJustifiedCheckpoint returns the best justified checkpoint seen by fork choice.
func (s *Store) BestJustifiedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.BestJustifiedCheckpoint")
	defer span.End()
	return s.checkpoint(ctx, bestJustifiedCheckpointKey)
}

// FinalizedCheckpoint returns the latest finalized checkpoint in beacon chain.
func (s *Store) FinalizedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.FinalizedCheckpoint")
	defer span.End()
	return s.checkpoint(ctx, finalizedCheckpointKey)
}

func (s *Store) checkpoint(ctx context.Context, key []byte) (*ethpb.Checkpoint, error) {
	var checkpoint *ethpb.Checkpoint
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(checkpointBucket).Get(key)
		if enc == nil {
			return nil
		}
		var err error
		checkpoint, err = decodeCheckpoint(ctx, enc)
		return err
	})
	return checkpoint, err
}
