package kv

import (
	"context"

	"github.com/pkg/errors"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// Block retrieval by root. A missing block yields nil with no error.
func (s *Store) Block(ctx context.Context, blockRoot [32]byte) (*ethpb.BeaconBlock, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.Block")
	defer span.End()
	// Return block from cache if it exists.
	if v, ok := s.blockCache.Get(blockRoot); v != nil && ok {
		return v.(*ethpb.BeaconBlock).Copy(), nil
	}
	var blk *ethpb.BeaconBlock
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(blocksBucket).Get(blockRoot[:])
		if enc == nil {
			return nil
		}
		var err error
		blk, err = decodeBlock(ctx, enc)
		return err
	})
	if err != nil || blk == nil {
		return nil, err
	}
	s.blockCache.Add(blockRoot, blk.Copy())
	return blk, nil
}

// Blocks retrieves every stored block along with its root.
func (s *Store) Blocks(ctx context.Context) ([]*ethpb.BeaconBlock, [][32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.Blocks")
	defer span.End()
	blocks := make([]*ethpb.BeaconBlock, 0)
	roots := make([][32]byte, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(blocksBucket).ForEach(func(k, v []byte) error {
			blk, err := decodeBlock(ctx, v)
			if err != nil {
				return errors.Wrapf(err, "could not decode block %#x", k)
			}
			blocks = append(blocks, blk)
			roots = append(roots, bytesutil.ToBytes32(k))
			return nil
		})
	})
	return blocks, roots, err
}

// HasBlock checks if a block by root exists in the db.
func (s *Store) HasBlock(ctx context.Context, blockRoot [32]byte) bool {
	_, span := trace.StartSpan(ctx, "BeaconDB.HasBlock")
	defer span.End()
	if v, ok := s.blockCache.Get(blockRoot); v != nil && ok {
		return true
	}
	exists := false
	if err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(blocksBucket).Get(blockRoot[:]) != nil
		return nil
	}); err != nil { // This view never returns an error, but we'll handle anyway for sanity.
		panic(err)
	}
	return exists
}

// DeleteBlocks by block roots. The post states of the blocks are removed with them.
func (s *Store) DeleteBlocks(ctx context.Context, blockRoots [][32]byte) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.DeleteBlocks")
	defer span.End()
	return s.db.Update(func(tx *bolt.Tx) error {
		return s.deleteBlocks(ctx, tx, blockRoots)
	})
}

func (s *Store) deleteBlocks(_ context.Context, tx *bolt.Tx, blockRoots [][32]byte) error {
	blocks := tx.Bucket(blocksBucket)
	states := tx.Bucket(stateBucket)
	for _, root := range blockRoots {
		if err := blocks.Delete(root[:]); err != nil {
			return err
		}
		if err := states.Delete(root[:]); err != nil {
			return err
		}
		s.blockCache.Remove(root)
		s.stateCache.Remove(root)
	}
	return nil
}
