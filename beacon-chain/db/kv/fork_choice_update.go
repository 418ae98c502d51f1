package kv

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/db/iface"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// SaveForkChoiceUpdate writes every record of the update in a single bolt
// transaction. Values are encoded before the transaction opens so the write
// lock is held only for the puts. Once this returns nil the update is synced
// to disk.
func (s *Store) SaveForkChoiceUpdate(ctx context.Context, update *iface.ForkChoiceUpdate) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveForkChoiceUpdate")
	defer span.End()
	if update.IsEmpty() {
		return nil
	}
	start := time.Now()

	encBlocks := make(map[[32]byte][]byte, len(update.Blocks))
	for root, blk := range update.Blocks {
		enc, err := encodeBlock(ctx, blk)
		if err != nil {
			return errors.Wrapf(err, "could not encode block %#x", root)
		}
		encBlocks[root] = enc
	}
	encStates := make(map[[32]byte][]byte, len(update.States))
	for root, st := range update.States {
		enc, err := encodeState(ctx, st)
		if err != nil {
			return errors.Wrapf(err, "could not encode state %#x", root)
		}
		encStates[root] = enc
	}
	encCheckpoints := make(map[string][]byte, 3)
	for key, cp := range map[string]*ethpb.Checkpoint{
		string(justifiedCheckpointKey):     update.JustifiedCheckpoint,
		string(bestJustifiedCheckpointKey): update.BestJustifiedCheckpoint,
		string(finalizedCheckpointKey):     update.FinalizedCheckpoint,
	} {
		if cp == nil {
			continue
		}
		enc, err := encodeCheckpoint(ctx, cp)
		if err != nil {
			return errors.Wrapf(err, "could not encode checkpoint %s", key)
		}
		encCheckpoints[key] = enc
	}
	encVotes := make(map[uint64][]byte, len(update.Votes))
	for idx, v := range update.Votes {
		enc, err := encodeVote(ctx, v)
		if err != nil {
			return errors.Wrapf(err, "could not encode vote of validator %d", idx)
		}
		encVotes[uint64(idx)] = enc
	}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		if err := s.deleteBlocks(ctx, tx, update.DeletedBlocks); err != nil {
			return err
		}
		blocks := tx.Bucket(blocksBucket)
		for root, enc := range encBlocks {
			// Bolt keeps key slices until commit, so each key needs its own array.
			key := root
			if err := blocks.Put(key[:], enc); err != nil {
				return err
			}
		}
		states := tx.Bucket(stateBucket)
		for root, enc := range encStates {
			key := root
			if err := states.Put(key[:], enc); err != nil {
				return err
			}
		}
		checkpoints := tx.Bucket(checkpointBucket)
		for key, enc := range encCheckpoints {
			if err := checkpoints.Put([]byte(key), enc); err != nil {
				return err
			}
		}
		votes := tx.Bucket(votesBucket)
		for idx, enc := range encVotes {
			if err := votes.Put(bytesutil.Uint64ToBytesBigEndian(idx), enc); err != nil {
				return err
			}
		}
		metadata := tx.Bucket(chainMetadataBucket)
		if update.GenesisTime != 0 {
			if err := metadata.Put(genesisTimeKey, bytesutil.Uint64ToBytesBigEndian(update.GenesisTime)); err != nil {
				return err
			}
		}
		if update.StoreTime != 0 {
			if err := metadata.Put(storeTimeKey, bytesutil.Uint64ToBytesBigEndian(update.StoreTime)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return errors.Wrap(err, "could not save fork choice update")
	}

	for root, blk := range update.Blocks {
		s.blockCache.Add(root, blk.Copy())
	}
	for root, st := range update.States {
		s.stateCache.Add(root, st)
	}
	saveUpdateLatency.Observe(float64(time.Since(start).Milliseconds()))
	savedBlocksCount.Add(float64(len(update.Blocks)))
	log.WithFields(logrus.Fields{
		"blocks":  len(update.Blocks),
		"states":  len(update.States),
		"votes":   len(update.Votes),
		"deleted": len(update.DeletedBlocks),
	}).Trace("Saved fork choice update")
	return nil
}
