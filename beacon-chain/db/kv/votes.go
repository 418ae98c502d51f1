package kv

import (
	"context"

	"github.com/pkg/errors"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// Votes returns every stored fork choice vote keyed by validator index.
func (s *Store) Votes(ctx context.Context) (map[primitives.ValidatorIndex]*ethpb.VoteTracker, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.Votes")
	defer span.End()
	votes := make(map[primitives.ValidatorIndex]*ethpb.VoteTracker)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(votesBucket).ForEach(func(k, v []byte) error {
			vote, err := decodeVote(ctx, v)
			if err != nil {
				return errors.Wrapf(err, "could not decode vote of validator %d", bytesutil.BytesToUint64BigEndian(k))
			}
			votes[primitives.ValidatorIndex(bytesutil.BytesToUint64BigEndian(k))] = vote
			return nil
		})
	})
	return votes, err
}
