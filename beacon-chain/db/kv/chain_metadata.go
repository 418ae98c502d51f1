package kv

import (
	"context"

	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// GenesisTime returns the saved genesis time in unix seconds, zero if none.
func (s *Store) GenesisTime(ctx context.Context) (uint64, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.GenesisTime")
	defer span.End()
	return s.metadataUint64(genesisTimeKey)
}

// StoreTime returns the last saved fork choice store time in unix seconds,
// zero if none.
func (s *Store) StoreTime(ctx context.Context) (uint64, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.StoreTime")
	defer span.End()
	return s.metadataUint64(storeTimeKey)
}

func (s *Store) metadataUint64(key []byte) (uint64, error) {
	var v uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(chainMetadataBucket).Get(key)
		if enc == nil {
			return nil
		}
		v = bytesutil.BytesToUint64BigEndian(enc)
		return nil
	})
	return v, err
}
