package kv

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/chaindata/config/params"
	"github.com/prysmaticlabs/chaindata/testing/require"
	bolt "go.etcd.io/bbolt"
)

// setupDB instantiates and returns a Store instance.
func setupDB(t testing.TB) *Store {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MinimalSpecConfig())
	db, err := NewKVStore(context.Background(), t.TempDir(), &Config{})
	require.NoError(t, err, "Failed to instantiate DB")
	t.Cleanup(func() {
		require.NoError(t, db.Close(), "Failed to close database")
	})
	return db
}

func TestStore_ReopenKeepsData(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	dir := t.TempDir()
	ctx := context.Background()
	db, err := NewKVStore(ctx, dir, nil)
	require.NoError(t, err)
	require.NoError(t, db.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(chainMetadataBucket).Put(genesisTimeKey, []byte{0, 0, 0, 0, 0, 0, 0, 9})
	}))
	require.NoError(t, db.Close())

	db, err = NewKVStore(ctx, dir, nil)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	gt, err := db.GenesisTime(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(9), gt)
	require.Equal(t, dir, db.DatabasePath())
}

func TestStore_ClearDB(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.ClearDB())
}
