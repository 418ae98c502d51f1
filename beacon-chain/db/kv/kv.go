// Package kv defines a bolt-db, key-value store implementation
// of the Database interface defined by the fork choice store.
package kv

import (
	"context"
	"os"
	"path"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prysmaticlabs/chaindata/beacon-chain/db/iface"
	"github.com/prysmaticlabs/chaindata/config/params"
	prombolt "github.com/prysmaticlabs/prombbolt"
	bolt "go.etcd.io/bbolt"
)

var _ iface.ForkChoiceDatabase = (*Store)(nil)

const (
	// DatabaseFileName is the name of the beacon node database.
	DatabaseFileName = "beaconchain.db"

	boltAllocSize = 8 * 1024 * 1024
)

// BlockCacheSize specifies 1024 blocks cached.
var BlockCacheSize = 1 << 10

func stateCacheSize() int {
	if size := params.BeaconConfig().StateCacheSize; size > 0 {
		return size
	}
	return 1
}

// Config for the bolt db kv store.
type Config struct {
	InitialMMapSize int
}

// Store defines an implementation of the fork choice Database interface
// using BoltDB as the underlying persistent kv-store.
type Store struct {
	db           *bolt.DB
	databasePath string
	blockCache   *lru.Cache
	stateCache   *lru.Cache
	ctx          context.Context
}

// NewKVStore initializes a new boltDB key-value store at the directory
// path specified, creates the kv-buckets based on the schema, and stores
// an open connection db object as a property of the Store struct.
func NewKVStore(ctx context.Context, dirPath string, config *Config) (*Store, error) {
	hasDir, err := hasDir(dirPath)
	if err != nil {
		return nil, err
	}
	if !hasDir {
		if err := os.MkdirAll(dirPath, 0700); err != nil {
			return nil, err
		}
	}
	if config == nil {
		config = &Config{}
	}
	datafile := StoreDatafilePath(dirPath)
	boltDB, err := bolt.Open(
		datafile,
		0600,
		&bolt.Options{
			Timeout:         1 * time.Second,
			InitialMmapSize: config.InitialMMapSize,
		},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	boltDB.AllocSize = boltAllocSize
	blockCache, err := lru.New(BlockCacheSize)
	if err != nil {
		return nil, err
	}
	stateCache, err := lru.New(stateCacheSize())
	if err != nil {
		return nil, err
	}

	kv := &Store{
		db:           boltDB,
		databasePath: dirPath,
		blockCache:   blockCache,
		stateCache:   stateCache,
		ctx:          ctx,
	}

	if err := kv.db.Update(func(tx *bolt.Tx) error {
		return createBuckets(
			tx,
			blocksBucket,
			stateBucket,
			checkpointBucket,
			votesBucket,
			chainMetadataBucket,
		)
	}); err != nil {
		return nil, err
	}

	if err := prometheus.Register(createBoltCollector(kv.db)); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		log.WithError(err).Debug("Bolt collector already registered")
	}
	log.WithField("path", datafile).Debug("Opened database")
	return kv, nil
}

// ClearDB removes the previously stored database in the data directory.
func (s *Store) ClearDB() error {
	if _, err := os.Stat(s.databasePath); os.IsNotExist(err) {
		return nil
	}
	prometheus.Unregister(createBoltCollector(s.db))
	if err := os.Remove(path.Join(s.databasePath, DatabaseFileName)); err != nil {
		return errors.Wrap(err, "could not remove database file")
	}
	return nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	prometheus.Unregister(createBoltCollector(s.db))
	s.blockCache.Purge()
	s.stateCache.Purge()
	return s.db.Close()
}

// DatabasePath at which this database writes files.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

func createBuckets(tx *bolt.Tx, buckets ...[]byte) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

// createBoltCollector returns a prometheus collector specifically configured for boltdb.
func createBoltCollector(db *bolt.DB) prometheus.Collector {
	return prombolt.New("boltDB", db)
}

// StoreDatafilePath is the canonical construction of a full
// database file path from the directory path, so that code outside
// this package can find the full path in a consistent way.
func StoreDatafilePath(dirPath string) string {
	return path.Join(dirPath, DatabaseFileName)
}

func hasDir(dirPath string) (bool, error) {
	_, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}
