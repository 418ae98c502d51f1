// Package cache includes all important caches for the runtime
// of the recent chain data core.
package cache

import (
	"errors"

	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

var (
	// ErrNotCommittee will be returned when a cache object is not a pointer to
	// a Committee struct.
	ErrNotCommittee = errors.New("object is not a committee struct")

	// maxCommitteesCacheSize defines the max number of shuffled committees on per randao basis can cache.
	// Due to reorgs and long finality, it's good to keep the old cache around for quickly switch over.
	maxCommitteesCacheSize = 32

	// CommitteeCacheMiss tracks the number of committee requests that aren't present in the cache.
	CommitteeCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "committee_cache_miss",
		Help: "The number of committee requests that aren't present in the cache.",
	})
	// CommitteeCacheHit tracks the number of committee requests that are in the cache.
	CommitteeCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "committee_cache_hit",
		Help: "The number of committee requests that are present in the cache.",
	})
)

// Committees defines the shuffled committees seed.
type Committees struct {
	CommitteeCount  uint64
	Seed            [32]byte
	ShuffledIndices []primitives.ValidatorIndex
}

// CommitteeCache is a struct with 1 queue for looking up shuffled indices list by seed.
type CommitteeCache struct {
	CommitteeCache *lru.Cache
}

// NewCommitteesCache creates a committee cache for storing/accessing shuffled indices of a committee.
func NewCommitteesCache() *CommitteeCache {
	return NewCommitteesCacheWithSize(maxCommitteesCacheSize)
}

// NewCommitteesCacheWithSize creates a committee cache holding at most size shufflings.
func NewCommitteesCacheWithSize(size int) *CommitteeCache {
	if size <= 0 {
		size = maxCommitteesCacheSize
	}
	cache, err := lru.New(size)
	// An error is only returned if the size of the cache is
	// <= 0.
	if err != nil {
		panic(err)
	}
	return &CommitteeCache{CommitteeCache: cache}
}

// ShuffledIndices returns the shuffled active indices for the given seed. The
// returned slice must not be mutated.
func (c *CommitteeCache) ShuffledIndices(seed [32]byte) ([]primitives.ValidatorIndex, uint64, error) {
	obj, exists := c.CommitteeCache.Get(seed)
	if !exists {
		CommitteeCacheMiss.Inc()
		return nil, 0, nil
	}
	CommitteeCacheHit.Inc()
	item, ok := obj.(*Committees)
	if !ok {
		return nil, 0, ErrNotCommittee
	}
	return item.ShuffledIndices, item.CommitteeCount, nil
}

// AddCommitteeShuffledList adds Committee shuffled list object to the cache. This method also
// evicts the least recently used list once the cache has reached its size limit.
func (c *CommitteeCache) AddCommitteeShuffledList(committees *Committees) error {
	if committees == nil {
		return ErrNotCommittee
	}
	c.CommitteeCache.Add(committees.Seed, committees)
	return nil
}

// Len returns the number of cached shufflings.
func (c *CommitteeCache) Len() int {
	return c.CommitteeCache.Len()
}
