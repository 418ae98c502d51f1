package helpers

import (
	"github.com/prysmaticlabs/chaindata/beacon-chain/cache"
	"github.com/prysmaticlabs/chaindata/config/params"
)

// ClearCache clears the committee cache from scratch. Tests that switch the
// active configuration call this so stale shufflings are not served.
func ClearCache() {
	committeeCache = cache.NewCommitteesCacheWithSize(params.BeaconConfig().CommitteeCacheSize)
}
