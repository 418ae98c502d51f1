package cache

import (
	"testing"

	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
)

func TestCommitteeCache_RoundTrip(t *testing.T) {
	cache := NewCommitteesCache()
	item := &Committees{
		Seed:            [32]byte{'A'},
		ShuffledIndices: []primitives.ValidatorIndex{1, 2, 3, 4, 5, 6},
		CommitteeCount:  3,
	}

	indices, count, err := cache.ShuffledIndices(item.Seed)
	require.NoError(t, err)
	assert.IsNil(t, indices)
	assert.Equal(t, uint64(0), count)

	require.NoError(t, cache.AddCommitteeShuffledList(item))
	indices, count, err = cache.ShuffledIndices(item.Seed)
	require.NoError(t, err)
	assert.DeepEqual(t, item.ShuffledIndices, indices)
	assert.Equal(t, uint64(3), count)
}

func TestCommitteeCache_CanRotate(t *testing.T) {
	cache := NewCommitteesCacheWithSize(4)
	for i := byte(0); i < 10; i++ {
		require.NoError(t, cache.AddCommitteeShuffledList(&Committees{Seed: [32]byte{i}, ShuffledIndices: []primitives.ValidatorIndex{primitives.ValidatorIndex(i)}}))
	}
	assert.Equal(t, 4, cache.Len())
	indices, _, err := cache.ShuffledIndices([32]byte{0})
	require.NoError(t, err)
	assert.IsNil(t, indices)
	indices, _, err = cache.ShuffledIndices([32]byte{9})
	require.NoError(t, err)
	assert.DeepEqual(t, []primitives.ValidatorIndex{9}, indices)
}

func TestCommitteeCache_RejectsNil(t *testing.T) {
	assert.ErrorIs(t, NewCommitteesCache().AddCommitteeShuffledList(nil), ErrNotCommittee)
}
