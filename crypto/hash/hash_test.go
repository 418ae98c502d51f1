package hash_test

import (
	"crypto/sha256"
	"testing"

	"github.com/prysmaticlabs/chaindata/crypto/hash"
	"github.com/prysmaticlabs/chaindata/testing/assert"
)

func TestHash(t *testing.T) {
	for _, input := range [][]byte{nil, []byte("hello"), make([]byte, 96)} {
		assert.Equal(t, sha256.Sum256(input), hash.Hash(input))
	}
}

func TestCustomSHA256Hasher(t *testing.T) {
	hasher := hash.CustomSHA256Hasher()
	assert.Equal(t, hash.Hash([]byte("a")), hasher([]byte("a")))
	assert.Equal(t, hash.Hash([]byte("b")), hasher([]byte("b")))
}
