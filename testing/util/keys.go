package util

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/crypto/bls"
	"github.com/prysmaticlabs/chaindata/crypto/hash"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
)

var lock sync.Mutex
var cachedKeys []bls.SecretKey

// DeterministicallyGenerateKeys creates BLS private keys using a fixed seed
// per validator index. Keys are cached across calls.
func DeterministicallyGenerateKeys(startIndex, numKeys uint64) ([]bls.SecretKey, []bls.PublicKey, error) {
	lock.Lock()
	defer lock.Unlock()

	for uint64(len(cachedKeys)) < startIndex+numKeys {
		i := uint64(len(cachedKeys))
		seed := hash.Hash(bytesutil.Bytes8(i))
		key, err := bls.SecretKeyFromSeed(seed[:])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "could not generate key %d", i)
		}
		cachedKeys = append(cachedKeys, key)
	}

	privKeys := make([]bls.SecretKey, numKeys)
	pubKeys := make([]bls.PublicKey, numKeys)
	for i := uint64(0); i < numKeys; i++ {
		privKeys[i] = cachedKeys[startIndex+i]
		pubKeys[i] = privKeys[i].PublicKey()
	}
	return privKeys, pubKeys, nil
}
