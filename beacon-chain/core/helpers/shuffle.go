package helpers

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/config/params"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/crypto/hash"
)

const seedSize = int8(32)
const roundSize = int8(1)
const positionWindowSize = int8(4)
const pivotViewSize = seedSize + roundSize
const totalSize = seedSize + roundSize + positionWindowSize

var maxShuffleListSize uint64 = 1 << 40

// ShuffledIndex returns `p(index)` in a pseudorandom permutation `p` of `0...list_size - 1` with ``seed`` as entropy.
// We utilize 'swap or not' shuffling in this implementation; we are allocating the memory with the seed that stays
// constant between iterations instead of reallocating it each iteration as in the spec. This implementation is based
// on the original implementation from protolambda, https://github.com/protolambda/eth2-shuffle
//
//	def compute_shuffled_index(index: uint64, index_count: uint64, seed: Bytes32) -> uint64:
//	  """
//	  Return the shuffled index corresponding to ``seed`` (and ``index_count``).
//	  """
//	  assert index < index_count
//
//	  # Swap or not (https://link.springer.com/content/pdf/10.1007%2F978-3-642-32009-5_1.pdf)
//	  # See the 'generalized domain' algorithm on page 3
//	  for current_round in range(SHUFFLE_ROUND_COUNT):
//	      pivot = bytes_to_uint64(hash(seed + uint_to_bytes(uint8(current_round)))[0:8]) % index_count
//	      flip = (pivot + index_count - index) % index_count
//	      position = max(index, flip)
//	      source = hash(
//	          seed
//	          + uint_to_bytes(uint8(current_round))
//	          + uint_to_bytes(uint32(position // 256))
//	      )
//	      byte = uint8(source[(position % 256) // 8])
//	      bit = (byte >> (position % 8)) % 2
//	      index = flip if bit else index
//
//	  return index
func ShuffledIndex(index primitives.ValidatorIndex, indexCount uint64, seed [32]byte) (primitives.ValidatorIndex, error) {
	if params.BeaconConfig().ShuffleRoundCount == 0 {
		return index, nil
	}
	if uint64(index) >= indexCount {
		return 0, errors.Errorf("input index %d out of bounds: %d", index, indexCount)
	}
	if indexCount > maxShuffleListSize {
		return 0, errors.Errorf("list size %d out of bounds", indexCount)
	}
	rounds := uint8(params.BeaconConfig().ShuffleRoundCount)
	hashfunc := hash.CustomSHA256Hasher()

	buf := make([]byte, totalSize)
	posBuffer := make([]byte, 8)
	// Seed is always the first 32 bytes of the hash input, we never have to change this part of the buffer.
	copy(buf[:32], seed[:])
	for round := uint8(0); round < rounds; round++ {
		buf[seedSize] = round
		h := hashfunc(buf[:pivotViewSize])
		hash8 := h[:8]
		hash8Int := binary.LittleEndian.Uint64(hash8)
		pivot := hash8Int % indexCount
		flip := (pivot + indexCount - uint64(index)) % indexCount
		// Consider every pair only once by picking the highest pair index to retrieve randomness.
		position := uint64(index)
		if flip > position {
			position = flip
		}
		// Add position except its last byte to []buf for randomness,
		// it will be used later to select a bit from the resulting hash.
		binary.LittleEndian.PutUint64(posBuffer[:8], position>>8)
		copy(buf[pivotViewSize:], posBuffer[:4])
		source := hashfunc(buf)
		// Effectively keep the first 5 bits of the byte value of the position,
		// and use it to retrieve one of the 32 (= 2^5) bytes of the hash.
		byteV := source[(position&0xff)>>3]
		// Using the last 3 bits of the position-byte, determine which bit to get from the hash-byte (note: 8 bits = 2^3)
		bitV := (byteV >> (position & 0x7)) & 0x1
		// index = flip if bit else index
		if bitV == 1 {
			index = primitives.ValidatorIndex(flip)
		}
	}
	return index, nil
}

// ShuffleList returns the list of indices in the order of the swap or not
// permutation, output[i] = indices[ShuffledIndex(i)].
func ShuffleList(indices []primitives.ValidatorIndex, seed [32]byte) ([]primitives.ValidatorIndex, error) {
	count := uint64(len(indices))
	shuffled := make([]primitives.ValidatorIndex, count)
	for i := uint64(0); i < count; i++ {
		permuted, err := ShuffledIndex(primitives.ValidatorIndex(i), count, seed)
		if err != nil {
			return nil, errors.Wrapf(err, "could not get shuffled index at index %d", i)
		}
		shuffled[i] = indices[permuted]
	}
	return shuffled, nil
}
