package blst

import (
	"bytes"
	"testing"

	"github.com/prysmaticlabs/chaindata/crypto/bls/common"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
)

func TestSignVerify(t *testing.T) {
	priv, err := RandKey()
	require.NoError(t, err)
	pub := priv.PublicKey()
	msg := []byte("hello")
	sig := priv.Sign(msg)
	assert.Equal(t, true, sig.Verify(pub, msg), "Signature did not verify")
	assert.Equal(t, false, sig.Verify(pub, []byte("world")), "Signature verified a different message")
}

func TestSignatureFromBytes_RoundTrip(t *testing.T) {
	priv, err := RandKey()
	require.NoError(t, err)
	sig := priv.Sign([]byte("message"))
	decoded, err := SignatureFromBytes(sig.Marshal())
	require.NoError(t, err)
	assert.DeepEqual(t, sig.Marshal(), decoded.Marshal())
	assert.Equal(t, true, decoded.Verify(priv.PublicKey(), []byte("message")))
}

func TestSignatureFromBytes(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		err   string
	}{
		{name: "Nil", err: "signature must be 96 bytes"},
		{name: "Short", input: []byte{0x00, 0x00}, err: "signature must be 96 bytes"},
		{name: "Bad", input: bytes.Repeat([]byte{0xff}, 96), err: "could not unmarshal bytes into signature"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := SignatureFromBytes(test.input)
			assert.ErrorContains(t, test.err, err)
		})
	}
}

func TestFastAggregateVerify(t *testing.T) {
	msg := [32]byte{'h', 'e', 'l', 'l', 'o'}
	pubkeys := make([]common.PublicKey, 0, 10)
	sigs := make([]common.Signature, 0, 10)
	for i := 0; i < 10; i++ {
		priv, err := RandKey()
		require.NoError(t, err)
		pubkeys = append(pubkeys, priv.PublicKey())
		sigs = append(sigs, priv.Sign(msg[:]))
	}
	aggSig := AggregateSignatures(sigs)
	assert.Equal(t, true, aggSig.FastAggregateVerify(pubkeys, msg))
	assert.Equal(t, false, aggSig.FastAggregateVerify(pubkeys[1:], msg))
	assert.Equal(t, false, aggSig.FastAggregateVerify(nil, msg))
}

func TestPublicKeyFromBytes(t *testing.T) {
	priv, err := SecretKeyFromSeed(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	pub := priv.PublicKey()
	decoded, err := PublicKeyFromBytes(pub.Marshal())
	require.NoError(t, err)
	assert.Equal(t, true, pub.Equals(decoded))
	// Cached path.
	decoded, err = PublicKeyFromBytes(pub.Marshal())
	require.NoError(t, err)
	assert.Equal(t, true, pub.Equals(decoded))

	_, err = PublicKeyFromBytes(common.InfinitePublicKey[:])
	assert.NotNil(t, err)
	_, err = PublicKeyFromBytes([]byte{1, 2})
	assert.ErrorContains(t, "public key must be 48 bytes", err)
}

func TestSecretKeyFromBytes(t *testing.T) {
	priv, err := SecretKeyFromSeed(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	decoded, err := SecretKeyFromBytes(priv.Marshal())
	require.NoError(t, err)
	assert.DeepEqual(t, priv.PublicKey().Marshal(), decoded.PublicKey().Marshal())

	_, err = SecretKeyFromBytes(common.ZeroSecretKey[:])
	assert.NotNil(t, err)
	_, err = SecretKeyFromSeed([]byte{1})
	assert.ErrorContains(t, "seed must be at least 32 bytes", err)
}
