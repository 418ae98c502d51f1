// Package bls implements a go-wrapper around a library implementing the
// BLS12-381 curve and signature scheme. This package exposes a public API for
// verifying and aggregating BLS signatures used by Ethereum.
package bls

import (
	"github.com/prysmaticlabs/chaindata/crypto/bls/blst"
	"github.com/prysmaticlabs/chaindata/crypto/bls/common"
)

// SecretKey represents a BLS secret or private key.
type SecretKey = common.SecretKey

// PublicKey represents a BLS public key.
type PublicKey = common.PublicKey

// Signature represents a BLS signature.
type Signature = common.Signature

// SecretKeyFromBytes creates a BLS private key from a BigEndian byte slice.
func SecretKeyFromBytes(privKey []byte) (SecretKey, error) {
	return blst.SecretKeyFromBytes(privKey)
}

// SecretKeyFromSeed derives a BLS private key from input keying material.
func SecretKeyFromSeed(ikm []byte) (SecretKey, error) {
	return blst.SecretKeyFromSeed(ikm)
}

// PublicKeyFromBytes creates a BLS public key from a BigEndian byte slice.
func PublicKeyFromBytes(pubKey []byte) (PublicKey, error) {
	return blst.PublicKeyFromBytes(pubKey)
}

// SignatureFromBytes creates a BLS signature from a LittleEndian byte slice.
func SignatureFromBytes(sig []byte) (Signature, error) {
	return blst.SignatureFromBytes(sig)
}

// AggregateSignatures converts a list of signatures into a single, aggregated sig.
func AggregateSignatures(sigs []common.Signature) common.Signature {
	return blst.AggregateSignatures(sigs)
}

// RandKey creates a new private key using a random input.
func RandKey() (SecretKey, error) {
	return blst.RandKey()
}
