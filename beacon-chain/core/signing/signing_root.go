// Package signing computes signing domains and signing roots and verifies
// BLS signatures over them.
package signing

import (
	fssz "github.com/ferranbt/fastssz"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/crypto/bls"
	"github.com/prysmaticlabs/chaindata/time/slots"
)

// ErrSigFailedToVerify returns when a signature of a block object(ie attestation, slashing, exit... etc)
// failed to verify.
var ErrSigFailedToVerify = errors.New("signature did not verify")

// ComputeDomainAndSign computes the domain and signing root and sign it using the passed in private key.
func ComputeDomainAndSign(st state.ReadOnlyBeaconState, epoch primitives.Epoch, obj fssz.HashRoot, domain [4]byte, key bls.SecretKey) ([]byte, error) {
	d, err := Domain(st.Fork(), epoch, domain, st.GenesisValidatorsRoot())
	if err != nil {
		return nil, err
	}
	sr, err := ComputeSigningRoot(obj, d)
	if err != nil {
		return nil, err
	}
	return key.Sign(sr[:]).Marshal(), nil
}

// ComputeSigningRoot computes the root of the object by calculating the hash tree root of the signing data with the given domain.
//
// Spec pseudocode definition:
//
//	def compute_signing_root(ssz_object: SSZObject, domain: Domain) -> Root:
//	  """
//	  Return the signing root for the corresponding signing data.
//	  """
//	  return hash_tree_root(SigningData(
//	      object_root=hash_tree_root(ssz_object),
//	      domain=domain,
//	  ))
func ComputeSigningRoot(object fssz.HashRoot, domain [32]byte) ([32]byte, error) {
	if object == nil {
		return [32]byte{}, errors.New("cannot compute signing root of nil")
	}
	objRoot, err := object.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	container := &ethpb.SigningData{
		ObjectRoot: objRoot,
		Domain:     domain,
	}
	return container.HashTreeRoot()
}

// VerifySigningRoot verifies the signing root of an object given its public key, signature and domain.
func VerifySigningRoot(obj fssz.HashRoot, pub []byte, signature []byte, domain [32]byte) error {
	publicKey, err := bls.PublicKeyFromBytes(pub)
	if err != nil {
		return errors.Wrap(err, "could not convert bytes to public key")
	}
	sig, err := bls.SignatureFromBytes(signature)
	if err != nil {
		return errors.Wrap(err, "could not convert bytes to signature")
	}
	root, err := ComputeSigningRoot(obj, domain)
	if err != nil {
		return errors.Wrap(err, "could not compute signing root")
	}
	if !sig.Verify(publicKey, root[:]) {
		return ErrSigFailedToVerify
	}
	return nil
}

// ComputeDomain returns the domain version for BLS private key to sign and verify with a zeroed 4-byte
// array as the fork version.
//
// Spec pseudocode definition:
//
//	def compute_domain(domain_type: DomainType, fork_version: Version=None, genesis_validators_root: Root=None) -> Domain:
//	  """
//	  Return the domain for the ``domain_type`` and ``fork_version``.
//	  """
//	  if fork_version is None:
//	      fork_version = GENESIS_FORK_VERSION
//	  if genesis_validators_root is None:
//	      genesis_validators_root = Root()  # all bytes zero by default
//	  fork_data_root = compute_fork_data_root(fork_version, genesis_validators_root)
//	  return Domain(domain_type + fork_data_root[:28])
func ComputeDomain(domainType [4]byte, forkVersion [4]byte, genesisValidatorsRoot [32]byte) ([32]byte, error) {
	forkDataRoot, err := computeForkDataRoot(forkVersion, genesisValidatorsRoot)
	if err != nil {
		return [32]byte{}, err
	}
	return domain(domainType, forkDataRoot[:]), nil
}

// This returns the bls domain given by the domain type and fork data root.
func domain(domainType [4]byte, forkDataRoot []byte) [32]byte {
	var b [32]byte
	copy(b[:4], domainType[:])
	copy(b[4:], forkDataRoot[:28])
	return b
}

// this returns the 32byte fork data root for the ``current_version`` and ``genesis_validators_root``.
// This is used primarily in signature domains to avoid collisions across forks/chains.
//
// Spec pseudocode definition:
//
//	def compute_fork_data_root(current_version: Version, genesis_validators_root: Root) -> Root:
//	  """
//	  Return the 32-byte fork data root for the ``current_version`` and ``genesis_validators_root``.
//	  This is used primarily in signature domains to avoid collisions across forks/chains.
//	  """
//	  return hash_tree_root(ForkData(
//	      current_version=current_version,
//	      genesis_validators_root=genesis_validators_root,
//	  ))
func computeForkDataRoot(version [4]byte, root [32]byte) ([32]byte, error) {
	r, err := (&ethpb.ForkData{
		CurrentVersion:        version,
		GenesisValidatorsRoot: root,
	}).HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	return r, nil
}

// VerifySlotSignature verifies that sig is the signature of the validator at
// idx over slot, under domainType at the slot's epoch.
func VerifySlotSignature(st state.ReadOnlyBeaconState, idx primitives.ValidatorIndex, slot primitives.Slot, domainType [4]byte, sig []byte) error {
	d, err := Domain(st.Fork(), slots.ToEpoch(slot), domainType, st.GenesisValidatorsRoot())
	if err != nil {
		return err
	}
	pub := st.PubkeyAtIndex(idx)
	return VerifySigningRoot(slot, pub[:], sig, d)
}
