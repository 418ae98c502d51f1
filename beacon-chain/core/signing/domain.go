package signing

import (
	"github.com/pkg/errors"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

// Domain returns the domain version for BLS private key to sign and verify.
//
// Spec pseudocode definition:
//
//	def get_domain(state: BeaconState, domain_type: DomainType, epoch: Epoch=None) -> Domain:
//	  """
//	  Return the signature domain (fork version concatenated with domain type) of a message.
//	  """
//	  epoch = get_current_epoch(state) if epoch is None else epoch
//	  fork_version = state.fork.previous_version if epoch < state.fork.epoch else state.fork.current_version
//	  return compute_domain(domain_type, fork_version, state.genesis_validators_root)
func Domain(fork *ethpb.Fork, epoch primitives.Epoch, domainType [4]byte, genesisRoot [32]byte) ([32]byte, error) {
	if fork == nil {
		return [32]byte{}, errors.New("nil fork or domain type")
	}
	forkVersion := fork.CurrentVersion
	if epoch < fork.Epoch {
		forkVersion = fork.PreviousVersion
	}
	return ComputeDomain(domainType, forkVersion, genesisRoot)
}
