package helpers

import (
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

// IsActiveValidator returns the boolean value on whether the validator
// is active or not.
//
// Spec pseudocode definition:
//
//	def is_active_validator(validator: Validator, epoch: Epoch) -> bool:
//	  """
//	  Check if ``validator`` is active.
//	  """
//	  return validator.activation_epoch <= epoch < validator.exit_epoch
func IsActiveValidator(validator *ethpb.Validator, epoch primitives.Epoch) bool {
	return validator.ActivationEpoch <= epoch && epoch < validator.ExitEpoch
}

// ActiveValidatorIndices filters out active validators based on validator status
// and returns their indices in a list.
//
// Spec pseudocode definition:
//
//	def get_active_validator_indices(state: BeaconState, epoch: Epoch) -> Sequence[ValidatorIndex]:
//	  """
//	  Return the sequence of active validator indices at ``epoch``.
//	  """
//	  return [ValidatorIndex(i) for i, v in enumerate(state.validators) if is_active_validator(v, epoch)]
func ActiveValidatorIndices(st state.ReadOnlyBeaconState, epoch primitives.Epoch) ([]primitives.ValidatorIndex, error) {
	indices := make([]primitives.ValidatorIndex, 0, st.NumValidators())
	if err := st.ReadFromEveryValidator(func(idx int, val *ethpb.Validator) error {
		if IsActiveValidator(val, epoch) {
			indices = append(indices, primitives.ValidatorIndex(idx))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return indices, nil
}

// EffectiveBalances returns the effective balance of every validator active at
// epoch, zero for inactive or slashed validators. The result is indexed by
// validator index and is used to weight fork choice votes.
func EffectiveBalances(st state.ReadOnlyBeaconState, epoch primitives.Epoch) ([]uint64, error) {
	balances := make([]uint64, st.NumValidators())
	if err := st.ReadFromEveryValidator(func(idx int, val *ethpb.Validator) error {
		if IsActiveValidator(val, epoch) && !val.Slashed {
			balances[idx] = val.EffectiveBalance
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return balances, nil
}
