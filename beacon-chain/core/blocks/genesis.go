// Package blocks contains block construction helpers shared by the fork choice
// store and its test fixtures.
package blocks

import (
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
)

// NewGenesisBlock returns the canonical, genesis block for the beacon chain protocol.
// Every field other than the state root is zero, so the genesis root depends
// only on the genesis state.
func NewGenesisBlock(stateRoot [32]byte) *ethpb.BeaconBlock {
	return &ethpb.BeaconBlock{
		Slot:      params.BeaconConfig().GenesisSlot,
		StateRoot: stateRoot,
	}
}
