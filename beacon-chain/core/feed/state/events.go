// Package state contains types for state operation-specific events fired
// during the runtime of a beacon node such as genesis, finality and reorgs.
package state

import (
	"time"

	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

const (
	// BlockProcessed is sent after a block has been committed to the fork choice store.
	BlockProcessed = iota + 1
	// GenesisEstablished is sent once the fork choice store has been initialized from a genesis state.
	GenesisEstablished
	// FinalizedCheckpoint event.
	FinalizedCheckpoint
	// Reorg is an event sent when the block canonical at the previous head slot
	// is no longer canonical under the new head.
	Reorg
)

// BlockProcessedData is the data sent with BlockProcessed events.
type BlockProcessedData struct {
	// Slot is the slot of the processed block.
	Slot primitives.Slot
	// BlockRoot of the processed block.
	BlockRoot [32]byte
	// Block is the processed block.
	Block *ethpb.BeaconBlock
}

// GenesisEstablishedData is the data sent with GenesisEstablished events.
type GenesisEstablishedData struct {
	// StartTime is the time at which the chain started.
	StartTime time.Time
	// GenesisValidatorsRoot represents state.validators.HashTreeRoot().
	GenesisValidatorsRoot [32]byte
	// GenesisRoot is the root of the genesis block.
	GenesisRoot [32]byte
}

// FinalizedCheckpointData is the data sent with FinalizedCheckpoint events.
type FinalizedCheckpointData struct {
	Checkpoint *ethpb.Checkpoint
}

// ReorgData is the data alongside a reorg event.
type ReorgData struct {
	// NewRoot is the root of the new head.
	NewRoot [32]byte
	// NewSlot is the slot of the new head.
	NewSlot primitives.Slot
	// OldRoot is the root of the head before the reorg.
	OldRoot [32]byte
	// OldSlot is the slot of the head before the reorg.
	OldSlot primitives.Slot
}
