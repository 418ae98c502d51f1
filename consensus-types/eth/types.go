// Package eth defines the beacon chain containers tracked by the recent chain
// data core together with their SSZ encodings.
package eth

import (
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/go-bitfield"
)

// MaxValidatorsPerCommittee bounds the aggregation bitlist of an attestation.
const MaxValidatorsPerCommittee = 2048

// Checkpoint is an (epoch, root) pair marking a justified or finalized chain position.
type Checkpoint struct {
	Epoch primitives.Epoch
	Root  [32]byte
}

// BeaconBlock is the header-level record of a block known to fork choice.
// The root of a block is its hash tree root.
type BeaconBlock struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	BodyRoot      [32]byte
}

// Fork describes the fork versions in effect for a state.
type Fork struct {
	PreviousVersion [4]byte
	CurrentVersion  [4]byte
	Epoch           primitives.Epoch
}

// ForkData is hashed together with a domain type to compute signing domains.
type ForkData struct {
	CurrentVersion        [4]byte
	GenesisValidatorsRoot [32]byte
}

// SigningData is the container signed over by validators.
type SigningData struct {
	ObjectRoot [32]byte
	Domain     [32]byte
}

// Validator is the registry entry of a single validator.
type Validator struct {
	PublicKey        [48]byte
	EffectiveBalance uint64
	Slashed          bool
	ActivationEpoch  primitives.Epoch
	ExitEpoch        primitives.Epoch
}

// VoteTracker records the latest message of a validator for fork choice.
type VoteTracker struct {
	CurrentRoot [32]byte
	NextRoot    [32]byte
	NextEpoch   primitives.Epoch
}

// AttestationData is the vote shared by all members of a committee.
type AttestationData struct {
	Slot            primitives.Slot
	CommitteeIndex  primitives.CommitteeIndex
	BeaconBlockRoot [32]byte
	Source          *Checkpoint
	Target          *Checkpoint
}

// Attestation is a possibly aggregated committee vote.
type Attestation struct {
	AggregationBits bitfield.Bitlist
	Data            *AttestationData
	Signature       [96]byte
}

// AggregateAttestationAndProof is the message an aggregator signs when
// publishing an aggregate.
type AggregateAttestationAndProof struct {
	AggregatorIndex primitives.ValidatorIndex
	Aggregate       *Attestation
	SelectionProof  [96]byte
}

// SignedAggregateAttestationAndProof is the gossip envelope of an aggregate.
type SignedAggregateAttestationAndProof struct {
	Message   *AggregateAttestationAndProof
	Signature [96]byte
}

// BeaconState is the post state of a block. BlockRoots and RandaoMixes are
// rings indexed by slot and epoch modulo their configured lengths.
type BeaconState struct {
	GenesisTime                 uint64
	GenesisValidatorsRoot       [32]byte
	Slot                        primitives.Slot
	Fork                        *Fork
	LatestBlockRoot             [32]byte
	BlockRoots                  [][32]byte
	Validators                  []*Validator
	RandaoMixes                 [][32]byte
	PreviousJustifiedCheckpoint *Checkpoint
	CurrentJustifiedCheckpoint  *Checkpoint
	FinalizedCheckpoint         *Checkpoint
}
