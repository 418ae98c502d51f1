package util

import (
	"testing"

	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	v1 "github.com/prysmaticlabs/chaindata/beacon-chain/state/v1"
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/crypto/bls"
	"github.com/prysmaticlabs/chaindata/crypto/hash"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
)

// NewBeaconState creates a beacon state with minimum marshalable fields.
// Ring fields are sized from the active configuration.
func NewBeaconState(options ...func(state *ethpb.BeaconState) error) (*v1.BeaconState, error) {
	cfg := params.BeaconConfig()
	version := bytesutil.ToBytes4(cfg.GenesisForkVersion)
	seed := &ethpb.BeaconState{
		Slot: cfg.GenesisSlot,
		Fork: &ethpb.Fork{
			PreviousVersion: version,
			CurrentVersion:  version,
			Epoch:           cfg.GenesisEpoch,
		},
		BlockRoots:                  make([][32]byte, cfg.SlotsPerHistoricalRoot),
		Validators:                  make([]*ethpb.Validator, 0),
		RandaoMixes:                 make([][32]byte, cfg.EpochsPerHistoricalVector),
		PreviousJustifiedCheckpoint: &ethpb.Checkpoint{},
		CurrentJustifiedCheckpoint:  &ethpb.Checkpoint{},
		FinalizedCheckpoint:         &ethpb.Checkpoint{},
	}

	for _, opt := range options {
		if err := opt(seed); err != nil {
			return nil, err
		}
	}

	return v1.InitializeFromProtoUnsafe(seed)
}

// DeterministicGenesisState returns a genesis state made using the deterministic keys.
func DeterministicGenesisState(t testing.TB, numValidators uint64) (state.ReadOnlyBeaconState, []bls.SecretKey) {
	return DeterministicGenesisStateWithTime(t, numValidators, 0)
}

// DeterministicGenesisStateWithTime returns a deterministic genesis state whose
// chain started at genesisTime (unix seconds).
func DeterministicGenesisStateWithTime(t testing.TB, numValidators, genesisTime uint64) (state.ReadOnlyBeaconState, []bls.SecretKey) {
	privKeys, pubKeys, err := DeterministicallyGenerateKeys(0, numValidators)
	if err != nil {
		t.Fatal(err)
	}
	cfg := params.BeaconConfig()
	st, err := NewBeaconState(func(st *ethpb.BeaconState) error {
		st.GenesisTime = genesisTime
		joined := make([]byte, 0, numValidators*uint64(cfg.BLSPubkeyLength))
		for _, pub := range pubKeys {
			v := &ethpb.Validator{
				EffectiveBalance: cfg.MaxEffectiveBalance,
				ActivationEpoch:  cfg.GenesisEpoch,
				ExitEpoch:        cfg.FarFutureEpoch,
			}
			copy(v.PublicKey[:], pub.Marshal())
			st.Validators = append(st.Validators, v)
			joined = append(joined, v.PublicKey[:]...)
		}
		st.GenesisValidatorsRoot = hash.Hash(joined)
		mix := hash.Hash(st.GenesisValidatorsRoot[:])
		for i := range st.RandaoMixes {
			st.RandaoMixes[i] = mix
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return st, privKeys
}
