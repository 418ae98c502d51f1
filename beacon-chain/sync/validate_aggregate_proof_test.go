package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/golang/snappy"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	pubsubpb "github.com/libp2p/go-libp2p-pubsub/pb"
	mock "github.com/prysmaticlabs/chaindata/beacon-chain/blockchain/testing"
	"github.com/prysmaticlabs/chaindata/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	"github.com/prysmaticlabs/chaindata/beacon-chain/sync"
	synctest "github.com/prysmaticlabs/chaindata/beacon-chain/sync/testing"
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/crypto/bls"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
	"github.com/prysmaticlabs/chaindata/testing/util"
	"golang.org/x/sync/errgroup"
)

const (
	testGenesisTime  = 1606824023
	numTestValidator = 64
)

var (
	blockRoot      = [32]byte{'a'}
	otherBlockRoot = [32]byte{'b'}
)

type aggregateTest struct {
	st        state.ReadOnlyBeaconState
	keys      []bls.SecretKey
	chain     *mock.ChainService
	attChecks *synctest.MockAttestationValidator
	validator *sync.AggregateValidator
}

func slotTime(slot primitives.Slot) time.Time {
	return time.Unix(testGenesisTime, 0).Add(time.Duration(slot) * params.BeaconConfig().SlotDuration())
}

// setupAggregateTest returns a validator whose clock sits one second into
// currentSlot and whose attestation checks pass unless overridden.
func setupAggregateTest(t *testing.T, currentSlot primitives.Slot) *aggregateTest {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MinimalSpecConfig())
	helpers.ClearCache()
	t.Cleanup(helpers.ClearCache)

	st, keys := util.DeterministicGenesisStateWithTime(t, numTestValidator, testGenesisTime)
	now := slotTime(currentSlot).Add(time.Second)
	chain := &mock.ChainService{
		Genesis: time.Unix(testGenesisTime, 0),
		Slot:    &currentSlot,
		States: map[[32]byte]state.ReadOnlyBeaconState{
			blockRoot:      st,
			otherBlockRoot: st,
		},
		Fork: st.Fork(),
	}
	ctrl := gomock.NewController(t)
	attChecks := synctest.NewMockAttestationValidator(ctrl)
	v := sync.NewAggregateValidator(chain, attChecks, sync.WithClock(func() time.Time { return now }))
	return &aggregateTest{st: st, keys: keys, chain: chain, attChecks: attChecks, validator: v}
}

func (a *aggregateTest) attestationsReturn(res sync.ValidationResult) {
	a.attChecks.EXPECT().SingleOrAggregateAttestationChecks(gomock.Any(), gomock.Any()).Return(res).AnyTimes()
}

func TestValidateAggregate_Valid(t *testing.T) {
	a := setupAggregateTest(t, 5)
	a.attestationsReturn(sync.ValidationValid)

	signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, blockRoot)
	assert.Equal(t, sync.ValidationValid, a.validator.Validate(context.Background(), signed))
}

func TestValidateAggregate_Dedup(t *testing.T) {
	a := setupAggregateTest(t, 5)
	a.attestationsReturn(sync.ValidationValid)
	ctx := context.Background()

	first := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, blockRoot)
	second := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, otherBlockRoot)
	require.Equal(t, first.Message.AggregatorIndex, second.Message.AggregatorIndex)
	require.NotEqual(t, first.Signature, second.Signature)

	assert.Equal(t, sync.ValidationValid, a.validator.Validate(ctx, first))
	assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, second))
	assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, first))
}

func TestValidateAggregate_Independence(t *testing.T) {
	a := setupAggregateTest(t, 15)
	a.attestationsReturn(sync.ValidationValid)
	ctx := context.Background()

	// Same slot, other committee.
	assert.Equal(t, sync.ValidationValid, a.validator.Validate(ctx, util.GenerateAggregateAndProof(t, a.st, a.keys, 4, 0, blockRoot)))
	assert.Equal(t, sync.ValidationValid, a.validator.Validate(ctx, util.GenerateAggregateAndProof(t, a.st, a.keys, 4, 1, blockRoot)))

	// Same aggregator, other slot. A validator sits in one committee per
	// epoch, so look in the next epoch.
	first := util.GenerateAggregateAndProof(t, a.st, a.keys, 5, 0, blockRoot)
	assert.Equal(t, sync.ValidationValid, a.validator.Validate(ctx, first))
	var next *ethpb.SignedAggregateAttestationAndProof
	for slot := primitives.Slot(8); slot <= 15 && next == nil; slot++ {
		for ci := primitives.CommitteeIndex(0); ci < 2; ci++ {
			committee, err := helpers.BeaconCommitteeFromState(ctx, a.st, slot, ci)
			require.NoError(t, err)
			for _, idx := range committee {
				if idx == first.Message.AggregatorIndex {
					next = aggregateBy(t, a, slot, ci, idx)
				}
			}
		}
	}
	require.NotNil(t, next, "Aggregator sits in no other committee of the epoch")
	assert.Equal(t, sync.ValidationValid, a.validator.Validate(ctx, next))
}

// aggregateBy builds an aggregate at (slot, ci) submitted and signed by idx,
// whether or not idx is an aggregator there.
func aggregateBy(t *testing.T, a *aggregateTest, slot primitives.Slot, ci primitives.CommitteeIndex, idx primitives.ValidatorIndex) *ethpb.SignedAggregateAttestationAndProof {
	att, _ := util.GenerateAttestation(t, a.st, a.keys, slot, ci, blockRoot)
	return util.SignAggregateAndProof(t, a.st, a.keys, &ethpb.AggregateAttestationAndProof{
		AggregatorIndex: idx,
		Aggregate:       att,
		SelectionProof:  util.SelectionProof(t, a.st, a.keys, idx, slot),
	})
}

func TestValidateAggregate_NotSelected(t *testing.T) {
	a := setupAggregateTest(t, 7)
	a.attestationsReturn(sync.ValidationValid)
	ctx := context.Background()

	// Committees of four with a target of two aggregators give a modulo of two.
	cfg := params.BeaconConfig().Copy()
	cfg.TargetAggregatorsPerCommittee = 2
	params.OverrideBeaconConfig(cfg)

	var signed *ethpb.SignedAggregateAttestationAndProof
	for slot := primitives.Slot(1); slot <= 7 && signed == nil; slot++ {
		committee, err := helpers.BeaconCommitteeFromState(ctx, a.st, slot, 0)
		require.NoError(t, err)
		for _, idx := range committee {
			proof := util.SelectionProof(t, a.st, a.keys, idx, slot)
			ok, err := helpers.IsAggregator(uint64(len(committee)), proof[:])
			require.NoError(t, err)
			if !ok {
				signed = aggregateBy(t, a, slot, 0, idx)
				break
			}
		}
	}
	require.NotNil(t, signed, "Every committee member is an aggregator")
	assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, signed))
}

func TestValidateAggregate_NotInCommittee(t *testing.T) {
	a := setupAggregateTest(t, 5)
	a.attestationsReturn(sync.ValidationValid)
	ctx := context.Background()

	committee, err := helpers.BeaconCommitteeFromState(ctx, a.st, 3, 0)
	require.NoError(t, err)
	outsider := primitives.ValidatorIndex(0)
	for isMember(committee, outsider) {
		outsider++
	}
	signed := aggregateBy(t, a, 3, 0, outsider)
	assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, signed))
}

func isMember(committee []primitives.ValidatorIndex, idx primitives.ValidatorIndex) bool {
	for _, i := range committee {
		if i == idx {
			return true
		}
	}
	return false
}

func TestValidateAggregate_TamperedSignature(t *testing.T) {
	a := setupAggregateTest(t, 5)
	a.attestationsReturn(sync.ValidationValid)
	ctx := context.Background()

	signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, blockRoot)
	other := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 1, blockRoot)
	tampered := signed.Copy()
	tampered.Signature = other.Signature
	assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, tampered))

	badProof := signed.Copy()
	badProof.Message.SelectionProof = other.Message.SelectionProof
	badProof = util.SignAggregateAndProof(t, a.st, a.keys, badProof.Message)
	assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, badProof))

	assert.Equal(t, sync.ValidationValid, a.validator.Validate(ctx, signed))
}

func TestValidateAggregate_AttestationVerdict(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid attestation", func(t *testing.T) {
		a := setupAggregateTest(t, 5)
		a.attestationsReturn(sync.ValidationInvalid)
		signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, blockRoot)
		assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, signed))
	})
	t.Run("deferred attestation is not recorded", func(t *testing.T) {
		a := setupAggregateTest(t, 5)
		signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, blockRoot)
		gomock.InOrder(
			a.attChecks.EXPECT().SingleOrAggregateAttestationChecks(gomock.Any(), gomock.Any()).Return(sync.ValidationSavedForFuture),
			a.attChecks.EXPECT().SingleOrAggregateAttestationChecks(gomock.Any(), gomock.Any()).Return(sync.ValidationValid),
		)
		assert.Equal(t, sync.ValidationSavedForFuture, a.validator.Validate(ctx, signed))
		assert.Equal(t, sync.ValidationValid, a.validator.Validate(ctx, signed))
	})
	t.Run("deferred attestation with bad aggregate", func(t *testing.T) {
		a := setupAggregateTest(t, 5)
		a.attestationsReturn(sync.ValidationSavedForFuture)
		signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, blockRoot)
		signed.Signature = util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 1, blockRoot).Signature
		assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, signed))
	})
}

func TestValidateAggregate_StateNotAvailable(t *testing.T) {
	a := setupAggregateTest(t, 5)
	a.attestationsReturn(sync.ValidationValid)
	ctx := context.Background()

	signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, [32]byte{'u'})
	assert.Equal(t, sync.ValidationSavedForFuture, a.validator.Validate(ctx, signed))

	// Once the block arrives the aggregate is accepted.
	a.chain.States[[32]byte{'u'}] = a.st
	assert.Equal(t, sync.ValidationValid, a.validator.Validate(ctx, signed))
}

func TestValidateAggregate_SlotFreshness(t *testing.T) {
	ctx := context.Background()
	window := primitives.Slot(params.BeaconNetworkConfig().AttestationPropagationSlotRange)

	t.Run("future slot", func(t *testing.T) {
		a := setupAggregateTest(t, 2)
		a.attestationsReturn(sync.ValidationValid)
		signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 4, 0, blockRoot)
		assert.Equal(t, sync.ValidationSavedForFuture, a.validator.Validate(ctx, signed))
	})
	t.Run("too old", func(t *testing.T) {
		a := setupAggregateTest(t, window+4)
		a.attestationsReturn(sync.ValidationValid)
		signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 2, 0, blockRoot)
		assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, signed))
	})
	t.Run("oldest slot in window", func(t *testing.T) {
		a := setupAggregateTest(t, window+2)
		a.attestationsReturn(sync.ValidationValid)
		signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 2, 0, blockRoot)
		assert.Equal(t, sync.ValidationValid, a.validator.Validate(ctx, signed))
	})
	t.Run("pre genesis", func(t *testing.T) {
		a := setupAggregateTest(t, 5)
		a.chain.PreGenesis = true
		signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, blockRoot)
		assert.Equal(t, sync.ValidationSavedForFuture, a.validator.Validate(ctx, signed))
	})
}

func TestValidateAggregate_Malformed(t *testing.T) {
	a := setupAggregateTest(t, 5)
	ctx := context.Background()

	assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, nil))
	assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, &ethpb.SignedAggregateAttestationAndProof{}))
	assert.Equal(t, sync.ValidationInvalid, a.validator.Validate(ctx, &ethpb.SignedAggregateAttestationAndProof{
		Message: &ethpb.AggregateAttestationAndProof{Aggregate: &ethpb.Attestation{}},
	}))
}

func TestValidateAggregate_ConcurrentDuplicates(t *testing.T) {
	a := setupAggregateTest(t, 5)
	a.attestationsReturn(sync.ValidationValid)
	signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, blockRoot)

	const racers = 8
	results := make([]sync.ValidationResult, racers)
	var g errgroup.Group
	for i := 0; i < racers; i++ {
		i := i
		g.Go(func() error {
			results[i] = a.validator.Validate(context.Background(), signed.Copy())
			return nil
		})
	}
	require.NoError(t, g.Wait())

	valid := 0
	for _, r := range results {
		if r == sync.ValidationValid {
			valid++
		} else {
			assert.Equal(t, sync.ValidationInvalid, r)
		}
	}
	assert.Equal(t, 1, valid)
}

func pubsubMessage(t *testing.T, signed *ethpb.SignedAggregateAttestationAndProof) *pubsub.Message {
	b, err := signed.MarshalSSZ()
	require.NoError(t, err)
	topic := "/eth2/beacon_aggregate_and_proof/ssz_snappy"
	return &pubsub.Message{Message: &pubsubpb.Message{Data: snappy.Encode(nil, b), Topic: &topic}}
}

func TestValidateAggregateAndProofPubsub(t *testing.T) {
	a := setupAggregateTest(t, 5)
	ctx := context.Background()
	signed := util.GenerateAggregateAndProof(t, a.st, a.keys, 3, 0, blockRoot)
	gomock.InOrder(
		a.attChecks.EXPECT().SingleOrAggregateAttestationChecks(gomock.Any(), gomock.Any()).Return(sync.ValidationSavedForFuture),
		a.attChecks.EXPECT().SingleOrAggregateAttestationChecks(gomock.Any(), gomock.Any()).Return(sync.ValidationValid).Times(2),
	)

	msg := pubsubMessage(t, signed)
	assert.Equal(t, pubsub.ValidationIgnore, a.validator.ValidateAggregateAndProofPubsub(ctx, "peer", msg))
	assert.Equal(t, true, msg.ValidatorData == nil)

	msg = pubsubMessage(t, signed)
	assert.Equal(t, pubsub.ValidationAccept, a.validator.ValidateAggregateAndProofPubsub(ctx, "peer", msg))
	decoded, ok := msg.ValidatorData.(*ethpb.SignedAggregateAttestationAndProof)
	require.Equal(t, true, ok)
	assert.DeepEqual(t, signed, decoded)

	assert.Equal(t, pubsub.ValidationReject, a.validator.ValidateAggregateAndProofPubsub(ctx, "peer", pubsubMessage(t, signed)))
}

func TestValidateAggregateAndProofPubsub_Undecodable(t *testing.T) {
	a := setupAggregateTest(t, 5)
	ctx := context.Background()

	garbage := &pubsub.Message{Message: &pubsubpb.Message{Data: []byte("not snappy")}}
	assert.Equal(t, pubsub.ValidationReject, a.validator.ValidateAggregateAndProofPubsub(ctx, "peer", garbage))
	notSSZ := &pubsub.Message{Message: &pubsubpb.Message{Data: snappy.Encode(nil, []byte{1, 2, 3})}}
	assert.Equal(t, pubsub.ValidationReject, a.validator.ValidateAggregateAndProofPubsub(ctx, "peer", notSSZ))
	wrongType := &pubsub.Message{ValidatorData: &ethpb.Attestation{}}
	assert.Equal(t, pubsub.ValidationReject, a.validator.ValidateAggregateAndProofPubsub(ctx, "peer", wrongType))
	assert.Equal(t, pubsub.ValidationReject, a.validator.ValidateAggregateAndProofPubsub(ctx, "peer", nil))
}
