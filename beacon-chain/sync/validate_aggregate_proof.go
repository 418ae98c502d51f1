package sync

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/blockchain"
	"github.com/prysmaticlabs/chaindata/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/chaindata/beacon-chain/core/signing"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
	"github.com/prysmaticlabs/chaindata/time/slots"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// AggregateValidator admits aggregate and proof messages from gossip. Only
// the first valid aggregate of an aggregator for a slot is accepted.
type AggregateValidator struct {
	chain          blockchain.ChainInfoFetcher
	attValidator   AttestationValidator
	now            func() time.Time
	seenAggregates *cache.Cache
}

// Option configures an AggregateValidator.
type Option func(v *AggregateValidator)

// WithClock sets the wall clock used for slot freshness and for the expiry of
// dedup records.
func WithClock(now func() time.Time) Option {
	return func(v *AggregateValidator) {
		v.now = now
	}
}

// NewAggregateValidator returns a validator reading the chain through chain
// and delegating attestation checks to attValidator.
func NewAggregateValidator(chain blockchain.ChainInfoFetcher, attValidator AttestationValidator, opts ...Option) *AggregateValidator {
	cleanup := params.BeaconNetworkConfig().SeenAggregateCleanupInterval
	v := &AggregateValidator{
		chain:          chain,
		attValidator:   attValidator,
		now:            time.Now,
		seenAggregates: cache.New(cache.NoExpiration, cleanup),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Validate judges a signed aggregate and proof. The checks run in order and
// stop at the first failure:
//
//   - the aggregate's slot lies within the propagation window,
//   - the contained attestation passes the attestation validator,
//   - no valid aggregate was accepted yet for (slot, aggregator),
//   - the selection proof selects the submitter as an aggregator,
//   - the aggregator is a member of the attesting committee,
//   - the selection proof is the aggregator's signature over the slot,
//   - the outer signature is the aggregator's signature over the message.
//
// A deferred attestation makes the verdict ValidationSavedForFuture, provided
// the aggregate checks pass. The dedup record is written on ValidationValid only.
func (v *AggregateValidator) Validate(ctx context.Context, signed *ethpb.SignedAggregateAttestationAndProof) ValidationResult {
	ctx, span := trace.StartSpan(ctx, "sync.ValidateAggregateAndProof")
	defer span.End()

	res := v.validate(ctx, signed)
	aggregateValidationCount.WithLabelValues(res.String()).Inc()
	span.AddAttributes(trace.StringAttribute("result", res.String()))
	return res
}

func (v *AggregateValidator) validate(ctx context.Context, signed *ethpb.SignedAggregateAttestationAndProof) ValidationResult {
	if err := validateNilAggregate(signed); err != nil {
		return reject("malformed", err, nil)
	}
	m := signed.Message
	data := m.Aggregate.Data
	fields := logrus.Fields{
		"slot":            data.Slot,
		"committeeIndex":  data.CommitteeIndex,
		"aggregatorIndex": m.AggregatorIndex,
	}

	if v.chain.IsPreGenesis() {
		return ValidationSavedForFuture
	}
	genesis := uint64(v.chain.GenesisTime().Unix())
	disparity := params.BeaconNetworkConfig().MaximumGossipClockDisparity
	if err := helpers.ValidateAttestationTime(data.Slot, genesis, v.now(), disparity); err != nil {
		if errors.Is(err, helpers.ErrTooEarly) {
			return ValidationSavedForFuture
		}
		return reject("stale", err, fields)
	}

	deferred := false
	switch v.attValidator.SingleOrAggregateAttestationChecks(ctx, m.Aggregate) {
	case ValidationValid:
	case ValidationSavedForFuture:
		deferred = true
	default:
		return reject("attestation", errors.New("attestation failed validation"), fields)
	}

	key := seenAggregateKey(data.Slot, m.AggregatorIndex)
	if _, seen := v.seenAggregates.Get(key); seen {
		return reject("duplicate", errSeenAggregate, fields)
	}

	st, ok := v.chain.StateByBlockRoot(data.BeaconBlockRoot)
	if !ok {
		log.WithFields(fields).Debug("State of aggregate block not available")
		return ValidationSavedForFuture
	}
	if res := validateAggregatorInState(ctx, st, m); res != ValidationValid {
		return res
	}
	if err := validateAggregateSignature(st, signed); err != nil {
		return reject("signature", err, fields)
	}

	if deferred {
		return ValidationSavedForFuture
	}
	// Add fails when a concurrent validation of the same key won the race.
	if err := v.seenAggregates.Add(key, true, v.dedupTTL(genesis, data.Slot)); err != nil {
		return reject("duplicate", errSeenAggregate, fields)
	}
	seenAggregateCacheSize.Set(float64(v.seenAggregates.ItemCount()))
	return ValidationValid
}

// validateAggregatorInState checks the selection proof and committee
// membership of the aggregator against st.
func validateAggregatorInState(ctx context.Context, st state.ReadOnlyBeaconState, m *ethpb.AggregateAttestationAndProof) ValidationResult {
	data := m.Aggregate.Data
	fields := logrus.Fields{
		"slot":            data.Slot,
		"committeeIndex":  data.CommitteeIndex,
		"aggregatorIndex": m.AggregatorIndex,
	}
	committee, err := helpers.BeaconCommitteeFromState(ctx, st, data.Slot, data.CommitteeIndex)
	if err != nil {
		return reject("committee", err, fields)
	}
	selected, err := helpers.IsAggregator(uint64(len(committee)), m.SelectionProof[:])
	if err != nil {
		return reject("selection", err, fields)
	}
	if !selected {
		return reject("selection", errNotAggregator, fields)
	}
	if !containsIndex(committee, m.AggregatorIndex) {
		return reject("committee", errAggregatorNotInCom, fields)
	}
	if err := signing.VerifySlotSignature(st, m.AggregatorIndex, data.Slot, params.BeaconConfig().DomainSelectionProof, m.SelectionProof[:]); err != nil {
		return reject("selection", errors.Wrap(err, "invalid selection proof"), fields)
	}
	return ValidationValid
}

func validateAggregateSignature(st state.ReadOnlyBeaconState, signed *ethpb.SignedAggregateAttestationAndProof) error {
	m := signed.Message
	d, err := signing.Domain(st.Fork(), slots.ToEpoch(m.Aggregate.Data.Slot), params.BeaconConfig().DomainAggregateAndProof, st.GenesisValidatorsRoot())
	if err != nil {
		return err
	}
	pub := st.PubkeyAtIndex(m.AggregatorIndex)
	return signing.VerifySigningRoot(m, pub[:], signed.Signature[:], d)
}

func validateNilAggregate(signed *ethpb.SignedAggregateAttestationAndProof) error {
	if signed == nil || signed.Message == nil || signed.Message.Aggregate == nil {
		return errNilMessage
	}
	data := signed.Message.Aggregate.Data
	if data == nil || data.Source == nil || data.Target == nil {
		return errors.Wrap(errNilMessage, "nil attestation data")
	}
	return nil
}

// dedupTTL keeps a record until the wall clock end of the propagation window
// of slot, after which the aggregate is stale anyway.
func (v *AggregateValidator) dedupTTL(genesis uint64, slot primitives.Slot) time.Duration {
	last := slot.Add(params.BeaconNetworkConfig().AttestationPropagationSlotRange + 1)
	expiry := slots.StartTime(genesis, last).Add(params.BeaconNetworkConfig().MaximumGossipClockDisparity)
	ttl := expiry.Sub(v.now())
	if ttl <= 0 {
		ttl = time.Second
	}
	return ttl
}

func seenAggregateKey(slot primitives.Slot, aggregator primitives.ValidatorIndex) string {
	b := append(bytesutil.Bytes8(uint64(slot)), bytesutil.Bytes8(uint64(aggregator))...)
	return string(b)
}

func containsIndex(committee []primitives.ValidatorIndex, idx primitives.ValidatorIndex) bool {
	for _, i := range committee {
		if i == idx {
			return true
		}
	}
	return false
}

func reject(reason string, err error, fields logrus.Fields) ValidationResult {
	aggregateRejectedCount.WithLabelValues(reason).Inc()
	log.WithFields(fields).WithError(err).Debug("Rejected aggregate and proof")
	return ValidationInvalid
}
