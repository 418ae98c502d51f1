package sync

import (
	"context"

	"github.com/golang/snappy"
	"github.com/libp2p/go-libp2p-core/peer"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/pkg/errors"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"go.opencensus.io/trace"
)

// ValidateAggregateAndProofPubsub is a pubsub.ValidatorEx for the aggregate
// and proof topic. Payloads are snappy compressed SSZ unless a previous
// validator already decoded the message. Deferred messages are ignored rather
// than rejected so that the sender is not penalized.
func (v *AggregateValidator) ValidateAggregateAndProofPubsub(ctx context.Context, pid peer.ID, msg *pubsub.Message) pubsub.ValidationResult {
	ctx, span := trace.StartSpan(ctx, "sync.ValidateAggregateAndProofPubsub")
	defer span.End()

	m, err := decodeAggregateAndProof(msg)
	if err != nil {
		log.WithError(err).WithField("peer", pid.String()).Debug("Could not decode aggregate and proof")
		aggregateRejectedCount.WithLabelValues("decode").Inc()
		return pubsub.ValidationReject
	}
	switch v.Validate(ctx, m) {
	case ValidationValid:
		msg.ValidatorData = m
		return pubsub.ValidationAccept
	case ValidationSavedForFuture:
		return pubsub.ValidationIgnore
	default:
		return pubsub.ValidationReject
	}
}

func decodeAggregateAndProof(msg *pubsub.Message) (*ethpb.SignedAggregateAttestationAndProof, error) {
	if msg == nil {
		return nil, errNilMessage
	}
	if msg.ValidatorData != nil {
		m, ok := msg.ValidatorData.(*ethpb.SignedAggregateAttestationAndProof)
		if !ok {
			return nil, errWrongMessage
		}
		return m, nil
	}
	if msg.Message == nil {
		return nil, errNilMessage
	}
	b, err := snappy.Decode(nil, msg.Data)
	if err != nil {
		return nil, errors.Wrap(err, "could not decompress message")
	}
	m := &ethpb.SignedAggregateAttestationAndProof{}
	if err := m.UnmarshalSSZ(b); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal message")
	}
	return m, nil
}
