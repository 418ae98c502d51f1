package sync

import "github.com/pkg/errors"

var (
	errNilMessage         = errors.New("nil aggregate and proof message")
	errSeenAggregate      = errors.New("aggregate already seen for this slot and aggregator")
	errNotAggregator      = errors.New("selection proof does not select an aggregator")
	errAggregatorNotInCom = errors.New("aggregator index is not in the committee")
	errWrongMessage       = errors.New("wrong pubsub message type")
)
