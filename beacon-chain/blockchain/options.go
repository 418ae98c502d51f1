package blockchain

import (
	"time"

	statefeed "github.com/prysmaticlabs/chaindata/beacon-chain/core/feed/state"
	"github.com/prysmaticlabs/chaindata/beacon-chain/forkchoice"
)

type Option func(s *Service) error

// WithForkChoiceStore sets the fork choice store the head is derived from.
func WithForkChoiceStore(store *forkchoice.Store) Option {
	return func(s *Service) error {
		s.cfg.ForkChoiceStore = store
		return nil
	}
}

// WithStateNotifier sets the feed receiving genesis, finality and reorg events.
func WithStateNotifier(n statefeed.Notifier) Option {
	return func(s *Service) error {
		s.cfg.StateNotifier = n
		return nil
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		s.cfg.Now = now
		return nil
	}
}
