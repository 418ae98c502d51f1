// Package blockchain tracks the canonical head selected by fork choice. It
// answers slot indexed queries against the head state and announces genesis,
// finality and reorgs on the state feed.
package blockchain

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	statefeed "github.com/prysmaticlabs/chaindata/beacon-chain/core/feed/state"
	"github.com/prysmaticlabs/chaindata/beacon-chain/forkchoice"
)

// Service represents a service that keeps the chain head current and
// answers questions about the canonical chain.
type Service struct {
	cfg    *config
	ctx    context.Context
	cancel context.CancelFunc

	head     atomic.Pointer[head]
	headLock sync.Mutex // serializes head selection with its publication

	storeInitialized         chan struct{}
	storeInitializedOnce     sync.Once
	bestBlockInitialized     chan struct{}
	bestBlockInitializedOnce sync.Once
}

// config options for the service.
type config struct {
	ForkChoiceStore *forkchoice.Store
	StateNotifier   statefeed.Notifier
	Now             func() time.Time
}

// NewService instantiates a new head tracker. The fork choice store and state
// notifier are required.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	srv := &Service{
		cfg:                  &config{Now: time.Now},
		ctx:                  ctx,
		cancel:               cancel,
		storeInitialized:     make(chan struct{}),
		bestBlockInitialized: make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(srv); err != nil {
			cancel()
			return nil, err
		}
	}
	if srv.cfg.ForkChoiceStore == nil {
		cancel()
		return nil, errors.New("no fork choice store provided")
	}
	if srv.cfg.StateNotifier == nil {
		cancel()
		return nil, errors.New("no state notifier provided")
	}
	srv.cfg.ForkChoiceStore.RegisterUpdateHandler(srv)
	if srv.cfg.ForkChoiceStore.IsInitialized() {
		srv.markStoreInitialized()
	}
	return srv, nil
}

// Start restores the chain from the database when the store was not
// initialized yet. Without a stored chain the service waits for genesis.
func (s *Service) Start() {
	store := s.cfg.ForkChoiceStore
	if store.IsInitialized() {
		return
	}
	err := store.Restore(s.ctx)
	switch {
	case errors.Is(err, forkchoice.ErrNoStoredChain):
		log.Info("No chain in database, waiting for genesis")
		return
	case errors.Is(err, forkchoice.ErrStoreAlreadyInitialized):
		// Genesis won the race.
		return
	case err != nil:
		log.WithError(err).Error("Could not restore chain from database")
		return
	}
	s.markStoreInitialized()
	if err := s.updateHead(s.ctx); err != nil {
		log.WithError(err).Error("Could not compute head of restored chain")
		return
	}
	log.WithField("slot", s.BestSlot()).Info("Restored chain from database")
}

// Stop the service.
func (s *Service) Stop() error {
	defer s.cancel()
	log.Info("Stopping blockchain service")
	return nil
}

// Status returns nil once the best block is known.
func (s *Service) Status() error {
	if s.head.Load() == nil {
		return errors.New("best block not yet known")
	}
	return nil
}

// StoreInitialized is closed once the fork choice store holds a chain.
func (s *Service) StoreInitialized() <-chan struct{} {
	return s.storeInitialized
}

// BestBlockInitialized is closed once the first best block is set.
func (s *Service) BestBlockInitialized() <-chan struct{} {
	return s.bestBlockInitialized
}

// SubscribeStoreInitialized runs f once the store is initialized. When it
// already is, f runs before SubscribeStoreInitialized returns.
func (s *Service) SubscribeStoreInitialized(f func()) {
	subscribe(s.ctx, s.storeInitialized, f)
}

// SubscribeBestBlockInitialized runs f once the best block is set. When it
// already is, f runs before SubscribeBestBlockInitialized returns.
func (s *Service) SubscribeBestBlockInitialized(f func()) {
	subscribe(s.ctx, s.bestBlockInitialized, f)
}

func subscribe(ctx context.Context, signal <-chan struct{}, f func()) {
	select {
	case <-signal:
		f()
		return
	default:
	}
	go func() {
		select {
		case <-signal:
			f()
		case <-ctx.Done():
		}
	}()
}

func (s *Service) markStoreInitialized() {
	s.storeInitializedOnce.Do(func() {
		close(s.storeInitialized)
	})
}

func (s *Service) markBestBlockInitialized() {
	s.bestBlockInitializedOnce.Do(func() {
		close(s.bestBlockInitialized)
	})
}
