package blockchain

import (
	"context"

	"github.com/prysmaticlabs/chaindata/beacon-chain/core/feed"
	statefeed "github.com/prysmaticlabs/chaindata/beacon-chain/core/feed/state"
	"github.com/prysmaticlabs/chaindata/beacon-chain/forkchoice"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/sirupsen/logrus"
)

var _ forkchoice.StoreUpdateHandler = (*Service)(nil)

// OnNewBlocks announces every block committed to the fork choice store.
func (s *Service) OnNewBlocks(_ context.Context, blocks []*forkchoice.BlockWithRoot) {
	for _, b := range blocks {
		s.cfg.StateNotifier.StateFeed().Send(&feed.Event{
			Type: statefeed.BlockProcessed,
			Data: &statefeed.BlockProcessedData{
				Slot:      b.Block.Slot,
				BlockRoot: b.Root,
				Block:     b.Block,
			},
		})
	}
}

// OnNewFinalizedCheckpoint announces a newly finalized checkpoint.
func (s *Service) OnNewFinalizedCheckpoint(_ context.Context, cp *ethpb.Checkpoint) {
	log.WithFields(logrus.Fields{
		"epoch": cp.Epoch,
	}).Debug("Finalized checkpoint advanced")
	s.cfg.StateNotifier.StateFeed().Send(&feed.Event{
		Type: statefeed.FinalizedCheckpoint,
		Data: &statefeed.FinalizedCheckpointData{Checkpoint: cp},
	})
}
