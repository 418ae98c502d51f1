package blockchain

import (
	"fmt"

	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/prysmaticlabs/chaindata/encoding/bytesutil"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "blockchain")

func logReorg(oldRoot [32]byte, oldSlot primitives.Slot, newRoot [32]byte, newSlot primitives.Slot) {
	log.WithFields(logrus.Fields{
		"oldRoot": fmt.Sprintf("%#x", bytesutil.Trunc(oldRoot[:])),
		"oldSlot": oldSlot,
		"newRoot": fmt.Sprintf("%#x", bytesutil.Trunc(newRoot[:])),
		"newSlot": newSlot,
	}).Info("Chain reorg occurred")
}

// logs block import related data.
func logBlockProcessed(root [32]byte, slot primitives.Slot, headRoot [32]byte, headSlot primitives.Slot) {
	log.WithFields(logrus.Fields{
		"slot":     slot,
		"root":     fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
		"headSlot": headSlot,
		"headRoot": fmt.Sprintf("%#x", bytesutil.Trunc(headRoot[:])),
	}).Debug("Finished applying block to fork choice store")
}
