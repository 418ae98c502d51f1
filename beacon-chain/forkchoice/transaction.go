package forkchoice

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/beacon-chain/db/iface"
	"github.com/prysmaticlabs/chaindata/beacon-chain/state"
	"github.com/prysmaticlabs/chaindata/config/params"
	ethpb "github.com/prysmaticlabs/chaindata/consensus-types/eth"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

type attestation struct {
	indices     []uint64
	root        [32]byte
	targetEpoch primitives.Epoch
}

// Transaction buffers writes to the store. Its reads see the snapshot it was
// started from overlaid with its own writes. Nothing becomes visible to other
// readers before Commit. A transaction is not safe for concurrent use.
type Transaction struct {
	store *Store
	base  *snapshot

	blocks        map[[32]byte]*ethpb.BeaconBlock
	states        map[[32]byte]state.ReadOnlyBeaconState
	order         [][32]byte
	deleted       map[[32]byte]bool
	justified     *ethpb.Checkpoint
	bestJustified *ethpb.Checkpoint
	finalized     *ethpb.Checkpoint
	votes         map[primitives.ValidatorIndex]*ethpb.VoteTracker
	attestations  []attestation
	genesisTime   uint64
	time          uint64

	err    error
	closed bool
}

func (s *Store) newTransaction(base *snapshot) *Transaction {
	return &Transaction{
		store:   s,
		base:    base,
		blocks:  make(map[[32]byte]*ethpb.BeaconBlock),
		states:  make(map[[32]byte]state.ReadOnlyBeaconState),
		deleted: make(map[[32]byte]bool),
		votes:   make(map[primitives.ValidatorIndex]*ethpb.VoteTracker),
	}
}

// PutBlock adds a block together with its post state. The block root is its
// hash tree root. Errors are reported by Commit.
func (tx *Transaction) PutBlock(blk *ethpb.BeaconBlock, st state.ReadOnlyBeaconState) {
	if tx.err != nil {
		return
	}
	if blk == nil || st == nil {
		tx.err = errNilBlock
		return
	}
	root, err := blk.HashTreeRoot()
	if err != nil {
		tx.err = errors.Wrap(err, "could not compute block root")
		return
	}
	tx.putBlock(root, blk.Copy(), st)
}

func (tx *Transaction) putBlock(root [32]byte, blk *ethpb.BeaconBlock, st state.ReadOnlyBeaconState) {
	if _, ok := tx.blocks[root]; !ok {
		tx.order = append(tx.order, root)
	}
	tx.blocks[root] = blk
	tx.states[root] = st
	delete(tx.deleted, root)
}

func (tx *Transaction) deleteBlock(root [32]byte) {
	tx.deleted[root] = true
}

// SetJustifiedCheckpoint buffers a new justified checkpoint.
func (tx *Transaction) SetJustifiedCheckpoint(cp *ethpb.Checkpoint) {
	tx.justified = cp.Copy()
}

// SetBestJustifiedCheckpoint buffers a new best justified checkpoint.
func (tx *Transaction) SetBestJustifiedCheckpoint(cp *ethpb.Checkpoint) {
	tx.bestJustified = cp.Copy()
}

// SetFinalizedCheckpoint buffers a new finalized checkpoint.
func (tx *Transaction) SetFinalizedCheckpoint(cp *ethpb.Checkpoint) {
	tx.finalized = cp.Copy()
}

// SetTime buffers the store time in unix seconds. The store time never
// moves backwards; an older value is ignored on commit.
func (tx *Transaction) SetTime(t uint64) {
	tx.time = t
}

// ProcessAttestation records the latest messages of the validators. A vote
// moves to root when the validator has not voted yet or when targetEpoch is
// newer than the epoch of its pending vote. The votes are replayed on top of
// the store at commit, so concurrent transactions never lose each other's
// attestations.
func (tx *Transaction) ProcessAttestation(validatorIndices []uint64, root [32]byte, targetEpoch primitives.Epoch) {
	indices := make([]uint64, len(validatorIndices))
	copy(indices, validatorIndices)
	tx.attestations = append(tx.attestations, attestation{indices: indices, root: root, targetEpoch: targetEpoch})
}

func applyAttestation(v *ethpb.VoteTracker, root [32]byte, targetEpoch primitives.Epoch) bool {
	zero := params.BeaconConfig().ZeroHash
	// Newly allocated vote if the root fields are untouched.
	newVote := v.NextRoot == zero && v.CurrentRoot == zero
	// Vote gets updated if it's newly allocated or high target epoch.
	if newVote || targetEpoch > v.NextEpoch {
		v.NextEpoch = targetEpoch
		v.NextRoot = root
		return true
	}
	return false
}

// setVote overwrites a vote. Only used by head computation and pruning, which
// run under the commit lock.
func (tx *Transaction) setVote(idx primitives.ValidatorIndex, v *ethpb.VoteTracker) {
	cp := *v
	tx.votes[idx] = &cp
}

// Block reads a block through the transaction.
func (tx *Transaction) Block(root [32]byte) (*ethpb.BeaconBlock, bool) {
	if tx.deleted[root] {
		return nil, false
	}
	if blk, ok := tx.blocks[root]; ok {
		return blk.Copy(), true
	}
	blk, ok := tx.base.blocks[root]
	if !ok {
		return nil, false
	}
	return blk.Copy(), true
}

// BlockState reads a post state through the transaction.
func (tx *Transaction) BlockState(root [32]byte) (state.ReadOnlyBeaconState, bool) {
	if tx.deleted[root] {
		return nil, false
	}
	if st, ok := tx.states[root]; ok {
		return st, true
	}
	st, ok := tx.base.states[root]
	return st, ok
}

// JustifiedCheckpoint reads the justified checkpoint through the transaction.
func (tx *Transaction) JustifiedCheckpoint() *ethpb.Checkpoint {
	if tx.justified != nil {
		return tx.justified.Copy()
	}
	return tx.base.justified.Copy()
}

// BestJustifiedCheckpoint reads the best justified checkpoint through the transaction.
func (tx *Transaction) BestJustifiedCheckpoint() *ethpb.Checkpoint {
	if tx.bestJustified != nil {
		return tx.bestJustified.Copy()
	}
	return tx.base.bestJustified.Copy()
}

// FinalizedCheckpoint reads the finalized checkpoint through the transaction.
func (tx *Transaction) FinalizedCheckpoint() *ethpb.Checkpoint {
	if tx.finalized != nil {
		return tx.finalized.Copy()
	}
	return tx.base.finalized.Copy()
}

// Vote reads the vote of a validator through the transaction.
func (tx *Transaction) Vote(idx primitives.ValidatorIndex) (ethpb.VoteTracker, bool) {
	var v ethpb.VoteTracker
	found := false
	if w, ok := tx.votes[idx]; ok {
		v, found = *w, true
	} else if b, ok := tx.base.votes[idx]; ok {
		v, found = *b, true
	}
	for _, a := range tx.attestations {
		for _, i := range a.indices {
			if primitives.ValidatorIndex(i) == idx {
				applyAttestation(&v, a.root, a.targetEpoch)
				found = true
			}
		}
	}
	return v, found
}

// Rollback discards the transaction.
func (tx *Transaction) Rollback() {
	tx.closed = true
}

// Commit validates the buffered writes against the latest committed snapshot,
// persists them in a single database transaction and publishes the result.
// Commits are serialized. On error nothing is persisted or published. The
// transaction is closed afterwards either way.
func (tx *Transaction) Commit(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "forkchoice.Commit")
	defer span.End()

	if !tx.store.IsInitialized() {
		tx.closed = true
		return ErrNotReady
	}
	tx.store.commitLock.Lock()
	n, err := tx.commitLocked(ctx, false)
	tx.store.commitLock.Unlock()
	if err != nil {
		return err
	}
	tx.store.notify(ctx, n)
	return nil
}

// commitLocked must be called with the commit lock held. It returns what the
// update handlers have to be told once the lock is released.
func (tx *Transaction) commitLocked(ctx context.Context, genesis bool) (*notification, error) {
	if tx.closed {
		return nil, ErrTransactionClosed
	}
	tx.closed = true
	if tx.err != nil {
		failedCommitCount.Inc()
		return nil, tx.err
	}

	cur := tx.store.snap.Load()
	next, update, err := tx.merge(cur, genesis)
	if err != nil {
		failedCommitCount.Inc()
		log.WithError(err).Debug("Rejected fork choice store transaction")
		return nil, err
	}
	if err := tx.store.db.SaveForkChoiceUpdate(ctx, update); err != nil {
		failedCommitCount.Inc()
		return nil, errors.Wrap(err, "could not persist fork choice update")
	}
	tx.store.publish(next)
	commitCount.Inc()

	n := &notification{}
	for _, root := range tx.order {
		n.blocks = append(n.blocks, &BlockWithRoot{Root: root, Block: tx.blocks[root].Copy()})
	}
	sort.SliceStable(n.blocks, func(i, j int) bool {
		return n.blocks[i].Block.Slot < n.blocks[j].Block.Slot
	})
	if cur.finalized == nil || next.finalized.Epoch > cur.finalized.Epoch {
		n.finalized = next.finalized.Copy()
		log.WithFields(logrus.Fields{
			"epoch": next.finalized.Epoch,
			"root":  next.finalized.Root,
		}).Debug("Finalized checkpoint advanced")
	}
	return n, nil
}

// merge overlays the transaction on cur, checks the store invariants on the
// result and returns the new snapshot with the database update producing it.
func (tx *Transaction) merge(cur *snapshot, genesis bool) (*snapshot, *iface.ForkChoiceUpdate, error) {
	next := &snapshot{
		blocks:        make(map[[32]byte]*ethpb.BeaconBlock, len(cur.blocks)+len(tx.blocks)),
		states:        make(map[[32]byte]state.ReadOnlyBeaconState, len(cur.states)+len(tx.states)),
		votes:         make(map[primitives.ValidatorIndex]*ethpb.VoteTracker, len(cur.votes)),
		justified:     cur.justified,
		bestJustified: cur.bestJustified,
		finalized:     cur.finalized,
		genesisTime:   cur.genesisTime,
		time:          cur.time,
	}
	update := &iface.ForkChoiceUpdate{
		Blocks: make(map[[32]byte]*ethpb.BeaconBlock, len(tx.blocks)),
		States: make(map[[32]byte]state.ReadOnlyBeaconState, len(tx.states)),
		Votes:  make(map[primitives.ValidatorIndex]*ethpb.VoteTracker),
	}

	for root, blk := range cur.blocks {
		if tx.deleted[root] {
			continue
		}
		next.blocks[root] = blk
		next.states[root] = cur.states[root]
	}
	for root := range tx.deleted {
		if _, ok := cur.blocks[root]; ok {
			update.DeletedBlocks = append(update.DeletedBlocks, root)
		}
	}
	for root, blk := range tx.blocks {
		next.blocks[root] = blk
		next.states[root] = tx.states[root]
		update.Blocks[root] = blk
		update.States[root] = tx.states[root]
	}
	for root, blk := range tx.blocks {
		if genesis && blk.Slot == params.BeaconConfig().GenesisSlot {
			continue
		}
		if _, ok := next.blocks[blk.ParentRoot]; !ok {
			return nil, nil, errors.Wrapf(ErrUnknownParent, "block %#x at slot %d", root, blk.Slot)
		}
	}

	if tx.justified != nil {
		next.justified = tx.justified
		update.JustifiedCheckpoint = tx.justified
	}
	if tx.bestJustified != nil {
		next.bestJustified = tx.bestJustified
		update.BestJustifiedCheckpoint = tx.bestJustified
	}
	if tx.finalized != nil {
		if cur.finalized != nil && tx.finalized.Epoch < cur.finalized.Epoch {
			return nil, nil, errors.Wrapf(ErrFinalizedRegression, "current epoch %d, new epoch %d", cur.finalized.Epoch, tx.finalized.Epoch)
		}
		next.finalized = tx.finalized
		update.FinalizedCheckpoint = tx.finalized
	}
	for name, cp := range map[string]*ethpb.Checkpoint{
		"justified":      next.justified,
		"best justified": next.bestJustified,
		"finalized":      next.finalized,
	} {
		if cp == nil {
			return nil, nil, errors.Wrapf(ErrUnknownCheckpointRoot, "missing %s checkpoint", name)
		}
		if _, ok := next.blocks[cp.Root]; !ok {
			return nil, nil, errors.Wrapf(ErrUnknownCheckpointRoot, "%s checkpoint root %#x", name, cp.Root)
		}
	}
	if next.bestJustified.Epoch < next.justified.Epoch {
		return nil, nil, errors.Wrapf(ErrBestJustifiedBehindJustified, "best justified epoch %d, justified epoch %d", next.bestJustified.Epoch, next.justified.Epoch)
	}

	for idx, v := range cur.votes {
		next.votes[idx] = v
	}
	for idx, v := range tx.votes {
		next.votes[idx] = v
		update.Votes[idx] = v
	}
	for _, a := range tx.attestations {
		for _, i := range a.indices {
			idx := primitives.ValidatorIndex(i)
			v := &ethpb.VoteTracker{}
			if old, ok := next.votes[idx]; ok {
				*v = *old
			}
			if applyAttestation(v, a.root, a.targetEpoch) {
				next.votes[idx] = v
				update.Votes[idx] = v
			}
		}
	}
	zero := params.BeaconConfig().ZeroHash
	for idx, v := range update.Votes {
		for _, r := range [][32]byte{v.CurrentRoot, v.NextRoot} {
			if r == zero {
				continue
			}
			if _, ok := next.blocks[r]; !ok {
				return nil, nil, errors.Wrapf(ErrUnknownVoteRoot, "validator %d, root %#x", idx, r)
			}
		}
	}

	if tx.genesisTime != 0 {
		next.genesisTime = tx.genesisTime
		update.GenesisTime = tx.genesisTime
	}
	if tx.time > next.time {
		next.time = tx.time
		update.StoreTime = tx.time
	}
	return next, update, nil
}
