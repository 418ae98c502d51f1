package forkchoice

import (
	"bytes"
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/chaindata/config/params"
	"go.opencensus.io/trace"
)

// Head returns the head block root by running LMD-GHOST from the justified
// root. Pending votes are rolled forward first, so every validator's latest
// message counts as its current vote. A vote weighs the validator's entry in
// balances; validators beyond the end of balances carry no weight. Among
// siblings the heavier subtree wins and ties go to the lexicographically
// greater root.
func (s *Store) Head(ctx context.Context, balances []uint64) ([32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "forkchoice.Head")
	defer span.End()
	calledHeadCount.Inc()

	if !s.IsInitialized() {
		return [32]byte{}, ErrNotReady
	}

	s.commitLock.Lock()
	snap := s.snap.Load()
	tx := s.newTransaction(snap)
	for idx, v := range snap.votes {
		if v.CurrentRoot == v.NextRoot {
			continue
		}
		rolled := *v
		rolled.CurrentRoot = v.NextRoot
		tx.setVote(idx, &rolled)
	}
	if len(tx.votes) > 0 {
		if _, err := tx.commitLocked(ctx, false); err != nil {
			s.commitLock.Unlock()
			return [32]byte{}, errors.Wrap(err, "could not update votes")
		}
		snap = s.snap.Load()
	}
	s.commitLock.Unlock()

	return snap.head(balances)
}

func (s *snapshot) head(balances []uint64) ([32]byte, error) {
	if s.justified == nil {
		return [32]byte{}, ErrNotReady
	}
	if _, ok := s.blocks[s.justified.Root]; !ok {
		return [32]byte{}, errors.Wrapf(ErrUnknownCheckpointRoot, "justified root %#x", s.justified.Root)
	}

	zero := params.BeaconConfig().ZeroHash
	weights := make(map[[32]byte]uint64, len(s.blocks))
	for idx, v := range s.votes {
		if v.CurrentRoot == zero || uint64(idx) >= uint64(len(balances)) {
			continue
		}
		if _, ok := s.blocks[v.CurrentRoot]; !ok {
			continue
		}
		weights[v.CurrentRoot] += balances[idx]
	}

	// Children before parents, so every subtree total is final before it is
	// added to its parent.
	roots := make([][32]byte, 0, len(s.blocks))
	for root := range s.blocks {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return s.blocks[roots[i]].Slot > s.blocks[roots[j]].Slot
	})
	for _, root := range roots {
		parent := s.blocks[root].ParentRoot
		if _, ok := s.blocks[parent]; ok && parent != root {
			weights[parent] += weights[root]
		}
	}

	children := s.children()
	head := s.justified.Root
	for {
		kids := children[head]
		if len(kids) == 0 {
			return head, nil
		}
		best := kids[0]
		for _, c := range kids[1:] {
			if weights[c] > weights[best] || (weights[c] == weights[best] && bytes.Compare(c[:], best[:]) > 0) {
				best = c
			}
		}
		head = best
	}
}
