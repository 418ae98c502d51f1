package forkchoice

import "github.com/pkg/errors"

var (
	// ErrStoreAlreadyInitialized is returned by a second genesis initialization.
	ErrStoreAlreadyInitialized = errors.New("fork choice store already initialized")
	// ErrNotReady is returned by operations that need an initialized store.
	ErrNotReady = errors.New("fork choice store not initialized")
	// ErrFinalizedRegression is returned when a commit would lower the finalized epoch.
	ErrFinalizedRegression = errors.New("finalized checkpoint epoch would decrease")
	// ErrUnknownCheckpointRoot is returned when a checkpoint root is not a stored block.
	ErrUnknownCheckpointRoot = errors.New("checkpoint root is not a known block")
	// ErrBestJustifiedBehindJustified is returned when the best justified
	// checkpoint would be older than the justified checkpoint.
	ErrBestJustifiedBehindJustified = errors.New("best justified epoch below justified epoch")
	// ErrUnknownVoteRoot is returned when a vote references an unknown block.
	ErrUnknownVoteRoot = errors.New("vote root is not a known block")
	// ErrTransactionClosed is returned when a committed or rolled back transaction is reused.
	ErrTransactionClosed = errors.New("transaction already closed")
	// ErrUnknownParent is returned when a block's parent is not a stored block.
	ErrUnknownParent = errors.New("parent block is not known")
	// ErrNoStoredChain is returned by Restore when the database holds no chain.
	ErrNoStoredChain = errors.New("database holds no fork choice store")

	errNilBlock = errors.New("nil block or state")
)
