package kv

// The schema will define how to store and retrieve data from the db.
// Blocks and states are keyed by block root, votes by the big endian
// validator index so that cursors walk them in index order.
var (
	blocksBucket        = []byte("blocks")
	stateBucket         = []byte("state")
	checkpointBucket    = []byte("check-point")
	votesBucket         = []byte("votes")
	chainMetadataBucket = []byte("chain-metadata")

	// Checkpoint keys.
	justifiedCheckpointKey     = []byte("justified-checkpoint")
	bestJustifiedCheckpointKey = []byte("best-justified-checkpoint")
	finalizedCheckpointKey     = []byte("finalized-checkpoint")

	// Chain metadata keys.
	genesisTimeKey = []byte("genesis-time")
	storeTimeKey   = []byte("store-time")
)
