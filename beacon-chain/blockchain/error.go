package blockchain

import "github.com/pkg/errors"

var (
	// errNilBlock is returned when a nil block is received.
	errNilBlock = errors.New("nil block")
	// errNilState is returned when a block arrives without its post state.
	errNilState = errors.New("nil post state")
	// errStateSlotMismatch is returned when a post state does not belong to its block.
	errStateSlotMismatch = errors.New("post state slot does not match block slot")
)
