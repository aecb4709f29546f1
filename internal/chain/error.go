package chain

import "errors"

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrBadDimensions     = errors.New("grid must be at least 1x1")
	ErrBadLayout         = errors.New("malformed layout")
	ErrUnsolvable        = errors.New("solution start does not clear the board")
)
