package board

import "errors"

var (
	ErrInvalidInterval = errors.New("board: tick interval must be positive")
	ErrNilSource       = errors.New("board: account source is nil")
)
