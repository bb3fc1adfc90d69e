package extraction

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrNoWork      = errors.New("no unprocessed files to extract")
	ErrInvalidMode = errors.New("invalid extraction mode")
)
