package projects

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidInput = errors.New("invalid input")
)
