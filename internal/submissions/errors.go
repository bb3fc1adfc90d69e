package submissions

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrParse              = errors.New("malformed evaluation artifact")
	ErrDuplicate          = errors.New("submission already imported")
	ErrInvalidInput       = errors.New("invalid input")
)
