package validation

import "errors"

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrInvalidInput       = errors.New("invalid input")
)
