package validation

import "context"

// Repo defines persistence operations for baseline validations.
type Repo interface {
	// Upsert saves a validation keyed by assessment; a second save for the
	// same assessment replaces the first's classification.
	Upsert(ctx context.Context, v BaselineValidation) error
	// CountsBySubmission tallies classifications per tier for every
	// validation attached to the submission's assessments.
	CountsBySubmission(ctx context.Context, submissionID string) (map[string]Counts, error)
}

// AssessmentRecord is the slice of an assessment the stats engine needs.
type AssessmentRecord struct {
	ID           string
	SubmissionID string
	Tier         string
}

// AssessmentSource resolves assessments owned by another package.
type AssessmentSource interface {
	GetAssessment(ctx context.Context, assessmentID string) (AssessmentRecord, error)
}

// SubmissionRecord is the slice of a submission the stats engine needs.
type SubmissionRecord struct {
	ID         string
	TotalItems int
}

// SubmissionSource resolves submissions owned by another package.
type SubmissionSource interface {
	GetSubmission(ctx context.Context, submissionID string) (SubmissionRecord, error)
}
