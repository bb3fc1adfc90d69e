package submissions

import "context"

// Repo defines persistence operations for submissions and assessments.
type Repo interface {
	// ImportSubmission inserts the submission and its assessments in one
	// all-or-nothing transaction. ErrDuplicate when the id already exists.
	ImportSubmission(ctx context.Context, sub Submission, assessments []Assessment) error
	GetSubmission(ctx context.Context, submissionID string) (Submission, error)
	ListSubmissions(ctx context.Context, limit, offset int) ([]Submission, error)
	DeleteSubmission(ctx context.Context, submissionID string) error

	GetAssessment(ctx context.Context, assessmentID string) (Assessment, error)
	ListAssessments(ctx context.Context, submissionID string) ([]Assessment, error)
	UpdateAssessmentStatus(ctx context.Context, assessmentID string, status ReviewStatus) error
	AssessmentStatusCounts(ctx context.Context, submissionID string) (StatusCounts, error)
}
