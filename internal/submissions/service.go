package submissions

import (
	"context"
	"math"
	"time"

	"compliance-backend/internal/shared/metrics"
	"compliance-backend/internal/shared/telemetry"
)

// Service contains business logic for submissions, assessments, and the
// review-progress aggregation.
type Service struct {
	Repo Repo
}

// Import parses an evaluation-results artifact and loads it in one
// all-or-nothing transaction.
func (s *Service) Import(ctx context.Context, artifact []byte) (Submission, error) {
	start := time.Now()

	sub, assessments, err := ParseEvaluationResults(artifact)
	if err != nil {
		metrics.IncImportFailed()
		return Submission{}, err
	}

	if err := s.Repo.ImportSubmission(ctx, sub, assessments); err != nil {
		metrics.IncImportFailed()
		return Submission{}, err
	}

	metrics.IncImport()
	metrics.ObserveImportDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	telemetry.Info("submission.imported", map[string]any{
		"submission_id": sub.ID,
		"site_id":       sub.SiteID,
		"total_items":   sub.TotalItems,
	})
	return sub, nil
}

// Get returns a submission by ID.
func (s *Service) Get(ctx context.Context, submissionID string) (Submission, error) {
	if submissionID == "" {
		return Submission{}, ErrInvalidInput
	}
	return s.Repo.GetSubmission(ctx, submissionID)
}

// List returns submissions newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Submission, error) {
	return s.Repo.ListSubmissions(ctx, limit, offset)
}

// Delete removes a submission and its assessments, enabling a corrected
// re-import.
func (s *Service) Delete(ctx context.Context, submissionID string) error {
	if submissionID == "" {
		return ErrInvalidInput
	}
	return s.Repo.DeleteSubmission(ctx, submissionID)
}

// ListAssessments returns a submission's assessments in source order.
func (s *Service) ListAssessments(ctx context.Context, submissionID string) ([]Assessment, error) {
	if _, err := s.Repo.GetSubmission(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.Repo.ListAssessments(ctx, submissionID)
}

// UpdateReviewStatus is the reviewer write path for one assessment.
func (s *Service) UpdateReviewStatus(ctx context.Context, assessmentID string, status ReviewStatus) error {
	if assessmentID == "" {
		return ErrInvalidInput
	}
	return s.Repo.UpdateAssessmentStatus(ctx, assessmentID, status)
}

// TierBreakdown holds the submission's immutable per-tier counts.
type TierBreakdown struct {
	Tier1 int `json:"tier1"`
	Tier2 int `json:"tier2"`
	Tier3 int `json:"tier3"`
}

// StatusBreakdown combines the pre-computed auto-pass count with live
// assessment review-status counts.
type StatusBreakdown struct {
	AutoPassed    int `json:"autoPassed"`
	PendingReview int `json:"pendingReview"`
	Reviewed      int `json:"reviewed"`
	Accepted      int `json:"accepted"`
	Overridden    int `json:"overridden"`
}

// Progress is the review-progress snapshot for one submission.
type Progress struct {
	SubmissionID          string          `json:"submissionId"`
	TotalItems            int             `json:"totalItems"`
	TierBreakdown         TierBreakdown   `json:"tierBreakdown"`
	StatusBreakdown       StatusBreakdown `json:"statusBreakdown"`
	ProgressPercent       int             `json:"progressPercent"`
	ItemsNeedingAttention int             `json:"itemsNeedingAttention"`
}

// Progress computes the live review-progress snapshot. It is a pure read of
// current store state: no side effects, safe to call at any time.
func (s *Service) Progress(ctx context.Context, submissionID string) (Progress, error) {
	sub, err := s.Repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return Progress{}, err
	}
	counts, err := s.Repo.AssessmentStatusCounts(ctx, submissionID)
	if err != nil {
		return Progress{}, err
	}

	// An assessment counts as worked once it leaves pending, whichever of
	// the three terminal reviewer states it landed in.
	handled := counts.Reviewed + counts.Accepted + counts.Overridden

	return Progress{
		SubmissionID: sub.ID,
		TotalItems:   sub.TotalItems,
		TierBreakdown: TierBreakdown{
			Tier1: sub.Tier1Count,
			Tier2: sub.Tier2Count,
			Tier3: sub.Tier3Count,
		},
		StatusBreakdown: StatusBreakdown{
			AutoPassed:    sub.PassCount,
			PendingReview: counts.Pending,
			Reviewed:      counts.Reviewed,
			Accepted:      counts.Accepted,
			Overridden:    counts.Overridden,
		},
		ProgressPercent:       percent(handled, sub.TotalItems),
		ItemsNeedingAttention: counts.PendingTier2 + counts.PendingTier3 + sub.FailCount,
	}, nil
}

// percent rounds n/total to a whole percentage, guarding the empty case.
func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
