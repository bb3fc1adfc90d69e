package submissions

import (
	"context"
	"database/sql"
	"errors"
)

// SQLRepo implements Repo on a database/sql handle.
type SQLRepo struct {
	DB *sql.DB
}

// ImportSubmission inserts the submission row and every assessment row in a
// single transaction. A progress read racing the import sees either the full
// assessment set or nothing.
func (r *SQLRepo) ImportSubmission(ctx context.Context, sub Submission, assessments []Assessment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT id FROM submissions WHERE id = $1 LIMIT 1`, sub.ID).Scan(&existing)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	const insertSubmission = `
INSERT INTO submissions (
    id, site_id, submission_type, total_items,
    tier1_count, tier2_count, tier3_count,
    pass_count, partial_count, fail_count, requires_judgment_count,
    coverage_percent, overall_recommendation, requires_human_review,
    evaluation_completed, imported_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	if _, err := tx.ExecContext(ctx, insertSubmission,
		sub.ID,
		sub.SiteID,
		sub.SubmissionType,
		sub.TotalItems,
		sub.Tier1Count,
		sub.Tier2Count,
		sub.Tier3Count,
		sub.PassCount,
		sub.PartialCount,
		sub.FailCount,
		sub.RequiresJudgmentCount,
		sub.CoveragePercent,
		sub.OverallRecommendation,
		sub.RequiresHumanReview,
		sub.EvaluationCompleted,
		sub.ImportedAt,
	); err != nil {
		return err
	}

	const insertAssessment = `
INSERT INTO assessments (
    id, submission_id, position, requirement, tier, outcome, review_status
) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, a := range assessments {
		if _, err := tx.ExecContext(ctx, insertAssessment,
			a.ID,
			a.SubmissionID,
			a.Position,
			a.Requirement,
			string(a.Tier),
			string(a.Outcome),
			string(a.ReviewStatus),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetSubmission returns a submission by ID.
func (r *SQLRepo) GetSubmission(ctx context.Context, submissionID string) (Submission, error) {
	const query = `
SELECT id, site_id, submission_type, total_items,
       tier1_count, tier2_count, tier3_count,
       pass_count, partial_count, fail_count, requires_judgment_count,
       coverage_percent, overall_recommendation, requires_human_review,
       evaluation_completed, imported_at
FROM submissions
WHERE id = $1
LIMIT 1`
	var s Submission
	err := r.DB.QueryRowContext(ctx, query, submissionID).Scan(
		&s.ID,
		&s.SiteID,
		&s.SubmissionType,
		&s.TotalItems,
		&s.Tier1Count,
		&s.Tier2Count,
		&s.Tier3Count,
		&s.PassCount,
		&s.PartialCount,
		&s.FailCount,
		&s.RequiresJudgmentCount,
		&s.CoveragePercent,
		&s.OverallRecommendation,
		&s.RequiresHumanReview,
		&s.EvaluationCompleted,
		&s.ImportedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	return s, nil
}

// ListSubmissions lists submissions newest-first.
func (r *SQLRepo) ListSubmissions(ctx context.Context, limit, offset int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, site_id, submission_type, total_items,
       tier1_count, tier2_count, tier3_count,
       pass_count, partial_count, fail_count, requires_judgment_count,
       coverage_percent, overall_recommendation, requires_human_review,
       evaluation_completed, imported_at
FROM submissions
ORDER BY imported_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(
			&s.ID,
			&s.SiteID,
			&s.SubmissionType,
			&s.TotalItems,
			&s.Tier1Count,
			&s.Tier2Count,
			&s.Tier3Count,
			&s.PassCount,
			&s.PartialCount,
			&s.FailCount,
			&s.RequiresJudgmentCount,
			&s.CoveragePercent,
			&s.OverallRecommendation,
			&s.RequiresHumanReview,
			&s.EvaluationCompleted,
			&s.ImportedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSubmission removes the submission and everything hanging off it in
// one transaction, clearing the way for a corrected re-import.
func (r *SQLRepo) DeleteSubmission(ctx context.Context, submissionID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
DELETE FROM baseline_validations
WHERE assessment_id IN (SELECT id FROM assessments WHERE submission_id = $1)`, submissionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assessments WHERE submission_id = $1`, submissionID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, submissionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// GetAssessment returns an assessment by ID.
func (r *SQLRepo) GetAssessment(ctx context.Context, assessmentID string) (Assessment, error) {
	const query = `
SELECT id, submission_id, position, requirement, tier, outcome, review_status
FROM assessments
WHERE id = $1
LIMIT 1`
	var a Assessment
	var tier, outcome, status string
	err := r.DB.QueryRowContext(ctx, query, assessmentID).Scan(
		&a.ID,
		&a.SubmissionID,
		&a.Position,
		&a.Requirement,
		&tier,
		&outcome,
		&status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrAssessmentNotFound
		}
		return Assessment{}, err
	}
	a.Tier = Tier(tier)
	a.Outcome = Outcome(outcome)
	a.ReviewStatus = ReviewStatus(status)
	return a, nil
}

// ListAssessments returns a submission's assessments in source order.
func (r *SQLRepo) ListAssessments(ctx context.Context, submissionID string) ([]Assessment, error) {
	const query = `
SELECT id, submission_id, position, requirement, tier, outcome, review_status
FROM assessments
WHERE submission_id = $1
ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var a Assessment
		var tier, outcome, status string
		if err := rows.Scan(
			&a.ID,
			&a.SubmissionID,
			&a.Position,
			&a.Requirement,
			&tier,
			&outcome,
			&status,
		); err != nil {
			return nil, err
		}
		a.Tier = Tier(tier)
		a.Outcome = Outcome(outcome)
		a.ReviewStatus = ReviewStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAssessmentStatus sets the review status for one assessment.
func (r *SQLRepo) UpdateAssessmentStatus(ctx context.Context, assessmentID string, status ReviewStatus) error {
	const query = `
UPDATE assessments
SET review_status = $1
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, string(status), assessmentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAssessmentNotFound
	}
	return nil
}

// AssessmentStatusCounts folds live per-status and pending-per-tier counts
// from one grouped query.
func (r *SQLRepo) AssessmentStatusCounts(ctx context.Context, submissionID string) (StatusCounts, error) {
	const query = `
SELECT tier, review_status, COUNT(*)
FROM assessments
WHERE submission_id = $1
GROUP BY tier, review_status`
	rows, err := r.DB.QueryContext(ctx, query, submissionID)
	if err != nil {
		return StatusCounts{}, err
	}
	defer rows.Close()

	var counts StatusCounts
	for rows.Next() {
		var tier, status string
		var n int
		if err := rows.Scan(&tier, &status, &n); err != nil {
			return StatusCounts{}, err
		}
		switch ReviewStatus(status) {
		case ReviewPending:
			counts.Pending += n
			switch Tier(tier) {
			case Tier2:
				counts.PendingTier2 += n
			case Tier3:
				counts.PendingTier3 += n
			}
		case ReviewReviewed:
			counts.Reviewed += n
		case ReviewAccepted:
			counts.Accepted += n
		case ReviewOverridden:
			counts.Overridden += n
		}
	}
	return counts, rows.Err()
}

var _ Repo = (*SQLRepo)(nil)
