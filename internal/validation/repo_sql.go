package validation

import (
	"context"
	"database/sql"
)

// SQLRepo implements Repo on a database/sql handle.
type SQLRepo struct {
	DB *sql.DB
}

// Upsert saves a validation with last-write-wins semantics per assessment.
func (r *SQLRepo) Upsert(ctx context.Context, v BaselineValidation) error {
	const query = `
INSERT INTO baseline_validations (id, assessment_id, tier, classification, validated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (assessment_id) DO UPDATE SET
    tier = excluded.tier,
    classification = excluded.classification,
    validated_at = excluded.validated_at`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		v.ID,
		v.AssessmentID,
		v.Tier,
		string(v.Classification),
		v.ValidatedAt,
	)
	return err
}

// CountsBySubmission tallies classifications per tier across the
// submission's assessments.
func (r *SQLRepo) CountsBySubmission(ctx context.Context, submissionID string) (map[string]Counts, error) {
	const query = `
SELECT bv.tier, bv.classification, COUNT(*)
FROM baseline_validations bv
JOIN assessments a ON a.id = bv.assessment_id
WHERE a.submission_id = $1
GROUP BY bv.tier, bv.classification`

	rows, err := r.DB.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Counts)
	for rows.Next() {
		var tier, class string
		var n int
		if err := rows.Scan(&tier, &class, &n); err != nil {
			return nil, err
		}
		counts := out[tier]
		counts.add(Classification(class), n)
		out[tier] = counts
	}
	return out, rows.Err()
}

var _ Repo = (*SQLRepo)(nil)
