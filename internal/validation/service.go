package validation

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"compliance-backend/internal/shared/metrics"
	"compliance-backend/internal/shared/telemetry"
)

// tierKeyFor maps assessment tiers onto the stats buckets. Tier 3 carries no
// binary automated decision to grade, so it never lands in a bucket.
func tierKeyFor(tier string) string {
	switch tier {
	case "TIER_1_BINARY":
		return "tier1"
	case "TIER_2":
		return "tier2"
	default:
		return ""
	}
}

// Service contains the validation-statistics logic.
type Service struct {
	Repo        Repo
	Assessments AssessmentSource
	Submissions SubmissionSource
}

// Save upserts the baseline validation for one assessment, denormalizing
// the assessment's tier at write time.
func (s *Service) Save(ctx context.Context, assessmentID string, class Classification) (BaselineValidation, error) {
	if assessmentID == "" {
		return BaselineValidation{}, ErrInvalidInput
	}

	rec, err := s.Assessments.GetAssessment(ctx, assessmentID)
	if err != nil {
		return BaselineValidation{}, err
	}

	v := BaselineValidation{
		ID:             uuid.NewString(),
		AssessmentID:   rec.ID,
		Tier:           rec.Tier,
		Classification: class,
		ValidatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Upsert(ctx, v); err != nil {
		return BaselineValidation{}, err
	}

	metrics.IncValidationSaved()
	telemetry.Info("validation.saved", map[string]any{
		"assessment_id":  rec.ID,
		"submission_id":  rec.SubmissionID,
		"tier":           rec.Tier,
		"classification": string(class),
	})
	return v, nil
}

// TierStats is the per-tier slice of the stats response.
type TierStats struct {
	Counts    Counts    `json:"counts"`
	Benchmark Benchmark `json:"benchmark"`
}

// Stats is the validation-statistics snapshot for one submission.
type Stats struct {
	SubmissionID    string    `json:"submissionId"`
	Counts          Counts    `json:"counts"`
	Rates           Rates     `json:"rates"`
	Tier1           TierStats `json:"tier1"`
	Tier2           TierStats `json:"tier2"`
	ProgressPercent int       `json:"progressPercent"`
}

// Stats aggregates every baseline validation for the submission into global
// and per-tier confusion-matrix metrics with benchmark comparison.
func (s *Service) Stats(ctx context.Context, submissionID string) (Stats, error) {
	if submissionID == "" {
		return Stats{}, ErrInvalidInput
	}

	sub, err := s.Submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		return Stats{}, err
	}

	byTier, err := s.Repo.CountsBySubmission(ctx, submissionID)
	if err != nil {
		return Stats{}, err
	}

	var global Counts
	var tier1, tier2 Counts
	for tier, counts := range byTier {
		global.TruePositive += counts.TruePositive
		global.FalsePositive += counts.FalsePositive
		global.TrueNegative += counts.TrueNegative
		global.FalseNegative += counts.FalseNegative
		global.Total += counts.Total
		switch tierKeyFor(tier) {
		case "tier1":
			tier1 = counts
		case "tier2":
			tier2 = counts
		}
	}

	return Stats{
		SubmissionID: sub.ID,
		Counts:       global,
		Rates:        computeRates(global),
		Tier1: TierStats{
			Counts:    tier1,
			Benchmark: benchmarkFor("tier1", tier1),
		},
		Tier2: TierStats{
			Counts:    tier2,
			Benchmark: benchmarkFor("tier2", tier2),
		},
		ProgressPercent: percent(global.Total, sub.TotalItems),
	}, nil
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
