package validation

import (
	"context"
	"errors"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo. It resolves the
// assessment-to-submission join through an AssessmentSource.
type MemoryRepo struct {
	mu          sync.RWMutex
	byAssess    map[string]BaselineValidation
	assessments AssessmentSource
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo(assessments AssessmentSource) *MemoryRepo {
	return &MemoryRepo{
		byAssess:    make(map[string]BaselineValidation),
		assessments: assessments,
	}
}

// Upsert saves a validation with last-write-wins semantics per assessment.
func (r *MemoryRepo) Upsert(ctx context.Context, v BaselineValidation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAssess[v.AssessmentID] = v
	return nil
}

// CountsBySubmission tallies classifications per tier across the
// submission's assessments.
func (r *MemoryRepo) CountsBySubmission(ctx context.Context, submissionID string) (map[string]Counts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	validations := make([]BaselineValidation, 0, len(r.byAssess))
	for _, v := range r.byAssess {
		validations = append(validations, v)
	}
	r.mu.RUnlock()

	out := make(map[string]Counts)
	for _, v := range validations {
		rec, err := r.assessments.GetAssessment(ctx, v.AssessmentID)
		if err != nil {
			if errors.Is(err, ErrAssessmentNotFound) {
				continue
			}
			return nil, err
		}
		if rec.SubmissionID != submissionID {
			continue
		}
		counts := out[v.Tier]
		counts.add(v.Classification, 1)
		out[v.Tier] = counts
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
