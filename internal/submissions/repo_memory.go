package submissions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu          sync.RWMutex
	submissions map[string]Submission
	assessments map[string][]Assessment // submissionId -> ordered assessments
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		submissions: make(map[string]Submission),
		assessments: make(map[string][]Assessment),
	}
}

// ImportSubmission stores the submission and its assessments atomically.
func (r *MemoryRepo) ImportSubmission(ctx context.Context, sub Submission, assessments []Assessment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.submissions[sub.ID]; exists {
		return ErrDuplicate
	}
	r.submissions[sub.ID] = sub
	stored := make([]Assessment, len(assessments))
	copy(stored, assessments)
	r.assessments[sub.ID] = stored
	return nil
}

// GetSubmission returns a submission by ID.
func (r *MemoryRepo) GetSubmission(ctx context.Context, submissionID string) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.submissions[submissionID]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return s, nil
}

// ListSubmissions returns submissions newest-first honoring limit/offset.
func (r *MemoryRepo) ListSubmissions(ctx context.Context, limit, offset int) ([]Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	all := make([]Submission, 0, len(r.submissions))
	for _, s := range r.submissions {
		all = append(all, s)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].ImportedAt.After(all[j].ImportedAt)
	})

	if offset >= len(all) {
		return []Submission{}, nil
	}
	end := len(all)
	if offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// DeleteSubmission removes the submission and its assessments.
func (r *MemoryRepo) DeleteSubmission(ctx context.Context, submissionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissions[submissionID]; !ok {
		return ErrNotFound
	}
	delete(r.submissions, submissionID)
	delete(r.assessments, submissionID)
	return nil
}

// GetAssessment returns an assessment by ID.
func (r *MemoryRepo) GetAssessment(ctx context.Context, assessmentID string) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, list := range r.assessments {
		for _, a := range list {
			if a.ID == assessmentID {
				return a, nil
			}
		}
	}
	return Assessment{}, ErrAssessmentNotFound
}

// ListAssessments returns a submission's assessments in source order.
func (r *MemoryRepo) ListAssessments(ctx context.Context, submissionID string) ([]Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Assessment, len(r.assessments[submissionID]))
	copy(out, r.assessments[submissionID])
	return out, nil
}

// UpdateAssessmentStatus sets the review status for one assessment.
func (r *MemoryRepo) UpdateAssessmentStatus(ctx context.Context, assessmentID string, status ReviewStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for subID, list := range r.assessments {
		for i := range list {
			if list[i].ID == assessmentID {
				list[i].ReviewStatus = status
				r.assessments[subID] = list
				return nil
			}
		}
	}
	return ErrAssessmentNotFound
}

// AssessmentStatusCounts computes live counts for one submission.
func (r *MemoryRepo) AssessmentStatusCounts(ctx context.Context, submissionID string) (StatusCounts, error) {
	if err := ctx.Err(); err != nil {
		return StatusCounts{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var counts StatusCounts
	for _, a := range r.assessments[submissionID] {
		switch a.ReviewStatus {
		case ReviewPending:
			counts.Pending++
			switch a.Tier {
			case Tier2:
				counts.PendingTier2++
			case Tier3:
				counts.PendingTier3++
			}
		case ReviewReviewed:
			counts.Reviewed++
		case ReviewAccepted:
			counts.Accepted++
		case ReviewOverridden:
			counts.Overridden++
		}
	}
	return counts, nil
}

var _ Repo = (*MemoryRepo)(nil)
