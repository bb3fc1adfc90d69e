package submissions

import "time"

// Submission is one imported compliance-evaluation run for a site. Counts
// are computed once at import from the assessment set and never recomputed.
type Submission struct {
	ID                    string
	SiteID                string
	SubmissionType        string
	TotalItems            int
	Tier1Count            int
	Tier2Count            int
	Tier3Count            int
	PassCount             int
	PartialCount          int
	FailCount             int
	RequiresJudgmentCount int
	CoveragePercent       float64
	OverallRecommendation string
	RequiresHumanReview   bool
	EvaluationCompleted   bool
	ImportedAt            time.Time
}

// Assessment is one compliance checklist item evaluated for a submission.
// Position preserves source ordering from the evaluation artifact.
type Assessment struct {
	ID           string
	SubmissionID string
	Position     int
	Requirement  string
	Tier         Tier
	Outcome      Outcome
	ReviewStatus ReviewStatus
}

// StatusCounts holds live per-status and pending-per-tier assessment counts
// for one submission.
type StatusCounts struct {
	Pending      int
	Reviewed     int
	Accepted     int
	Overridden   int
	PendingTier2 int
	PendingTier3 int
}
