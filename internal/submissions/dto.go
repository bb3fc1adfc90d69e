package submissions

import "time"

// SubmissionResponse is the outward-facing representation of a submission.
type SubmissionResponse struct {
	SubmissionID          string    `json:"submissionId"`
	SiteID                string    `json:"siteId"`
	SubmissionType        string    `json:"submissionType"`
	TotalItems            int       `json:"totalItems"`
	Tier1Count            int       `json:"tier1Count"`
	Tier2Count            int       `json:"tier2Count"`
	Tier3Count            int       `json:"tier3Count"`
	PassCount             int       `json:"passCount"`
	PartialCount          int       `json:"partialCount"`
	FailCount             int       `json:"failCount"`
	RequiresJudgmentCount int       `json:"requiresJudgmentCount"`
	CoveragePercent       float64   `json:"coveragePercent"`
	OverallRecommendation string    `json:"overallRecommendation"`
	RequiresHumanReview   bool      `json:"requiresHumanReview"`
	EvaluationCompleted   bool      `json:"evaluationCompleted"`
	ImportedAt            time.Time `json:"importedAt"`
}

// AssessmentResponse is the outward-facing representation of an assessment.
type AssessmentResponse struct {
	AssessmentID string `json:"assessmentId"`
	Position     int    `json:"position"`
	Requirement  string `json:"requirement"`
	Tier         string `json:"tier"`
	Outcome      string `json:"outcome"`
	ReviewStatus string `json:"reviewStatus"`
}

func toSubmissionResponse(s Submission) SubmissionResponse {
	return SubmissionResponse{
		SubmissionID:          s.ID,
		SiteID:                s.SiteID,
		SubmissionType:        s.SubmissionType,
		TotalItems:            s.TotalItems,
		Tier1Count:            s.Tier1Count,
		Tier2Count:            s.Tier2Count,
		Tier3Count:            s.Tier3Count,
		PassCount:             s.PassCount,
		PartialCount:          s.PartialCount,
		FailCount:             s.FailCount,
		RequiresJudgmentCount: s.RequiresJudgmentCount,
		CoveragePercent:       s.CoveragePercent,
		OverallRecommendation: s.OverallRecommendation,
		RequiresHumanReview:   s.RequiresHumanReview,
		EvaluationCompleted:   s.EvaluationCompleted,
		ImportedAt:            s.ImportedAt,
	}
}

func toAssessmentResponse(a Assessment) AssessmentResponse {
	return AssessmentResponse{
		AssessmentID: a.ID,
		Position:     a.Position,
		Requirement:  a.Requirement,
		Tier:         string(a.Tier),
		Outcome:      string(a.Outcome),
		ReviewStatus: string(a.ReviewStatus),
	}
}
