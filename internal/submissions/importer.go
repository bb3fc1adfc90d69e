package submissions

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// evaluationArtifact mirrors the evaluation-results document produced by the
// offline evaluation pipeline. Process-defined extra fields are ignored;
// tier and outcome values are validated fail-fast before any counting.
type evaluationArtifact struct {
	SubmissionID          string         `json:"submissionId"`
	SiteID                string         `json:"siteId"`
	SubmissionType        string         `json:"submissionType"`
	CoveragePercent       float64        `json:"coveragePercent"`
	OverallRecommendation string         `json:"overallRecommendation"`
	RequiresHumanReview   bool           `json:"requiresHumanReview"`
	EvaluationCompleted   bool           `json:"evaluationCompleted"`
	Items                 []artifactItem `json:"items"`
}

type artifactItem struct {
	Requirement string `json:"requirement"`
	Tier        string `json:"tier"`
	Outcome     string `json:"outcome"`
}

// ParseEvaluationResults decodes an evaluation-results artifact into one
// submission with pre-aggregated counts and one assessment per checklist
// item, preserving source ordering.
func ParseEvaluationResults(data []byte) (Submission, []Assessment, error) {
	var artifact evaluationArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return Submission{}, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if strings.TrimSpace(artifact.SubmissionID) == "" {
		return Submission{}, nil, fmt.Errorf("%w: submissionId is required", ErrParse)
	}
	if strings.TrimSpace(artifact.SiteID) == "" {
		return Submission{}, nil, fmt.Errorf("%w: siteId is required", ErrParse)
	}

	sub := Submission{
		ID:                    strings.TrimSpace(artifact.SubmissionID),
		SiteID:                strings.TrimSpace(artifact.SiteID),
		SubmissionType:        strings.TrimSpace(artifact.SubmissionType),
		TotalItems:            len(artifact.Items),
		CoveragePercent:       artifact.CoveragePercent,
		OverallRecommendation: strings.TrimSpace(artifact.OverallRecommendation),
		RequiresHumanReview:   artifact.RequiresHumanReview,
		EvaluationCompleted:   artifact.EvaluationCompleted,
		ImportedAt:            time.Now().UTC(),
	}

	assessments := make([]Assessment, 0, len(artifact.Items))
	for i, item := range artifact.Items {
		tier, err := ParseTier(item.Tier)
		if err != nil {
			return Submission{}, nil, fmt.Errorf("%w: item %d: %v", ErrParse, i, err)
		}
		outcome, err := ParseOutcome(item.Outcome)
		if err != nil {
			return Submission{}, nil, fmt.Errorf("%w: item %d: %v", ErrParse, i, err)
		}

		switch tier {
		case Tier1Binary:
			sub.Tier1Count++
		case Tier2:
			sub.Tier2Count++
		case Tier3:
			sub.Tier3Count++
		}
		switch outcome {
		case OutcomePass:
			sub.PassCount++
		case OutcomePartial:
			sub.PartialCount++
		case OutcomeFail:
			sub.FailCount++
		case OutcomeRequiresJudgment:
			sub.RequiresJudgmentCount++
		}

		assessments = append(assessments, Assessment{
			ID:           uuid.NewString(),
			SubmissionID: sub.ID,
			Position:     i,
			Requirement:  strings.TrimSpace(item.Requirement),
			Tier:         tier,
			Outcome:      outcome,
			ReviewStatus: ReviewPending,
		})
	}

	return sub, assessments, nil
}
