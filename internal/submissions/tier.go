package submissions

import (
	"fmt"
	"strings"
)

// Tier is the level of required human review authority over an automated
// compliance decision. Tier 1 decisions are fully automatable; tiers 2 and 3
// require graduated human judgment.
type Tier string

const (
	Tier1Binary Tier = "TIER_1_BINARY"
	Tier2       Tier = "TIER_2"
	Tier3       Tier = "TIER_3"
)

// ParseTier validates a tier designator against the closed enumeration.
func ParseTier(raw string) (Tier, error) {
	switch Tier(strings.ToUpper(strings.TrimSpace(raw))) {
	case Tier1Binary:
		return Tier1Binary, nil
	case Tier2:
		return Tier2, nil
	case Tier3:
		return Tier3, nil
	default:
		return "", fmt.Errorf("unrecognized tier %q", raw)
	}
}

// Outcome is the automated evaluation outcome for one checklist item.
type Outcome string

const (
	OutcomePass             Outcome = "PASS"
	OutcomePartial          Outcome = "PARTIAL"
	OutcomeFail             Outcome = "FAIL"
	OutcomeRequiresJudgment Outcome = "REQUIRES_JUDGMENT"
)

// ParseOutcome validates an outcome designator against the closed enumeration.
func ParseOutcome(raw string) (Outcome, error) {
	switch Outcome(strings.ToUpper(strings.TrimSpace(raw))) {
	case OutcomePass:
		return OutcomePass, nil
	case OutcomePartial:
		return OutcomePartial, nil
	case OutcomeFail:
		return OutcomeFail, nil
	case OutcomeRequiresJudgment:
		return OutcomeRequiresJudgment, nil
	default:
		return "", fmt.Errorf("unrecognized outcome %q", raw)
	}
}

// ReviewStatus tracks reviewer progress on an assessment.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "pending"
	ReviewReviewed   ReviewStatus = "reviewed"
	ReviewAccepted   ReviewStatus = "accepted"
	ReviewOverridden ReviewStatus = "overridden"
)

// ParseReviewStatus validates a review status string.
func ParseReviewStatus(raw string) (ReviewStatus, error) {
	switch ReviewStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ReviewPending:
		return ReviewPending, nil
	case ReviewReviewed:
		return ReviewReviewed, nil
	case ReviewAccepted:
		return ReviewAccepted, nil
	case ReviewOverridden:
		return ReviewOverridden, nil
	default:
		return "", fmt.Errorf("unrecognized review status %q", raw)
	}
}
