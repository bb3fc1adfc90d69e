package validation

import (
	"fmt"
	"strings"
	"time"
)

// Classification labels an automated decision against the human-confirmed
// baseline.
type Classification string

const (
	TruePositive  Classification = "TRUE_POSITIVE"
	FalsePositive Classification = "FALSE_POSITIVE"
	TrueNegative  Classification = "TRUE_NEGATIVE"
	FalseNegative Classification = "FALSE_NEGATIVE"
)

// ParseClassification validates a classification string.
func ParseClassification(raw string) (Classification, error) {
	switch Classification(strings.ToUpper(strings.TrimSpace(raw))) {
	case TruePositive:
		return TruePositive, nil
	case FalsePositive:
		return FalsePositive, nil
	case TrueNegative:
		return TrueNegative, nil
	case FalseNegative:
		return FalseNegative, nil
	default:
		return "", fmt.Errorf("unrecognized classification %q", raw)
	}
}

// BaselineValidation is a human-entered ground-truth judgment for one
// assessment. Unique per assessment: a later save replaces the earlier one.
type BaselineValidation struct {
	ID             string
	AssessmentID   string
	Tier           string
	Classification Classification
	ValidatedAt    time.Time
}

// Counts holds raw confusion-matrix tallies.
type Counts struct {
	TruePositive  int `json:"truePositive"`
	FalsePositive int `json:"falsePositive"`
	TrueNegative  int `json:"trueNegative"`
	FalseNegative int `json:"falseNegative"`
	Total         int `json:"total"`
}

func (c *Counts) add(class Classification, n int) {
	switch class {
	case TruePositive:
		c.TruePositive += n
	case FalsePositive:
		c.FalsePositive += n
	case TrueNegative:
		c.TrueNegative += n
	case FalseNegative:
		c.FalseNegative += n
	default:
		return
	}
	c.Total += n
}
