package validation

// Rates holds confusion-matrix metrics derived from raw counts. Every
// denominator has an explicit zero-guard so an empty validation set yields
// defined values instead of failing.
type Rates struct {
	Precision         float64 `json:"precision"`
	Recall            float64 `json:"recall"`
	F1Score           float64 `json:"f1Score"`
	FalsePositiveRate float64 `json:"falsePositiveRate"`
	FalseNegativeRate float64 `json:"falseNegativeRate"`
}

// computeRates derives metrics from counts. With nothing validated,
// precision and recall default to 1 (no wrong calls observed) while f1 and
// the error rates default to 0.
func computeRates(c Counts) Rates {
	if c.Total == 0 {
		return Rates{Precision: 1, Recall: 1}
	}

	tp := float64(c.TruePositive)
	fp := float64(c.FalsePositive)
	tn := float64(c.TrueNegative)
	fn := float64(c.FalseNegative)

	precision := 1.0
	if tp+fp > 0 {
		precision = tp / (tp + fp)
	}
	recall := 1.0
	if tp+fn > 0 {
		recall = tp / (tp + fn)
	}
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	fpRate := 0.0
	if fp+tn > 0 {
		fpRate = fp / (fp + tn)
	}
	fnRate := 0.0
	if fn+tp > 0 {
		fnRate = fn / (fn + tp)
	}

	return Rates{
		Precision:         precision,
		Recall:            recall,
		F1Score:           f1,
		FalsePositiveRate: fpRate,
		FalseNegativeRate: fnRate,
	}
}

// Benchmark holds the fixed target error rates for one tier and whether the
// measured rates meet them. A tier with zero validated items meets its
// targets vacuously.
type Benchmark struct {
	TargetFpRate  float64 `json:"targetFpRate"`
	TargetFnRate  float64 `json:"targetFnRate"`
	MeetsFpTarget bool    `json:"meetsFpTarget"`
	MeetsFnTarget bool    `json:"meetsFnTarget"`
}

var benchmarkTargets = map[string]struct{ fp, fn float64 }{
	"tier1": {fp: 0.05, fn: 0.02},
	"tier2": {fp: 0.10, fn: 0.05},
}

func benchmarkFor(tierKey string, c Counts) Benchmark {
	target := benchmarkTargets[tierKey]
	b := Benchmark{
		TargetFpRate:  target.fp,
		TargetFnRate:  target.fn,
		MeetsFpTarget: true,
		MeetsFnTarget: true,
	}
	if c.Total == 0 {
		return b
	}
	rates := computeRates(c)
	b.MeetsFpTarget = rates.FalsePositiveRate <= target.fp
	b.MeetsFnTarget = rates.FalseNegativeRate <= target.fn
	return b
}
