package submissions

import (
	"context"
	"errors"
	"testing"
)

// reviewArtifact is the scenario from the review dashboard's demo data: ten
// checklist items across all three tiers.
var reviewArtifact = artifactJSON(`
	{"requirement": "R1", "tier": "TIER_1_BINARY", "outcome": "PASS"},
	{"requirement": "R2", "tier": "TIER_1_BINARY", "outcome": "PASS"},
	{"requirement": "R3", "tier": "TIER_1_BINARY", "outcome": "PASS"},
	{"requirement": "R4", "tier": "TIER_1_BINARY", "outcome": "PASS"},
	{"requirement": "R5", "tier": "TIER_1_BINARY", "outcome": "PASS"},
	{"requirement": "R6", "tier": "TIER_1_BINARY", "outcome": "PASS"},
	{"requirement": "R7", "tier": "TIER_2", "outcome": "PARTIAL"},
	{"requirement": "R8", "tier": "TIER_2", "outcome": "PARTIAL"},
	{"requirement": "R9", "tier": "TIER_2", "outcome": "FAIL"},
	{"requirement": "R10", "tier": "TIER_3", "outcome": "REQUIRES_JUDGMENT"}`)

func setupService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	return &Service{Repo: repo}, repo
}

func TestImportAndDuplicate(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	sub, err := svc.Import(ctx, reviewArtifact)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sub.TotalItems != 10 {
		t.Fatalf("TotalItems = %d, want 10", sub.TotalItems)
	}

	_, err = svc.Import(ctx, reviewArtifact)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second import: err = %v, want ErrDuplicate", err)
	}
}

func TestImportParseFailureStoresNothing(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	bad := artifactJSON(`
		{"requirement": "R1", "tier": "TIER_1_BINARY", "outcome": "PASS"},
		{"requirement": "R2", "tier": "BOGUS", "outcome": "PASS"}`)
	if _, err := svc.Import(ctx, bad); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	if _, err := repo.GetSubmission(ctx, "SUB-001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("partial state persisted after failed import")
	}
}

func TestProgressFreshImport(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, reviewArtifact); err != nil {
		t.Fatalf("import: %v", err)
	}

	p, err := svc.Progress(ctx, "SUB-001")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.TotalItems != 10 {
		t.Fatalf("TotalItems = %d, want 10", p.TotalItems)
	}
	if p.TierBreakdown != (TierBreakdown{Tier1: 6, Tier2: 3, Tier3: 1}) {
		t.Fatalf("tier breakdown = %+v", p.TierBreakdown)
	}
	if p.StatusBreakdown.AutoPassed != 6 {
		t.Errorf("AutoPassed = %d, want 6", p.StatusBreakdown.AutoPassed)
	}
	if p.StatusBreakdown.PendingReview != 10 {
		t.Errorf("PendingReview = %d, want 10", p.StatusBreakdown.PendingReview)
	}
	if p.ProgressPercent != 0 {
		t.Errorf("ProgressPercent = %d, want 0", p.ProgressPercent)
	}
	// 3 pending tier-2 + 1 pending tier-3 + 1 automated fail.
	if p.ItemsNeedingAttention != 5 {
		t.Errorf("ItemsNeedingAttention = %d, want 5", p.ItemsNeedingAttention)
	}
}

func TestProgressAdvancesWithReviewerActivity(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, reviewArtifact); err != nil {
		t.Fatalf("import: %v", err)
	}
	assessments, err := repo.ListAssessments(ctx, "SUB-001")
	if err != nil {
		t.Fatalf("list assessments: %v", err)
	}

	// Work three items through distinct terminal states; handled counts all
	// three equally.
	if err := svc.UpdateReviewStatus(ctx, assessments[6].ID, ReviewReviewed); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.UpdateReviewStatus(ctx, assessments[7].ID, ReviewAccepted); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.UpdateReviewStatus(ctx, assessments[9].ID, ReviewOverridden); err != nil {
		t.Fatalf("update: %v", err)
	}

	p, err := svc.Progress(ctx, "SUB-001")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.ProgressPercent != 30 {
		t.Errorf("ProgressPercent = %d, want 30", p.ProgressPercent)
	}
	if p.StatusBreakdown.PendingReview != 7 {
		t.Errorf("PendingReview = %d, want 7", p.StatusBreakdown.PendingReview)
	}
	if p.StatusBreakdown.Reviewed != 1 || p.StatusBreakdown.Accepted != 1 || p.StatusBreakdown.Overridden != 1 {
		t.Errorf("status breakdown = %+v", p.StatusBreakdown)
	}
	// R9 is the only pending tier-2 item left; the FAIL item stays flagged
	// regardless of review state.
	if p.ItemsNeedingAttention != 2 {
		t.Errorf("ItemsNeedingAttention = %d, want 2", p.ItemsNeedingAttention)
	}

	// Reads are side-effect free: a second call returns the same snapshot.
	again, err := svc.Progress(ctx, "SUB-001")
	if err != nil {
		t.Fatalf("progress again: %v", err)
	}
	if again != p {
		t.Errorf("progress not stable across reads: %+v vs %+v", again, p)
	}
}

func TestProgressZeroItems(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, artifactJSON(``)); err != nil {
		t.Fatalf("import: %v", err)
	}
	p, err := svc.Progress(ctx, "SUB-001")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.ProgressPercent != 0 {
		t.Errorf("ProgressPercent = %d, want 0 for empty submission", p.ProgressPercent)
	}
}

func TestProgressUnknownSubmission(t *testing.T) {
	svc, _ := setupService(t)
	if _, err := svc.Progress(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteEnablesReimport(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, reviewArtifact); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := svc.Delete(ctx, "SUB-001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "SUB-001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Import(ctx, reviewArtifact); err != nil {
		t.Fatalf("re-import after delete: %v", err)
	}
}

func TestUpdateReviewStatusUnknownAssessment(t *testing.T) {
	svc, _ := setupService(t)
	err := svc.UpdateReviewStatus(context.Background(), "missing", ReviewAccepted)
	if !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("err = %v, want ErrAssessmentNotFound", err)
	}
}
