package submissions

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"compliance-backend/internal/shared/storage/db"
)

func newSQLiteRepo(t *testing.T) *SQLRepo {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "reviews.db")
	sqlDB, err := db.Connect(ctx, path, db.DefaultMigrateOptions())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.RunMigrations(ctx, sqlDB, db.Dialect(db.DriverFor(path))); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &SQLRepo{DB: sqlDB}
}

func TestSQLRepoSQLiteRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	importedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	sub := Submission{
		ID:                    "SUB-001",
		SiteID:                "SITE-9",
		SubmissionType:        "initial",
		TotalItems:            3,
		Tier1Count:            1,
		Tier2Count:            1,
		Tier3Count:            1,
		PassCount:             1,
		PartialCount:          1,
		RequiresJudgmentCount: 1,
		CoveragePercent:       87.5,
		OverallRecommendation: "APPROVE",
		RequiresHumanReview:   true,
		EvaluationCompleted:   true,
		ImportedAt:            importedAt,
	}
	assessments := []Assessment{
		{ID: "a-1", SubmissionID: sub.ID, Position: 0, Requirement: "R1", Tier: Tier1Binary, Outcome: OutcomePass, ReviewStatus: ReviewPending},
		{ID: "a-2", SubmissionID: sub.ID, Position: 1, Requirement: "R2", Tier: Tier2, Outcome: OutcomePartial, ReviewStatus: ReviewPending},
		{ID: "a-3", SubmissionID: sub.ID, Position: 2, Requirement: "R3", Tier: Tier3, Outcome: OutcomeRequiresJudgment, ReviewStatus: ReviewPending},
	}

	if err := repo.ImportSubmission(ctx, sub, assessments); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := repo.ImportSubmission(ctx, sub, assessments); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second import: err = %v, want ErrDuplicate", err)
	}

	got, err := repo.GetSubmission(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SiteID != sub.SiteID || got.TotalItems != 3 || got.CoveragePercent != 87.5 {
		t.Errorf("submission = %+v", got)
	}
	if !got.RequiresHumanReview || !got.EvaluationCompleted {
		t.Errorf("booleans lost in round trip: %+v", got)
	}
	if !got.ImportedAt.UTC().Truncate(time.Second).Equal(importedAt) {
		t.Errorf("ImportedAt = %v, want %v", got.ImportedAt, importedAt)
	}

	list, err := repo.ListSubmissions(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != sub.ID {
		t.Fatalf("list = %+v", list)
	}

	stored, err := repo.ListAssessments(ctx, sub.ID)
	if err != nil {
		t.Fatalf("list assessments: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("assessments = %d, want 3", len(stored))
	}
	for i, a := range stored {
		if a.Position != i {
			t.Errorf("assessment %d: Position = %d", i, a.Position)
		}
	}
	if stored[1].Tier != Tier2 || stored[1].Outcome != OutcomePartial {
		t.Errorf("assessment 1 = %+v", stored[1])
	}

	if err := repo.UpdateAssessmentStatus(ctx, "a-2", ReviewAccepted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	counts, err := repo.AssessmentStatusCounts(ctx, sub.ID)
	if err != nil {
		t.Fatalf("status counts: %v", err)
	}
	want := StatusCounts{Pending: 2, Accepted: 1, PendingTier3: 1}
	if counts != want {
		t.Fatalf("counts = %+v, want %+v", counts, want)
	}

	if err := repo.DeleteSubmission(ctx, sub.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetSubmission(ctx, sub.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: err = %v, want ErrNotFound", err)
	}
	if err := repo.ImportSubmission(ctx, sub, assessments); err != nil {
		t.Fatalf("re-import after delete: %v", err)
	}
}
