package extraction

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"compliance-backend/internal/projects"
)

// fakeLauncher records launches instead of spawning processes.
type fakeLauncher struct {
	bin  string
	args []string
	err  error
	runs int
}

func (f *fakeLauncher) Launch(ctx context.Context, bin string, args []string) error {
	_ = ctx
	f.runs++
	f.bin = bin
	f.args = args
	return f.err
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func setupProject(t *testing.T, repo *projects.MemoryRepo, fileNames ...string) projects.ReviewProject {
	t.Helper()
	p := projects.ReviewProject{
		ID:         "proj-1",
		SiteID:     "SITE-9",
		FolderPath: t.TempDir(),
		Status:     projects.StatusCreated,
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("create project: %v", err)
	}
	for i, name := range fileNames {
		f := projects.ProjectFile{
			ID:        name + "-id",
			ProjectID: p.ID,
			FileName:  name,
			Processed: i == 0 && len(fileNames) > 1, // first file pre-processed when more than one
		}
		if err := repo.AddFile(context.Background(), f); err != nil {
			t.Fatalf("add file: %v", err)
		}
	}
	return p
}

func TestStartNewModeTargetsUnprocessedFiles(t *testing.T) {
	repo := projects.NewMemoryRepo()
	p := setupProject(t, repo, "done.pdf", "a.pdf", "b.pdf")
	launcher := &fakeLauncher{}
	svc := &Service{Projects: repo, Launcher: launcher, Bin: "doc-extractor"}

	progressFile, err := svc.Start(context.Background(), p.ID, "", nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if progressFile != p.ProgressFile() {
		t.Errorf("progress file = %q, want %q", progressFile, p.ProgressFile())
	}
	if launcher.runs != 1 {
		t.Fatalf("launcher runs = %d, want 1", launcher.runs)
	}
	if launcher.bin != "doc-extractor" {
		t.Errorf("bin = %q", launcher.bin)
	}
	if got := argValue(launcher.args, "--mode"); got != ModeNew {
		t.Errorf("--mode = %q, want new", got)
	}
	if got := argValue(launcher.args, "--files"); got != "a.pdf,b.pdf" {
		t.Errorf("--files = %q, want only unprocessed files", got)
	}
	if got := argValue(launcher.args, "--source"); got != p.SourceDir() {
		t.Errorf("--source = %q, want %q", got, p.SourceDir())
	}

	updated, err := repo.GetProject(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if updated.Status != projects.StatusExtracting {
		t.Errorf("status = %q, want extracting", updated.Status)
	}
}

func TestStartFullModeTargetsAllFiles(t *testing.T) {
	repo := projects.NewMemoryRepo()
	p := setupProject(t, repo, "done.pdf", "a.pdf")
	launcher := &fakeLauncher{}
	svc := &Service{Projects: repo, Launcher: launcher, Bin: "doc-extractor"}

	if _, err := svc.Start(context.Background(), p.ID, "full", nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := argValue(launcher.args, "--files"); got != "done.pdf,a.pdf" {
		t.Errorf("--files = %q, want every file in full mode", got)
	}
}

func TestStartExplicitFileListSkipsDiscovery(t *testing.T) {
	repo := projects.NewMemoryRepo()
	p := setupProject(t, repo)
	launcher := &fakeLauncher{}
	svc := &Service{Projects: repo, Launcher: launcher, Bin: "doc-extractor"}

	if _, err := svc.Start(context.Background(), p.ID, "new", []string{"only.pdf"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := argValue(launcher.args, "--files"); got != "only.pdf" {
		t.Errorf("--files = %q, want only.pdf", got)
	}
}

func TestStartNoWork(t *testing.T) {
	repo := projects.NewMemoryRepo()
	p := setupProject(t, repo) // no files at all
	launcher := &fakeLauncher{}
	svc := &Service{Projects: repo, Launcher: launcher, Bin: "doc-extractor"}

	_, err := svc.Start(context.Background(), p.ID, "new", nil)
	if !errors.Is(err, ErrNoWork) {
		t.Fatalf("err = %v, want ErrNoWork", err)
	}
	if launcher.runs != 0 {
		t.Errorf("launcher ran despite no work")
	}
}

func TestStartUnknownProject(t *testing.T) {
	svc := &Service{Projects: projects.NewMemoryRepo(), Launcher: &fakeLauncher{}, Bin: "doc-extractor"}
	if _, err := svc.Start(context.Background(), "missing", "new", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStartInvalidMode(t *testing.T) {
	svc := &Service{Projects: projects.NewMemoryRepo(), Launcher: &fakeLauncher{}, Bin: "doc-extractor"}
	if _, err := svc.Start(context.Background(), "proj-1", "sideways", nil); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("err = %v, want ErrInvalidMode", err)
	}
}

func TestStartLauncherFailureLeavesStatus(t *testing.T) {
	repo := projects.NewMemoryRepo()
	p := setupProject(t, repo, "a.pdf")
	launcher := &fakeLauncher{err: errors.New("exec format error")}
	svc := &Service{Projects: repo, Launcher: launcher, Bin: "doc-extractor"}

	if _, err := svc.Start(context.Background(), p.ID, "new", nil); err == nil {
		t.Fatal("expected launch error")
	}
	got, _ := repo.GetProject(context.Background(), p.ID)
	if got.Status != projects.StatusCreated {
		t.Errorf("status = %q, want created after failed launch", got.Status)
	}
}

func TestPollMissingArtifactDegradesToNotStarted(t *testing.T) {
	repo := projects.NewMemoryRepo()
	p := setupProject(t, repo, "a.pdf")
	svc := &Service{Projects: repo, Launcher: &fakeLauncher{}, Bin: "doc-extractor"}

	payload, err := svc.Poll(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if payload["status"] != StatusNotStarted {
		t.Errorf("status = %v, want not_started", payload["status"])
	}
}

func TestPollMalformedArtifactDegradesToNotStarted(t *testing.T) {
	repo := projects.NewMemoryRepo()
	p := setupProject(t, repo, "a.pdf")
	svc := &Service{Projects: repo, Launcher: &fakeLauncher{}, Bin: "doc-extractor"}

	if err := os.WriteFile(p.ProgressFile(), []byte(`{half a doc`), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	payload, err := svc.Poll(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if payload["status"] != StatusNotStarted {
		t.Errorf("status = %v, want not_started", payload["status"])
	}
}

func TestPollRunningSurfacedVerbatim(t *testing.T) {
	repo := projects.NewMemoryRepo()
	p := setupProject(t, repo, "a.pdf")
	svc := &Service{Projects: repo, Launcher: &fakeLauncher{}, Bin: "doc-extractor"}

	artifact := `{"status": "running", "current_file": "a.pdf", "percent": 40}`
	if err := os.WriteFile(p.ProgressFile(), []byte(artifact), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	payload, err := svc.Poll(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if payload["status"] != StatusRunning {
		t.Errorf("status = %v, want running", payload["status"])
	}
	if payload["current_file"] != "a.pdf" {
		t.Errorf("extra fields must pass through: %v", payload)
	}

	got, _ := repo.GetProject(context.Background(), p.ID)
	if got.Status != projects.StatusCreated {
		t.Errorf("non-completed poll must not transition status, got %q", got.Status)
	}
}

func TestPollCompletedReconciles(t *testing.T) {
	repo := projects.NewMemoryRepo()
	p := setupProject(t, repo, "a.pdf", "b.pdf", "c.pdf")
	svc := &Service{Projects: repo, Launcher: &fakeLauncher{}, Bin: "doc-extractor"}
	ctx := context.Background()

	if err := os.WriteFile(p.ProgressFile(), []byte(`{"status": "completed"}`), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	payload, err := svc.Poll(ctx, p.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if payload["status"] != StatusCompleted {
		t.Errorf("status = %v, want completed", payload["status"])
	}

	got, _ := repo.GetProject(ctx, p.ID)
	if got.Status != projects.StatusExtracted {
		t.Errorf("status = %q, want extracted", got.Status)
	}
	unprocessed, _ := repo.ListUnprocessedFiles(ctx, p.ID)
	if len(unprocessed) != 0 {
		t.Errorf("unprocessed files remain: %d", len(unprocessed))
	}

	// Polling again after completion is a no-op: same payload, same state.
	again, err := svc.Poll(ctx, p.ID)
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if again["status"] != StatusCompleted {
		t.Errorf("second poll status = %v", again["status"])
	}
}

func TestPollUnknownProject(t *testing.T) {
	svc := &Service{Projects: projects.NewMemoryRepo(), Launcher: &fakeLauncher{}, Bin: "doc-extractor"}
	if _, err := svc.Poll(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReadStatusArtifactFillsMissingStatus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.json")
	if err := os.WriteFile(path, []byte(`{"percent": 10}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	payload := readStatusArtifact(path)
	if payload["status"] != StatusNotStarted {
		t.Errorf("status = %v, want not_started default", payload["status"])
	}
	if payload["percent"] == nil {
		t.Errorf("existing fields must survive")
	}
}

func TestParseModeRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"incremental", "NEWish", "all"} {
		if _, err := ParseMode(raw); err == nil {
			t.Errorf("ParseMode(%q) accepted", raw)
		}
	}
	mode, err := ParseMode(" FULL ")
	if err != nil || mode != ModeFull {
		t.Errorf("ParseMode(FULL) = %q, %v", mode, err)
	}
}
