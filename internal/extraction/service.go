package extraction

import (
	"context"
	"errors"
	"strings"

	"compliance-backend/internal/projects"
	"compliance-backend/internal/shared/metrics"
	"compliance-backend/internal/shared/telemetry"
)

const (
	ModeNew  = "new"
	ModeFull = "full"
)

// Service supervises the external extraction job for a project. The process
// is fire-and-forget: nothing holds a live handle to it, and the status
// artifact is the only observable state.
type Service struct {
	Projects projects.Repo
	Launcher Launcher
	Bin      string
}

// ParseMode normalizes and validates an extraction mode string.
func ParseMode(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", ModeNew:
		return ModeNew, nil
	case ModeFull:
		return ModeFull, nil
	default:
		return "", ErrInvalidMode
	}
}

// Start resolves the project's paths and file set, launches the extractor
// detached, and transitions the project to extracting. It returns the
// progress-file path callers poll for status.
func (s *Service) Start(ctx context.Context, projectID, mode string, files []string) (string, error) {
	mode, err := ParseMode(mode)
	if err != nil {
		return "", err
	}

	p, err := s.Projects.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	fileNames := files
	if len(fileNames) == 0 {
		var candidates []projects.ProjectFile
		if mode == ModeFull {
			candidates, err = s.Projects.ListFiles(ctx, projectID)
		} else {
			candidates, err = s.Projects.ListUnprocessedFiles(ctx, projectID)
		}
		if err != nil {
			return "", err
		}
		if mode == ModeNew && len(candidates) == 0 {
			return "", ErrNoWork
		}
		for _, f := range candidates {
			fileNames = append(fileNames, f.FileName)
		}
	}

	args := []string{
		"--source", p.SourceDir(),
		"--output", p.OutputDir(),
		"--progress-file", p.ProgressFile(),
		"--mode", mode,
	}
	if len(fileNames) > 0 {
		args = append(args, "--files", strings.Join(fileNames, ","))
	}

	if err := s.Launcher.Launch(ctx, s.Bin, args); err != nil {
		return "", err
	}

	if err := s.Projects.UpdateStatus(ctx, projectID, projects.StatusExtracting); err != nil {
		return "", err
	}

	metrics.IncExtractionStarted()
	telemetry.Info("extraction.started", map[string]any{
		"project_id": projectID,
		"mode":       mode,
		"file_count": len(fileNames),
	})
	return p.ProgressFile(), nil
}

// Poll reads the project's status artifact and returns it verbatim. When the
// artifact reports completed, every unprocessed file is marked processed and
// the project transitions to extracted; both steps are safe to repeat, so
// polling again after completion is a no-op. Any other status value is
// surfaced as-is with no transition: a stuck or failed job stays visible in
// the raw payload and recovery is an operator decision.
func (s *Service) Poll(ctx context.Context, projectID string) (map[string]any, error) {
	p, err := s.Projects.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	payload := readStatusArtifact(p.ProgressFile())
	if statusValue(payload) != StatusCompleted {
		return payload, nil
	}

	updated, err := s.Projects.MarkFilesProcessed(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.Status != projects.StatusExtracted {
		if err := s.Projects.UpdateStatus(ctx, projectID, projects.StatusExtracted); err != nil {
			return nil, err
		}
		metrics.IncExtractionCompleted()
		telemetry.Info("extraction.completed", map[string]any{
			"project_id":      projectID,
			"files_processed": updated,
		})
	}
	return payload, nil
}
