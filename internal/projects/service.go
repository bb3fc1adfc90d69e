package projects

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"compliance-backend/internal/shared/telemetry"
	"compliance-backend/internal/shared/util"
)

// Service contains business logic for review projects.
type Service struct {
	Repo    Repo
	DataDir string
}

// Create allocates a project folder under the data dir and records the project.
func (s *Service) Create(ctx context.Context, siteID, applicant string, applicationTypes []string) (ReviewProject, error) {
	if strings.TrimSpace(siteID) == "" {
		return ReviewProject{}, ErrInvalidInput
	}

	id := uuid.NewString()
	folder := filepath.Join(s.DataDir, "projects", id)
	if err := os.MkdirAll(filepath.Join(folder, "source"), 0o755); err != nil {
		return ReviewProject{}, fmt.Errorf("create project folder: %w", err)
	}

	now := time.Now().UTC()
	p := ReviewProject{
		ID:               id,
		SiteID:           strings.TrimSpace(siteID),
		Applicant:        strings.TrimSpace(applicant),
		ApplicationTypes: applicationTypes,
		FolderPath:       folder,
		Status:           StatusCreated,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.CreateProject(ctx, p); err != nil {
		return ReviewProject{}, err
	}
	return p, nil
}

// Get returns a project by ID.
func (s *Service) Get(ctx context.Context, projectID string) (ReviewProject, error) {
	if projectID == "" {
		return ReviewProject{}, ErrInvalidInput
	}
	return s.Repo.GetProject(ctx, projectID)
}

// List returns projects newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]ReviewProject, error) {
	return s.Repo.ListProjects(ctx, limit, offset)
}

// UpdateNotes replaces the project's free-text notes.
func (s *Service) UpdateNotes(ctx context.Context, projectID, notes string) error {
	if projectID == "" {
		return ErrInvalidInput
	}
	return s.Repo.UpdateNotes(ctx, projectID, notes)
}

// UploadFile writes the reader into the project's source folder and records
// the file as unprocessed.
func (s *Service) UploadFile(ctx context.Context, projectID, fileName string, r io.Reader) (ProjectFile, error) {
	if fileName == "" {
		return ProjectFile{}, ErrInvalidInput
	}
	p, err := s.Repo.GetProject(ctx, projectID)
	if err != nil {
		return ProjectFile{}, err
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return ProjectFile{}, ErrInvalidInput
	}

	fullPath, size, mimeType, err := writeFile(ctx, p.SourceDir(), sanitized, r)
	if err != nil {
		return ProjectFile{}, err
	}

	f := ProjectFile{
		ID:          uuid.NewString(),
		ProjectID:   p.ID,
		FileName:    sanitized,
		SizeBytes:   size,
		MimeType:    mimeType,
		StoragePath: fullPath,
		Processed:   false,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.AddFile(ctx, f); err != nil {
		return ProjectFile{}, err
	}
	return f, nil
}

// ListFiles returns all files for a project.
func (s *Service) ListFiles(ctx context.Context, projectID string) ([]ProjectFile, error) {
	if _, err := s.Repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.Repo.ListFiles(ctx, projectID)
}

// RemoveFile deletes the file record and best-effort removes the backing
// file on disk. The database record is the source of truth; disk cleanup
// failures are logged and swallowed.
func (s *Service) RemoveFile(ctx context.Context, projectID, fileID string) error {
	f, err := s.Repo.GetFile(ctx, projectID, fileID)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteFile(ctx, projectID, fileID); err != nil {
		return err
	}
	if f.StoragePath != "" {
		if err := os.Remove(f.StoragePath); err != nil && !os.IsNotExist(err) {
			telemetry.Warn("project.file.disk_delete_failed", map[string]any{
				"project_id": projectID,
				"file_id":    fileID,
				"path":       f.StoragePath,
				"error":      err.Error(),
			})
		}
	}
	return nil
}

func writeFile(ctx context.Context, dir, fileName string, r io.Reader) (string, int64, string, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, "", fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(dir, fileName)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return "", 0, "", fmt.Errorf("read sniff: %w", readErr)
	}
	mimeType := http.DetectContentType(sniff[:n])

	size := int64(0)
	if n > 0 {
		if _, err := f.Write(sniff[:n]); err != nil {
			return "", 0, "", fmt.Errorf("write sniff: %w", err)
		}
		size += int64(n)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		return "", 0, "", fmt.Errorf("write body: %w", err)
	}
	size += written

	return fullPath, size, mimeType, nil
}
