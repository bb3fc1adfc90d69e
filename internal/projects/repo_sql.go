package projects

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

const applicationTypeSep = ","

// SQLRepo implements Repo on a database/sql handle.
type SQLRepo struct {
	DB *sql.DB
}

// CreateProject inserts a new review project.
func (r *SQLRepo) CreateProject(ctx context.Context, p ReviewProject) error {
	const query = `
INSERT INTO review_projects (
    id, site_id, applicant, application_types, folder_path, status, notes, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	status := p.Status
	if status == "" {
		status = StatusCreated
	}
	_, err := r.DB.ExecContext(
		ctx,
		query,
		p.ID,
		p.SiteID,
		p.Applicant,
		strings.Join(p.ApplicationTypes, applicationTypeSep),
		p.FolderPath,
		status,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// GetProject returns a project by ID.
func (r *SQLRepo) GetProject(ctx context.Context, projectID string) (ReviewProject, error) {
	const query = `
SELECT id, site_id, applicant, application_types, folder_path, status, notes, created_at, updated_at
FROM review_projects
WHERE id = $1
LIMIT 1`
	var p ReviewProject
	var appTypes string
	err := r.DB.QueryRowContext(ctx, query, projectID).Scan(
		&p.ID,
		&p.SiteID,
		&p.Applicant,
		&appTypes,
		&p.FolderPath,
		&p.Status,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReviewProject{}, ErrNotFound
		}
		return ReviewProject{}, err
	}
	p.ApplicationTypes = splitApplicationTypes(appTypes)
	return p, nil
}

// ListProjects lists projects ordered newest-first.
func (r *SQLRepo) ListProjects(ctx context.Context, limit, offset int) ([]ReviewProject, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, site_id, applicant, application_types, folder_path, status, notes, created_at, updated_at
FROM review_projects
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReviewProject
	for rows.Next() {
		var p ReviewProject
		var appTypes string
		if err := rows.Scan(
			&p.ID,
			&p.SiteID,
			&p.Applicant,
			&appTypes,
			&p.FolderPath,
			&p.Status,
			&p.Notes,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.ApplicationTypes = splitApplicationTypes(appTypes)
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateNotes replaces the free-text notes for a project.
func (r *SQLRepo) UpdateNotes(ctx context.Context, projectID, notes string) error {
	const query = `
UPDATE review_projects
SET notes = $1, updated_at = $2
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, notes, time.Now().UTC(), projectID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus sets the project lifecycle status.
func (r *SQLRepo) UpdateStatus(ctx context.Context, projectID, status string) error {
	const query = `
UPDATE review_projects
SET status = $1, updated_at = $2
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, status, time.Now().UTC(), projectID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFile inserts a project file record.
func (r *SQLRepo) AddFile(ctx context.Context, f ProjectFile) error {
	const query = `
INSERT INTO project_files (
    id, project_id, file_name, size_bytes, mime_type, storage_path, processed, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		f.ID,
		f.ProjectID,
		f.FileName,
		f.SizeBytes,
		f.MimeType,
		f.StoragePath,
		f.Processed,
		f.CreatedAt,
	)
	return err
}

// GetFile returns one file scoped to a project.
func (r *SQLRepo) GetFile(ctx context.Context, projectID, fileID string) (ProjectFile, error) {
	const query = `
SELECT id, project_id, file_name, size_bytes, mime_type, storage_path, processed, created_at
FROM project_files
WHERE project_id = $1 AND id = $2
LIMIT 1`
	var f ProjectFile
	err := r.DB.QueryRowContext(ctx, query, projectID, fileID).Scan(
		&f.ID,
		&f.ProjectID,
		&f.FileName,
		&f.SizeBytes,
		&f.MimeType,
		&f.StoragePath,
		&f.Processed,
		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProjectFile{}, ErrFileNotFound
		}
		return ProjectFile{}, err
	}
	return f, nil
}

// ListFiles lists all files for a project in upload order.
func (r *SQLRepo) ListFiles(ctx context.Context, projectID string) ([]ProjectFile, error) {
	const query = `
SELECT id, project_id, file_name, size_bytes, mime_type, storage_path, processed, created_at
FROM project_files
WHERE project_id = $1
ORDER BY created_at ASC`
	return r.queryFiles(ctx, query, projectID)
}

// ListUnprocessedFiles lists files not yet confirmed extracted.
func (r *SQLRepo) ListUnprocessedFiles(ctx context.Context, projectID string) ([]ProjectFile, error) {
	const query = `
SELECT id, project_id, file_name, size_bytes, mime_type, storage_path, processed, created_at
FROM project_files
WHERE project_id = $1 AND processed = FALSE
ORDER BY created_at ASC`
	return r.queryFiles(ctx, query, projectID)
}

// MarkFilesProcessed flags every unprocessed file for the project. Running it
// again after all files are processed affects zero rows and is not an error.
func (r *SQLRepo) MarkFilesProcessed(ctx context.Context, projectID string) (int, error) {
	const query = `
UPDATE project_files
SET processed = TRUE
WHERE project_id = $1 AND processed = FALSE`
	res, err := r.DB.ExecContext(ctx, query, projectID)
	if err != nil {
		return 0, err
	}
	updated, _ := res.RowsAffected()
	return int(updated), nil
}

// DeleteFile removes a file record.
func (r *SQLRepo) DeleteFile(ctx context.Context, projectID, fileID string) error {
	const query = `
DELETE FROM project_files
WHERE project_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, projectID, fileID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *SQLRepo) queryFiles(ctx context.Context, query, projectID string) ([]ProjectFile, error) {
	rows, err := r.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProjectFile
	for rows.Next() {
		var f ProjectFile
		if err := rows.Scan(
			&f.ID,
			&f.ProjectID,
			&f.FileName,
			&f.SizeBytes,
			&f.MimeType,
			&f.StoragePath,
			&f.Processed,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func splitApplicationTypes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, applicationTypeSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var _ Repo = (*SQLRepo)(nil)
