package projects

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	projects map[string]ReviewProject
	files    map[string][]ProjectFile // projectId -> files
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		projects: make(map[string]ReviewProject),
		files:    make(map[string][]ProjectFile),
	}
}

// CreateProject stores a new project.
func (r *MemoryRepo) CreateProject(ctx context.Context, p ReviewProject) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Status == "" {
		p.Status = StatusCreated
	}
	r.projects[p.ID] = p
	return nil
}

// GetProject returns a project by ID.
func (r *MemoryRepo) GetProject(ctx context.Context, projectID string) (ReviewProject, error) {
	if err := ctx.Err(); err != nil {
		return ReviewProject{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[projectID]
	if !ok {
		return ReviewProject{}, ErrNotFound
	}
	return p, nil
}

// ListProjects returns projects newest-first honoring limit/offset.
func (r *MemoryRepo) ListProjects(ctx context.Context, limit, offset int) ([]ReviewProject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	all := make([]ReviewProject, 0, len(r.projects))
	for _, p := range r.projects {
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []ReviewProject{}, nil
	}
	end := len(all)
	if offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// UpdateNotes replaces the notes for a project.
func (r *MemoryRepo) UpdateNotes(ctx context.Context, projectID, notes string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	p.Notes = notes
	p.UpdatedAt = time.Now().UTC()
	r.projects[projectID] = p
	return nil
}

// UpdateStatus sets the lifecycle status for a project.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, projectID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	r.projects[projectID] = p
	return nil
}

// AddFile appends a file to a project.
func (r *MemoryRepo) AddFile(ctx context.Context, f ProjectFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[f.ProjectID] = append(r.files[f.ProjectID], f)
	return nil
}

// GetFile returns one file scoped to a project.
func (r *MemoryRepo) GetFile(ctx context.Context, projectID, fileID string) (ProjectFile, error) {
	if err := ctx.Err(); err != nil {
		return ProjectFile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.files[projectID] {
		if f.ID == fileID {
			return f, nil
		}
	}
	return ProjectFile{}, ErrFileNotFound
}

// ListFiles returns all files for a project in upload order.
func (r *MemoryRepo) ListFiles(ctx context.Context, projectID string) ([]ProjectFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProjectFile, len(r.files[projectID]))
	copy(out, r.files[projectID])
	return out, nil
}

// ListUnprocessedFiles returns files not yet confirmed extracted.
func (r *MemoryRepo) ListUnprocessedFiles(ctx context.Context, projectID string) ([]ProjectFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []ProjectFile
	for _, f := range r.files[projectID] {
		if !f.Processed {
			out = append(out, f)
		}
	}
	return out, nil
}

// MarkFilesProcessed flags every unprocessed file for the project.
func (r *MemoryRepo) MarkFilesProcessed(ctx context.Context, projectID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	files := r.files[projectID]
	updated := 0
	for i := range files {
		if !files[i].Processed {
			files[i].Processed = true
			updated++
		}
	}
	r.files[projectID] = files
	return updated, nil
}

// DeleteFile removes a file record.
func (r *MemoryRepo) DeleteFile(ctx context.Context, projectID, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	files := r.files[projectID]
	for i := range files {
		if files[i].ID == fileID {
			r.files[projectID] = append(files[:i], files[i+1:]...)
			return nil
		}
	}
	return ErrFileNotFound
}

var _ Repo = (*MemoryRepo)(nil)
