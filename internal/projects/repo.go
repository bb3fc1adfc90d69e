package projects

import "context"

// Repo defines persistence operations for review projects and their files.
type Repo interface {
	CreateProject(ctx context.Context, p ReviewProject) error
	GetProject(ctx context.Context, projectID string) (ReviewProject, error)
	ListProjects(ctx context.Context, limit, offset int) ([]ReviewProject, error)
	UpdateNotes(ctx context.Context, projectID, notes string) error
	UpdateStatus(ctx context.Context, projectID, status string) error

	AddFile(ctx context.Context, f ProjectFile) error
	GetFile(ctx context.Context, projectID, fileID string) (ProjectFile, error)
	ListFiles(ctx context.Context, projectID string) ([]ProjectFile, error)
	ListUnprocessedFiles(ctx context.Context, projectID string) ([]ProjectFile, error)
	MarkFilesProcessed(ctx context.Context, projectID string) (int, error)
	DeleteFile(ctx context.Context, projectID, fileID string) error
}
