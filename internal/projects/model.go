package projects

import (
	"path/filepath"
	"time"
)

const (
	StatusCreated    = "created"
	StatusExtracting = "extracting"
	StatusExtracted  = "extracted"
)

// ReviewProject is a folder-backed unit of work for one regulatory site
// submission. Status transitions are monotonic: created -> extracting ->
// extracted, and only the extraction supervisor mutates them.
type ReviewProject struct {
	ID               string
	SiteID           string
	Applicant        string
	ApplicationTypes []string
	FolderPath       string
	Status           string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SourceDir is where uploaded source documents live on disk.
func (p ReviewProject) SourceDir() string {
	return filepath.Join(p.FolderPath, "source")
}

// OutputDir is where the external extractor writes structured output.
func (p ReviewProject) OutputDir() string {
	return filepath.Join(p.FolderPath, "extracted")
}

// ProgressFile is the status artifact the external extractor writes and the
// supervisor polls.
func (p ReviewProject) ProgressFile() string {
	return filepath.Join(p.FolderPath, "extraction_progress.json")
}

// ProjectFile is one uploaded source document belonging to a project.
type ProjectFile struct {
	ID          string
	ProjectID   string
	FileName    string
	SizeBytes   int64
	MimeType    string
	StoragePath string
	Processed   bool
	CreatedAt   time.Time
}
