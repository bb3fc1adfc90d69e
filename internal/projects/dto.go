package projects

import "time"

// ProjectResponse is the outward-facing representation of a review project.
type ProjectResponse struct {
	ProjectID        string    `json:"projectId"`
	SiteID           string    `json:"siteId"`
	Applicant        string    `json:"applicant"`
	ApplicationTypes []string  `json:"applicationTypes"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FileResponse is the outward-facing representation of a project file.
type FileResponse struct {
	FileID     string    `json:"fileId"`
	FileName   string    `json:"fileName"`
	SizeBytes  int64     `json:"sizeBytes"`
	MimeType   string    `json:"mimeType"`
	Processed  bool      `json:"processed"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toProjectResponse(p ReviewProject) ProjectResponse {
	types := p.ApplicationTypes
	if types == nil {
		types = []string{}
	}
	return ProjectResponse{
		ProjectID:        p.ID,
		SiteID:           p.SiteID,
		Applicant:        p.Applicant,
		ApplicationTypes: types,
		Status:           p.Status,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toFileResponse(f ProjectFile) FileResponse {
	return FileResponse{
		FileID:     f.ID,
		FileName:   f.FileName,
		SizeBytes:  f.SizeBytes,
		MimeType:   f.MimeType,
		Processed:  f.Processed,
		UploadedAt: f.CreatedAt,
	}
}
