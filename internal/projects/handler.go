package projects

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/shared/server/respond"
)

const maxUploadSize = 50 << 20 // 50MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches project routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects", h.create)
	rg.GET("/projects", h.list)
	rg.GET("/projects/:id", h.get)
	rg.PATCH("/projects/:id/notes", h.updateNotes)
	rg.POST("/projects/:id/files", h.uploadFile)
	rg.GET("/projects/:id/files", h.listFiles)
	rg.DELETE("/projects/:id/files/:fileId", h.removeFile)
}

type createProjectRequest struct {
	SiteID           string   `json:"siteId"`
	Applicant        string   `json:"applicant"`
	ApplicationTypes []string `json:"applicationTypes"`
}

func (h *Handler) create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.SiteID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "siteId is required", nil)
		return
	}

	p, err := h.Svc.Create(c.Request.Context(), req.SiteID, req.Applicant, req.ApplicationTypes)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create project", nil)
		}
		return
	}

	c.Set("projectId", p.ID)
	respond.JSON(c, http.StatusCreated, toProjectResponse(p))
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch project", nil)
		}
		return
	}
	respond.OK(c, toProjectResponse(p))
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	list, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list projects", nil)
		return
	}

	resp := make([]ProjectResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, toProjectResponse(p))
	}
	respond.OK(c, resp)
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) updateNotes(c *gin.Context) {
	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	if err := h.Svc.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update notes", nil)
		}
		return
	}
	respond.OK(c, gin.H{"updated": true})
}

func (h *Handler) uploadFile(c *gin.Context) {
	projectID := c.Param("id")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	f, err := h.Svc.UploadFile(c.Request.Context(), projectID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload file", nil)
		}
		return
	}

	c.Set("projectId", projectID)
	respond.JSON(c, http.StatusCreated, toFileResponse(f))
}

func (h *Handler) listFiles(c *gin.Context) {
	files, err := h.Svc.ListFiles(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list files", nil)
		}
		return
	}

	resp := make([]FileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, toFileResponse(f))
	}
	respond.OK(c, resp)
}

func (h *Handler) removeFile(c *gin.Context) {
	err := h.Svc.RemoveFile(c.Request.Context(), c.Param("id"), c.Param("fileId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to remove file", nil)
		}
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}
