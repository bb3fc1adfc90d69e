package submissions

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/shared/server/respond"
)

const maxArtifactSize = 20 << 20 // 20MB

// Handler wires HTTP handlers to the submissions service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches submission routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/submissions/import", h.importArtifact)
	rg.GET("/submissions", h.list)
	rg.GET("/submissions/:id", h.get)
	rg.DELETE("/submissions/:id", h.delete)
	rg.GET("/submissions/:id/assessments", h.listAssessments)
	rg.GET("/submissions/:id/progress", h.progress)
	rg.PATCH("/assessments/:id/status", h.updateStatus)
}

func (h *Handler) importArtifact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxArtifactSize)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read artifact body", nil)
		return
	}

	sub, err := h.Svc.Import(c.Request.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, ErrParse):
			respond.Error(c, http.StatusBadRequest, "parse_error", err.Error(), nil)
		case errors.Is(err, ErrDuplicate):
			respond.Error(c, http.StatusConflict, "duplicate_submission", "submission already imported; delete it before re-importing", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import submission", nil)
		}
		return
	}

	c.Set("submissionId", sub.ID)
	respond.JSON(c, http.StatusCreated, toSubmissionResponse(sub))
}

func (h *Handler) get(c *gin.Context) {
	sub, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch submission", nil)
		}
		return
	}
	respond.OK(c, toSubmissionResponse(sub))
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
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list submissions", nil)
		return
	}

	resp := make([]SubmissionResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, toSubmissionResponse(s))
	}
	respond.OK(c, resp)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete submission", nil)
		}
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

func (h *Handler) listAssessments(c *gin.Context) {
	list, err := h.Svc.ListAssessments(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list assessments", nil)
		}
		return
	}

	resp := make([]AssessmentResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, toAssessmentResponse(a))
	}
	respond.OK(c, resp)
}

func (h *Handler) progress(c *gin.Context) {
	submissionID := c.Param("id")
	snapshot, err := h.Svc.Progress(c.Request.Context(), submissionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute progress", nil)
		}
		return
	}

	c.Set("submissionId", submissionID)
	respond.OK(c, snapshot)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	status, err := ParseReviewStatus(req.Status)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "status must be one of pending, reviewed, accepted, overridden", nil)
		return
	}

	if err := h.Svc.UpdateReviewStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		switch {
		case errors.Is(err, ErrAssessmentNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update review status", nil)
		}
		return
	}
	respond.OK(c, gin.H{"updated": true})
}
