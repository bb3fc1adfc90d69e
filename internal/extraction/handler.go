package extraction

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the extraction service.
type Handler struct {
	Svc     *Service
	limiter *pollLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{
		Svc:     svc,
		limiter: newPollLimiter(pollLimitWindow, nil),
	}
}

// RegisterRoutes attaches extraction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/extract", h.start)
	rg.GET("/projects/:id/extract/status", h.status)
}

type startRequest struct {
	Mode  string   `json:"mode"`
	Files []string `json:"files"`
}

func (h *Handler) start(c *gin.Context) {
	projectID := c.Param("id")

	var req startRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	progressFile, err := h.Svc.Start(c.Request.Context(), projectID, req.Mode, req.Files)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		case errors.Is(err, ErrInvalidMode):
			respond.Error(c, http.StatusBadRequest, "validation_error", "mode must be new or full", nil)
		case errors.Is(err, ErrNoWork):
			respond.Error(c, http.StatusConflict, "no_work", "no unprocessed files to extract", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start extraction", nil)
		}
		return
	}

	c.Set("projectId", projectID)
	c.Set("statusTransition", "created->extracting")
	respond.Accepted(c, gin.H{
		"projectId":    projectID,
		"progressFile": progressFile,
	})
}

func (h *Handler) status(c *gin.Context) {
	projectID := c.Param("id")

	if !h.limiter.Allow(projectID) {
		c.Header("Retry-After", strconv.Itoa(h.limiter.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "status polled too frequently", nil)
		return
	}

	payload, err := h.Svc.Poll(c.Request.Context(), projectID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read extraction status", nil)
		}
		return
	}

	c.Set("projectId", projectID)
	respond.OK(c, payload)
}
