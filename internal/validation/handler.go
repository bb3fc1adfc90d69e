package validation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the validation service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches validation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assessments/:id/validation", h.save)
	rg.GET("/submissions/:id/validation-stats", h.stats)
}

type saveRequest struct {
	Classification string `json:"classification"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	class, err := ParseClassification(req.Classification)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "classification must be one of TRUE_POSITIVE, FALSE_POSITIVE, TRUE_NEGATIVE, FALSE_NEGATIVE", nil)
		return
	}

	v, err := h.Svc.Save(c.Request.Context(), c.Param("id"), class)
	if err != nil {
		switch {
		case errors.Is(err, ErrAssessmentNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save validation", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"assessmentId":   v.AssessmentID,
		"tier":           v.Tier,
		"classification": string(v.Classification),
	})
}

func (h *Handler) stats(c *gin.Context) {
	submissionID := c.Param("id")
	stats, err := h.Svc.Stats(c.Request.Context(), submissionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubmissionNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute validation stats", nil)
		}
		return
	}

	c.Set("submissionId", submissionID)
	respond.OK(c, stats)
}
