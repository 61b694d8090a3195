// internal/api/handlers.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/metrics"
	"discard-copilot/internal/models"
)

type parseRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result := s.parser.Parse(req.Text)
	metrics.IntentsParsed.WithLabelValues(
		string(result.Intent.Action),
		boolLabel(result.NeedsClarification),
	).Inc()

	c.JSON(http.StatusOK, result)
}

type createPlanRequest struct {
	Text      string `json:"text" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
}

type createPlanResponse struct {
	Intent         *models.ParsedIntent   `json:"intent"`
	StructuredPlan *models.StructuredPlan `json:"structuredPlan"`
	ExecutionPlan  *models.ExecutionPlan  `json:"executionPlan"`
}

// createPlan runs the full front half of the pipeline: parse, Gate 1
// preview, and execution plan derivation. Ambiguous text comes back as 422
// with the clarification question instead of a plan.
func (s *Server) createPlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text, sessionId and userId are required"})
		return
	}

	parsed := s.parser.Parse(req.Text)
	metrics.IntentsParsed.WithLabelValues(
		string(parsed.Intent.Action),
		boolLabel(parsed.NeedsClarification),
	).Inc()
	if parsed.NeedsClarification {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"intent":        parsed.Intent,
			"clarification": parsed.Clarification,
		})
		return
	}

	structured, err := s.builder.CreateStructuredPlan(parsed.Intent, req.UserID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if s.cache != nil {
		if err := s.cache.Put(c.Request.Context(), structured); err != nil {
			s.renderError(c, err)
			return
		}
	}

	execPlan, err := s.engine.CreatePlanFromIntent(parsed.Intent, req.SessionID, req.UserID)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createPlanResponse{
		Intent:         parsed.Intent,
		StructuredPlan: structured,
		ExecutionPlan:  execPlan,
	})
}

func (s *Server) getPlan(c *gin.Context) {
	plan, err := s.engine.GetPlan(c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) cancelPlan(c *gin.Context) {
	planID := c.Param("id")
	if !s.engine.CancelPlan(planID) {
		c.JSON(http.StatusConflict, gin.H{
			"cancelled": false,
			"error":     "plan is unknown or already terminal",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true, "planId": planID})
}

func (s *Server) sessionPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": s.engine.GetPlansForSession(c.Param("id"))})
}

func (s *Server) sessionHistory(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "history is not configured"})
		return
	}
	history, err := s.archive.SessionHistory(c.Request.Context(), c.Param("id"), 20)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// renderError maps StandardError codes onto HTTP statuses.
func (s *Server) renderError(c *gin.Context, err error) {
	stdErr, ok := err.(*errors.StandardError)
	if !ok {
		s.log.Error("Unhandled API error", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch stdErr.Code {
	case errors.ErrCodePlanNotFound, errors.ErrCodeMerchantNotFound, errors.ErrCodeTemplateNotFound:
		status = http.StatusNotFound
	case errors.ErrCodePlanExpired:
		status = http.StatusGone
	case errors.ErrCodePlanTerminal:
		status = http.StatusConflict
	case errors.ErrCodeInvalidIntent, errors.ErrCodePlanEmpty, errors.ErrCodeStepParameterInvalid:
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{
		"error":   stdErr.Message,
		"code":    string(stdErr.Code),
		"details": stdErr.Details,
	})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
