// internal/api/stream.go
package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"discard-copilot/internal/models"
	"discard-copilot/internal/plan/engine"
)

type executeRequest struct {
	// StructuredPlanID references the Gate 1 preview being approved. When
	// set, the preview is consumed so it cannot authorize a second run.
	StructuredPlanID string `json:"structuredPlanId"`
}

// channelSink bridges engine events into the SSE response, forwarding to
// the audit sink along the way.
type channelSink struct {
	ch    chan *models.PlanExecutionEvent
	audit engine.EventSink
}

func (s *channelSink) Publish(ctx context.Context, event *models.PlanExecutionEvent) {
	if s.audit != nil {
		s.audit.Publish(ctx, event)
	}
	s.ch <- event
}

// executePlan runs the plan and streams its lifecycle events as SSE until
// the run finishes.
func (s *Server) executePlan(c *gin.Context) {
	planID := c.Param("id")

	var req executeRequest
	// The body is optional; an empty body means no Gate 1 approval to consume.
	_ = c.ShouldBindJSON(&req)

	if req.StructuredPlanID != "" && s.cache != nil {
		if _, err := s.cache.Consume(c.Request.Context(), req.StructuredPlanID); err != nil {
			s.renderError(c, err)
			return
		}
	}

	if _, err := s.engine.GetPlan(planID); err != nil {
		s.renderError(c, err)
		return
	}

	sink := &channelSink{ch: make(chan *models.PlanExecutionEvent, 64), audit: s.audit}
	done := make(chan error, 1)

	go func() {
		defer close(sink.ch)
		done <- s.engine.ExecutePlan(c.Request.Context(), planID, sink)
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	c.Stream(func(w io.Writer) bool {
		event, ok := <-sink.ch
		if !ok {
			return false
		}
		c.SSEvent(string(event.EventType), event)
		return true
	})

	if err := <-done; err != nil {
		// The failure was already streamed as plan_failed; log for operators.
		s.log.Error("Plan execution failed", map[string]interface{}{
			"planId": planID, "error": err.Error(),
		})
	}

	if s.archive != nil {
		if plan, err := s.engine.GetPlan(planID); err == nil && plan.Status.IsTerminal() {
			if err := s.archive.StorePlan(c.Request.Context(), plan); err != nil {
				s.log.Error("Failed to archive plan", map[string]interface{}{
					"planId": planID, "error": err.Error(),
				})
			}
		}
	}
}
