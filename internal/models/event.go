// internal/models/event.go
package models

import "time"

// PlanEventType is the fixed vocabulary of execution lifecycle events.
type PlanEventType string

const (
	EventPlanStarted          PlanEventType = "plan_started"
	EventPlanCompleted        PlanEventType = "plan_completed"
	EventPlanFailed           PlanEventType = "plan_failed"
	EventPlanCancelled        PlanEventType = "plan_cancelled"
	EventStepStarted          PlanEventType = "step_started"
	EventStepAwaitingApproval PlanEventType = "step_awaiting_approval"
	EventStepVerified         PlanEventType = "step_verified"
	EventStepCompleted        PlanEventType = "step_completed"
	EventStepFailed           PlanEventType = "step_failed"
)

// PlanExecutionEvent is emitted on every plan/step transition through the
// caller-supplied sink. StepID is empty for plan-level events.
type PlanExecutionEvent struct {
	EventID   string        `json:"eventId"`
	PlanID    string        `json:"planId"`
	StepID    string        `json:"stepId,omitempty"`
	EventType PlanEventType `json:"eventType"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
}
