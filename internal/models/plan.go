// internal/models/plan.go
package models

import "time"

// PlanStatus is the lifecycle state of an ExecutionPlan.
type PlanStatus string

const (
	PlanStatusPending   PlanStatus = "pending"
	PlanStatusExecuting PlanStatus = "executing"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusFailed    PlanStatus = "failed"
	PlanStatusCancelled PlanStatus = "cancelled"
)

// IsTerminal reports whether the plan can make no further progress.
func (s PlanStatus) IsTerminal() bool {
	switch s {
	case PlanStatusCompleted, PlanStatusFailed, PlanStatusCancelled:
		return true
	}
	return false
}

// StepStatus is the lifecycle state of a PlanStep. Transitions are monotonic:
// a step never returns to an earlier state.
type StepStatus string

const (
	StepStatusPending          StepStatus = "pending"
	StepStatusBlocked          StepStatus = "blocked"
	StepStatusExecuting        StepStatus = "executing"
	StepStatusAwaitingApproval StepStatus = "awaiting_approval"
	StepStatusVerifiedBySoul   StepStatus = "verified_by_soul"
	StepStatusCompleted        StepStatus = "completed"
	StepStatusFailed           StepStatus = "failed"
)

// IsTerminal reports whether the step has finished, one way or the other.
func (s StepStatus) IsTerminal() bool {
	return s == StepStatusCompleted || s == StepStatusFailed
}

// StepResult captures the outcome of one executor invocation.
// Recoverable is informational: it tells an outer retry supervisor whether the
// step had retry budget left; the engine itself never auto-retries.
type StepResult struct {
	Success     bool                   `json:"success"`
	Output      map[string]interface{} `json:"output,omitempty"`
	ErrorCode   string                 `json:"errorCode,omitempty"`
	Error       string                 `json:"error,omitempty"`
	DurationMs  int64                  `json:"durationMs"`
	Recoverable bool                   `json:"recoverable"`
}

// PlanStep is one unit of work inside an ExecutionPlan.
// DependsOn holds step ids that must complete before this step may run.
// RetryCount/MaxRetries are a data contract for an external retry supervisor,
// not auto-enacted by the execution engine.
type PlanStep struct {
	StepID                   string                 `json:"stepId"`
	Sequence                 int                    `json:"sequence"`
	Action                   string                 `json:"action"`
	Description              string                 `json:"description,omitempty"`
	Parameters               map[string]interface{} `json:"parameters"`
	DependsOn                []string               `json:"dependsOn"`
	RequiresSoulVerification bool                   `json:"requiresSoulVerification"`
	Optional                 bool                   `json:"optional,omitempty"`
	Status                   StepStatus             `json:"status"`
	RetryCount               int                    `json:"retryCount"`
	MaxRetries               int                    `json:"maxRetries"`
	Result                   *StepResult            `json:"result,omitempty"`
}

func (s *PlanStep) clone() *PlanStep {
	out := *s
	out.DependsOn = append([]string(nil), s.DependsOn...)
	if s.Parameters != nil {
		out.Parameters = make(map[string]interface{}, len(s.Parameters))
		for k, v := range s.Parameters {
			out.Parameters[k] = v
		}
	}
	if s.Result != nil {
		result := *s.Result
		if s.Result.Output != nil {
			result.Output = make(map[string]interface{}, len(s.Result.Output))
			for k, v := range s.Result.Output {
				result.Output[k] = v
			}
		}
		out.Result = &result
	}
	return &out
}

// ExecutionPlan is the runnable artifact derived from an accepted intent.
// It is created once, exclusively owned by the single run processing it, and
// never mutated after reaching a terminal status.
type ExecutionPlan struct {
	PlanID           string       `json:"planId"`
	SessionID        string       `json:"sessionId"`
	UserID           string       `json:"userId"`
	OriginalIntent   ParsedIntent `json:"originalIntent"`
	Steps            []*PlanStep  `json:"steps"`
	Status           PlanStatus   `json:"status"`
	TotalSteps       int          `json:"totalSteps"`
	CompletedSteps   int          `json:"completedSteps"`
	RequiresApproval bool         `json:"requiresApproval"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// Clone returns a deep copy detached from the live plan, safe to serialize
// while the original keeps executing.
func (p *ExecutionPlan) Clone() *ExecutionPlan {
	out := *p
	if p.OriginalIntent.Amount != nil {
		amount := *p.OriginalIntent.Amount
		out.OriginalIntent.Amount = &amount
	}
	out.OriginalIntent.Entities = append([]ExtractedEntity(nil), p.OriginalIntent.Entities...)
	out.Steps = make([]*PlanStep, len(p.Steps))
	for i, s := range p.Steps {
		out.Steps[i] = s.clone()
	}
	return &out
}
