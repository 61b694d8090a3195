// internal/plan/engine/execute.go
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/metrics"
	"discard-copilot/internal/common/validation"
	"discard-copilot/internal/models"
)

// ExecutePlan runs one linear pass over the plan's steps in stored order.
// Steps whose dependencies are not yet satisfied are marked blocked and
// skipped for this call; a later call picks them up. A non-optional step
// failure aborts the pass and fails the plan. Cancellation and context
// expiry are honored between steps only.
func (e *Engine) ExecutePlan(ctx context.Context, planID string, sink EventSink) error {
	plan, err := e.beginRun(planID)
	if err != nil {
		return err
	}
	defer e.endRun(planID)

	metrics.PlansActive.Inc()
	defer metrics.PlansActive.Dec()

	if e.deps.Tracing != nil {
		spanCtx, planSpan := e.deps.Tracing.StartPlanSpan(ctx, planID)
		ctx = spanCtx
		defer planSpan.End()
	}

	if plan.CompletedSteps == 0 {
		e.emit(ctx, sink, plan, "", models.EventPlanStarted, "Plan execution started")
	}

	for _, step := range plan.Steps {
		if e.isCancelled(planID) || ctx.Err() != nil {
			e.finishPlan(ctx, sink, plan, models.PlanStatusCancelled,
				models.EventPlanCancelled, "Plan cancelled before next step")
			return nil
		}

		if step.Status.IsTerminal() {
			continue
		}
		if !e.depsSatisfied(plan, step) {
			e.setStepStatus(step, models.StepStatusBlocked)
			continue
		}

		if err := e.runStep(ctx, sink, plan, step); err != nil {
			e.finishPlan(ctx, sink, plan, models.PlanStatusFailed,
				models.EventPlanFailed, fmt.Sprintf("Plan failed at step %s", step.StepID))
			return err
		}
	}

	if e.hasBlockedSteps(plan) {
		// Partial pass: leave the plan executing for a follow-up call.
		e.log.Info("Plan pass ended with blocked steps remaining", map[string]interface{}{
			"planId": planID, "completed": plan.CompletedSteps, "total": plan.TotalSteps,
		})
		return nil
	}

	e.finishPlan(ctx, sink, plan, models.PlanStatusCompleted,
		models.EventPlanCompleted, "All steps completed")
	return nil
}

func (e *Engine) beginRun(planID string) (*models.ExecutionPlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.plans[planID]
	if !ok {
		return nil, errors.NewPlanNotFoundError(planID)
	}
	if entry.plan.Status.IsTerminal() {
		return nil, errors.NewPlanTerminalError(planID, string(entry.plan.Status))
	}
	if entry.running {
		return nil, fmt.Errorf("plan %s is already executing", planID)
	}

	entry.running = true
	entry.plan.Status = models.PlanStatusExecuting
	// Blocked is a per-pass verdict; re-evaluate dependencies this pass.
	for _, s := range entry.plan.Steps {
		if s.Status == models.StepStatusBlocked {
			s.Status = models.StepStatusPending
		}
	}
	return entry.plan, nil
}

func (e *Engine) endRun(planID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.plans[planID]; ok {
		entry.running = false
	}
}

// setStepStatus guards step mutations against concurrent snapshot reads.
func (e *Engine) setStepStatus(step *models.PlanStep, status models.StepStatus) {
	e.mu.Lock()
	step.Status = status
	e.mu.Unlock()
}

func (e *Engine) depsSatisfied(plan *models.ExecutionPlan, step *models.PlanStep) bool {
	for _, depID := range step.DependsOn {
		satisfied := false
		for _, other := range plan.Steps {
			if other.StepID == depID && other.Status == models.StepStatusCompleted {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

func (e *Engine) hasBlockedSteps(plan *models.ExecutionPlan) bool {
	for _, s := range plan.Steps {
		if s.Status == models.StepStatusBlocked {
			return true
		}
	}
	return false
}

// ==========================
// STEP EXECUTION
// ==========================

func (e *Engine) runStep(ctx context.Context, sink EventSink, plan *models.ExecutionPlan, step *models.PlanStep) error {
	start := time.Now()
	e.setStepStatus(step, models.StepStatusExecuting)
	e.emit(ctx, sink, plan, step.StepID, models.EventStepStarted,
		fmt.Sprintf("Executing %s", step.Action))

	if e.deps.Tracing != nil {
		stepCtx, span := e.deps.Tracing.StartStepSpan(ctx, step.StepID, step.Action)
		ctx = stepCtx
		defer span.End()
	}

	if err := e.validateParameters(step); err != nil {
		return e.failStep(ctx, sink, plan, step, err, start)
	}

	if step.RequiresSoulVerification {
		e.setStepStatus(step, models.StepStatusAwaitingApproval)
		e.emit(ctx, sink, plan, step.StepID, models.EventStepAwaitingApproval,
			fmt.Sprintf("Awaiting verification for %s", step.Action))

		if err := e.deps.Verifier.Verify(ctx, plan, step); err != nil {
			return e.failStep(ctx, sink, plan, step,
				errors.NewVerificationRejectedError(step.StepID, err), start)
		}
		e.setStepStatus(step, models.StepStatusVerifiedBySoul)
		e.emit(ctx, sink, plan, step.StepID, models.EventStepVerified,
			fmt.Sprintf("Verification approved for %s", step.Action))
	}

	executor, err := e.deps.Executors.Lookup(step.Action)
	if err != nil {
		return e.failStep(ctx, sink, plan, step, err, start)
	}

	e.setStepStatus(step, models.StepStatusExecuting)
	result, execErr := executor.Execute(ctx, step)
	duration := time.Since(start)

	metrics.StepDuration.WithLabelValues(step.Action).Observe(duration.Seconds())
	if e.deps.Obs != nil {
		e.deps.Obs.RecordStepDuration(ctx, duration, step.Action)
	}

	if execErr != nil {
		return e.failStep(ctx, sink, plan, step, execErr, start)
	}
	if result == nil {
		result = &models.StepResult{Success: true}
	}
	result.DurationMs = duration.Milliseconds()

	if !result.Success {
		failure := e.errHandler.HandleStepError(plan.PlanID, step.StepID,
			errors.NewExecutionError(step.Action, fmt.Errorf("%s: %s", result.ErrorCode, result.Error)),
			step.RetryCount, step.MaxRetries)
		result.Recoverable = failure.Recoverable
		e.mu.Lock()
		step.Result = result
		e.mu.Unlock()
		return e.markStepFailed(ctx, sink, plan, step, failure)
	}

	e.mu.Lock()
	step.Result = result
	step.Status = models.StepStatusCompleted
	plan.CompletedSteps++
	e.mu.Unlock()
	metrics.StepsExecuted.WithLabelValues(step.Action, "success").Inc()
	e.emit(ctx, sink, plan, step.StepID, models.EventStepCompleted,
		fmt.Sprintf("Completed %s", step.Action))
	return nil
}

func (e *Engine) validateParameters(step *models.PlanStep) error {
	if e.deps.Catalog == nil {
		return nil
	}
	spec := e.deps.Catalog.Find(step.Action)
	if spec == nil || spec.ParameterSchema == nil {
		return nil
	}

	result, err := validation.ValidateParameters(spec.ParameterSchema, step.Parameters)
	if err != nil {
		// Broken schema is a catalog authoring problem, not a step failure.
		e.log.Warn("Parameter schema unusable, skipping validation", map[string]interface{}{
			"action": step.Action, "error": err.Error(),
		})
		return nil
	}
	if !result.Valid {
		return errors.NewStepParameterInvalidError(step.Action, fmt.Sprintf("violations: %v", result.Errors))
	}
	return nil
}

// failStep normalizes an error into the step's result and marks it failed.
func (e *Engine) failStep(ctx context.Context, sink EventSink, plan *models.ExecutionPlan, step *models.PlanStep, stepErr error, start time.Time) error {
	failure := e.errHandler.HandleStepError(plan.PlanID, step.StepID, stepErr, step.RetryCount, step.MaxRetries)
	e.mu.Lock()
	step.Result = &models.StepResult{
		Success:     false,
		ErrorCode:   string(failure.Code),
		Error:       failure.Message,
		DurationMs:  time.Since(start).Milliseconds(),
		Recoverable: failure.Recoverable,
	}
	e.mu.Unlock()
	return e.markStepFailed(ctx, sink, plan, step, failure)
}

func (e *Engine) markStepFailed(ctx context.Context, sink EventSink, plan *models.ExecutionPlan, step *models.PlanStep, failure *errors.StepFailure) error {
	e.setStepStatus(step, models.StepStatusFailed)
	metrics.StepsExecuted.WithLabelValues(step.Action, "failure").Inc()
	e.emit(ctx, sink, plan, step.StepID, models.EventStepFailed,
		fmt.Sprintf("Step %s failed: %s", step.Action, failure.Message))

	if step.Optional {
		// Optional steps fail soft; dependents will see an unmet dependency.
		return nil
	}
	return &errors.StandardError{
		Code:      failure.Code,
		Message:   failure.Message,
		Details:   failure.Details,
		Timestamp: failure.Timestamp,
	}
}

func (e *Engine) finishPlan(ctx context.Context, sink EventSink, plan *models.ExecutionPlan, status models.PlanStatus, eventType models.PlanEventType, message string) {
	e.mu.Lock()
	plan.Status = status
	e.mu.Unlock()

	metrics.PlansCompleted.WithLabelValues(string(status)).Inc()
	if e.deps.Obs != nil {
		e.deps.Obs.RecordPlanProcessed(ctx, string(status))
	}
	e.emit(ctx, sink, plan, "", eventType, message)
	e.log.Info("Plan finished", map[string]interface{}{
		"planId":    plan.PlanID,
		"status":    string(status),
		"completed": plan.CompletedSteps,
		"total":     plan.TotalSteps,
	})
}

func (e *Engine) emit(ctx context.Context, sink EventSink, plan *models.ExecutionPlan, stepID string, eventType models.PlanEventType, message string) {
	if sink == nil {
		return
	}
	sink.Publish(ctx, &models.PlanExecutionEvent{
		EventID:   uuid.New().String(),
		PlanID:    plan.PlanID,
		StepID:    stepID,
		EventType: eventType,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
