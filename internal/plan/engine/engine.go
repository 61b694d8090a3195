// internal/plan/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"discard-copilot/internal/common/config"
	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/common/metrics"
	"discard-copilot/internal/common/observability"
	"discard-copilot/internal/executors"
	"discard-copilot/internal/plan/templates"
	"discard-copilot/internal/models"
	"discard-copilot/pkg/registry"
)

// EventSink receives every plan/step lifecycle event of an execution run.
// Publish must not block for long; slow consumers should buffer.
type EventSink interface {
	Publish(ctx context.Context, event *models.PlanExecutionEvent)
}

// Deps bundles the engine's collaborators. Catalog, Tracing and Obs are
// optional; the engine works without them.
type Deps struct {
	Templates *templates.Registry
	Executors *executors.Registry
	Verifier  Verifier
	Catalog   *registry.ActionCatalog
	Tracing   *observability.Tracing
	Obs       *observability.Observability
	Logger    logger.Logger
}

// ==========================
// ENGINE
// ==========================

// Engine owns the execution plans: it derives them from intents, runs them
// one linear pass at a time in stored step order, and serves lookups.
// Cancellation is cooperative: a cancel request takes effect between steps,
// never mid-step.
type Engine struct {
	mu       sync.RWMutex
	plans    map[string]*planEntry
	sessions map[string][]string

	cfg        config.PlannerConfig
	deps       Deps
	errHandler *errors.ErrorHandler
	log        logger.Logger
}

type planEntry struct {
	plan      *models.ExecutionPlan
	cancelled bool
	running   bool
}

func New(cfg config.PlannerConfig, deps Deps) *Engine {
	return &Engine{
		plans:      make(map[string]*planEntry),
		sessions:   make(map[string][]string),
		cfg:        cfg,
		deps:       deps,
		errHandler: errors.NewErrorHandler(deps.Logger),
		log:        deps.Logger,
	}
}

// ==========================
// PLAN CREATION
// ==========================

// CreatePlanFromIntent derives a runnable plan. Template actions expand to
// their full recipe with dependencies rewritten from indices to step ids;
// any other valid action becomes a single-step plan.
func (e *Engine) CreatePlanFromIntent(intent *models.ParsedIntent, sessionID, userID string) (*models.ExecutionPlan, error) {
	if intent == nil || !intent.Action.IsValid() || intent.Action == models.ActionUnknown {
		return nil, errors.NewInvalidIntentError("action is unknown or invalid")
	}

	plan := &models.ExecutionPlan{
		PlanID:         uuid.New().String(),
		SessionID:      sessionID,
		UserID:         userID,
		OriginalIntent: *intent,
		Status:         models.PlanStatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	if tpl := e.deps.Templates.Find(intent.Action); tpl != nil {
		e.expandTemplate(plan, tpl, intent)
	} else {
		plan.Steps = append(plan.Steps, &models.PlanStep{
			StepID:      uuid.New().String(),
			Sequence:    0,
			Action:      string(intent.Action),
			Description: fmt.Sprintf("Perform %s", strings.ReplaceAll(string(intent.Action), "_", " ")),
			Parameters:  templates.BuildParameters(templates.TemplateStep{ParameterKeys: []string{"amountCents", "currency", "merchant", "intentId"}}, intent),
			DependsOn:   []string{},
			Status:      models.StepStatusPending,
			MaxRetries:  e.cfg.MaxRetries,
		})
	}

	if len(plan.Steps) == 0 {
		return nil, errors.NewPlanEmptyError(plan.PlanID)
	}

	// Executors act on behalf of a user; every step carries the identity.
	for _, s := range plan.Steps {
		s.Parameters["userId"] = userID
		s.Parameters["planId"] = plan.PlanID
	}
	plan.TotalSteps = len(plan.Steps)
	// The config default decides plan-level approval; a soul-verified step
	// forces it on regardless.
	plan.RequiresApproval = e.cfg.RequireApprovalByDefault
	for _, s := range plan.Steps {
		if s.RequiresSoulVerification {
			plan.RequiresApproval = true
			break
		}
	}

	e.mu.Lock()
	e.plans[plan.PlanID] = &planEntry{plan: plan}
	e.sessions[sessionID] = append(e.sessions[sessionID], plan.PlanID)
	e.mu.Unlock()

	metrics.PlansCreated.WithLabelValues(string(intent.Action)).Inc()
	e.log.Info("Execution plan created", map[string]interface{}{
		"planId":    plan.PlanID,
		"sessionId": sessionID,
		"action":    string(intent.Action),
		"steps":     plan.TotalSteps,
	})
	return plan.Clone(), nil
}

func (e *Engine) expandTemplate(plan *models.ExecutionPlan, tpl *templates.Template, intent *models.ParsedIntent) {
	stepIDs := make([]string, len(tpl.Steps))
	for i := range tpl.Steps {
		stepIDs[i] = uuid.New().String()
	}

	for i, ts := range tpl.Steps {
		deps := make([]string, 0, len(ts.DependsOn))
		for _, idx := range ts.DependsOn {
			deps = append(deps, stepIDs[idx])
		}

		maxRetries := ts.MaxRetries
		if maxRetries == 0 {
			maxRetries = e.cfg.MaxRetries
		}

		plan.Steps = append(plan.Steps, &models.PlanStep{
			StepID:                   stepIDs[i],
			Sequence:                 i,
			Action:                   ts.Action,
			Description:              ts.Description,
			Parameters:               templates.BuildParameters(ts, intent),
			DependsOn:                deps,
			RequiresSoulVerification: ts.RequiresSoulVerification,
			Optional:                 ts.Optional,
			Status:                   models.StepStatusPending,
			MaxRetries:               maxRetries,
		})
	}
}

// ==========================
// LOOKUPS
// ==========================

// GetPlan returns a detached snapshot of the plan. Callers get a deep copy
// so a concurrent run can keep mutating the live plan safely.
func (e *Engine) GetPlan(planID string) (*models.ExecutionPlan, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.plans[planID]
	if !ok {
		return nil, errors.NewPlanNotFoundError(planID)
	}
	return entry.plan.Clone(), nil
}

// GetPlansForSession returns snapshots of the session's plans in creation
// order.
func (e *Engine) GetPlansForSession(sessionID string) []*models.ExecutionPlan {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := e.sessions[sessionID]
	plans := make([]*models.ExecutionPlan, 0, len(ids))
	for _, id := range ids {
		if entry, ok := e.plans[id]; ok {
			plans = append(plans, entry.plan.Clone())
		}
	}
	return plans
}

// ==========================
// CANCELLATION
// ==========================

// CancelPlan requests cooperative cancellation. It returns true when the
// request was accepted, false for unknown or already-terminal plans. A
// running plan stops between steps; a pending plan is cancelled in place.
func (e *Engine) CancelPlan(planID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.plans[planID]
	if !ok || entry.plan.Status.IsTerminal() {
		return false
	}

	entry.cancelled = true
	if !entry.running {
		entry.plan.Status = models.PlanStatusCancelled
		metrics.PlansCompleted.WithLabelValues(string(models.PlanStatusCancelled)).Inc()
	}
	e.log.Info("Plan cancellation requested", map[string]interface{}{"planId": planID})
	return true
}

func (e *Engine) isCancelled(planID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.plans[planID]
	return ok && entry.cancelled
}
