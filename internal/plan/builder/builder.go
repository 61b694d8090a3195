// internal/plan/builder/builder.go
package builder

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"discard-copilot/internal/common/config"
	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/plan/templates"
	"discard-copilot/internal/models"
)

// StructuredPlanTTL is how long an advisory plan stays approvable. Expired
// plans are re-derived from the intent, never extended.
const StructuredPlanTTL = 30 * time.Minute

// ==========================
// BUILDER
// ==========================

// Builder produces the advisory StructuredPlan shown to the user before any
// execution commitment: per-step spend ceilings, slippage bounds, a risk
// grade and a fee estimate.
type Builder struct {
	cfg      config.PlannerConfig
	fees     config.FeeConfig
	registry *templates.Registry
	log      logger.Logger
}

func New(cfg config.PlannerConfig, fees config.FeeConfig, registry *templates.Registry, log logger.Logger) *Builder {
	return &Builder{cfg: cfg, fees: fees, registry: registry, log: log}
}

// CreateStructuredPlan derives the advisory plan for an intent. Template
// actions expand to their full recipe; everything else becomes a synthetic
// single-step plan.
func (b *Builder) CreateStructuredPlan(intent *models.ParsedIntent, userID string) (*models.StructuredPlan, error) {
	if intent == nil || !intent.Action.IsValid() || intent.Action == models.ActionUnknown {
		return nil, errors.NewInvalidIntentError("action is unknown or invalid")
	}

	now := time.Now().UTC()
	plan := &models.StructuredPlan{
		PlanID:    uuid.New().String(),
		IntentID:  intent.IntentID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(StructuredPlanTTL),
	}

	if tpl := b.registry.Find(intent.Action); tpl != nil {
		b.expandTemplate(plan, tpl, intent)
	} else {
		b.expandSynthetic(plan, intent)
	}

	b.aggregate(plan, intent)

	b.log.Info("Structured plan created", map[string]interface{}{
		"planId":        plan.PlanID,
		"intentId":      intent.IntentID,
		"action":        string(intent.Action),
		"steps":         len(plan.Steps),
		"totalMaxSpend": plan.TotalMaxSpendCents,
		"overallRisk":   string(plan.OverallRiskLevel),
	})
	return plan, nil
}

func (b *Builder) expandTemplate(plan *models.StructuredPlan, tpl *templates.Template, intent *models.ParsedIntent) {
	stepIDs := make([]string, len(tpl.Steps))
	for i := range tpl.Steps {
		stepIDs[i] = uuid.New().String()
	}

	for i, ts := range tpl.Steps {
		cost := b.estimateStepCost(ts.Action, intent.AmountCents())

		deps := make([]string, 0, len(ts.DependsOn))
		for _, idx := range ts.DependsOn {
			deps = append(deps, stepIDs[idx])
		}

		plan.Steps = append(plan.Steps, models.StructuredStep{
			StepID:                   stepIDs[i],
			Sequence:                 i,
			Action:                   ts.Action,
			Description:              ts.Description,
			EstimatedCost:            cost,
			DependsOn:                deps,
			RequiresSoulVerification: ts.RequiresSoulVerification,
			RequiresUserApproval:     stepNeedsApproval(cost),
			SimulationRequired:       cost.MaxSpendCents >= b.cfg.SimulationThresholdCents,
			Status:                   models.StepStatusPending,
		})
	}
}

func (b *Builder) expandSynthetic(plan *models.StructuredPlan, intent *models.ParsedIntent) {
	cost := b.estimateStepCost(string(intent.Action), intent.AmountCents())
	plan.Steps = append(plan.Steps, models.StructuredStep{
		StepID:               uuid.New().String(),
		Sequence:             0,
		Action:               string(intent.Action),
		Description:          fmt.Sprintf("Perform %s", strings.ReplaceAll(string(intent.Action), "_", " ")),
		EstimatedCost:        cost,
		DependsOn:            []string{},
		RequiresUserApproval: stepNeedsApproval(cost),
		SimulationRequired:   cost.MaxSpendCents >= b.cfg.SimulationThresholdCents,
		Status:               models.StepStatusPending,
	})
}

func (b *Builder) aggregate(plan *models.StructuredPlan, intent *models.ParsedIntent) {
	overall := models.RiskLow
	for _, s := range plan.Steps {
		plan.TotalMaxSpendCents += s.EstimatedCost.MaxSpendCents
		overall = models.MaxRisk(overall, s.EstimatedCost.RiskLevel)
	}

	// Many medium steps can still add up to a dangerous total.
	switch {
	case plan.TotalMaxSpendCents >= criticalSpendCents:
		overall = models.RiskCritical
	case plan.TotalMaxSpendCents >= elevatedSpendCents:
		overall = models.MaxRisk(overall, models.RiskHigh)
	}
	plan.OverallRiskLevel = overall

	plan.TotalEstimatedFeeCents = b.estimateFees(plan.Steps)
	plan.GoalRecap = describeIntent(intent)
	plan.ExpectedOutcome = describeOutcome(intent, plan)
}

// Step approval tracks risk alone: high and critical steps always stop for
// the user. The plan-level approval default is applied by the engine when the
// execution plan is derived, never as a per-step override here.
func stepNeedsApproval(cost models.EstimatedCost) bool {
	return cost.RiskLevel.AtLeast(models.RiskHigh)
}

// ==========================
// DESCRIPTIONS
// ==========================

func describeIntent(intent *models.ParsedIntent) string {
	action := strings.ReplaceAll(string(intent.Action), "_", " ")
	if intent.Amount == nil {
		return strings.ToUpper(action[:1]) + action[1:]
	}
	recap := fmt.Sprintf("%s: $%.2f %s", strings.ToUpper(action[:1])+action[1:], float64(*intent.Amount)/100, intent.Currency)
	if intent.Merchant != "" {
		recap += " to " + intent.Merchant
	}
	return recap
}

func describeOutcome(intent *models.ParsedIntent, plan *models.StructuredPlan) string {
	if plan.TotalMaxSpendCents == 0 {
		return fmt.Sprintf("Completes %s with no funds moved", strings.ReplaceAll(string(intent.Action), "_", " "))
	}
	return fmt.Sprintf(
		"Moves up to $%.2f with an estimated $%.2f in fees across %d steps",
		float64(plan.TotalMaxSpendCents)/100,
		float64(plan.TotalEstimatedFeeCents)/100,
		len(plan.Steps),
	)
}
