// internal/models/structured.go
package models

import "time"

// RiskLevel is a totally ordered enum: low < medium < high < critical.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// Rank returns the position of the level in the total order.
func (r RiskLevel) Rank() int {
	return riskRank[r]
}

// AtLeast reports whether r >= other in the risk order.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return riskRank[r] >= riskRank[other]
}

// MaxRisk returns the greater of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}

// EstimatedCost is the per-step spend/risk estimate produced by Gate 1.
type EstimatedCost struct {
	MaxSpendCents  int64     `json:"maxSpendCents"`
	MaxSlippageBps int       `json:"maxSlippageBps"`
	RiskLevel      RiskLevel `json:"riskLevel"`
}

// StructuredStep is one advisory step of a StructuredPlan.
type StructuredStep struct {
	StepID                   string        `json:"stepId"`
	Sequence                 int           `json:"sequence"`
	Action                   string        `json:"action"`
	Description              string        `json:"description,omitempty"`
	EstimatedCost            EstimatedCost `json:"estimatedCost"`
	DependsOn                []string      `json:"dependsOn"`
	RequiresSoulVerification bool          `json:"requiresSoulVerification"`
	RequiresUserApproval     bool          `json:"requiresUserApproval"`
	SimulationRequired       bool          `json:"simulationRequired"`
	Status                   StepStatus    `json:"status"`
}

// StructuredPlan is the Gate 1 advisory artifact: a cost/risk recap shown to
// the user before any execution commitment. It carries a fixed 30-minute
// expiry, is consumed exactly once by an approval step or discarded, and is
// never mutated; an approved plan is re-derived into a fresh ExecutionPlan.
type StructuredPlan struct {
	PlanID                 string           `json:"planId"`
	IntentID               string           `json:"intentId"`
	UserID                 string           `json:"userId"`
	GoalRecap              string           `json:"goalRecap"`
	Steps                  []StructuredStep `json:"steps"`
	TotalMaxSpendCents     int64            `json:"totalMaxSpendCents"`
	TotalEstimatedFeeCents int64            `json:"totalEstimatedFeeCents"`
	OverallRiskLevel       RiskLevel        `json:"overallRiskLevel"`
	ExpectedOutcome        string           `json:"expectedOutcome"`
	CreatedAt              time.Time        `json:"createdAt"`
	ExpiresAt              time.Time        `json:"expiresAt"`
}

// IsExpired reports whether the plan is past its expiry. An expired plan is
// permanently invalid for execution and must be re-derived, never extended.
func (p *StructuredPlan) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
