// internal/plan/builder/risk.go
package builder

import "discard-copilot/internal/models"

// Spend thresholds for the risk grading table, in cents.
const (
	criticalSpendCents = 500_000 // $5,000
	elevatedSpendCents = 100_000 // $1,000
)

// spendClass buckets step actions by how their spend grades into risk.
type spendClass int

const (
	classReadOnly spendClass = iota // observes state, moves no value
	classCustody                    // leaves the user's custody: transfer, defi withdrawal
	classInternal                   // stays inside the product: card load, swap
	classValued                     // any other action that spends the intent amount
)

func classify(action string) spendClass {
	switch action {
	case "execute_transfer", "withdraw_defi":
		return classCustody
	case "fund_card", "execute_swap":
		return classInternal
	case "check_balance", "policy_check", "merchant_screen", "notify_user",
		"view_transactions", "freeze_card", "unfreeze_card", "create_card",
		"get_help", "create_dca", "create_goal", "create_savings_rule",
		"set_spending_limit":
		return classReadOnly
	default:
		return classValued
	}
}

// estimateStepCost grades one step. Read-only steps carry a zero spend
// ceiling and low risk; every other step gets an amount-derived ceiling, and
// $5,000 and up is critical no matter the action. Custody and internal
// actions grade per their own thresholds; remaining valued actions stay low
// below the critical line. For swaps the ceiling includes the worst-case
// slippage on top of the amount.
func (b *Builder) estimateStepCost(action string, amountCents int64) models.EstimatedCost {
	class := classify(action)
	if class == classReadOnly || amountCents <= 0 {
		return models.EstimatedCost{RiskLevel: models.RiskLow}
	}

	cost := models.EstimatedCost{MaxSpendCents: amountCents}
	if action == "execute_swap" {
		cost.MaxSlippageBps = b.cfg.DefaultSlippageBps
		cost.MaxSpendCents += ceilBps(amountCents, b.cfg.DefaultSlippageBps)
	}

	switch {
	case amountCents >= criticalSpendCents:
		cost.RiskLevel = models.RiskCritical
	case class == classCustody && amountCents >= elevatedSpendCents:
		cost.RiskLevel = models.RiskHigh
	case class == classCustody:
		cost.RiskLevel = models.RiskMedium
	case class == classInternal && amountCents >= elevatedSpendCents:
		cost.RiskLevel = models.RiskMedium
	default:
		cost.RiskLevel = models.RiskLow
	}
	return cost
}

// estimateFees sums the fee estimate over all spending steps: a flat network
// fee per step plus the basis-point fee where the action family carries one,
// 0.3% platform on transfers and card loads, 0.25% on swaps. Other spending
// actions pay the network fee only.
func (b *Builder) estimateFees(steps []models.StructuredStep) int64 {
	var total int64
	for _, s := range steps {
		if s.EstimatedCost.MaxSpendCents == 0 {
			continue
		}
		total += b.fees.NetworkFeeCents

		switch s.Action {
		case "execute_transfer", "fund_card":
			total += ceilBps(s.EstimatedCost.MaxSpendCents, b.fees.PlatformFeeBps)
		case "execute_swap":
			// Fee applies to the amount, not the slippage-padded ceiling.
			base := s.EstimatedCost.MaxSpendCents
			if s.EstimatedCost.MaxSlippageBps > 0 {
				base = unpadSlippage(base, s.EstimatedCost.MaxSlippageBps)
			}
			total += ceilBps(base, b.fees.SwapFeeBps)
		}
	}
	return total
}

// ceilBps computes ceil(amount * bps / 10000).
func ceilBps(amountCents int64, bps int) int64 {
	if bps <= 0 || amountCents <= 0 {
		return 0
	}
	return (amountCents*int64(bps) + 9999) / 10000
}

// unpadSlippage recovers the original amount from a slippage-padded ceiling.
// padded = a + ceil(a*bps/10000), so dividing back out is exact enough for a
// fee estimate.
func unpadSlippage(paddedCents int64, bps int) int64 {
	return paddedCents * 10000 / (10000 + int64(bps))
}
