// internal/executors/policycheck/handler.go
package policycheck

import (
	"context"

	"discard-copilot/internal/cards"
	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/executors"
	"discard-copilot/internal/models"
)

// Handler enforces the card's spending policy: status, per-transaction
// limit and the rolling daily/monthly caps tracked by the velocity store.
type Handler struct {
	store    cards.Store
	velocity cards.VelocityStore
	log      logger.Logger
}

func NewHandler(store cards.Store, velocity cards.VelocityStore, log logger.Logger) *Handler {
	return &Handler{store: store, velocity: velocity, log: log}
}

func (h *Handler) Action() string { return "policy_check" }

func (h *Handler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	card, err := h.store.GetCardState(ctx, executors.StringParam(step, "userId"))
	if err != nil {
		return nil, err
	}

	amount, _ := executors.AmountCents(step)

	if violation := h.evaluate(ctx, card, amount); violation != nil {
		h.log.Info("Policy check rejected step", map[string]interface{}{
			"cardId":      card.CardID,
			"amountCents": amount,
			"errorCode":   string(violation.Code),
		})
		return &models.StepResult{
			Success:   false,
			ErrorCode: string(violation.Code),
			Error:     violation.Message,
		}, nil
	}

	return &models.StepResult{Success: true, Output: map[string]interface{}{
		"cardId": card.CardID,
	}}, nil
}

// evaluate returns the first policy violation, in a fixed order: frozen
// card, per-transaction limit, daily cap, monthly cap.
func (h *Handler) evaluate(ctx context.Context, card *models.CardState, amountCents int64) *errors.StandardError {
	if card.IsFrozen() {
		return errors.NewCardFrozenError(card.CardID)
	}
	if amountCents <= 0 {
		return nil
	}
	if card.PerTxLimitCents > 0 && amountCents > card.PerTxLimitCents {
		return errors.NewLimitExceededError(errors.ErrCodePerTxLimitExceeded, card.CardID, card.PerTxLimitCents, amountCents)
	}

	usage, err := h.velocity.Usage(ctx, card.CardID)
	if err != nil {
		// The velocity store is advisory; a Redis outage must not block
		// spending, only skip the rolling caps.
		h.log.Warn("Velocity store unavailable, skipping rolling caps", map[string]interface{}{
			"cardId": card.CardID, "error": err.Error(),
		})
		return nil
	}

	if card.DailyLimitCents > 0 && usage.DailySpentCents+amountCents > card.DailyLimitCents {
		return errors.NewLimitExceededError(errors.ErrCodeDailyLimitExceeded, card.CardID, card.DailyLimitCents, usage.DailySpentCents+amountCents)
	}
	if card.MonthlyLimitCents > 0 && usage.MonthlySpentCents+amountCents > card.MonthlyLimitCents {
		return errors.NewLimitExceededError(errors.ErrCodeMonthlyLimitExceeded, card.CardID, card.MonthlyLimitCents, usage.MonthlySpentCents+amountCents)
	}
	return nil
}
