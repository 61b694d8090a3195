// internal/executors/cardfund/handler.go
package cardfund

import (
	"context"

	"discard-copilot/internal/cards"
	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/executors"
	"discard-copilot/internal/models"
)

// Handler loads funds onto the card and records the movement against the
// card's velocity windows.
type Handler struct {
	store    cards.Store
	velocity cards.VelocityStore
	log      logger.Logger
}

func NewHandler(store cards.Store, velocity cards.VelocityStore, log logger.Logger) *Handler {
	return &Handler{store: store, velocity: velocity, log: log}
}

func (h *Handler) Action() string { return "fund_card" }

func (h *Handler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	amount, ok := executors.AmountCents(step)
	if !ok || amount <= 0 {
		stdErr := errors.NewStepParameterInvalidError(h.Action(), "amountCents must be a positive integer")
		return &models.StepResult{
			Success:   false,
			ErrorCode: string(stdErr.Code),
			Error:     stdErr.Message,
		}, nil
	}

	card, err := h.store.GetCardState(ctx, executors.StringParam(step, "userId"))
	if err != nil {
		return nil, err
	}

	newBalance, err := h.store.AdjustBalance(ctx, card.CardID, amount)
	if err != nil {
		return nil, err
	}

	if err := h.velocity.RecordSpend(ctx, card.CardID, amount); err != nil {
		// The load already happened; a lost velocity sample is tolerable.
		h.log.Warn("Failed to record velocity for card load", map[string]interface{}{
			"cardId": card.CardID, "amountCents": amount, "error": err.Error(),
		})
	}

	h.log.Info("Card funded", map[string]interface{}{
		"cardId": card.CardID, "amountCents": amount, "newBalanceCents": newBalance,
	})
	return &models.StepResult{Success: true, Output: map[string]interface{}{
		"cardId":          card.CardID,
		"amountCents":     amount,
		"newBalanceCents": newBalance,
	}}, nil
}
