// internal/executors/balancecheck/handler.go
package balancecheck

import (
	"context"

	"discard-copilot/internal/cards"
	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/executors"
	"discard-copilot/internal/models"
)

// Handler verifies that the user's card/wallet balance covers the intended
// amount before any spending step runs.
type Handler struct {
	store cards.Store
	log   logger.Logger
}

func NewHandler(store cards.Store, log logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) Action() string { return "check_balance" }

func (h *Handler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	card, err := h.store.GetCardState(ctx, executors.StringParam(step, "userId"))
	if err != nil {
		return nil, err
	}

	output := map[string]interface{}{
		"cardId":       card.CardID,
		"balanceCents": card.BalanceCents,
		"currency":     card.Currency,
	}

	amount, hasAmount := executors.AmountCents(step)
	if hasAmount && amount > card.BalanceCents {
		h.log.Info("Balance check failed", map[string]interface{}{
			"cardId": card.CardID, "balanceCents": card.BalanceCents, "amountCents": amount,
		})
		stdErr := errors.NewInsufficientBalanceError(card.CardID, card.BalanceCents, amount)
		return &models.StepResult{
			Success:   false,
			Output:    output,
			ErrorCode: string(stdErr.Code),
			Error:     stdErr.Message,
		}, nil
	}

	return &models.StepResult{Success: true, Output: output}, nil
}
