// internal/executors/cardstate/handler.go
package cardstate

import (
	"context"

	"discard-copilot/internal/cards"
	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/executors"
	"discard-copilot/internal/models"
)

// FreezeHandler freezes the user's card. Freezing an already-frozen card
// succeeds; the operation is idempotent.
type FreezeHandler struct {
	store cards.Store
	log   logger.Logger
}

func NewFreezeHandler(store cards.Store, log logger.Logger) *FreezeHandler {
	return &FreezeHandler{store: store, log: log}
}

func (h *FreezeHandler) Action() string { return "freeze_card" }

func (h *FreezeHandler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	return setStatus(ctx, h.store, h.log, step, models.CardStatusFrozen)
}

// UnfreezeHandler reactivates a frozen card. Closed cards cannot be
// reactivated.
type UnfreezeHandler struct {
	store cards.Store
	log   logger.Logger
}

func NewUnfreezeHandler(store cards.Store, log logger.Logger) *UnfreezeHandler {
	return &UnfreezeHandler{store: store, log: log}
}

func (h *UnfreezeHandler) Action() string { return "unfreeze_card" }

func (h *UnfreezeHandler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	return setStatus(ctx, h.store, h.log, step, models.CardStatusActive)
}

func setStatus(ctx context.Context, store cards.Store, log logger.Logger, step *models.PlanStep, target models.CardStatus) (*models.StepResult, error) {
	card, err := store.GetCardState(ctx, executors.StringParam(step, "userId"))
	if err != nil {
		return nil, err
	}

	if card.Status == models.CardStatusClosed {
		stdErr := errors.NewCardFrozenError(card.CardID)
		return &models.StepResult{
			Success:   false,
			ErrorCode: string(stdErr.Code),
			Error:     "Card is closed and cannot change status",
		}, nil
	}

	if card.Status != target {
		if err := store.SetCardStatus(ctx, card.CardID, target); err != nil {
			return nil, err
		}
	}

	log.Info("Card status changed", map[string]interface{}{
		"cardId": card.CardID, "from": string(card.Status), "to": string(target),
	})
	return &models.StepResult{Success: true, Output: map[string]interface{}{
		"cardId": card.CardID,
		"status": string(target),
	}}, nil
}
