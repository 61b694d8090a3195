// internal/executors/merchantpay/handler.go
package merchantpay

import (
	"context"

	"github.com/google/uuid"

	"discard-copilot/internal/cards"
	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/executors"
	"discard-copilot/internal/merchants"
	"discard-copilot/internal/models"
)

// ==========================
// MERCHANT SCREENING
// ==========================

// ScreenHandler resolves the merchant name against the registry and rejects
// blocked, inactive or miscategorized merchants before any payment step.
type ScreenHandler struct {
	merchants merchants.Store
	log       logger.Logger
}

func NewScreenHandler(store merchants.Store, log logger.Logger) *ScreenHandler {
	return &ScreenHandler{merchants: store, log: log}
}

func (h *ScreenHandler) Action() string { return "merchant_screen" }

func (h *ScreenHandler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	name := executors.StringParam(step, "merchant")
	if name == "" {
		stdErr := errors.NewStepParameterInvalidError(h.Action(), "merchant name is required")
		return failure(stdErr), nil
	}

	merchant, err := h.merchants.GetByName(ctx, name)
	if err != nil {
		if stdErr, ok := err.(*errors.StandardError); ok && stdErr.Code == errors.ErrCodeMerchantNotFound {
			return failure(stdErr), nil
		}
		return nil, err
	}

	if violation := screen(merchant); violation != nil {
		h.log.Info("Merchant screening rejected payment", map[string]interface{}{
			"merchant": merchant.Name, "riskTier": merchant.RiskTier, "errorCode": string(violation.Code),
		})
		return failure(violation), nil
	}

	return &models.StepResult{Success: true, Output: map[string]interface{}{
		"merchantId":     merchant.ID,
		"visaMerchantId": merchant.VisaMerchantID,
		"mcc":            merchant.MCC,
		"riskTier":       merchant.RiskTier,
	}}, nil
}

func screen(m *models.Merchant) *errors.StandardError {
	if !models.ValidMCC(m.MCC) {
		return errors.NewInvalidMCCError(m.MCC)
	}
	if !m.Active || m.RiskTier == models.MerchantRiskBlocked {
		return errors.NewMerchantBlockedError(m.Name, m.RiskTier, m.Active)
	}
	return nil
}

// ==========================
// PAYMENT
// ==========================

// PayHandler authorizes the payment: re-screens the merchant, debits the
// card and records the spend against the velocity windows.
type PayHandler struct {
	merchants merchants.Store
	cards     cards.Store
	velocity  cards.VelocityStore
	log       logger.Logger
}

func NewPayHandler(merchantStore merchants.Store, cardStore cards.Store, velocity cards.VelocityStore, log logger.Logger) *PayHandler {
	return &PayHandler{merchants: merchantStore, cards: cardStore, velocity: velocity, log: log}
}

func (h *PayHandler) Action() string { return "pay_merchant" }

func (h *PayHandler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	amount, ok := executors.AmountCents(step)
	if !ok || amount <= 0 {
		return failure(errors.NewStepParameterInvalidError(h.Action(), "amountCents must be a positive integer")), nil
	}
	name := executors.StringParam(step, "merchant")
	if name == "" {
		return failure(errors.NewStepParameterInvalidError(h.Action(), "merchant name is required")), nil
	}

	merchant, err := h.merchants.GetByName(ctx, name)
	if err != nil {
		if stdErr, ok := err.(*errors.StandardError); ok && stdErr.Code == errors.ErrCodeMerchantNotFound {
			return failure(stdErr), nil
		}
		return nil, err
	}
	if violation := screen(merchant); violation != nil {
		return failure(violation), nil
	}

	card, err := h.cards.GetCardState(ctx, executors.StringParam(step, "userId"))
	if err != nil {
		return nil, err
	}
	if amount > card.BalanceCents {
		return failure(errors.NewInsufficientBalanceError(card.CardID, card.BalanceCents, amount)), nil
	}

	newBalance, err := h.cards.AdjustBalance(ctx, card.CardID, -amount)
	if err != nil {
		return nil, err
	}
	if err := h.velocity.RecordSpend(ctx, card.CardID, amount); err != nil {
		h.log.Warn("Failed to record velocity for payment", map[string]interface{}{
			"cardId": card.CardID, "error": err.Error(),
		})
	}

	authID := uuid.New().String()
	h.log.Info("Merchant payment authorized", map[string]interface{}{
		"merchant": merchant.Name, "amountCents": amount, "authorizationId": authID,
	})
	return &models.StepResult{Success: true, Output: map[string]interface{}{
		"authorizationId": authID,
		"merchantId":      merchant.ID,
		"amountCents":     amount,
		"newBalanceCents": newBalance,
	}}, nil
}

func failure(stdErr *errors.StandardError) *models.StepResult {
	return &models.StepResult{
		Success:   false,
		ErrorCode: string(stdErr.Code),
		Error:     stdErr.Message,
	}
}
