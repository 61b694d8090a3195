// internal/executors/wallet/handler.go
package wallet

import (
	"context"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/executors"
	"discard-copilot/internal/models"
)

// TransferHandler submits an outbound transfer through the gateway.
type TransferHandler struct {
	gateway Gateway
	log     logger.Logger
}

func NewTransferHandler(gateway Gateway, log logger.Logger) *TransferHandler {
	return &TransferHandler{gateway: gateway, log: log}
}

func (h *TransferHandler) Action() string { return "execute_transfer" }

func (h *TransferHandler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	amount, ok := executors.AmountCents(step)
	if !ok || amount <= 0 {
		return invalidAmount(h.Action()), nil
	}

	receipt, err := h.gateway.Transfer(ctx, TransferRequest{
		UserID:      executors.StringParam(step, "userId"),
		AmountCents: amount,
		Currency:    executors.StringParam(step, "currency"),
		Recipient:   executors.StringParam(step, "merchant"),
	})
	if err != nil {
		return nil, errors.NewExecutionError(h.Action(), err)
	}
	return receiptResult(receipt, amount), nil
}

// SwapHandler submits a swap through the gateway.
type SwapHandler struct {
	gateway     Gateway
	slippageBps int
	log         logger.Logger
}

func NewSwapHandler(gateway Gateway, slippageBps int, log logger.Logger) *SwapHandler {
	return &SwapHandler{gateway: gateway, slippageBps: slippageBps, log: log}
}

func (h *SwapHandler) Action() string { return "execute_swap" }

func (h *SwapHandler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	amount, ok := executors.AmountCents(step)
	if !ok || amount <= 0 {
		return invalidAmount(h.Action()), nil
	}

	receipt, err := h.gateway.Swap(ctx, SwapRequest{
		UserID:         executors.StringParam(step, "userId"),
		AmountCents:    amount,
		FromCurrency:   executors.StringParam(step, "currency"),
		MaxSlippageBps: h.slippageBps,
	})
	if err != nil {
		return nil, errors.NewExecutionError(h.Action(), err)
	}
	return receiptResult(receipt, amount), nil
}

// WithdrawHandler unwinds a DeFi position through the gateway.
type WithdrawHandler struct {
	gateway Gateway
	log     logger.Logger
}

func NewWithdrawHandler(gateway Gateway, log logger.Logger) *WithdrawHandler {
	return &WithdrawHandler{gateway: gateway, log: log}
}

func (h *WithdrawHandler) Action() string { return "withdraw_defi" }

func (h *WithdrawHandler) Execute(ctx context.Context, step *models.PlanStep) (*models.StepResult, error) {
	amount, ok := executors.AmountCents(step)
	if !ok || amount <= 0 {
		return invalidAmount(h.Action()), nil
	}

	receipt, err := h.gateway.WithdrawDefi(ctx, WithdrawRequest{
		UserID:      executors.StringParam(step, "userId"),
		AmountCents: amount,
		Currency:    executors.StringParam(step, "currency"),
	})
	if err != nil {
		return nil, errors.NewExecutionError(h.Action(), err)
	}
	return receiptResult(receipt, amount), nil
}

func invalidAmount(action string) *models.StepResult {
	stdErr := errors.NewStepParameterInvalidError(action, "amountCents must be a positive integer")
	return &models.StepResult{
		Success:   false,
		ErrorCode: string(stdErr.Code),
		Error:     stdErr.Message,
	}
}

func receiptResult(receipt *Receipt, amountCents int64) *models.StepResult {
	return &models.StepResult{Success: true, Output: map[string]interface{}{
		"transactionId": receipt.TransactionID,
		"submittedAt":   receipt.SubmittedAt,
		"amountCents":   amountCents,
	}}
}
