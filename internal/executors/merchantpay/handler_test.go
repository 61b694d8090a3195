// internal/executors/merchantpay/handler_test.go
package merchantpay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/models"
)

type stubMerchants struct {
	merchant *models.Merchant
}

func (s *stubMerchants) GetByName(_ context.Context, name string) (*models.Merchant, error) {
	if s.merchant == nil {
		return nil, errors.NewMerchantNotFoundError(name)
	}
	return s.merchant, nil
}

type stubCards struct {
	card    *models.CardState
	balance int64
}

func (s *stubCards) GetCardState(context.Context, string) (*models.CardState, error) {
	return s.card, nil
}

func (s *stubCards) SetCardStatus(context.Context, string, models.CardStatus) error { return nil }

func (s *stubCards) AdjustBalance(_ context.Context, _ string, delta int64) (int64, error) {
	s.balance = s.card.BalanceCents + delta
	return s.balance, nil
}

type stubVelocity struct {
	recorded int64
}

func (s *stubVelocity) Usage(context.Context, string) (*models.VelocityUsage, error) {
	return &models.VelocityUsage{}, nil
}

func (s *stubVelocity) RecordSpend(_ context.Context, _ string, amount int64) error {
	s.recorded += amount
	return nil
}

func goodMerchant() *models.Merchant {
	return &models.Merchant{
		ID: "merchant-1", Name: "Netflix", VisaMerchantID: "VM123",
		MCC: 4899, RiskTier: models.MerchantRiskStandard, Active: true,
	}
}

func payStep(amountCents int64, merchant string) *models.PlanStep {
	params := map[string]interface{}{"userId": "user-1"}
	if amountCents > 0 {
		params["amountCents"] = amountCents
	}
	if merchant != "" {
		params["merchant"] = merchant
	}
	return &models.PlanStep{StepID: "step-1", Parameters: params}
}

// ==========================
// SCREENING
// ==========================

func TestScreenAcceptsPayableMerchant(t *testing.T) {
	h := NewScreenHandler(&stubMerchants{merchant: goodMerchant()}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), payStep(0, "netflix"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "merchant-1", result.Output["merchantId"])
}

func TestScreenRejectsBlockedTier(t *testing.T) {
	m := goodMerchant()
	m.RiskTier = models.MerchantRiskBlocked
	h := NewScreenHandler(&stubMerchants{merchant: m}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), payStep(0, "netflix"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "MERCHANT_BLOCKED", result.ErrorCode)
}

func TestScreenRejectsInactiveMerchant(t *testing.T) {
	m := goodMerchant()
	m.Active = false
	h := NewScreenHandler(&stubMerchants{merchant: m}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), payStep(0, "netflix"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "MERCHANT_BLOCKED", result.ErrorCode)
}

func TestScreenRejectsInvalidMCC(t *testing.T) {
	m := goodMerchant()
	m.MCC = 0
	h := NewScreenHandler(&stubMerchants{merchant: m}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), payStep(0, "netflix"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "INVALID_MCC", result.ErrorCode)
}

func TestScreenUnknownMerchant(t *testing.T) {
	h := NewScreenHandler(&stubMerchants{}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), payStep(0, "nope"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "MERCHANT_NOT_FOUND", result.ErrorCode)
}

// ==========================
// PAYMENT
// ==========================

func TestPayAuthorizesAndDebits(t *testing.T) {
	cardStore := &stubCards{card: &models.CardState{CardID: "card-1", BalanceCents: 50000}}
	velocity := &stubVelocity{}
	h := NewPayHandler(&stubMerchants{merchant: goodMerchant()}, cardStore, velocity, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), payStep(20000, "netflix"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Output["authorizationId"])
	assert.Equal(t, int64(30000), result.Output["newBalanceCents"])
	assert.Equal(t, int64(20000), velocity.recorded)
}

func TestPayInsufficientBalance(t *testing.T) {
	cardStore := &stubCards{card: &models.CardState{CardID: "card-1", BalanceCents: 1000}}
	h := NewPayHandler(&stubMerchants{merchant: goodMerchant()}, cardStore, &stubVelocity{}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), payStep(20000, "netflix"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "INSUFFICIENT_BALANCE", result.ErrorCode)
}

func TestPayMissingParameters(t *testing.T) {
	h := NewPayHandler(&stubMerchants{merchant: goodMerchant()}, &stubCards{}, &stubVelocity{}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), payStep(0, "netflix"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "STEP_PARAMETER_INVALID", result.ErrorCode)

	result, err = h.Execute(context.Background(), payStep(20000, ""))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "STEP_PARAMETER_INVALID", result.ErrorCode)
}
