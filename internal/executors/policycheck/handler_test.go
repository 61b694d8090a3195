// internal/executors/policycheck/handler_test.go
package policycheck

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/models"
)

type stubStore struct {
	card *models.CardState
}

func (s *stubStore) GetCardState(context.Context, string) (*models.CardState, error) {
	return s.card, nil
}

func (s *stubStore) SetCardStatus(context.Context, string, models.CardStatus) error { return nil }

func (s *stubStore) AdjustBalance(context.Context, string, int64) (int64, error) { return 0, nil }

type stubVelocity struct {
	usage *models.VelocityUsage
	err   error
}

func (s *stubVelocity) Usage(context.Context, string) (*models.VelocityUsage, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.usage == nil {
		return &models.VelocityUsage{}, nil
	}
	return s.usage, nil
}

func (s *stubVelocity) RecordSpend(context.Context, string, int64) error { return nil }

func activeCard() *models.CardState {
	return &models.CardState{
		CardID:            "card-1",
		Status:            models.CardStatusActive,
		BalanceCents:      1000000,
		PerTxLimitCents:   100000,
		DailyLimitCents:   200000,
		MonthlyLimitCents: 1000000,
	}
}

func step(amountCents int64) *models.PlanStep {
	return &models.PlanStep{
		StepID: "step-1",
		Action: "policy_check",
		Parameters: map[string]interface{}{
			"userId":      "user-1",
			"amountCents": amountCents,
		},
	}
}

func run(t *testing.T, card *models.CardState, velocity *stubVelocity, amountCents int64) *models.StepResult {
	t.Helper()
	h := NewHandler(&stubStore{card: card}, velocity, logger.NewNoOpLogger())
	result, err := h.Execute(context.Background(), step(amountCents))
	require.NoError(t, err)
	return result
}

func TestExecuteWithinPolicy(t *testing.T) {
	result := run(t, activeCard(), &stubVelocity{}, 50000)
	assert.True(t, result.Success)
}

func TestExecuteFrozenCard(t *testing.T) {
	card := activeCard()
	card.Status = models.CardStatusFrozen

	result := run(t, card, &stubVelocity{}, 50000)
	assert.False(t, result.Success)
	assert.Equal(t, "CARD_FROZEN", result.ErrorCode)
}

func TestExecutePerTxLimit(t *testing.T) {
	result := run(t, activeCard(), &stubVelocity{}, 150000)
	assert.False(t, result.Success)
	assert.Equal(t, "PER_TX_LIMIT_EXCEEDED", result.ErrorCode)
}

func TestExecuteDailyLimit(t *testing.T) {
	velocity := &stubVelocity{usage: &models.VelocityUsage{DailySpentCents: 180000}}

	result := run(t, activeCard(), velocity, 50000)
	assert.False(t, result.Success)
	assert.Equal(t, "DAILY_LIMIT_EXCEEDED", result.ErrorCode)
}

func TestExecuteMonthlyLimit(t *testing.T) {
	velocity := &stubVelocity{usage: &models.VelocityUsage{MonthlySpentCents: 990000}}

	result := run(t, activeCard(), velocity, 50000)
	assert.False(t, result.Success)
	assert.Equal(t, "MONTHLY_LIMIT_EXCEEDED", result.ErrorCode)
}

func TestExecuteVelocityOutageSkipsRollingCaps(t *testing.T) {
	velocity := &stubVelocity{err: fmt.Errorf("redis down")}

	result := run(t, activeCard(), velocity, 50000)
	assert.True(t, result.Success)
}

func TestExecuteZeroAmountOnlyChecksStatus(t *testing.T) {
	h := NewHandler(&stubStore{card: activeCard()}, &stubVelocity{}, logger.NewNoOpLogger())
	result, err := h.Execute(context.Background(), &models.PlanStep{
		StepID:     "step-1",
		Action:     "policy_check",
		Parameters: map[string]interface{}{"userId": "user-1"},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
}
