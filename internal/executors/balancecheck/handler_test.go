// internal/executors/balancecheck/handler_test.go
package balancecheck

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
	err  error
}

func (s *stubStore) GetCardState(context.Context, string) (*models.CardState, error) {
	return s.card, s.err
}

func (s *stubStore) SetCardStatus(context.Context, string, models.CardStatus) error { return nil }

func (s *stubStore) AdjustBalance(context.Context, string, int64) (int64, error) { return 0, nil }

func step(amountCents int64) *models.PlanStep {
	params := map[string]interface{}{"userId": "user-1"}
	if amountCents > 0 {
		params["amountCents"] = amountCents
	}
	return &models.PlanStep{StepID: "step-1", Action: "check_balance", Parameters: params}
}

func TestExecuteSufficientBalance(t *testing.T) {
	h := NewHandler(&stubStore{card: &models.CardState{
		CardID: "card-1", BalanceCents: 50000, Currency: "USDC",
	}}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), step(20000))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, int64(50000), result.Output["balanceCents"])
}

func TestExecuteInsufficientBalance(t *testing.T) {
	h := NewHandler(&stubStore{card: &models.CardState{
		CardID: "card-1", BalanceCents: 1000,
	}}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), step(20000))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "INSUFFICIENT_BALANCE", result.ErrorCode)
}

func TestExecuteWithoutAmountReportsBalance(t *testing.T) {
	h := NewHandler(&stubStore{card: &models.CardState{
		CardID: "card-1", BalanceCents: 1234, Currency: "USDC",
	}}, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), step(0))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, int64(1234), result.Output["balanceCents"])
}

func TestExecuteStoreError(t *testing.T) {
	h := NewHandler(&stubStore{err: fmt.Errorf("db down")}, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), step(20000))
	assert.Error(t, err)
}
