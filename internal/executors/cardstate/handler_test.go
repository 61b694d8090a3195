// internal/executors/cardstate/handler_test.go
package cardstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/models"
)

type stubStore struct {
	card      *models.CardState
	setCalled bool
	setStatus models.CardStatus
}

func (s *stubStore) GetCardState(context.Context, string) (*models.CardState, error) {
	return s.card, nil
}

func (s *stubStore) SetCardStatus(_ context.Context, _ string, status models.CardStatus) error {
	s.setCalled = true
	s.setStatus = status
	return nil
}

func (s *stubStore) AdjustBalance(context.Context, string, int64) (int64, error) { return 0, nil }

func stateStep() *models.PlanStep {
	return &models.PlanStep{
		StepID:     "step-1",
		Parameters: map[string]interface{}{"userId": "user-1"},
	}
}

func TestFreezeActiveCard(t *testing.T) {
	store := &stubStore{card: &models.CardState{CardID: "card-1", Status: models.CardStatusActive}}
	h := NewFreezeHandler(store, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), stateStep())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, store.setCalled)
	assert.Equal(t, models.CardStatusFrozen, store.setStatus)
}

func TestFreezeFrozenCardIsIdempotent(t *testing.T) {
	store := &stubStore{card: &models.CardState{CardID: "card-1", Status: models.CardStatusFrozen}}
	h := NewFreezeHandler(store, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), stateStep())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, store.setCalled)
}

func TestUnfreezeFrozenCard(t *testing.T) {
	store := &stubStore{card: &models.CardState{CardID: "card-1", Status: models.CardStatusFrozen}}
	h := NewUnfreezeHandler(store, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), stateStep())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, models.CardStatusActive, store.setStatus)
}

func TestClosedCardCannotChangeStatus(t *testing.T) {
	store := &stubStore{card: &models.CardState{CardID: "card-1", Status: models.CardStatusClosed}}
	h := NewUnfreezeHandler(store, logger.NewNoOpLogger())

	result, err := h.Execute(context.Background(), stateStep())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.False(t, store.setCalled)
}
