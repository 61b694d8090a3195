// internal/executors/cardfund/handler_test.go
package cardfund

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/cards"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/models"
)

func testHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *cards.RedisVelocityStore) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	velocity := cards.NewRedisVelocityStore(client)
	return NewHandler(cards.NewPostgresStore(db), velocity, logger.NewNoOpLogger()), mock, velocity
}

func fundStep(amountCents interface{}) *models.PlanStep {
	params := map[string]interface{}{"userId": "user-1"}
	if amountCents != nil {
		params["amountCents"] = amountCents
	}
	return &models.PlanStep{StepID: "step-1", Action: "fund_card", Parameters: params}
}

func TestExecuteFundsCardAndRecordsVelocity(t *testing.T) {
	h, mock, velocity := testHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"card_id", "user_id", "status", "balance_cents", "per_tx_limit_cents",
			"daily_limit_cents", "monthly_limit_cents", "currency", "updated_at",
		}).AddRow("card-1", "user-1", "active", 50000, 0, 0, 0, "USDC", time.Now()))
	mock.ExpectQuery("UPDATE cards SET balance_cents").
		WithArgs("card-1", int64(20000)).
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(70000))

	result, err := h.Execute(context.Background(), fundStep(int64(20000)))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, int64(70000), result.Output["newBalanceCents"])
	assert.NoError(t, mock.ExpectationsWereMet())

	usage, err := velocity.Usage(context.Background(), "card-1")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), usage.DailySpentCents)
}

func TestExecuteRejectsMissingAmount(t *testing.T) {
	h, _, _ := testHandler(t)

	result, err := h.Execute(context.Background(), fundStep(nil))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "STEP_PARAMETER_INVALID", result.ErrorCode)
}

func TestExecuteAcceptsJSONNumbers(t *testing.T) {
	h, mock, _ := testHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM cards").
		WillReturnRows(sqlmock.NewRows([]string{
			"card_id", "user_id", "status", "balance_cents", "per_tx_limit_cents",
			"daily_limit_cents", "monthly_limit_cents", "currency", "updated_at",
		}).AddRow("card-1", "user-1", "active", 0, 0, 0, 0, "USDC", time.Now()))
	mock.ExpectQuery("UPDATE cards SET balance_cents").
		WithArgs("card-1", int64(500)).
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(500))

	// Numbers decoded from JSON arrive as float64.
	result, err := h.Execute(context.Background(), fundStep(float64(500)))
	require.NoError(t, err)
	assert.True(t, result.Success)
}
