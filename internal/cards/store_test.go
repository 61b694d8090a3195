// internal/cards/store_test.go
package cards

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/models"
)

func TestGetCardState(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"card_id", "user_id", "status", "balance_cents", "per_tx_limit_cents",
		"daily_limit_cents", "monthly_limit_cents", "currency", "updated_at",
	}).AddRow("card-1", "user-1", "active", 50000, 100000, 200000, 1000000, "USDC", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs("user-1").
		WillReturnRows(rows)

	store := NewPostgresStore(db)
	card, err := store.GetCardState(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "card-1", card.CardID)
	assert.Equal(t, models.CardStatusActive, card.Status)
	assert.Equal(t, int64(50000), card.BalanceCents)
	assert.False(t, card.IsFrozen())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCardStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE cards SET status").
		WithArgs("card-1", "frozen").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgresStore(db)
	require.NoError(t, store.SetCardStatus(context.Background(), "card-1", models.CardStatusFrozen))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCardStatusUnknownCard(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE cards SET status").
		WithArgs("nope", "frozen").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPostgresStore(db)
	assert.Error(t, store.SetCardStatus(context.Background(), "nope", models.CardStatusFrozen))
}

func TestAdjustBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("UPDATE cards SET balance_cents").
		WithArgs("card-1", int64(20000)).
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(70000))

	store := NewPostgresStore(db)
	newBalance, err := store.AdjustBalance(context.Background(), "card-1", 20000)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), newBalance)
}
