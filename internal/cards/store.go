// internal/cards/store.go
package cards

import (
	"context"
	"database/sql"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/models"
)

// Store is the card-state surface the executors depend on.
type Store interface {
	GetCardState(ctx context.Context, userID string) (*models.CardState, error)
	SetCardStatus(ctx context.Context, cardID string, status models.CardStatus) error
	AdjustBalance(ctx context.Context, cardID string, deltaCents int64) (int64, error)
}

// PostgresStore reads and writes card state in Postgres.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const getCardStateQuery = `
	SELECT card_id, user_id, status, balance_cents, per_tx_limit_cents, daily_limit_cents, monthly_limit_cents, currency, updated_at
	FROM cards
	WHERE user_id = $1`

func (s *PostgresStore) GetCardState(ctx context.Context, userID string) (*models.CardState, error) {
	var card models.CardState
	err := s.db.QueryRowContext(ctx, getCardStateQuery, userID).Scan(
		&card.CardID, &card.UserID, &card.Status, &card.BalanceCents,
		&card.PerTxLimitCents, &card.DailyLimitCents, &card.MonthlyLimitCents,
		&card.Currency, &card.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewQueryExecutionFailedError("get card state", sql.ErrNoRows)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get card state", err)
	}
	return &card, nil
}

const setCardStatusQuery = `
	UPDATE cards SET status = $2, updated_at = NOW() WHERE card_id = $1`

func (s *PostgresStore) SetCardStatus(ctx context.Context, cardID string, status models.CardStatus) error {
	res, err := s.db.ExecContext(ctx, setCardStatusQuery, cardID, string(status))
	if err != nil {
		return errors.NewQueryExecutionFailedError("set card status", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewQueryExecutionFailedError("set card status", sql.ErrNoRows)
	}
	return nil
}

const adjustBalanceQuery = `
	UPDATE cards SET balance_cents = balance_cents + $2, updated_at = NOW()
	WHERE card_id = $1
	RETURNING balance_cents`

// AdjustBalance applies a signed delta and returns the new balance. The
// update is a single statement so concurrent adjustments serialize in the
// database.
func (s *PostgresStore) AdjustBalance(ctx context.Context, cardID string, deltaCents int64) (int64, error) {
	var newBalance int64
	err := s.db.QueryRowContext(ctx, adjustBalanceQuery, cardID, deltaCents).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, errors.NewQueryExecutionFailedError("adjust balance", sql.ErrNoRows)
	}
	if err != nil {
		return 0, errors.NewQueryExecutionFailedError("adjust balance", err)
	}
	return newBalance, nil
}
