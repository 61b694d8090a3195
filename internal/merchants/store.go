// internal/merchants/store.go
package merchants

import (
	"context"
	"database/sql"
	"strings"

	"discard-copilot/internal/common/errors"
	"discard-copilot/internal/models"
)

// Store is the merchant registry surface consulted before payments.
type Store interface {
	GetByName(ctx context.Context, name string) (*models.Merchant, error)
}

// PostgresStore resolves merchants by case-insensitive name.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const getMerchantQuery = `
	SELECT id, name, visa_merchant_id, mcc, risk_tier, active
	FROM merchants
	WHERE LOWER(name) = $1`

func (s *PostgresStore) GetByName(ctx context.Context, name string) (*models.Merchant, error) {
	var m models.Merchant
	err := s.db.QueryRowContext(ctx, getMerchantQuery, strings.ToLower(name)).Scan(
		&m.ID, &m.Name, &m.VisaMerchantID, &m.MCC, &m.RiskTier, &m.Active,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewMerchantNotFoundError(name)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get merchant", err)
	}
	return &m, nil
}
