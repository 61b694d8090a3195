// internal/models/card.go
package models

import "time"

// CardStatus is the lifecycle state of a card.
type CardStatus string

const (
	CardStatusActive CardStatus = "active"
	CardStatusFrozen CardStatus = "frozen"
	CardStatusClosed CardStatus = "closed"
)

// CardState is the spending-policy view of a card: balance plus the limit
// set enforced before any value moves. All amounts are in minor units.
type CardState struct {
	CardID            string     `json:"cardId" db:"card_id"`
	UserID            string     `json:"userId" db:"user_id"`
	Status            CardStatus `json:"status" db:"status"`
	BalanceCents      int64      `json:"balanceCents" db:"balance_cents"`
	PerTxLimitCents   int64      `json:"perTxLimitCents" db:"per_tx_limit_cents"`
	DailyLimitCents   int64      `json:"dailyLimitCents" db:"daily_limit_cents"`
	MonthlyLimitCents int64      `json:"monthlyLimitCents" db:"monthly_limit_cents"`
	Currency          string     `json:"currency" db:"currency"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsFrozen reports whether transactions must be rejected outright.
func (c *CardState) IsFrozen() bool {
	return c.Status == CardStatusFrozen
}

// VelocityUsage is the rolling spend recorded against a card's daily and
// monthly windows, in minor units.
type VelocityUsage struct {
	DailySpentCents   int64 `json:"dailySpentCents"`
	MonthlySpentCents int64 `json:"monthlySpentCents"`
}
