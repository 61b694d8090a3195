// internal/executors/wallet/gateway.go
package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Gateway abstracts the on-chain wallet operations. The real implementation
// lives with the transaction-construction service; this module only needs
// submission and a receipt.
type Gateway interface {
	Transfer(ctx context.Context, req TransferRequest) (*Receipt, error)
	Swap(ctx context.Context, req SwapRequest) (*Receipt, error)
	WithdrawDefi(ctx context.Context, req WithdrawRequest) (*Receipt, error)
}

type TransferRequest struct {
	UserID      string
	AmountCents int64
	Currency    string
	Recipient   string
}

type SwapRequest struct {
	UserID         string
	AmountCents    int64
	FromCurrency   string
	MaxSlippageBps int
}

type WithdrawRequest struct {
	UserID      string
	AmountCents int64
	Currency    string
}

// Receipt is the gateway's acknowledgment of a submitted operation.
type Receipt struct {
	TransactionID string    `json:"transactionId"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// FixedDelayGateway simulates submission latency and always succeeds. It
// stands in for the chain gateway in development and tests.
type FixedDelayGateway struct {
	Delay time.Duration
}

func (g *FixedDelayGateway) wait(ctx context.Context) (*Receipt, error) {
	if g.Delay > 0 {
		select {
		case <-time.After(g.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &Receipt{TransactionID: uuid.New().String(), SubmittedAt: time.Now().UTC()}, nil
}

func (g *FixedDelayGateway) Transfer(ctx context.Context, _ TransferRequest) (*Receipt, error) {
	return g.wait(ctx)
}

func (g *FixedDelayGateway) Swap(ctx context.Context, _ SwapRequest) (*Receipt, error) {
	return g.wait(ctx)
}

func (g *FixedDelayGateway) WithdrawDefi(ctx context.Context, _ WithdrawRequest) (*Receipt, error) {
	return g.wait(ctx)
}
