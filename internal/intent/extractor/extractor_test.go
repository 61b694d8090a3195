// internal/intent/extractor/extractor_test.go
package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/models"
)

func TestDetectAction(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.ActionType
	}{
		{"fund card", "fund my card with 200", models.ActionFundCard},
		{"top up variant", "top up my card", models.ActionFundCard},
		{"swap", "swap 1k usdc for sol", models.ActionSwap},
		{"convert is a swap", "convert my sol to usdc", models.ActionSwap},
		{"transfer", "transfer 50 to alice", models.ActionTransfer},
		{"send money", "send money to bob", models.ActionTransfer},
		{"pay bill", "pay my electric bill", models.ActionPayBill},
		{"check balance", "whats my balance", models.ActionCheckBalance},
		{"view transactions", "show my recent transactions", models.ActionViewTransactions},
		{"withdraw defi", "withdraw 6k from my defi position", models.ActionWithdrawDefi},
		{"unstake", "unstake everything", models.ActionWithdrawDefi},
		{"freeze card", "freeze my card", models.ActionFreezeCard},
		{"unfreeze beats freeze", "unfreeze my card", models.ActionUnfreezeCard},
		{"dca", "set up a dca into sol", models.ActionCreateDCA},
		{"spending limit", "set a spending limit of 500", models.ActionSetSpendingLimit},
		{"help", "help", models.ActionGetHelp},
		{"nonsense", "qwerty zxcvb", models.ActionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, confidence := DetectAction(tt.text)
			assert.Equal(t, tt.expected, action)
			if tt.expected == models.ActionUnknown {
				assert.Zero(t, confidence)
			} else {
				assert.GreaterOrEqual(t, confidence, 0.7)
				assert.LessOrEqual(t, confidence, 0.95)
			}
		})
	}
}

func TestDetectActionConfidenceFormula(t *testing.T) {
	// "swap" consumes the whole text, so the raw score 0.70 + 1.0*0.30
	// hits the 0.95 cap.
	_, confidence := DetectAction("swap")
	assert.InDelta(t, 0.95, confidence, 1e-9)

	// Longer surrounding text dilutes the match fraction.
	_, diluted := DetectAction("please swap a small amount for me when convenient")
	assert.Less(t, diluted, confidence)
	assert.GreaterOrEqual(t, diluted, 0.7)
}

func TestDetectActionEmptyText(t *testing.T) {
	action, confidence := DetectAction("")
	assert.Equal(t, models.ActionUnknown, action)
	assert.Zero(t, confidence)
}

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"dollar amount", "fund my card with $200", "200"},
		{"dollar with cents", "pay $49.99 for netflix", "49.99"},
		{"dollar with commas", "transfer $1,250 to bob", "1250"},
		{"dollar k shorthand", "move $5k to savings", "5000"},
		{"bare k shorthand", "swap 1k usdc for sol", "1000"},
		{"fractional k", "send 1.5k to alice", "1500"},
		{"k above threshold unchanged", "withdraw 2000k", "2000"},
		{"number with currency", "send 600 usdc to alice", "600"},
		{"bare number", "fund card with 75", "75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := ExtractEntities(tt.text, 10)
			var amount *models.ExtractedEntity
			for i := range entities {
				if entities[i].Type == models.EntityAmount {
					amount = &entities[i]
					break
				}
			}
			require.NotNil(t, amount)
			assert.Equal(t, tt.expected, amount.Value)
			assert.Less(t, amount.StartIndex, amount.EndIndex)
		})
	}
}

func TestExtractAmountDollarPatternWins(t *testing.T) {
	// The $-prefixed pattern has priority over the bare number that
	// appears earlier in the text.
	entities := ExtractEntities("split 3 ways, put $90 on the card", 10)
	var amount *models.ExtractedEntity
	for i := range entities {
		if entities[i].Type == models.EntityAmount {
			amount = &entities[i]
		}
	}
	require.NotNil(t, amount)
	assert.Equal(t, "90", amount.Value)
}

func TestExtractCurrency(t *testing.T) {
	entities := ExtractEntities("swap 1k usdc for sol", 10)

	var currency *models.ExtractedEntity
	for i := range entities {
		if entities[i].Type == models.EntityCurrency {
			currency = &entities[i]
			break
		}
	}
	require.NotNil(t, currency)
	assert.Equal(t, "USDC", currency.Value)
}

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{"after for", "pay the bill for netflix", "netflix", true},
		{"after at", "pay 20 at starbucks downtown", "starbucks downtown", true},
		{"after to", "send 50 to alice", "alice", true},
		{"stop word only", "add 200 to my card", "", false},
		{"currency not merchant", "swap usdc for sol", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := ExtractEntities(tt.text, 10)
			var merchant *models.ExtractedEntity
			for i := range entities {
				if entities[i].Type == models.EntityMerchant {
					merchant = &entities[i]
					break
				}
			}
			if !tt.found {
				assert.Nil(t, merchant)
				return
			}
			require.NotNil(t, merchant)
			assert.Equal(t, tt.expected, merchant.Value)
		})
	}
}

func TestExtractEntitiesOrderingAndCap(t *testing.T) {
	entities := ExtractEntities("pay $20 usdc at starbucks", 10)
	require.GreaterOrEqual(t, len(entities), 2)
	for i := 1; i < len(entities); i++ {
		assert.GreaterOrEqual(t, entities[i].StartIndex, entities[i-1].StartIndex)
	}

	capped := ExtractEntities("pay $20 usdc at starbucks", 1)
	assert.Len(t, capped, 1)
}
