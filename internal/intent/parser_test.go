// internal/intent/parser_test.go
package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/common/config"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/models"
)

func testParser() *Parser {
	return NewParser(config.IntentConfig{
		ConfidenceThreshold:    0.7,
		ClarificationThreshold: 0.5,
		MaxEntities:            10,
		DefaultCurrency:        "USDC",
	}, logger.NewNoOpLogger())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "FUND My Card", "fund my card"},
		{"strips punctuation", "swap 1k usdc for sol!!!", "swap 1k usdc for sol"},
		{"keeps dollar and decimal", "Pay $49.99 for Netflix", "pay $49.99 for netflix"},
		{"collapses whitespace", "send   50\tto   alice", "send 50 to alice"},
		{"strips emoji", "freeze my card \U0001F976", "freeze my card"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestParseFundCard(t *testing.T) {
	result := testParser().Parse("Fund my card with $200")

	require.NotNil(t, result.Intent)
	assert.False(t, result.NeedsClarification)

	intent := result.Intent
	assert.Equal(t, models.ActionFundCard, intent.Action)
	require.NotNil(t, intent.Amount)
	assert.Equal(t, int64(20000), *intent.Amount)
	assert.Equal(t, "USDC", intent.Currency)
	assert.Equal(t, "wallet", intent.SourceType)
	assert.Equal(t, "card", intent.TargetType)
	assert.NotEmpty(t, intent.IntentID)
	assert.False(t, intent.ParsedAt.IsZero())
}

func TestParseSwapWithShorthandAmount(t *testing.T) {
	result := testParser().Parse("Swap 1k USDC for SOL")

	require.NotNil(t, result.Intent)
	assert.False(t, result.NeedsClarification)

	intent := result.Intent
	assert.Equal(t, models.ActionSwap, intent.Action)
	require.NotNil(t, intent.Amount)
	assert.Equal(t, int64(100000), *intent.Amount)
	assert.Equal(t, "USDC", intent.Currency)
}

func TestParseWithdrawDefi(t *testing.T) {
	result := testParser().Parse("withdraw 6k from my defi position")

	require.NotNil(t, result.Intent)
	intent := result.Intent
	assert.Equal(t, models.ActionWithdrawDefi, intent.Action)
	require.NotNil(t, intent.Amount)
	assert.Equal(t, int64(600000), *intent.Amount)
	assert.Equal(t, "defi", intent.SourceType)
	assert.Equal(t, "wallet", intent.TargetType)
}

func TestParseMissingAmountAsksBack(t *testing.T) {
	result := testParser().Parse("transfer some money to alice")

	assert.True(t, result.NeedsClarification)
	require.NotNil(t, result.Clarification)
	assert.Equal(t, "amount", result.Clarification.MissingField)
	assert.Contains(t, result.Clarification.Question, "How much")
}

func TestParseBillWithoutMerchantAsksBack(t *testing.T) {
	result := testParser().Parse("pay my bill")

	assert.True(t, result.NeedsClarification)
	require.NotNil(t, result.Clarification)
	assert.Equal(t, "merchant", result.Clarification.MissingField)
}

func TestParseUnknownTextOffersSuggestions(t *testing.T) {
	result := testParser().Parse("qwerty zxcvb")

	assert.Equal(t, models.ActionUnknown, result.Intent.Action)
	assert.True(t, result.NeedsClarification)
	require.NotNil(t, result.Clarification)
	assert.Len(t, result.Clarification.Suggestions, 7)
	assert.Equal(t, "Fund my card with $50", result.Clarification.Suggestions[0])
}

func TestParseLowConfidenceAsksDidYouMean(t *testing.T) {
	// Raise the acting threshold so a recognized action falls into the
	// "probably, but confirm" band.
	parser := NewParser(config.IntentConfig{
		ConfidenceThreshold:    0.99,
		ClarificationThreshold: 0.5,
		MaxEntities:            10,
		DefaultCurrency:        "USDC",
	}, logger.NewNoOpLogger())

	result := parser.Parse("please check my balance whenever you get a chance")

	assert.Equal(t, models.ActionCheckBalance, result.Intent.Action)
	assert.True(t, result.NeedsClarification)
	require.NotNil(t, result.Clarification)
	assert.Contains(t, result.Clarification.Question, "Did you want to")
}

func TestParseReadOnlyActionNeedsNoAmount(t *testing.T) {
	result := testParser().Parse("whats my balance")

	assert.Equal(t, models.ActionCheckBalance, result.Intent.Action)
	assert.False(t, result.NeedsClarification)
	assert.Nil(t, result.Intent.Amount)
}

func TestGoalActionsSkipFieldClarification(t *testing.T) {
	p := testParser()

	// Goal/strategy intents are handed to a conversational flow; even with
	// no amount on board they never trigger the missing-field question.
	for _, action := range []models.ActionType{
		models.ActionCreateDCA,
		models.ActionCreateGoal,
		models.ActionCreateSavingsRule,
		models.ActionSetSpendingLimit,
	} {
		intent := &models.ParsedIntent{Action: action, Confidence: 0.9}
		assert.Nil(t, p.checkClarification(intent), string(action))
	}
}

func TestParseIntentIDsAreUnique(t *testing.T) {
	p := testParser()
	first := p.Parse("freeze my card")
	second := p.Parse("freeze my card")
	assert.NotEqual(t, first.Intent.IntentID, second.Intent.IntentID)
}
