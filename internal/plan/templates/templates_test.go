// internal/plan/templates/templates_test.go
package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discard-copilot/internal/models"
)

func TestNewRegistryValidatesBuiltins(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)
	assert.NotEmpty(t, registry.All())
}

func TestFindReturnsFirstMatch(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		action   models.ActionType
		template string
	}{
		{models.ActionFundCard, "tpl-fund-card"},
		{models.ActionTransfer, "tpl-transfer"},
		{models.ActionSwap, "tpl-swap"},
		{models.ActionPayBill, "tpl-pay-bill"},
		{models.ActionPayMerchant, "tpl-pay-bill"},
		{models.ActionWithdrawDefi, "tpl-withdraw-defi"},
		{models.ActionFreezeCard, "tpl-freeze-card"},
		{models.ActionUnfreezeCard, "tpl-unfreeze-card"},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			tpl := registry.Find(tt.action)
			require.NotNil(t, tpl)
			assert.Equal(t, tt.template, tpl.TemplateID)
		})
	}
}

func TestValueMovingStepsAreVerificationGated(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		action models.ActionType
		step   string
	}{
		{models.ActionFundCard, "fund_card"},
		{models.ActionTransfer, "execute_transfer"},
		{models.ActionSwap, "execute_swap"},
		{models.ActionPayBill, "pay_merchant"},
		{models.ActionWithdrawDefi, "withdraw_defi"},
		{models.ActionFreezeCard, "freeze_card"},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			tpl := registry.Find(tt.action)
			require.NotNil(t, tpl)
			for _, s := range tpl.Steps {
				if s.Action == tt.step {
					assert.True(t, s.RequiresSoulVerification)
					return
				}
			}
			t.Fatalf("template %s has no %s step", tpl.TemplateID, tt.step)
		})
	}
}

func TestFindUnknownActionReturnsNil(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)
	assert.Nil(t, registry.Find(models.ActionCheckBalance))
	assert.Nil(t, registry.Find(models.ActionUnknown))
}

func TestValidateTemplateRejectsForwardDependency(t *testing.T) {
	bad := &Template{
		TemplateID: "tpl-bad",
		Steps: []TemplateStep{
			{Action: "a", DependsOn: []int{1}},
			{Action: "b"},
		},
	}
	assert.Error(t, validateTemplate(bad))
}

func TestValidateTemplateRejectsSelfDependency(t *testing.T) {
	bad := &Template{
		TemplateID: "tpl-bad",
		Steps: []TemplateStep{
			{Action: "a"},
			{Action: "b", DependsOn: []int{1}},
		},
	}
	assert.Error(t, validateTemplate(bad))
}

func TestValidateTemplateRejectsEmpty(t *testing.T) {
	assert.Error(t, validateTemplate(&Template{TemplateID: "tpl-empty"}))
	assert.Error(t, validateTemplate(&Template{Steps: []TemplateStep{{Action: "a"}}}))
}

func TestBuildParameters(t *testing.T) {
	amount := int64(20000)
	intent := &models.ParsedIntent{
		IntentID: "intent-1",
		Amount:   &amount,
		Currency: "USDC",
		Merchant: "netflix",
	}

	step := TemplateStep{
		ParameterKeys: []string{"amountCents", "currency", "merchant", "intentId"},
	}
	params := BuildParameters(step, intent)

	assert.Equal(t, int64(20000), params["amountCents"])
	assert.Equal(t, "USDC", params["currency"])
	assert.Equal(t, "netflix", params["merchant"])
	assert.Equal(t, "intent-1", params["intentId"])
}

func TestBuildParametersSkipsMissingFields(t *testing.T) {
	intent := &models.ParsedIntent{IntentID: "intent-2"}
	step := TemplateStep{ParameterKeys: []string{"amountCents", "merchant", "intentId"}}

	params := BuildParameters(step, intent)

	assert.NotContains(t, params, "amountCents")
	assert.NotContains(t, params, "merchant")
	assert.Equal(t, "intent-2", params["intentId"])
}
